package payments

import (
	"context"
	"fmt"
	"strconv"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"

	appconfig "github.com/rescatefresco/rescate-fresco/internal/config"
	"github.com/rescatefresco/rescate-fresco/internal/models"
)

// ======================================================
// MERCADO PAGO BRIDGE
// ======================================================

// Client envuelve el SDK de Mercado Pago. El lote viaja como
// external_reference para que el webhook pueda volver a él.

type Client struct {
	payments payment.Client
}

func NewClient(cfg *appconfig.Config) (*Client, error) {
	mpCfg, err := mpconfig.New(cfg.MPAccessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}

	return &Client{
		payments: payment.NewClient(mpCfg),
	}, nil
}

type Simulation struct {
	PaymentID    int    `json:"payment_id"`
	Status       string `json:"status"`
	QRCode       string `json:"qr_code,omitempty"`
	QRCodeBase64 string `json:"qr_code_base64,omitempty"`
	TicketURL    string `json:"ticket_url,omitempty"`
}

// CreateSimulation crea un pago pix por el precio de rescate del lote.
func (c *Client) CreateSimulation(
	ctx context.Context,
	l *models.Lot,
	payerEmail string,
) (*Simulation, error) {

	resp, err := c.payments.Create(ctx, payment.Request{
		TransactionAmount: l.RescuePrice,
		Description:       fmt.Sprintf("Rescate Fresco - %s", l.Name),
		PaymentMethodID:   "pix",
		ExternalReference: strconv.FormatUint(uint64(l.ID), 10),
		Payer: &payment.PayerRequest{
			Email: payerEmail,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	return &Simulation{
		PaymentID:    resp.ID,
		Status:       resp.Status,
		QRCode:       resp.PointOfInteraction.TransactionData.QRCode,
		QRCodeBase64: resp.PointOfInteraction.TransactionData.QRCodeBase64,
		TicketURL:    resp.PointOfInteraction.TransactionData.TicketURL,
	}, nil
}

type PaymentStatus struct {
	ID                int
	Status            string
	ExternalReference string
}

const StatusApproved = "approved"

// GetPayment consulta el estado real del pago en el procesador: el webhook
// nunca confía en el cuerpo recibido.
func (c *Client) GetPayment(
	ctx context.Context,
	paymentID int,
) (*PaymentStatus, error) {

	resp, err := c.payments.Get(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}

	return &PaymentStatus{
		ID:                resp.ID,
		Status:            resp.Status,
		ExternalReference: resp.ExternalReference,
	}, nil
}
