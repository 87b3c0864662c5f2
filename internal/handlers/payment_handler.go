package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/rescatefresco/rescate-fresco/internal/cache"
	"github.com/rescatefresco/rescate-fresco/internal/config"
	domain "github.com/rescatefresco/rescate-fresco/internal/domain/lot"
	"github.com/rescatefresco/rescate-fresco/internal/httperr"
	"github.com/rescatefresco/rescate-fresco/internal/middleware"
	"github.com/rescatefresco/rescate-fresco/internal/models"
	"github.com/rescatefresco/rescate-fresco/internal/payments"
	uclot "github.com/rescatefresco/rescate-fresco/internal/usecase/lot"
)

// ======================================================
// HANDLER
// ======================================================

type PaymentHandler struct {
	db      *gorm.DB
	cfg     *config.Config
	mp      *payments.Client
	catalog *cache.Catalog
	payUC   *uclot.PayLot
	log     *zap.Logger
}

func NewPaymentHandler(
	db *gorm.DB,
	cfg *config.Config,
	mp *payments.Client,
	catalog *cache.Catalog,
	payUC *uclot.PayLot,
	log *zap.Logger,
) *PaymentHandler {
	return &PaymentHandler{
		db:      db,
		cfg:     cfg,
		mp:      mp,
		catalog: catalog,
		payUC:   payUC,
		log:     log,
	}
}

type CreateSimulationRequest struct {
	LotID uint `json:"lote_id" binding:"required"`
}

// ======================================================
// CREATE SIMULATION
// ======================================================

// Crea un pago pix por un lote que el llamador tiene reservado. El webhook
// es quien completa la transición a pagado.

func (h *PaymentHandler) CreateSimulation(c *gin.Context) {
	consumerID := c.MustGet(middleware.ContextUserID).(uint)
	email, _ := c.MustGet(middleware.ContextUserEmail).(string)

	if h.mp == nil {
		httperr.Internal(c, "payments_disabled", "Pagos no configurados.")
		return
	}

	var req CreateSimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	var l models.Lot
	if err := h.db.First(&l, req.LotID).Error; err != nil {
		httperr.NotFound(c, "lot_not_found", "Lote no encontrado.")
		return
	}

	if domain.State(l.State) != domain.StateReservado ||
		l.ReservedByID == nil || *l.ReservedByID != consumerID {
		httperr.BadRequest(c, "lot_not_reserved", "El lote no está reservado por este usuario.")
		return
	}

	sim, err := h.mp.CreateSimulation(c.Request.Context(), &l, email)
	if err != nil {
		h.log.Error("create payment failed", zap.Uint("lot_id", l.ID), zap.Error(err))
		httperr.Internal(c, "payment_failed", "No se pudo iniciar el pago.")
		return
	}

	// El id del procesador queda en el lote para conciliar el webhook.
	l.PaymentRef = strconv.Itoa(sim.PaymentID)
	if err := h.db.Model(&models.Lot{}).
		Where("id = ?", l.ID).
		Update("payment_ref", l.PaymentRef).Error; err != nil {
		httperr.Internal(c, "payment_failed", "No se pudo registrar el pago.")
		return
	}

	c.JSON(http.StatusCreated, sim)
}

// ======================================================
// WEBHOOK
// ======================================================

type webhookBody struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// Webhook recibe la notificación del procesador, verifica la firma sobre el
// header x-signature y consulta el estado real del pago antes de tocar el
// lote. Reentregas duplicadas terminan en un no-op.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	if h.mp == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	dataID := c.Query("data.id")
	if dataID == "" {
		var body webhookBody
		if err := json.Unmarshal(raw, &body); err == nil {
			dataID = body.Data.ID
		}
	}
	if dataID == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	if !payments.VerifyWebhookSignature(
		h.cfg.MPWebhookSecret,
		c.GetHeader("x-signature"),
		c.GetHeader("x-request-id"),
		dataID,
	) {
		c.Status(http.StatusUnauthorized)
		return
	}

	paymentID, err := strconv.Atoi(dataID)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	status, err := h.mp.GetPayment(c.Request.Context(), paymentID)
	if err != nil {
		h.log.Error("webhook payment lookup failed",
			zap.Int("payment_id", paymentID), zap.Error(err))
		c.Status(http.StatusInternalServerError)
		return
	}

	if status.Status != payments.StatusApproved {
		c.Status(http.StatusOK)
		return
	}

	lotID, err := strconv.ParseUint(status.ExternalReference, 10, 64)
	if err != nil {
		h.log.Warn("webhook with unknown external reference",
			zap.String("external_reference", status.ExternalReference))
		c.Status(http.StatusOK)
		return
	}

	var l models.Lot
	if err := h.db.First(&l, uint(lotID)).Error; err != nil {
		c.Status(http.StatusOK)
		return
	}
	if l.ReservedByID == nil {
		c.Status(http.StatusOK)
		return
	}

	if _, err := h.payUC.Execute(c.Request.Context(), uclot.PayLotInput{
		LotID:      uint(lotID),
		ConsumerID: *l.ReservedByID,
		PaymentRef: strconv.Itoa(status.ID),
	}); err != nil {
		// El hold pudo caducar entre el pago y la notificación; se registra
		// y se responde 200 para frenar las reentregas.
		h.log.Warn("webhook could not apply payment",
			zap.Uint64("lot_id", lotID), zap.Error(err))
		c.Status(http.StatusOK)
		return
	}

	h.catalog.Invalidate(c.Request.Context())

	c.Status(http.StatusOK)
}
