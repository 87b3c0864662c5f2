package lot

import (
	"context"

	"github.com/rescatefresco/rescate-fresco/internal/audit"
	domain "github.com/rescatefresco/rescate-fresco/internal/domain/lot"
	"github.com/rescatefresco/rescate-fresco/internal/httperr"
	"github.com/rescatefresco/rescate-fresco/internal/models"
	"github.com/rescatefresco/rescate-fresco/internal/timezone"
)

// ======================================================
// USE CASE — PAY
// ======================================================

type PayLot struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewPayLot(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *PayLot {
	return &PayLot{
		repo:  repo,
		audit: audit,
	}
}

type PayLotInput struct {
	LotID      uint
	ConsumerID uint
	PaymentRef string // id del procesador cuando el pago llega por webhook
}

func (uc *PayLot) Execute(
	ctx context.Context,
	in PayLotInput,
) (*models.Lot, error) {

	l, err := uc.repo.GetLot(ctx, in.LotID)
	if err != nil {
		return nil, getLotErr(err)
	}

	// Reintento de webhook sobre un lote ya pagado: éxito idempotente.
	if domain.State(l.State) == domain.StatePagado &&
		in.PaymentRef != "" && l.PaymentRef == in.PaymentRef {
		return l, nil
	}

	if l.ReservedByID == nil || *l.ReservedByID != in.ConsumerID {
		return nil, httperr.ErrBusiness("lot_not_reserved")
	}

	now := timezone.Now()

	// Hold caducado: liberar como efecto del intento fallido.
	if domain.HoldLapsed(l, now) {
		if _, err := uc.repo.ReleaseLapsedHold(ctx, in.LotID, now); err != nil {
			return nil, err
		}
		return nil, httperr.ErrBusiness("hold_expired")
	}

	if err := domain.Pay(l, now); err != nil {
		return nil, err
	}
	l.PaymentRef = in.PaymentRef

	// Persistencia condicionada al estado leído: cierra la carrera entre
	// el pago y el barrido o una liberación concurrente.
	ok, err := uc.repo.SaveLotFromState(ctx, l, domain.StateReservado)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, httperr.ErrBusiness("lot_not_reserved")
	}

	uc.audit.Dispatch(audit.Event{
		StoreID:  l.StoreID,
		UserID:   &in.ConsumerID,
		Action:   "lot_paid",
		Entity:   "lot",
		EntityID: &l.ID,
		Metadata: map[string]any{
			"payment_ref":     in.PaymentRef,
			"pickup_deadline": l.PickupDeadline,
		},
	})

	return l, nil
}
