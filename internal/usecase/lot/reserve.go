package lot

import (
	"context"
	"time"

	"github.com/rescatefresco/rescate-fresco/internal/audit"
	domain "github.com/rescatefresco/rescate-fresco/internal/domain/lot"
	"github.com/rescatefresco/rescate-fresco/internal/httperr"
	"github.com/rescatefresco/rescate-fresco/internal/models"
	"github.com/rescatefresco/rescate-fresco/internal/timezone"
)

// ======================================================
// USE CASE — RESERVE
// ======================================================

// La reserva toma el lote por 15 minutos. El id de reserva es el id del
// propio lote: no existe una entidad reserva separada.

type ReserveLot struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewReserveLot(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *ReserveLot {
	return &ReserveLot{
		repo:  repo,
		audit: audit,
	}
}

func (uc *ReserveLot) Execute(
	ctx context.Context,
	lotID uint,
	consumerID uint,
) (*models.Lot, error) {

	current, err := uc.repo.GetLot(ctx, lotID)
	if err != nil {
		return nil, getLotErr(err)
	}

	now := timezone.Now()

	// Un hold caducado deja de contar como reservado.
	if domain.HoldLapsed(current, now) {
		if _, err := uc.repo.ReleaseLapsedHold(ctx, lotID, now); err != nil {
			return nil, err
		}
	}

	holdUntil := now.Add(domain.HoldDuration * time.Minute)

	// UPDATE condicional: dos reservas concurrentes no pueden ganar ambas.
	ok, err := uc.repo.TryReserve(ctx, lotID, consumerID, holdUntil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, httperr.ErrBusiness("lot_not_available")
	}

	reserved, err := uc.repo.GetLot(ctx, lotID)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		StoreID:  reserved.StoreID,
		UserID:   &consumerID,
		Action:   "lot_reserved",
		Entity:   "lot",
		EntityID: &reserved.ID,
		Metadata: map[string]any{"hold_until": holdUntil},
	})

	return reserved, nil
}
