package lot

import (
	"context"

	"github.com/rescatefresco/rescate-fresco/internal/audit"
	domain "github.com/rescatefresco/rescate-fresco/internal/domain/lot"
	"github.com/rescatefresco/rescate-fresco/internal/httperr"
	"github.com/rescatefresco/rescate-fresco/internal/models"
)

// ======================================================
// USE CASE — CONFIRM PICKUP
// ======================================================

// La tienda confirma el retiro cotejando el código que presenta el
// comprador en mostrador.

type ConfirmPickup struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewConfirmPickup(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *ConfirmPickup {
	return &ConfirmPickup{
		repo:  repo,
		audit: audit,
	}
}

func (uc *ConfirmPickup) Execute(
	ctx context.Context,
	lotID uint,
	storeID uint,
	code string,
) (*models.Lot, error) {

	l, err := uc.repo.GetLot(ctx, lotID)
	if err != nil {
		return nil, getLotErr(err)
	}

	if l.StoreID != storeID {
		return nil, httperr.ErrBusiness("lot_not_found")
	}

	if err := domain.ConfirmPickup(l, code); err != nil {
		return nil, err
	}

	ok, err := uc.repo.SaveLotFromState(ctx, l, domain.StatePagado)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, httperr.ErrBusiness("lot_not_paid")
	}

	uc.audit.Dispatch(audit.Event{
		StoreID:  storeID,
		UserID:   l.ReservedByID,
		Action:   "lot_picked_up",
		Entity:   "lot",
		EntityID: &l.ID,
	})

	return l, nil
}
