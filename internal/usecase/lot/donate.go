package lot

import (
	"context"

	"github.com/rescatefresco/rescate-fresco/internal/audit"
	domain "github.com/rescatefresco/rescate-fresco/internal/domain/lot"
	"github.com/rescatefresco/rescate-fresco/internal/httperr"
	"github.com/rescatefresco/rescate-fresco/internal/models"
)

// ======================================================
// USE CASE — DONATE
// ======================================================

type DonateLot struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDonateLot(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DonateLot {
	return &DonateLot{
		repo:  repo,
		audit: audit,
	}
}

func (uc *DonateLot) Execute(
	ctx context.Context,
	lotID uint,
	storeID uint,
) (*models.Lot, error) {

	l, err := uc.repo.GetLot(ctx, lotID)
	if err != nil {
		return nil, getLotErr(err)
	}

	if l.StoreID != storeID {
		return nil, httperr.ErrBusiness("lot_not_found")
	}

	from := domain.State(l.State)
	if err := domain.Donate(l); err != nil {
		return nil, err
	}

	ok, err := uc.repo.SaveLotFromState(ctx, l, from)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, httperr.ErrBusiness("invalid_state")
	}

	uc.audit.Dispatch(audit.Event{
		StoreID:  storeID,
		Action:   "lot_donated",
		Entity:   "lot",
		EntityID: &l.ID,
	})

	return l, nil
}
