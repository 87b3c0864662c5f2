package lot

import (
	"context"

	"github.com/rescatefresco/rescate-fresco/internal/audit"
	domain "github.com/rescatefresco/rescate-fresco/internal/domain/lot"
	"github.com/rescatefresco/rescate-fresco/internal/httperr"
	"github.com/rescatefresco/rescate-fresco/internal/models"
)

// ======================================================
// USE CASE — ISSUE PICKUP CODE
// ======================================================

const maxCodeAttempts = 5

type IssuePickupCode struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewIssuePickupCode(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *IssuePickupCode {
	return &IssuePickupCode{
		repo:  repo,
		audit: audit,
	}
}

func (uc *IssuePickupCode) Execute(
	ctx context.Context,
	lotID uint,
	consumerID uint,
) (*models.Lot, error) {

	l, err := uc.repo.GetLot(ctx, lotID)
	if err != nil {
		return nil, getLotErr(err)
	}

	if l.ReservedByID == nil || *l.ReservedByID != consumerID {
		return nil, httperr.ErrBusiness("lot_not_paid")
	}

	if err := domain.CanIssuePickupCode(domain.State(l.State)); err != nil {
		return nil, err
	}

	// Pedir el código de nuevo devuelve el vigente.
	if l.PickupCode != "" {
		return l, nil
	}

	code, err := uc.uniqueCode(ctx)
	if err != nil {
		return nil, err
	}

	l.PickupCode = code
	ok, err := uc.repo.SaveLotFromState(ctx, l, domain.StatePagado)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, httperr.ErrBusiness("lot_not_paid")
	}

	uc.audit.Dispatch(audit.Event{
		StoreID:  l.StoreID,
		UserID:   &consumerID,
		Action:   "pickup_code_issued",
		Entity:   "lot",
		EntityID: &l.ID,
	})

	return l, nil
}

// uniqueCode genera y verifica contra códigos vigentes, con reintento.
func (uc *IssuePickupCode) uniqueCode(ctx context.Context) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code, err := domain.NewPickupCode()
		if err != nil {
			return "", err
		}

		inUse, err := uc.repo.PickupCodeInUse(ctx, code)
		if err != nil {
			return "", err
		}
		if !inUse {
			return code, nil
		}
	}

	return "", httperr.ErrBusiness("pickup_code_exhausted")
}
