package lot

import (
	"context"

	domain "github.com/rescatefresco/rescate-fresco/internal/domain/lot"
	"github.com/rescatefresco/rescate-fresco/internal/models"
	"github.com/rescatefresco/rescate-fresco/internal/timezone"
)

// ======================================================
// USE CASE — GET (lazy hold release)
// ======================================================

type GetLot struct {
	repo domain.Repository
}

func NewGetLot(repo domain.Repository) *GetLot {
	return &GetLot{repo: repo}
}

// Execute devuelve el lote y, si su reserva ya caducó, lo libera antes de
// responder. La caducidad del hold se aplica perezosamente en la lectura.
func (uc *GetLot) Execute(
	ctx context.Context,
	lotID uint,
) (*models.Lot, error) {

	l, err := uc.repo.GetLot(ctx, lotID)
	if err != nil {
		return nil, getLotErr(err)
	}

	if domain.HoldLapsed(l, timezone.Now()) {
		released, err := uc.repo.ReleaseLapsedHold(ctx, lotID, timezone.Now())
		if err != nil {
			return nil, err
		}
		if released {
			domain.ReleaseHold(l)
		}
	}

	return l, nil
}
