package lot

import (
	"context"
	"time"

	"github.com/rescatefresco/rescate-fresco/internal/audit"
	domain "github.com/rescatefresco/rescate-fresco/internal/domain/lot"
	"github.com/rescatefresco/rescate-fresco/internal/timezone"
)

// ======================================================
// USE CASE — EXPIRE SWEEP
// ======================================================

// Barrido diario: marca como vencidos los lotes cuya fecha de caducidad ya
// pasó. Sólo toca disponibles y reservados; un lote pagado conserva su
// estado aunque caduque.

type ExpireLots struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewExpireLots(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *ExpireLots {
	return &ExpireLots{
		repo:  repo,
		audit: audit,
	}
}

func (uc *ExpireLots) Execute(ctx context.Context) (int64, error) {
	now := timezone.Now()
	startOfDay := time.Date(
		now.Year(), now.Month(), now.Day(),
		0, 0, 0, 0,
		now.Location(),
	)

	expired, err := uc.repo.ExpireLots(ctx, startOfDay)
	if err != nil {
		return 0, err
	}

	if expired > 0 {
		uc.audit.Dispatch(audit.Event{
			Action:   "lots_expired",
			Entity:   "lot",
			Metadata: map[string]any{"count": expired},
		})
	}

	return expired, nil
}
