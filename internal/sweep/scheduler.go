package sweep

import (
	"context"
	"time"

	"go.uber.org/zap"

	uclot "github.com/rescatefresco/rescate-fresco/internal/usecase/lot"
)

// ======================================================
// DAILY SWEEP SCHEDULER
// ======================================================

// Corre el barrido de vencidos una vez al día a la hora configurada, en la
// zona horaria del servicio. Un pase al arrancar cubre los días en que el
// proceso estuvo caído.

type Scheduler struct {
	expire *uclot.ExpireLots
	hour   int
	loc    *time.Location
	log    *zap.Logger
}

func New(
	expire *uclot.ExpireLots,
	hour int,
	loc *time.Location,
	log *zap.Logger,
) *Scheduler {
	return &Scheduler{
		expire: expire,
		hour:   hour,
		loc:    loc,
		log:    log,
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	go s.run(ctx)
}

func (s *Scheduler) run(ctx context.Context) {
	s.pass(ctx)

	for {
		timer := time.NewTimer(time.Until(s.nextRun(time.Now().In(s.loc))))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.pass(ctx)
		}
	}
}

func (s *Scheduler) pass(ctx context.Context) {
	expired, err := s.expire.Execute(ctx)
	if err != nil {
		s.log.Error("expiry sweep failed", zap.Error(err))
		return
	}

	s.log.Info("expiry sweep done", zap.Int64("expired", expired))
}

func (s *Scheduler) nextRun(now time.Time) time.Time {
	next := time.Date(
		now.Year(), now.Month(), now.Day(),
		s.hour, 0, 0, 0,
		s.loc,
	)

	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}

	return next
}
