package processor

import (
	"context"

	"eduhub/pkg/logger"

	"github.com/robfig/cron/v3"
)

// RatingReconciler выполняет один прогон сверки агрегатов рейтинга
type RatingReconciler interface {
	ReconcileRatings(ctx context.Context) (int, error)
}

// CronScheduler периодически запускает сверку агрегатов рейтинга
type CronScheduler struct {
	cron         *cron.Cron
	reconcileSvc RatingReconciler
}

func NewCronScheduler(reconcileSvc RatingReconciler) *CronScheduler {
	return &CronScheduler{
		cron:         cron.New(),
		reconcileSvc: reconcileSvc,
	}
}

func (s *CronScheduler) Start(ctx context.Context, schedule string) error {
	logger.Info().Str("schedule", schedule).Msg("Starting cron scheduler")

	_, err := s.cron.AddFunc(schedule, func() {
		s.runReconciliation(ctx)
	})
	if err != nil {
		return err
	}

	s.cron.Start()

	// Первый прогон сразу при старте: сервис мог быть перезапущен
	// после сбоя, оставившего агрегаты рассинхронизированными
	s.runReconciliation(ctx)

	return nil
}

func (s *CronScheduler) Stop() {
	logger.Info().Msg("Stopping cron scheduler")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("Cron scheduler stopped")
}

func (s *CronScheduler) runReconciliation(ctx context.Context) {
	corrected, err := s.reconcileSvc.ReconcileRatings(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Rating reconciliation failed")
		return
	}

	logger.Info().Int("corrected", corrected).Msg("Rating reconciliation completed")
}

func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}
