package scheduler

import (
	"context"
	"fmt"
	"time"

	"trip-sharing/internal/usecase"
	"trip-sharing/pkg/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler drives the two background jobs: the five-minute queue
// processing pass and the daily retention cleanup. The queue pass is
// wrapped with SkipIfStillRunning so a slow pass is never overlapped by
// the next tick.
type Scheduler struct {
	cron   *cron.Cron
	queue  usecase.QueueService
	config *utils.Config
	log    *zap.Logger
}

func New(queue usecase.QueueService, config *utils.Config, log *zap.Logger) *Scheduler {
	logger := log.With(zap.String("component", "scheduler"))
	cronLog := cron.PrintfLogger(zap.NewStdLog(logger))

	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cronLog),
		cron.Recover(cronLog),
	))

	return &Scheduler{
		cron:   c,
		queue:  queue,
		config: config,
		log:    logger,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("*/5 * * * *", s.processQueuesJob); err != nil {
		return fmt.Errorf("schedule queue processing job: %w", err)
	}

	if _, err := s.cron.AddFunc("0 3 * * *", s.cleanupJob); err != nil {
		return fmt.Errorf("schedule cleanup job: %w", err)
	}

	s.cron.Start()
	s.log.Info("Scheduler started",
		zap.Int("queue_process_limit", s.config.Queue.ProcessLimit),
		zap.Int("queue_retention_days", s.config.Queue.RetentionDays))

	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("Scheduler stopped")
}

func (s *Scheduler) processQueuesJob() {
	ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
	defer cancel()

	start := time.Now()
	batch, err := s.queue.ProcessAllPendingTrips(ctx, s.config.Queue.ProcessLimit)
	if err != nil {
		s.log.Error("Queue processing job failed", zap.Error(err))
		return
	}

	if batch.TripsProcessed > 0 {
		s.log.Info("Queue processing job finished",
			zap.Int("trips_processed", batch.TripsProcessed),
			zap.Duration("duration", time.Since(start)))
	}
}

func (s *Scheduler) cleanupJob() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	deleted, err := s.queue.CleanupOldItems(ctx, s.config.Queue.RetentionDays)
	if err != nil {
		s.log.Error("Cleanup job failed", zap.Error(err))
		return
	}

	s.log.Info("Cleanup job finished", zap.Int64("deleted", deleted))
}
