package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// Scheduler registers the recurring background tasks and runs them on cron
// schedules.
type Scheduler interface {
	// RegisterTasks wires the cron schedules; archiveRetention <= 0 disables
	// the archive sweep.
	RegisterTasks(archiveRetention time.Duration) error
	Run()
	Shutdown()
}

type scheduler struct {
	asynqScheduler *asynq.Scheduler
	log            *slog.Logger
}

func NewScheduler(redisOpt asynq.RedisConnOpt, log *slog.Logger) Scheduler {
	return &scheduler{
		asynqScheduler: asynq.NewScheduler(redisOpt, nil),
		log:            log,
	}
}

func (s *scheduler) RegisterTasks(archiveRetention time.Duration) error {
	// Warm the exchange rate cache ahead of the freshness window so user
	// requests rarely hit the stale path.
	if _, err := s.asynqScheduler.Register("0 */6 * * *", NewRatesRefreshTask()); err != nil {
		return err
	}

	if archiveRetention > 0 {
		sweep, err := NewArchiveSweepTask(archiveRetention)
		if err != nil {
			return err
		}

		if _, err := s.asynqScheduler.Register("30 3 * * *", sweep); err != nil {
			return err
		}
	}

	if s.log != nil {
		s.log.InfoContext(context.Background(), "scheduler: registered recurring tasks",
			slog.Duration("archive_retention", archiveRetention))
	}

	return nil
}

func (s *scheduler) Run() {
	if s.log != nil {
		s.log.InfoContext(context.Background(), "scheduler: starting")
	}

	go func() {
		if err := s.asynqScheduler.Run(); err != nil && s.log != nil {
			s.log.ErrorContext(context.Background(), "scheduler: run failed", "error", err)
		}
	}()
}

func (s *scheduler) Shutdown() {
	if s.log != nil {
		s.log.InfoContext(context.Background(), "scheduler: shutting down")
	}

	s.asynqScheduler.Shutdown()
}
