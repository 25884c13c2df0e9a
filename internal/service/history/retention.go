package history

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"pulseboard/internal/domain"
)

// Sweeper prunes query history past the retention window on a cron schedule.
type Sweeper struct {
	cron      *cron.Cron
	repo      domain.QueryHistoryRepository
	retention time.Duration
	logger    *slog.Logger
}

// NewSweeper creates a retention sweeper. A non-positive retention disables
// sweeping; history is then kept forever.
func NewSweeper(repo domain.QueryHistoryRepository, retention time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		cron:      cron.New(),
		repo:      repo,
		retention: retention,
		logger:    logger,
	}
}

// Start schedules the hourly sweep and starts the cron scheduler.
func (s *Sweeper) Start() error {
	if s.retention <= 0 {
		s.logger.Info("history retention disabled")
		return nil
	}
	if _, err := s.cron.AddFunc("@hourly", s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("history sweeper started", "retention", s.retention)
	return nil
}

// Stop gracefully stops the cron scheduler.
func (s *Sweeper) Stop() {
	s.cron.Stop()
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-s.retention)
	n, err := s.repo.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Warn("history sweep failed", "error", err)
		return
	}
	if n > 0 {
		s.logger.Info("history swept", "purged", n, "cutoff", cutoff.UTC().Format(time.RFC3339))
	}
}
