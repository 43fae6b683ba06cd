package history

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper prunes query history on a cron schedule.
type Sweeper struct {
	repo      *Repo
	retention time.Duration
	schedule  string
	logger    *slog.Logger
	cron      *cron.Cron
}

// NewSweeper creates a sweeper that keeps entries younger than retention.
// The schedule defaults to hourly when empty.
func NewSweeper(repo *Repo, retention time.Duration, schedule string, logger *slog.Logger) *Sweeper {
	if schedule == "" {
		schedule = "@hourly"
	}
	return &Sweeper{
		repo:      repo,
		retention: retention,
		schedule:  schedule,
		logger:    logger,
		cron:      cron.New(),
	}
}

// Start registers the schedule and begins sweeping in the background.
func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-s.retention)
	n, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Warn("history sweep failed", "error", err)
		return
	}
	if n > 0 {
		s.logger.Info("history sweep pruned entries", "removed", n, "cutoff", cutoff)
	}
}
