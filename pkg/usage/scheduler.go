package usage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// SchedulerConfig configures the cleanup scheduler.
type SchedulerConfig struct {
	// Schedule is the cron expression for cleanup runs, e.g. "0 3 * * *"
	// for daily at 3 AM. Empty disables scheduling.
	Schedule string

	// RetentionDays is how long occurrences are kept. Default: 400 days,
	// enough for any yearly frequency window plus slack.
	RetentionDays int
}

// Scheduler runs occurrence cleanup on a cron schedule. Occurrences only
// matter within their frequency period, so anything past the retention
// horizon is dead weight.
type Scheduler struct {
	store   Store
	config  SchedulerConfig
	cron    *cron.Cron
	logger  *slog.Logger
	mu      sync.Mutex
	running bool
}

// NewScheduler creates a cleanup scheduler over the store.
func NewScheduler(store Store, cfg SchedulerConfig, logger *slog.Logger) *Scheduler {
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = 400
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		store:  store,
		config: cfg,
		cron:   cron.New(),
		logger: logger.With("component", "usage.scheduler"),
	}
}

// Start begins scheduled cleanup. With no schedule configured it does
// nothing. The scheduler stops itself when the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config.Schedule == "" {
		s.logger.Info("cleanup schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(s.config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.config.Schedule, err)
	}

	_, err := s.cron.AddFunc(s.config.Schedule, func() {
		s.runCleanup(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule cleanup: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("cleanup scheduler started",
		"schedule", s.config.Schedule,
		"retention_days", s.config.RetentionDays,
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

func (s *Scheduler) runCleanup(ctx context.Context) {
	cutoff := time.Now().AddDate(0, 0, -s.config.RetentionDays)

	deleted, err := s.store.Cleanup(ctx, cutoff)
	if err != nil {
		s.logger.Error("scheduled cleanup failed", "error", err)
		return
	}

	if deleted > 0 {
		s.logger.Info("scheduled cleanup completed", "deleted_count", deleted)
	} else {
		s.logger.Debug("scheduled cleanup completed, no occurrences deleted")
	}
}

// Stop stops the scheduler and waits for any running job to complete.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.running = false
		s.logger.Info("cleanup scheduler stopped")
	}
}

// IsRunning reports whether the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
