package holder

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// RetentionConfig controls pruning of the secondary storage tier.
// Simulations are request-scoped, so rows outliving MaxAge belong to
// abandoned or crashed simulations and are safe to drop.
type RetentionConfig struct {
	// MaxAge is how long secondary entries are kept. Default: 24h.
	MaxAge time.Duration

	// Schedule is a standard cron expression driving automatic pruning
	// (e.g. "0 3 * * *" for daily at 3 AM). Empty disables the scheduler.
	Schedule string
}

// DefaultRetentionConfig returns the default retention settings.
func DefaultRetentionConfig() RetentionConfig {
	return RetentionConfig{MaxAge: 24 * time.Hour}
}

// Pruner deletes stale entries from a secondary storage tier.
type Pruner struct {
	storage Storage
	config  RetentionConfig
	logger  *slog.Logger
}

// NewPruner creates a pruner over the given storage.
func NewPruner(storage Storage, config RetentionConfig) *Pruner {
	if config.MaxAge <= 0 {
		config.MaxAge = DefaultRetentionConfig().MaxAge
	}
	return &Pruner{
		storage: storage,
		config:  config,
		logger:  slog.Default().With("component", "holder.retention"),
	}
}

// Prune deletes entries older than the configured age, returning the count.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-p.config.MaxAge)
	return p.storage.Prune(ctx, cutoff)
}

// Scheduler runs the pruner on its cron schedule.
type Scheduler struct {
	pruner  *Pruner
	cron    *cron.Cron
	mu      sync.Mutex
	logger  *slog.Logger
	running bool
}

// NewScheduler creates a retention scheduler.
func NewScheduler(pruner *Pruner) *Scheduler {
	return &Scheduler{
		pruner: pruner,
		cron:   cron.New(),
		logger: slog.Default().With("component", "holder.scheduler"),
	}
}

// Start begins scheduled pruning based on the configured cron expression.
// If the schedule is empty, the scheduler does nothing. Stops when the
// context is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pruner.config.Schedule == "" {
		s.logger.Info("prune schedule not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(s.pruner.config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.pruner.config.Schedule, err)
	}

	if _, err := s.cron.AddFunc(s.pruner.config.Schedule, func() {
		s.runPruning(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule pruning: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("retention scheduler started",
		"schedule", s.pruner.config.Schedule,
		"max_age", s.pruner.config.MaxAge,
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop halts scheduled pruning.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.cron.Stop()
	s.running = false
	s.logger.Info("retention scheduler stopped")
}

// runPruning executes one pruning cycle.
func (s *Scheduler) runPruning(ctx context.Context) {
	deleted, err := s.pruner.Prune(ctx)
	if err != nil {
		s.logger.Error("scheduled pruning failed", "error", err)
		return
	}
	if deleted > 0 {
		s.logger.Info("scheduled pruning completed", "deleted_count", deleted)
	}
}
