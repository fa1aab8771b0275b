package retention

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs a pruner on a cron schedule.
type Scheduler struct {
	pruner  *Pruner
	cron    *cron.Cron
	mu      sync.Mutex
	running bool
}

// NewScheduler creates a scheduler for pruner.
func NewScheduler(pruner *Pruner) *Scheduler {
	return &Scheduler{pruner: pruner, cron: cron.New()}
}

// Start schedules pruning with PruneSchedule. An empty schedule does
// nothing. The scheduler stops when ctx is done.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	schedule := s.pruner.config.PruneSchedule
	logger := s.pruner.logger
	if schedule == "" {
		logger.Info("prune schedule not configured, skipping scheduler")
		return nil
	}
	if s.running {
		return fmt.Errorf("retention scheduler already running")
	}

	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}
	if _, err := s.cron.AddFunc(schedule, func() { s.run(ctx) }); err != nil {
		return fmt.Errorf("failed to schedule pruning: %w", err)
	}

	s.cron.Start()
	s.running = true
	logger.Info("retention scheduler started",
		"schedule", schedule,
		"retention_days", s.pruner.config.RetentionDays,
		"max_records", s.pruner.config.MaxRecords,
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

func (s *Scheduler) run(ctx context.Context) {
	if _, err := s.pruner.Prune(ctx); err != nil {
		s.pruner.logger.Error("scheduled pruning failed", "error", err)
	}
}

// Stop stops the scheduler and waits for a running job.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.pruner.logger.Info("retention scheduler stopped")
}

// IsRunning reports whether the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled pruning time, or nil.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
