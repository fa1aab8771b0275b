// Package retention keeps the journal bounded by age and by entry count.
package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mercator-hq/tensorix/pkg/config"
	"mercator-hq/tensorix/pkg/journal"
)

// Config configures a Pruner.
type Config struct {
	// RetentionDays is how many days entries are kept. 0 keeps them forever.
	RetentionDays int

	// MaxRecords caps the number of entries. 0 means no cap.
	MaxRecords int64

	// PruneSchedule is a standard cron expression, e.g. "0 3 * * *".
	PruneSchedule string
}

// FromJournalConfig extracts the retention settings of the journal.
func FromJournalConfig(c config.JournalConfig) *Config {
	return &Config{
		RetentionDays: c.RetentionDays,
		MaxRecords:    c.MaxRecords,
		PruneSchedule: c.PruneSchedule,
	}
}

// Pruner deletes journal entries past the retention limits.
type Pruner struct {
	storage   journal.Storage
	config    *Config
	logger    *slog.Logger
	scheduler *Scheduler
	now       func() time.Time
}

// NewPruner creates a pruner for storage.
func NewPruner(storage journal.Storage, config *Config, logger *slog.Logger) *Pruner {
	if config == nil {
		config = &Config{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pruner{
		storage: storage,
		config:  config,
		logger:  logger.With("component", "journal.retention"),
		now:     time.Now,
	}
	p.scheduler = NewScheduler(p)
	return p
}

// Prune deletes entries older than RetentionDays, then the oldest entries
// beyond MaxRecords. It returns the number of entries deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var total int64

	if p.config.RetentionDays > 0 {
		n, err := p.pruneByAge(ctx)
		if err != nil {
			return total, &journal.RetentionError{RetentionDays: p.config.RetentionDays, Cause: err}
		}
		total += n
	}

	if p.config.MaxRecords > 0 {
		n, err := p.pruneByCount(ctx)
		if err != nil {
			return total, &journal.RetentionError{RetentionDays: p.config.RetentionDays, Cause: err}
		}
		total += n
	}

	if total > 0 {
		p.logger.Info("journal pruned",
			"deleted", total,
			"retention_days", p.config.RetentionDays,
			"max_records", p.config.MaxRecords,
		)
	} else {
		p.logger.Debug("nothing to prune")
	}
	return total, nil
}

func (p *Pruner) pruneByAge(ctx context.Context) (int64, error) {
	cutoff := p.now().AddDate(0, 0, -p.config.RetentionDays)
	n, err := p.storage.Delete(ctx, &journal.Query{EndTime: &cutoff})
	if err != nil {
		return 0, fmt.Errorf("prune by age: %w", err)
	}
	return n, nil
}

func (p *Pruner) pruneByCount(ctx context.Context) (int64, error) {
	count, err := p.storage.Count(ctx, &journal.Query{})
	if err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}

	// Delete the oldest entries in batches of at most MaxLimit.
	var total int64
	for excess := count - p.config.MaxRecords; excess > 0; {
		oldest, err := p.storage.Query(ctx, &journal.Query{
			Limit:     int(min(excess, journal.MaxLimit)),
			SortOrder: journal.SortAsc,
		})
		if err != nil {
			return total, fmt.Errorf("query oldest entries: %w", err)
		}
		if len(oldest) == 0 {
			break
		}

		ids := make([]string, len(oldest))
		for i, e := range oldest {
			ids[i] = e.ID
		}
		n, err := p.storage.Delete(ctx, &journal.Query{IDs: ids})
		if err != nil {
			return total, fmt.Errorf("prune by count: %w", err)
		}
		total += n
		excess -= int64(len(oldest))
	}
	return total, nil
}

// Start runs Prune on the configured schedule until ctx is done.
func (p *Pruner) Start(ctx context.Context) error {
	return p.scheduler.Start(ctx)
}

// Stop stops the schedule.
func (p *Pruner) Stop() {
	p.scheduler.Stop()
}

// NextPruning returns the next scheduled run, or nil.
func (p *Pruner) NextPruning() *time.Time {
	return p.scheduler.NextRun()
}
