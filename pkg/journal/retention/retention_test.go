package retention

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"mercator-hq/tensorix/pkg/config"
	"mercator-hq/tensorix/pkg/journal"
	"mercator-hq/tensorix/pkg/journal/storage"
)

var now = time.Date(2026, 6, 30, 12, 0, 0, 0, time.UTC)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fill(t *testing.T, s journal.Storage, ages ...time.Duration) {
	t.Helper()
	for i, age := range ages {
		e := &journal.Entry{
			ID:         fmt.Sprintf("e%d", i),
			RunID:      "run",
			Suite:      "s",
			Check:      "c",
			Status:     "pass",
			RecordedAt: now.Add(-age),
		}
		if err := s.Store(context.Background(), e); err != nil {
			t.Fatalf("Store() failed: %v", err)
		}
	}
}

func newPruner(s journal.Storage, cfg *Config) *Pruner {
	p := NewPruner(s, cfg, quiet())
	p.now = func() time.Time { return now }
	return p
}

func TestPruner_ByAge(t *testing.T) {
	s := storage.NewMemoryStorage()
	day := 24 * time.Hour
	fill(t, s, time.Hour, 2*day, 10*day, 40*day)

	deleted, err := newPruner(s, &Config{RetentionDays: 7}).Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("Prune() = %d, want 2", deleted)
	}
	if s.Size() != 2 {
		t.Errorf("Size() = %d, want 2", s.Size())
	}
}

func TestPruner_ByCount(t *testing.T) {
	s := storage.NewMemoryStorage()
	fill(t, s, 1*time.Minute, 2*time.Minute, 3*time.Minute, 4*time.Minute, 5*time.Minute)

	deleted, err := newPruner(s, &Config{MaxRecords: 2}).Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}
	if deleted != 3 {
		t.Errorf("Prune() = %d, want 3", deleted)
	}

	left, _ := s.Query(context.Background(), &journal.Query{})
	if len(left) != 2 || left[0].ID != "e0" || left[1].ID != "e1" {
		t.Errorf("remaining = %v, want the two newest", left)
	}
}

func TestPruner_Nothing(t *testing.T) {
	s := storage.NewMemoryStorage()
	fill(t, s, time.Minute)

	deleted, err := newPruner(s, &Config{RetentionDays: 30, MaxRecords: 10}).Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}
	if deleted != 0 {
		t.Errorf("Prune() = %d, want 0", deleted)
	}
}

type failingStorage struct {
	*storage.MemoryStorage
}

var errDisk = errors.New("disk on fire")

func (failingStorage) Delete(context.Context, *journal.Query) (int64, error) {
	return 0, errDisk
}

func TestPruner_Error(t *testing.T) {
	p := newPruner(failingStorage{storage.NewMemoryStorage()}, &Config{RetentionDays: 1})
	_, err := p.Prune(context.Background())
	var re *journal.RetentionError
	if !errors.As(err, &re) {
		t.Fatalf("Prune() error = %v, want *journal.RetentionError", err)
	}
	if !errors.Is(err, errDisk) {
		t.Errorf("Prune() error does not wrap the cause: %v", err)
	}
}

func TestFromJournalConfig(t *testing.T) {
	c := FromJournalConfig(config.JournalConfig{RetentionDays: 3, MaxRecords: 9, PruneSchedule: "@daily"})
	if c.RetentionDays != 3 || c.MaxRecords != 9 || c.PruneSchedule != "@daily" {
		t.Errorf("FromJournalConfig() = %+v", c)
	}
}

func TestScheduler(t *testing.T) {
	p := newPruner(storage.NewMemoryStorage(), &Config{PruneSchedule: "0 3 * * *"})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := p.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if !p.scheduler.IsRunning() {
		t.Error("IsRunning() = false after Start")
	}
	next := p.NextPruning()
	if next == nil || next.Hour() != 3 || next.Minute() != 0 {
		t.Errorf("NextPruning() = %v, want 03:00", next)
	}
	if err := p.Start(ctx); err == nil {
		t.Error("second Start() should fail")
	}

	p.Stop()
	if p.scheduler.IsRunning() {
		t.Error("IsRunning() = true after Stop")
	}
}

func TestScheduler_Empty(t *testing.T) {
	p := newPruner(storage.NewMemoryStorage(), &Config{})
	if err := p.Start(context.Background()); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if p.scheduler.IsRunning() {
		t.Error("scheduler runs without a schedule")
	}
	if p.NextPruning() != nil {
		t.Error("NextPruning() != nil without a schedule")
	}
}

func TestScheduler_Invalid(t *testing.T) {
	p := newPruner(storage.NewMemoryStorage(), &Config{PruneSchedule: "every day"})
	if err := p.Start(context.Background()); err == nil {
		t.Error("Start() should reject an invalid schedule")
	}
}
