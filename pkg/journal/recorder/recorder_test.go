package recorder

import (
	"context"
	"errors"
	"testing"
	"time"

	"mercator-hq/tensorix/pkg/journal"
	"mercator-hq/tensorix/pkg/journal/storage"
	"mercator-hq/tensorix/pkg/notation"
	"mercator-hq/tensorix/pkg/scenario"
)

func result(check, status string) scenario.Result {
	return scenario.Result{
		Suite:    "basics",
		Check:    check,
		Notation: "(ij)_jk",
		Status:   status,
		Operations: []notation.Operation{
			{Kind: notation.OpSymmetrize, Axes: []int{0, 1}},
			{Kind: notation.OpTrace, Axes: []int{1, 2}},
		},
		Duration: 2 * time.Millisecond,
	}
}

func TestRecorder_Record(t *testing.T) {
	store := storage.NewMemoryStorage()
	r := New(store, nil, nil)

	for _, c := range []string{"one", "two", "three"} {
		if err := r.Record(context.Background(), "run-1", result(c, scenario.StatusPass)); err != nil {
			t.Fatalf("Record(%s) failed: %v", c, err)
		}
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	entries, err := store.Query(context.Background(), &journal.Query{RunID: "run-1"})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}
	e := entries[0]
	if e.ID == "" {
		t.Error("entry has no ID")
	}
	if e.Notation != "(ij)_jk" || e.Suite != "basics" {
		t.Errorf("entry = %+v", e)
	}
	want := []string{"symmetrize(0,1)", "trace(1,2)"}
	if len(e.Operations) != 2 || e.Operations[0] != want[0] || e.Operations[1] != want[1] {
		t.Errorf("Operations = %v, want %v", e.Operations, want)
	}
}

func TestRecorder_Closed(t *testing.T) {
	r := New(storage.NewMemoryStorage(), nil, nil)
	r.Close()

	err := r.Record(context.Background(), "run-1", result("late", scenario.StatusPass))
	if !errors.Is(err, journal.ErrClosed) {
		t.Errorf("Record() after Close = %v, want ErrClosed", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
}

type blockingStorage struct {
	*storage.MemoryStorage
	release chan struct{}
}

func (b *blockingStorage) Store(ctx context.Context, e *journal.Entry) error {
	<-b.release
	return b.MemoryStorage.Store(ctx, e)
}

func TestRecorder_BufferFull(t *testing.T) {
	store := &blockingStorage{MemoryStorage: storage.NewMemoryStorage(), release: make(chan struct{})}
	r := New(store, &Config{Buffer: 1, WriteTimeout: time.Second}, nil)

	// The worker holds at most one entry and the queue one more.
	var full error
	for i := 0; i < 3; i++ {
		if err := r.Record(context.Background(), "run-1", result("c", scenario.StatusPass)); err != nil {
			full = err
		}
	}
	close(store.release)
	r.Close()

	if !errors.Is(full, ErrBufferFull) {
		t.Errorf("Record() = %v, want ErrBufferFull", full)
	}
}

func TestNewEntry(t *testing.T) {
	at := time.Date(2026, 5, 1, 10, 0, 0, 0, time.FixedZone("X", 3600))
	e := NewEntry("run-7", result("c", scenario.StatusFail), at)
	if e.RunID != "run-7" || e.Status != scenario.StatusFail {
		t.Errorf("entry = %+v", e)
	}
	if e.RecordedAt.Location() != time.UTC || !e.RecordedAt.Equal(at) {
		t.Errorf("RecordedAt = %v, want %v in UTC", e.RecordedAt, at)
	}
}
