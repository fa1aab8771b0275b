// Package recorder writes scenario check results to a journal.Storage in
// the background so that runs never wait on the database.
package recorder

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"mercator-hq/tensorix/pkg/journal"
	"mercator-hq/tensorix/pkg/scenario"
)

// ErrBufferFull is returned when the write queue is full.
var ErrBufferFull = errors.New("journal buffer full")

// Config configures a Recorder.
type Config struct {
	// Buffer is the size of the write queue.
	// Default: 1000
	Buffer int

	// WriteTimeout bounds each write to storage.
	// Default: 5 seconds
	WriteTimeout time.Duration
}

// DefaultConfig returns the default recorder configuration.
func DefaultConfig() *Config {
	return &Config{Buffer: 1000, WriteTimeout: 5 * time.Second}
}

// Recorder implements scenario.Sink.
type Recorder struct {
	storage journal.Storage
	config  *Config
	queue   chan *journal.Entry
	wg      sync.WaitGroup
	logger  *slog.Logger
	now     func() time.Time

	mu     sync.RWMutex
	closed bool
}

var _ scenario.Sink = (*Recorder)(nil)

// New creates a recorder and starts its writer.
func New(storage journal.Storage, config *Config, logger *slog.Logger) *Recorder {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	r := &Recorder{
		storage: storage,
		config:  config,
		queue:   make(chan *journal.Entry, config.Buffer),
		logger:  logger.With("component", "journal.recorder"),
		now:     time.Now,
	}

	r.wg.Add(1)
	go r.worker()
	return r
}

// Record queues res for writing. It never blocks.
func (r *Recorder) Record(_ context.Context, runID string, res scenario.Result) error {
	e := NewEntry(runID, res, r.now())

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return &journal.RecorderError{EntryID: e.ID, Cause: journal.ErrClosed}
	}
	select {
	case r.queue <- e:
		return nil
	default:
		return &journal.RecorderError{EntryID: e.ID, Cause: ErrBufferFull}
	}
}

// NewEntry converts a check result into a journal entry.
func NewEntry(runID string, res scenario.Result, at time.Time) *journal.Entry {
	ops := make([]string, len(res.Operations))
	for i, op := range res.Operations {
		ops[i] = op.String()
	}
	return &journal.Entry{
		ID:         uuid.NewString(),
		RunID:      runID,
		Suite:      res.Suite,
		Check:      res.Check,
		Notation:   res.Notation,
		Status:     res.Status,
		Message:    res.Message,
		Operations: ops,
		Duration:   res.Duration,
		RecordedAt: at.UTC(),
	}
}

func (r *Recorder) worker() {
	defer r.wg.Done()
	for e := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
		if err := r.storage.Store(ctx, e); err != nil {
			r.logger.Error("failed to store journal entry",
				"entry_id", e.ID,
				"run_id", e.RunID,
				"error", err,
			)
		}
		cancel()
	}
}

// Close stops accepting entries and waits until queued ones are written.
// It does not close the storage.
func (r *Recorder) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()

	r.wg.Wait()
	return nil
}
