package watch

import (
	"slices"
	"sync"
	"time"
)

// Debouncer collects paths and flushes them once no new path arrived for
// the interval.
type Debouncer struct {
	interval time.Duration
	flush    func(paths []string)

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
	stopped bool

	// serializes flush calls
	flushMu sync.Mutex
}

// NewDebouncer creates a debouncer delivering batches to flush.
func NewDebouncer(interval time.Duration, flush func(paths []string)) *Debouncer {
	return &Debouncer{
		interval: interval,
		flush:    flush,
		pending:  make(map[string]struct{}),
	}
}

// Add records path and restarts the quiet period.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.pending[path] = struct{}{}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.fire)
}

func (d *Debouncer) fire() {
	d.flushMu.Lock()
	defer d.flushMu.Unlock()

	d.mu.Lock()
	if d.stopped || len(d.pending) == 0 {
		d.mu.Unlock()
		return
	}
	paths := make([]string, 0, len(d.pending))
	for p := range d.pending {
		paths = append(paths, p)
	}
	clear(d.pending)
	d.mu.Unlock()

	slices.Sort(paths)
	d.flush(paths)
}

// Stop drops pending paths and cancels the timer.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	clear(d.pending)
}
