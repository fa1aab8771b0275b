package storage

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"mercator-hq/tensorix/pkg/journal"
)

// MemoryStorage keeps entries in a map. Entries are lost on Close.
type MemoryStorage struct {
	entries map[string]*journal.Entry
	mu      sync.RWMutex
}

// NewMemoryStorage creates an empty in-memory backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{entries: make(map[string]*journal.Entry)}
}

// Store implements journal.Storage.
func (s *MemoryStorage) Store(_ context.Context, entry *journal.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[entry.ID] = copyEntry(entry)
	return nil
}

// Query implements journal.Storage.
func (s *MemoryStorage) Query(_ context.Context, query *journal.Query) ([]*journal.Entry, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := []*journal.Entry{}
	for _, e := range s.entries {
		if matches(e, query) {
			results = append(results, copyEntry(e))
		}
	}

	desc := query.SortOrder != journal.SortAsc
	slices.SortFunc(results, func(a, b *journal.Entry) int {
		c := a.RecordedAt.Compare(b.RecordedAt)
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if desc {
			return -c
		}
		return c
	})

	if query.Offset >= len(results) {
		return []*journal.Entry{}, nil
	}
	results = results[query.Offset:]
	if query.Limit > 0 && query.Limit < len(results) {
		results = results[:query.Limit]
	}
	return results, nil
}

// Count implements journal.Storage.
func (s *MemoryStorage) Count(_ context.Context, query *journal.Query) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, e := range s.entries {
		if matches(e, query) {
			n++
		}
	}
	return n, nil
}

// Delete implements journal.Storage.
func (s *MemoryStorage) Delete(_ context.Context, query *journal.Query) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, e := range s.entries {
		if matches(e, query) {
			delete(s.entries, id)
			n++
		}
	}
	return n, nil
}

// Close implements journal.Storage.
func (s *MemoryStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]*journal.Entry)
	return nil
}

// Size returns the number of stored entries.
func (s *MemoryStorage) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func matches(e *journal.Entry, q *journal.Query) bool {
	if len(q.IDs) > 0 && !slices.Contains(q.IDs, e.ID) {
		return false
	}
	if q.RunID != "" && e.RunID != q.RunID {
		return false
	}
	if q.Suite != "" && e.Suite != q.Suite {
		return false
	}
	if q.Status != "" && e.Status != q.Status {
		return false
	}
	if q.StartTime != nil && e.RecordedAt.Before(*q.StartTime) {
		return false
	}
	if q.EndTime != nil && e.RecordedAt.After(*q.EndTime) {
		return false
	}
	return true
}

func copyEntry(e *journal.Entry) *journal.Entry {
	c := *e
	c.Operations = slices.Clone(e.Operations)
	return &c
}
