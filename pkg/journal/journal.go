package journal

import (
	"context"
	"fmt"
	"time"
)

// Entry is the journaled outcome of one scenario check.
type Entry struct {
	ID         string        `json:"id"`
	RunID      string        `json:"run_id"`
	Suite      string        `json:"suite"`
	Check      string        `json:"check"`
	Notation   string        `json:"notation,omitempty"`
	Status     string        `json:"status"`
	Message    string        `json:"message,omitempty"`
	Operations []string      `json:"operations,omitempty"`
	Duration   time.Duration `json:"duration_ns"`
	RecordedAt time.Time     `json:"recorded_at"`
}

// Sort orders.
const (
	SortDesc = "desc"
	SortAsc  = "asc"
)

// Query filters entries. Zero fields match everything.
type Query struct {
	IDs    []string `json:"ids,omitempty"`
	RunID  string   `json:"run_id,omitempty"`
	Suite  string   `json:"suite,omitempty"`
	Status string   `json:"status,omitempty"`

	// StartTime and EndTime bound RecordedAt, both inclusive.
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`

	// Limit of 0 means no limit.
	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`

	// SortOrder by RecordedAt, SortDesc when empty.
	SortOrder string `json:"sort_order,omitempty"`
}

// MaxLimit caps Query.Limit.
const MaxLimit = 10000

var validStatuses = map[string]bool{"pass": true, "fail": true, "error": true}

// Validate checks the paging, sort order, status and time range of q.
func (q *Query) Validate() error {
	var err error
	switch {
	case q.Limit < 0:
		err = fmt.Errorf("limit must be >= 0, got %d", q.Limit)
	case q.Limit > MaxLimit:
		err = fmt.Errorf("limit must be <= %d, got %d", MaxLimit, q.Limit)
	case q.Offset < 0:
		err = fmt.Errorf("offset must be >= 0, got %d", q.Offset)
	case q.SortOrder != "" && q.SortOrder != SortAsc && q.SortOrder != SortDesc:
		err = fmt.Errorf("invalid sort order: %s (must be 'asc' or 'desc')", q.SortOrder)
	case q.Status != "" && !validStatuses[q.Status]:
		err = fmt.Errorf("invalid status: %s (must be pass, fail or error)", q.Status)
	case q.StartTime != nil && q.EndTime != nil && q.StartTime.After(*q.EndTime):
		err = fmt.Errorf("start_time must not be after end_time")
	}
	if err != nil {
		return &QueryError{Query: q, Cause: err}
	}
	return nil
}

// Storage persists entries. Implementations must be safe for concurrent
// use.
type Storage interface {
	// Store persists an entry.
	Store(ctx context.Context, entry *Entry) error

	// Query returns matching entries; an empty slice when none match.
	Query(ctx context.Context, query *Query) ([]*Entry, error)

	// Count returns the number of matching entries.
	Count(ctx context.Context, query *Query) (int64, error)

	// Delete removes matching entries and returns how many were removed.
	Delete(ctx context.Context, query *Query) (int64, error)

	// Close releases the backend.
	Close() error
}
