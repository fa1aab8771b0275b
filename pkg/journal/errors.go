package journal

import (
	"errors"
	"fmt"
)

// ErrClosed is returned when writing to a closed recorder or storage.
var ErrClosed = errors.New("journal closed")

// QueryError reports an invalid query.
type QueryError struct {
	Query *Query
	Cause error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("invalid query: %v", e.Cause)
}

func (e *QueryError) Unwrap() error {
	return e.Cause
}

// StorageError represents an error from a storage backend.
type StorageError struct {
	Backend   string // "memory", "sqlite3" or "sqlite"
	Operation string // "store", "query", "delete", ...
	Cause     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{Backend: backend, Operation: operation, Cause: cause}
}

// RecorderError represents an entry that could not be queued or written.
type RecorderError struct {
	EntryID string
	Cause   error
}

func (e *RecorderError) Error() string {
	if e.EntryID != "" {
		return fmt.Sprintf("recorder error [entry_id=%s]: %v", e.EntryID, e.Cause)
	}
	return fmt.Sprintf("recorder error: %v", e.Cause)
}

func (e *RecorderError) Unwrap() error {
	return e.Cause
}

// RetentionError represents a failed pruning pass.
type RetentionError struct {
	RetentionDays int
	Cause         error
}

func (e *RetentionError) Error() string {
	return fmt.Sprintf("retention error [retention_days=%d]: %v", e.RetentionDays, e.Cause)
}

func (e *RetentionError) Unwrap() error {
	return e.Cause
}
