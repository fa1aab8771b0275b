package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"mercator-hq/tensorix/pkg/journal"
)

// SQLite driver names.
const (
	DriverCgo  = "sqlite3" // github.com/mattn/go-sqlite3
	DriverPure = "sqlite"  // modernc.org/sqlite
)

// SQLiteConfig configures the SQLite backend.
type SQLiteConfig struct {
	// Driver is DriverCgo or DriverPure.
	// Default: DriverCgo
	Driver string

	// Path is the database file. ":memory:" keeps the database in memory.
	Path string

	// BusyTimeout is how long to wait on a locked database.
	// Default: 5 seconds
	BusyTimeout time.Duration

	// WALMode enables write-ahead logging for file databases.
	// Default: true
	WALMode bool
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Driver:      DriverCgo,
		Path:        "data/journal.db",
		BusyTimeout: 5 * time.Second,
		WALMode:     true,
	}
}

// SQLiteStorage implements journal.Storage on SQLite through either
// driver.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
}

// NewSQLiteStorage opens the database and creates the schema.
func NewSQLiteStorage(config *SQLiteConfig, logger *slog.Logger) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}
	if config.Driver == "" {
		config.Driver = DriverCgo
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "journal.storage.sqlite", "driver", config.Driver)

	if config.Path != ":memory:" {
		if dir := filepath.Dir(config.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, journal.NewStorageError(config.Driver, "open", err)
			}
		}
	}

	db, err := sql.Open(config.Driver, dsn(config))
	if err != nil {
		return nil, journal.NewStorageError(config.Driver, "open", err)
	}
	// One connection keeps pragmas and in-memory databases consistent.
	db.SetMaxOpenConns(1)

	s := &SQLiteStorage{db: db, config: config, logger: logger}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite journal initialized", "path", config.Path, "wal_mode", config.WALMode)
	return s, nil
}

// dsn builds the connection string in the dialect of the driver.
func dsn(c *SQLiteConfig) string {
	ms := c.BusyTimeout.Milliseconds()
	wal := c.WALMode && c.Path != ":memory:"
	var params []string
	switch c.Driver {
	case DriverPure:
		params = append(params, fmt.Sprintf("_pragma=busy_timeout(%d)", ms))
		if wal {
			params = append(params, "_pragma=journal_mode(WAL)")
		}
	default:
		params = append(params, fmt.Sprintf("_busy_timeout=%d", ms))
		if wal {
			params = append(params, "_journal_mode=WAL")
		}
	}
	return "file:" + c.Path + "?" + strings.Join(params, "&")
}

func (s *SQLiteStorage) initialize() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return journal.NewStorageError(s.config.Driver, "create_schema", err)
	}
	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return journal.NewStorageError(s.config.Driver, "insert_schema_version", err)
	}

	var version int
	err := s.db.QueryRow(GetSchemaVersion).Scan(&version)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return journal.NewStorageError(s.config.Driver, "get_schema_version", err)
	}
	if version != SchemaVersion {
		return journal.NewStorageError(s.config.Driver, "schema_version_mismatch",
			fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version))
	}
	s.logger.Debug("schema version verified", "version", version)
	return nil
}

// Store implements journal.Storage.
func (s *SQLiteStorage) Store(ctx context.Context, e *journal.Entry) error {
	ops, err := json.Marshal(e.Operations)
	if err != nil {
		return journal.NewStorageError(s.config.Driver, "store", err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO entries ("+entryColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		e.ID, e.RunID, e.Suite, e.Check, e.Notation, e.Status, e.Message,
		string(ops), e.Duration.Nanoseconds(), e.RecordedAt.UnixNano(),
	)
	if err != nil {
		return journal.NewStorageError(s.config.Driver, "store", err)
	}
	return nil
}

// Query implements journal.Storage.
func (s *SQLiteStorage) Query(ctx context.Context, query *journal.Query) ([]*journal.Entry, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	where, args := buildWhereClause(query)

	order := "DESC"
	if query.SortOrder == journal.SortAsc {
		order = "ASC"
	}
	q := "SELECT " + entryColumns + " FROM entries" + where +
		fmt.Sprintf(" ORDER BY recorded_at %s, id %s", order, order)
	switch {
	case query.Limit > 0:
		q += fmt.Sprintf(" LIMIT %d", query.Limit)
	case query.Offset > 0:
		q += " LIMIT -1"
	}
	if query.Offset > 0 {
		q += fmt.Sprintf(" OFFSET %d", query.Offset)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, journal.NewStorageError(s.config.Driver, "query", err)
	}
	defer rows.Close()

	entries := []*journal.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, journal.NewStorageError(s.config.Driver, "scan", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, journal.NewStorageError(s.config.Driver, "query", err)
	}
	return entries, nil
}

// Count implements journal.Storage.
func (s *SQLiteStorage) Count(ctx context.Context, query *journal.Query) (int64, error) {
	where, args := buildWhereClause(query)
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries"+where, args...).Scan(&n); err != nil {
		return 0, journal.NewStorageError(s.config.Driver, "count", err)
	}
	return n, nil
}

// Delete implements journal.Storage.
func (s *SQLiteStorage) Delete(ctx context.Context, query *journal.Query) (int64, error) {
	where, args := buildWhereClause(query)
	res, err := s.db.ExecContext(ctx, "DELETE FROM entries"+where, args...)
	if err != nil {
		return 0, journal.NewStorageError(s.config.Driver, "delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, journal.NewStorageError(s.config.Driver, "delete", err)
	}
	return n, nil
}

// Close implements journal.Storage.
func (s *SQLiteStorage) Close() error {
	if err := s.db.Close(); err != nil {
		return journal.NewStorageError(s.config.Driver, "close", err)
	}
	s.logger.Info("SQLite journal closed")
	return nil
}

// buildWhereClause returns " WHERE ..." or "" with its arguments.
func buildWhereClause(q *journal.Query) (string, []any) {
	var conds []string
	var args []any

	if len(q.IDs) > 0 {
		conds = append(conds, "id IN (?"+strings.Repeat(", ?", len(q.IDs)-1)+")")
		for _, id := range q.IDs {
			args = append(args, id)
		}
	}
	if q.RunID != "" {
		conds = append(conds, "run_id = ?")
		args = append(args, q.RunID)
	}
	if q.Suite != "" {
		conds = append(conds, "suite = ?")
		args = append(args, q.Suite)
	}
	if q.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, q.Status)
	}
	if q.StartTime != nil {
		conds = append(conds, "recorded_at >= ?")
		args = append(args, q.StartTime.UnixNano())
	}
	if q.EndTime != nil {
		conds = append(conds, "recorded_at <= ?")
		args = append(args, q.EndTime.UnixNano())
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanEntry(rows *sql.Rows) (*journal.Entry, error) {
	var e journal.Entry
	var notation, message, ops sql.NullString
	var duration, recordedAt int64

	err := rows.Scan(&e.ID, &e.RunID, &e.Suite, &e.Check, &notation, &e.Status,
		&message, &ops, &duration, &recordedAt)
	if err != nil {
		return nil, err
	}
	e.Notation = notation.String
	e.Message = message.String
	if ops.Valid && ops.String != "" && ops.String != "null" {
		if err := json.Unmarshal([]byte(ops.String), &e.Operations); err != nil {
			return nil, fmt.Errorf("operations of %s: %w", e.ID, err)
		}
	}
	e.Duration = time.Duration(duration)
	e.RecordedAt = time.Unix(0, recordedAt).UTC()
	return &e, nil
}
