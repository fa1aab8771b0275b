package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"mercator-hq/tensorix/pkg/config"
	"mercator-hq/tensorix/pkg/journal"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func entry(id, run, suite, status string, minutes int) *journal.Entry {
	return &journal.Entry{
		ID:         id,
		RunID:      run,
		Suite:      suite,
		Check:      "check " + id,
		Notation:   "ij_j",
		Status:     status,
		Operations: []string{"trace(1,2)"},
		Duration:   1500 * time.Microsecond,
		RecordedAt: base.Add(time.Duration(minutes) * time.Minute),
	}
}

func backends(t *testing.T) map[string]journal.Storage {
	t.Helper()
	sqlite, err := NewSQLiteStorage(&SQLiteConfig{
		Driver:      DriverPure,
		Path:        filepath.Join(t.TempDir(), "journal.db"),
		BusyTimeout: time.Second,
		WALMode:     true,
	}, quiet())
	if err != nil {
		t.Fatalf("NewSQLiteStorage() failed: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })
	return map[string]journal.Storage{
		"memory": NewMemoryStorage(),
		"sqlite": sqlite,
	}
}

func seed(t *testing.T, s journal.Storage) {
	t.Helper()
	entries := []*journal.Entry{
		entry("a", "run-1", "basics", "pass", 0),
		entry("b", "run-1", "basics", "fail", 1),
		entry("c", "run-1", "groups", "pass", 2),
		entry("d", "run-2", "basics", "error", 3),
		entry("e", "run-2", "groups", "pass", 4),
	}
	for _, e := range entries {
		if err := s.Store(context.Background(), e); err != nil {
			t.Fatalf("Store(%s) failed: %v", e.ID, err)
		}
	}
}

func ids(entries []*journal.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestStorage_Query(t *testing.T) {
	start := base.Add(time.Minute)
	end := base.Add(3 * time.Minute)

	tests := []struct {
		name  string
		query journal.Query
		want  []string
	}{
		{"all newest first", journal.Query{}, []string{"e", "d", "c", "b", "a"}},
		{"oldest first", journal.Query{SortOrder: journal.SortAsc}, []string{"a", "b", "c", "d", "e"}},
		{"by run", journal.Query{RunID: "run-2"}, []string{"e", "d"}},
		{"by suite and status", journal.Query{Suite: "basics", Status: "pass"}, []string{"a"}},
		{"time range", journal.Query{StartTime: &start, EndTime: &end}, []string{"d", "c", "b"}},
		{"limit", journal.Query{Limit: 2}, []string{"e", "d"}},
		{"offset", journal.Query{Offset: 3}, []string{"b", "a"}},
		{"limit and offset", journal.Query{Limit: 1, Offset: 1, SortOrder: journal.SortAsc}, []string{"b"}},
		{"offset past end", journal.Query{Offset: 10}, []string{}},
		{"ids", journal.Query{IDs: []string{"a", "e", "x"}}, []string{"e", "a"}},
	}

	for name, s := range backends(t) {
		seed(t, s)
		for _, tt := range tests {
			t.Run(name+"/"+tt.name, func(t *testing.T) {
				got, err := s.Query(context.Background(), &tt.query)
				if err != nil {
					t.Fatalf("Query() failed: %v", err)
				}
				if !equalIDs(ids(got), tt.want) {
					t.Errorf("Query() = %v, want %v", ids(got), tt.want)
				}
			})
		}
	}
}

func TestStorage_InvalidQuery(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Query(context.Background(), &journal.Query{SortOrder: "sideways"})
			var qerr *journal.QueryError
			if !errors.As(err, &qerr) {
				t.Errorf("Query() error = %v, want *journal.QueryError", err)
			}
		})
	}
}

func TestStorage_RoundTrip(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			want := entry("x", "run-9", "basics", "fail", 5)
			want.Message = "display = \"scalar\", want \"T^i_i\""
			if err := s.Store(context.Background(), want); err != nil {
				t.Fatalf("Store() failed: %v", err)
			}

			got, err := s.Query(context.Background(), &journal.Query{})
			if err != nil {
				t.Fatalf("Query() failed: %v", err)
			}
			if len(got) != 1 {
				t.Fatalf("len(Query()) = %d, want 1", len(got))
			}
			e := got[0]
			if e.RunID != want.RunID || e.Check != want.Check || e.Notation != want.Notation ||
				e.Status != want.Status || e.Message != want.Message {
				t.Errorf("entry = %+v, want %+v", e, want)
			}
			if !e.RecordedAt.Equal(want.RecordedAt) {
				t.Errorf("RecordedAt = %v, want %v", e.RecordedAt, want.RecordedAt)
			}
			if e.Duration != want.Duration {
				t.Errorf("Duration = %v, want %v", e.Duration, want.Duration)
			}
			if len(e.Operations) != 1 || e.Operations[0] != "trace(1,2)" {
				t.Errorf("Operations = %v", e.Operations)
			}
		})
	}
}

func TestStorage_CountAndDelete(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			seed(t, s)
			ctx := context.Background()

			n, err := s.Count(ctx, &journal.Query{Suite: "basics"})
			if err != nil {
				t.Fatalf("Count() failed: %v", err)
			}
			if n != 3 {
				t.Errorf("Count(basics) = %d, want 3", n)
			}

			cutoff := base.Add(time.Minute)
			deleted, err := s.Delete(ctx, &journal.Query{EndTime: &cutoff})
			if err != nil {
				t.Fatalf("Delete() failed: %v", err)
			}
			if deleted != 2 {
				t.Errorf("Delete() = %d, want 2", deleted)
			}

			n, err = s.Count(ctx, &journal.Query{})
			if err != nil {
				t.Fatalf("Count() failed: %v", err)
			}
			if n != 3 {
				t.Errorf("Count() = %d, want 3", n)
			}
		})
	}
}

func TestSQLite_DuplicateID(t *testing.T) {
	s := backends(t)["sqlite"]
	e := entry("a", "run-1", "basics", "pass", 0)
	if err := s.Store(context.Background(), e); err != nil {
		t.Fatalf("Store() failed: %v", err)
	}
	err := s.Store(context.Background(), e)
	var se *journal.StorageError
	if !errors.As(err, &se) {
		t.Fatalf("Store() error = %v, want *journal.StorageError", err)
	}
	if se.Operation != "store" || se.Backend != DriverPure {
		t.Errorf("StorageError = %+v", se)
	}
}

func TestSQLite_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "journal.db")
	cfg := &SQLiteConfig{Driver: DriverPure, Path: path, BusyTimeout: time.Second}

	s, err := NewSQLiteStorage(cfg, quiet())
	if err != nil {
		t.Fatalf("NewSQLiteStorage() failed: %v", err)
	}
	if err := s.Store(context.Background(), entry("a", "run-1", "basics", "pass", 0)); err != nil {
		t.Fatalf("Store() failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	s, err = NewSQLiteStorage(cfg, quiet())
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()
	n, err := s.Count(context.Background(), &journal.Query{})
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}
}

func TestDSN(t *testing.T) {
	tests := []struct {
		cfg  SQLiteConfig
		want string
	}{
		{
			SQLiteConfig{Driver: DriverCgo, Path: "j.db", BusyTimeout: 5 * time.Second, WALMode: true},
			"file:j.db?_busy_timeout=5000&_journal_mode=WAL",
		},
		{
			SQLiteConfig{Driver: DriverPure, Path: "j.db", BusyTimeout: time.Second, WALMode: true},
			"file:j.db?_pragma=busy_timeout(1000)&_pragma=journal_mode(WAL)",
		},
		{
			SQLiteConfig{Driver: DriverPure, Path: ":memory:", BusyTimeout: time.Second, WALMode: true},
			"file::memory:?_pragma=busy_timeout(1000)",
		},
	}
	for _, tt := range tests {
		if got := dsn(&tt.cfg); got != tt.want {
			t.Errorf("dsn(%+v) = %q, want %q", tt.cfg, got, tt.want)
		}
	}
}

func TestOpen(t *testing.T) {
	s, err := Open(config.JournalConfig{Driver: "memory"}, quiet())
	if err != nil {
		t.Fatalf("Open(memory) failed: %v", err)
	}
	if _, ok := s.(*MemoryStorage); !ok {
		t.Errorf("Open(memory) = %T, want *MemoryStorage", s)
	}

	s, err = Open(config.JournalConfig{
		Driver:      "sqlite",
		Path:        filepath.Join(t.TempDir(), "j.db"),
		BusyTimeout: time.Second,
	}, quiet())
	if err != nil {
		t.Fatalf("Open(sqlite) failed: %v", err)
	}
	s.Close()

	if _, err := Open(config.JournalConfig{Driver: "postgres"}, quiet()); err == nil {
		t.Error("Open(postgres) should fail")
	}
}
