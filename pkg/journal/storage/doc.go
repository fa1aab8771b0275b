// Package storage provides journal.Storage backends.
//
// MemoryStorage keeps entries for the lifetime of the process and serves
// tests and one-off runs. SQLiteStorage persists entries through either
// SQLite driver: "sqlite3" (github.com/mattn/go-sqlite3, needs cgo) or
// "sqlite" (modernc.org/sqlite, pure Go). Both drivers share one schema.
package storage
