package storage

// SchemaVersion is the current journal schema version.
const SchemaVersion = 1

// Schema creates the journal tables. Times are stored as Unix nanoseconds
// and durations as nanoseconds so both drivers compare them the same way.
const Schema = `
CREATE TABLE IF NOT EXISTS entries (
    id TEXT PRIMARY KEY,
    run_id TEXT NOT NULL,
    suite TEXT NOT NULL,
    check_name TEXT NOT NULL,
    notation TEXT,
    status TEXT NOT NULL,
    message TEXT,
    operations TEXT,
    duration INTEGER NOT NULL,
    recorded_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_entries_recorded_at ON entries(recorded_at);
CREATE INDEX IF NOT EXISTS idx_entries_run_id ON entries(run_id);
CREATE INDEX IF NOT EXISTS idx_entries_suite_status ON entries(suite, status);
`

// InsertSchemaVersion records the schema version once.
const InsertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

// GetSchemaVersion reads the newest schema version.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`

const entryColumns = `id, run_id, suite, check_name, notation, status, message, operations, duration, recorded_at`
