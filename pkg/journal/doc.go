// Package journal defines the record of scenario check results.
//
// Every check a scenario run evaluates can be written to the journal as an
// Entry. The journal answers "when did this notation last fail" style
// questions across runs and keeps itself bounded through retention.
//
// # Subpackages
//
//   - storage: memory and SQLite backends
//   - recorder: asynchronous writer fed by the scenario runner
//   - retention: age and count based pruning on a cron schedule
//
// Storage backends must be safe for concurrent use.
package journal
