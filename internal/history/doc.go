// Package history persists workflow run outcomes in SQLite.
//
// The Store records one row per run (single step or run-all) plus one row
// per executed step, so the CLI can show what happened in previous sessions.
// The database lives in the state directory and is bookkeeping, not a work
// queue: losing it costs the history listing and nothing else. Schema
// changes bump schemaVersion; the store recreates tables from scratch when
// the version on disk is older.
package history
