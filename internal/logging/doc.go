// Package logging builds the slog loggers used across packrat.
//
// New constructs a logger from Options (level, format, output paths) and the
// package provides the handler plumbing the engine relies on: a mirror
// handler that serves the primary output and copies accepted records into
// the in-memory ring, a Ring handler that keeps the bounded newest-first log
// buffer exposed to observers, and a ProgressSampler that suppresses
// repetitive progress records. Attr helpers keep call sites terse and field
// names consistent.
package logging
