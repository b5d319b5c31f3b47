package history

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"packrat/internal/config"
)

// Outcome is the terminal result of one executed step.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
)

// Run kinds.
const (
	KindSingle = "single"
	KindAll    = "all"
)

// StepResult is one executed step within a run.
type StepResult struct {
	Step     string
	Outcome  Outcome
	Message  string
	Duration time.Duration
}

// Run is one recorded workflow run with its executed steps in order.
type Run struct {
	ID         string
	Kind       string
	StartedAt  time.Time
	FinishedAt time.Time
	Finished   bool
	Success    bool
	Error      string
	Steps      []StepResult
}

// Store manages run-history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database in the state directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.StateDir, "history.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// BeginRun inserts a new run record.
func (s *Store) BeginRun(ctx context.Context, id, kind string, startedAt time.Time) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (id, kind, started_at) VALUES (?, ?, ?)`,
		id, kind, startedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RecordStep appends one executed step to a run.
func (s *Store) RecordStep(ctx context.Context, runID, step string, outcome Outcome, message string, duration time.Duration) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO run_steps (run_id, step, outcome, message, duration_ms) VALUES (?, ?, ?, ?, ?)`,
		runID, step, string(outcome), message, duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert run step: %w", err)
	}
	return nil
}

// FinishRun marks a run as complete.
func (s *Store) FinishRun(ctx context.Context, runID string, success bool, errMsg string, finishedAt time.Time) error {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE runs SET finished_at = ?, success = ?, error = ? WHERE id = ?`,
		finishedAt.UTC().Format(time.RFC3339Nano), boolToInt(success), errMsg, runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("finish run: unknown run %q", runID)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first, each with its steps in
// execution order.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, kind, started_at, finished_at, success, error
         FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run        Run
			startedAt  string
			finishedAt sql.NullString
			success    sql.NullInt64
			errMsg     sql.NullString
		)
		if err := rows.Scan(&run.ID, &run.Kind, &startedAt, &finishedAt, &success, &errMsg); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, fmt.Errorf("parse started_at: %w", err)
		}
		if finishedAt.Valid && finishedAt.String != "" {
			if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finishedAt.String); err != nil {
				return nil, fmt.Errorf("parse finished_at: %w", err)
			}
			run.Finished = true
		}
		run.Success = success.Valid && success.Int64 != 0
		run.Error = errMsg.String
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	for i := range runs {
		steps, err := s.runSteps(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Steps = steps
	}
	return runs, nil
}

func (s *Store) runSteps(ctx context.Context, runID string) ([]StepResult, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT step, outcome, message, duration_ms
         FROM run_steps WHERE run_id = ? ORDER BY rowid`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query run steps: %w", err)
	}
	defer rows.Close()

	var steps []StepResult
	for rows.Next() {
		var (
			step       StepResult
			outcome    string
			durationMS int64
		)
		if err := rows.Scan(&step.Step, &outcome, &step.Message, &durationMS); err != nil {
			return nil, fmt.Errorf("scan run step: %w", err)
		}
		step.Outcome = Outcome(outcome)
		step.Duration = time.Duration(durationMS) * time.Millisecond
		steps = append(steps, step)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run steps: %w", err)
	}
	return steps, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
