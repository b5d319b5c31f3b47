package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"packrat/internal/config"
	"packrat/internal/history"
	"packrat/internal/logging"
)

// ErrAlreadyRunning is returned when another packrat process holds the
// state-directory lock.
var ErrAlreadyRunning = errors.New("another packrat instance is already running")

// ErrUnknownStep is returned for a step with no registered handler.
var ErrUnknownStep = errors.New("no handler registered for step")

// Manager coordinates step execution and owns the state the observer reads.
// All public methods are non-blocking: results arrive through Snapshot,
// DrainUpdates, and Logs.
type Manager struct {
	cfg      *config.Config
	logger   *slog.Logger
	hist     *history.Store
	status   *Store
	events   *Queue
	ring     *logging.Ring
	lock     *flock.Flock
	handlers map[StepID]Handler
	interval time.Duration

	mu        sync.Mutex
	runActive bool
	wg        sync.WaitGroup
}

// NewManager constructs a manager and claims the single-instance lock in the
// state directory. The ring, when provided, should also be attached to the
// logger so log records reach both the console and the observer; pass nil to
// let the manager keep a private buffer. The history store may be nil.
func NewManager(cfg *config.Config, hist *history.Store, logger *slog.Logger, ring *logging.Ring) (*Manager, error) {
	if cfg == nil {
		return nil, errors.New("manager requires config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if ring == nil {
		ring = logging.NewRing(cfg.Workflow.LogBufferSize)
	}

	lock := flock.New(filepath.Join(cfg.Paths.StateDir, "packrat.lock"))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire state lock: %w", err)
	}
	if !ok {
		return nil, ErrAlreadyRunning
	}

	m := &Manager{
		cfg:      cfg,
		logger:   logger,
		hist:     hist,
		status:   NewStore(),
		events:   NewQueue(cfg.Workflow.EventBuffer),
		ring:     ring,
		lock:     lock,
		handlers: make(map[StepID]Handler),
		interval: time.Duration(cfg.Workflow.ProgressIntervalMS) * time.Millisecond,
	}
	ring.SetSink(func(entry logging.Entry) {
		m.events.Publish(LogAppended{Entry: entry})
	})
	return m, nil
}

// ConfigureHandlers registers the concrete step handlers.
func (m *Manager) ConfigureHandlers(set HandlerSet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = set.byID()
}

// Close waits for in-flight work and releases the instance lock.
func (m *Manager) Close() error {
	m.wg.Wait()
	if m.lock != nil {
		return m.lock.Unlock()
	}
	return nil
}

// Ring exposes the log buffer handler for logger construction.
func (m *Manager) Ring() *logging.Ring { return m.ring }

// Snapshot returns a value copy of the workflow state.
func (m *Manager) Snapshot() WorkflowState { return m.status.Snapshot() }

// DrainUpdates returns the events queued since the last call, oldest first.
func (m *Manager) DrainUpdates() []Event { return m.events.Drain() }

// Logs returns a newest-first copy of the buffered log entries.
func (m *Manager) Logs() []logging.Entry { return m.ring.Snapshot() }

// Wait blocks until all spawned workers and coordinators have finished.
// Intended for shutdown paths and tests, not the polling observer.
func (m *Manager) Wait() { m.wg.Wait() }

// StartStep launches a single step as its own run. It returns once the
// worker is spawned (or the preflight has failed); progress arrives through
// the update queue. ErrBusy is returned, with no status mutated, while
// another step or a run-all is active.
func (m *Manager) StartStep(id StepID) error {
	m.mu.Lock()
	if m.runActive {
		m.mu.Unlock()
		return ErrBusy
	}
	m.mu.Unlock()

	done, err := m.launch(id)
	if err != nil {
		if errors.Is(err, ErrBusy) || errors.Is(err, ErrUnknownStep) {
			return err
		}
		// Preflight failure: still a (failed) run from the observer's view.
		runID := uuid.NewString()
		m.beginHistory(runID, history.KindSingle, time.Now())
		m.recordStep(runID, id, stepResult{step: id, err: err})
		m.finishHistory(runID, false, err.Error(), time.Now())
		m.events.Publish(RunFinished{RunID: runID, Success: false})
		return err
	}

	runID := uuid.NewString()
	m.beginHistory(runID, history.KindSingle, time.Now())

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		result := <-done
		m.recordStep(runID, id, result)
		m.finishHistory(runID, result.err == nil, errMessage(result.err), time.Now())
		m.events.Publish(RunFinished{RunID: runID, Success: result.err == nil})
	}()
	return nil
}

// RunAll executes every step in order on a coordinator goroutine, stopping
// at the first failure. The call returns immediately; completion arrives as
// a RunFinished event. ErrBusy is returned while a step or run is active.
func (m *Manager) RunAll() error {
	m.mu.Lock()
	if m.runActive {
		m.mu.Unlock()
		return ErrBusy
	}
	if _, running := m.status.Running(); running {
		m.mu.Unlock()
		return ErrBusy
	}
	m.runActive = true
	m.mu.Unlock()

	m.status.ResetAll()
	runID := uuid.NewString()
	m.beginHistory(runID, history.KindAll, time.Now())
	m.logger.Info("run-all started", logging.String(logging.FieldRunID, runID))

	m.wg.Add(1)
	go m.orchestrate(runID)
	return nil
}

// orchestrate runs on its own goroutine so the observer is never blocked; it
// is the only place allowed to launch more than one step per logical run.
func (m *Manager) orchestrate(runID string) {
	defer m.wg.Done()
	defer func() {
		m.mu.Lock()
		m.runActive = false
		m.mu.Unlock()
	}()

	success := true
	var failMsg string

	for _, id := range AllSteps() {
		done, err := m.launch(id)
		if err != nil {
			m.recordStep(runID, id, stepResult{step: id, err: err})
			success = false
			failMsg = fmt.Sprintf("step %s failed: %v", id, err)
			break
		}

		result := <-done
		m.recordStep(runID, id, result)
		if result.err != nil {
			success = false
			failMsg = fmt.Sprintf("step %s failed: %v", id, result.err)
			break
		}
	}

	if success {
		m.logger.Info("run-all finished", logging.String(logging.FieldRunID, runID))
	} else {
		m.status.SetLastError(failMsg)
		m.events.Publish(ErrorEvent{Message: failMsg})
		m.logger.Error("run-all aborted", logging.String(logging.FieldRunID, runID), logging.String("reason", failMsg))
	}

	m.finishHistory(runID, success, failMsg, time.Now())
	m.events.Publish(RunFinished{RunID: runID, Success: success})
}

func (m *Manager) handler(id StepID) (Handler, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	handler, ok := m.handlers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStep, id)
	}
	return handler, nil
}

func (m *Manager) beginHistory(runID, kind string, startedAt time.Time) {
	if m.hist == nil {
		return
	}
	if err := m.hist.BeginRun(context.Background(), runID, kind, startedAt); err != nil {
		m.logger.Warn("record run start", logging.Error(err))
	}
}

func (m *Manager) recordStep(runID string, id StepID, result stepResult) {
	if m.hist == nil {
		return
	}
	outcome := history.OutcomeSucceeded
	if result.err != nil {
		outcome = history.OutcomeFailed
	}
	if err := m.hist.RecordStep(context.Background(), runID, string(id), outcome, errMessage(result.err), result.duration); err != nil {
		m.logger.Warn("record step result", logging.Error(err))
	}
}

func (m *Manager) finishHistory(runID string, success bool, errMsg string, finishedAt time.Time) {
	if m.hist == nil {
		return
	}
	if err := m.hist.FinishRun(context.Background(), runID, success, errMsg, finishedAt); err != nil {
		m.logger.Warn("record run finish", logging.Error(err))
	}
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
