package workflow

import (
	"errors"
	"sync"
)

// ErrBusy is returned when a step is started while another is in progress.
var ErrBusy = errors.New("another step is already in progress")

// WorkflowState is a value snapshot of the whole workflow. CurrentlyRunning
// is empty when no step is in progress.
type WorkflowState struct {
	Steps            map[StepID]StepStatus
	CurrentlyRunning StepID
	LastError        string
}

// Store is the synchronized record of per-step state shared between the
// observer and the workers. Every access is a short lock-held copy or write;
// the lock is never held across blocking work.
type Store struct {
	mu      sync.Mutex
	steps   map[StepID]StepStatus
	running StepID
	lastErr string
}

// NewStore returns a store with every known step at NotStarted.
func NewStore() *Store {
	steps := make(map[StepID]StepStatus, len(AllSteps()))
	for _, id := range AllSteps() {
		steps[id] = NotStarted()
	}
	return &Store{steps: steps}
}

// Begin claims the single in-progress slot for step and resets its status to
// InProgress(0, note). It fails with ErrBusy, mutating nothing, when any
// step is already in progress.
func (s *Store) Begin(step StepID, note string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running != "" {
		return ErrBusy
	}
	s.running = step
	s.steps[step] = InProgress(0, note)
	return nil
}

// Progress updates the running step's progress. Updates for a step that is
// not the running one are dropped; progress never regresses.
func (s *Store) Progress(step StepID, fraction float64, note string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running != step {
		return
	}
	current := s.steps[step]
	next := InProgress(fraction, note)
	if next.Progress < current.Progress {
		next.Progress = current.Progress
	}
	s.steps[step] = next
}

// Finish records the terminal status for step and releases the in-progress
// slot. Failure messages are mirrored into LastError.
func (s *Store) Finish(step StepID, status StepStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps[step] = status
	if s.running == step {
		s.running = ""
	}
	if status.State == StateFailed {
		s.lastErr = status.Message
	}
}

// SetLastError records a global error without touching per-step status.
func (s *Store) SetLastError(message string) {
	s.mu.Lock()
	s.lastErr = message
	s.mu.Unlock()
}

// ResetAll returns every step to NotStarted and clears the error banner.
// Callers must ensure no step is running; a running step is left untouched.
func (s *Store) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range AllSteps() {
		if id == s.running {
			continue
		}
		s.steps[id] = NotStarted()
	}
	s.lastErr = ""
}

// Running reports the in-progress step, if any.
func (s *Store) Running() (StepID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running, s.running != ""
}

// Snapshot returns a value copy of the current workflow state; the observer
// never holds a live reference into the store.
func (s *Store) Snapshot() WorkflowState {
	s.mu.Lock()
	defer s.mu.Unlock()
	steps := make(map[StepID]StepStatus, len(s.steps))
	for id, status := range s.steps {
		steps[id] = status
	}
	return WorkflowState{
		Steps:            steps,
		CurrentlyRunning: s.running,
		LastError:        s.lastErr,
	}
}
