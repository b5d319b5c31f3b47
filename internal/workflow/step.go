package workflow

import (
	"context"
	"fmt"
)

// StepID identifies one archive step. The set is closed; AllSteps fixes the
// execution order for run-all.
type StepID string

const (
	StepCopy      StepID = "copy"
	StepEmulator  StepID = "emulator"
	StepCompanion StepID = "companion"
	StepLauncher  StepID = "launcher"
)

// AllSteps returns the step identifiers in run-all execution order.
func AllSteps() []StepID {
	return []StepID{StepCopy, StepEmulator, StepCompanion, StepLauncher}
}

// ParseStepID resolves a user-supplied step name.
func ParseStepID(name string) (StepID, error) {
	for _, id := range AllSteps() {
		if string(id) == name {
			return id, nil
		}
	}
	return "", fmt.Errorf("unknown step %q", name)
}

// State is the lifecycle position of a step.
type State string

const (
	StateNotStarted State = "not_started"
	StateInProgress State = "in_progress"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// StepStatus is the full status value for one step. Progress and Note are
// meaningful while InProgress; Message carries the failure reason.
type StepStatus struct {
	State    State
	Progress float64
	Note     string
	Message  string
}

// Terminal reports whether no further transition will occur without a new run.
func (s StepStatus) Terminal() bool {
	return s.State == StateSucceeded || s.State == StateFailed
}

// NotStarted returns the initial status value.
func NotStarted() StepStatus { return StepStatus{State: StateNotStarted} }

// InProgress returns a running status with the given progress fraction.
func InProgress(progress float64, note string) StepStatus {
	return StepStatus{State: StateInProgress, Progress: clampFraction(progress), Note: note}
}

// Succeeded returns the successful terminal status.
func Succeeded() StepStatus { return StepStatus{State: StateSucceeded, Progress: 1} }

// Failed returns the failed terminal status carrying the reason.
func Failed(message string) StepStatus {
	return StepStatus{State: StateFailed, Message: message}
}

func clampFraction(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// Env carries the paths a step operates on.
type Env struct {
	SourceDir string
	DestDir   string
}

// ProgressFunc reports step progress. Implementations may call it from the
// worker goroutine at any frequency; the engine coalesces updates.
type ProgressFunc func(fraction float64, note string)

// Handler is the opaque work contract for one step. Execute blocks until
// the step finishes and returns a descriptive error on failure.
type Handler interface {
	ID() StepID
	Execute(ctx context.Context, env Env, report ProgressFunc) error
}

// HandlerSet bundles the concrete step handlers the manager orchestrates.
type HandlerSet struct {
	Copy      Handler
	Emulator  Handler
	Companion Handler
	Launcher  Handler
}

func (h HandlerSet) byID() map[StepID]Handler {
	set := make(map[StepID]Handler, 4)
	if h.Copy != nil {
		set[StepCopy] = h.Copy
	}
	if h.Emulator != nil {
		set[StepEmulator] = h.Emulator
	}
	if h.Companion != nil {
		set[StepCompanion] = h.Companion
	}
	if h.Launcher != nil {
		set[StepLauncher] = h.Launcher
	}
	return set
}
