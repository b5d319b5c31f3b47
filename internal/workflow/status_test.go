package workflow_test

import (
	"errors"
	"testing"

	"packrat/internal/workflow"
)

func TestStoreRejectsSecondBegin(t *testing.T) {
	store := workflow.NewStore()
	if err := store.Begin(workflow.StepCopy, "starting"); err != nil {
		t.Fatalf("first Begin: %v", err)
	}

	before := store.Snapshot()
	err := store.Begin(workflow.StepEmulator, "starting")
	if !errors.Is(err, workflow.ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}

	after := store.Snapshot()
	if after.Steps[workflow.StepEmulator] != before.Steps[workflow.StepEmulator] {
		t.Fatal("rejected Begin mutated step status")
	}
	if after.CurrentlyRunning != workflow.StepCopy {
		t.Fatalf("expected copy still running, got %q", after.CurrentlyRunning)
	}
}

func TestStoreFinishReleasesSlot(t *testing.T) {
	store := workflow.NewStore()
	if err := store.Begin(workflow.StepCopy, "starting"); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	store.Finish(workflow.StepCopy, workflow.Succeeded())

	if _, running := store.Running(); running {
		t.Fatal("expected no running step after Finish")
	}
	if err := store.Begin(workflow.StepEmulator, "starting"); err != nil {
		t.Fatalf("Begin after Finish: %v", err)
	}
}

func TestStoreProgressNeverRegresses(t *testing.T) {
	store := workflow.NewStore()
	if err := store.Begin(workflow.StepCopy, "starting"); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	store.Progress(workflow.StepCopy, 0.6, "copying")
	store.Progress(workflow.StepCopy, 0.4, "copying")

	status := store.Snapshot().Steps[workflow.StepCopy]
	if status.Progress != 0.6 {
		t.Fatalf("expected progress held at 0.6, got %v", status.Progress)
	}
}

func TestStoreProgressIgnoresNonRunningStep(t *testing.T) {
	store := workflow.NewStore()
	if err := store.Begin(workflow.StepCopy, "starting"); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	store.Progress(workflow.StepLauncher, 0.5, "late report")

	if status := store.Snapshot().Steps[workflow.StepLauncher]; status.State != workflow.StateNotStarted {
		t.Fatalf("expected launcher untouched, got %+v", status)
	}
}

func TestStoreFailedSetsLastError(t *testing.T) {
	store := workflow.NewStore()
	if err := store.Begin(workflow.StepCopy, "starting"); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	store.Finish(workflow.StepCopy, workflow.Failed("disk full"))

	state := store.Snapshot()
	if state.LastError != "disk full" {
		t.Fatalf("expected last error recorded, got %q", state.LastError)
	}
	if state.Steps[workflow.StepCopy].Message != "disk full" {
		t.Fatalf("expected failure message on step, got %+v", state.Steps[workflow.StepCopy])
	}
}

func TestStoreResetAllClearsTerminalStatuses(t *testing.T) {
	store := workflow.NewStore()
	if err := store.Begin(workflow.StepCopy, "starting"); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	store.Finish(workflow.StepCopy, workflow.Failed("boom"))
	store.ResetAll()

	state := store.Snapshot()
	for id, status := range state.Steps {
		if status.State != workflow.StateNotStarted {
			t.Fatalf("step %s not reset: %+v", id, status)
		}
	}
	if state.LastError != "" {
		t.Fatalf("expected error banner cleared, got %q", state.LastError)
	}
}

func TestStoreSnapshotIsACopy(t *testing.T) {
	store := workflow.NewStore()
	snap := store.Snapshot()
	snap.Steps[workflow.StepCopy] = workflow.Failed("mutated")

	if store.Snapshot().Steps[workflow.StepCopy].State != workflow.StateNotStarted {
		t.Fatal("snapshot mutation leaked into the store")
	}
}
