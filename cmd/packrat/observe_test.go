package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"packrat/internal/logging"
	"packrat/internal/workflow"
)

func TestObserverRendersProgressLines(t *testing.T) {
	var buf bytes.Buffer
	observer := newRunObserver(&buf)
	if observer.tty {
		t.Fatalf("buffer writer should not be treated as a TTY")
	}

	done, _ := observer.handle(workflow.StatusChanged{
		Step:   workflow.StepCopy,
		Status: workflow.InProgress(0.42, "copying game files"),
	})
	if done {
		t.Fatalf("status change should not finish the run")
	}
	if got := buf.String(); !strings.Contains(got, "Copy: copying game files (42%)") {
		t.Fatalf("unexpected progress line: %q", got)
	}
}

func TestObserverRendersTerminalStates(t *testing.T) {
	var buf bytes.Buffer
	observer := newRunObserver(&buf)

	observer.handle(workflow.StatusChanged{Step: workflow.StepEmulator, Status: workflow.Succeeded()})
	observer.handle(workflow.StatusChanged{Step: workflow.StepLauncher, Status: workflow.Failed("payload missing")})

	got := buf.String()
	if !strings.Contains(got, "Emulator: succeeded") {
		t.Fatalf("missing success line: %q", got)
	}
	if !strings.Contains(got, "Launcher: failed: payload missing") {
		t.Fatalf("missing failure line: %q", got)
	}
}

func TestObserverRendersDiskSpaceAndErrors(t *testing.T) {
	var buf bytes.Buffer
	observer := newRunObserver(&buf)

	observer.handle(workflow.DiskSpace{RequiredBytes: 2 << 30, AvailableBytes: 8 << 30})
	observer.handle(workflow.ErrorEvent{Message: "step copy failed: boom"})
	observer.handle(workflow.LogAppended{Entry: logging.Entry{Time: time.Now(), Message: "step started step=copy"}})

	got := buf.String()
	if !strings.Contains(got, "disk space: need 2.0 GiB, have 8.0 GiB") {
		t.Fatalf("missing disk space line: %q", got)
	}
	if !strings.Contains(got, "error: step copy failed: boom") {
		t.Fatalf("missing error line: %q", got)
	}
	if !strings.Contains(got, "step started step=copy") {
		t.Fatalf("missing log line: %q", got)
	}
}

func settledState(steps map[workflow.StepID]workflow.StepStatus, running workflow.StepID, lastErr string) workflow.WorkflowState {
	full := make(map[workflow.StepID]workflow.StepStatus, len(workflow.AllSteps()))
	for _, id := range workflow.AllSteps() {
		full[id] = workflow.NotStarted()
	}
	for id, status := range steps {
		full[id] = status
	}
	return workflow.WorkflowState{Steps: full, CurrentlyRunning: running, LastError: lastErr}
}

func TestRunSettledAfterQuietTerminalState(t *testing.T) {
	state := settledState(map[workflow.StepID]workflow.StepStatus{
		workflow.StepCopy: workflow.Succeeded(),
	}, "", "")

	quiet := 0
	for i := 0; i < settleTicks-1; i++ {
		if settled, _ := runSettled(state, &quiet); settled {
			t.Fatalf("settled too early on poll %d", i+1)
		}
	}
	settled, success := runSettled(state, &quiet)
	if !settled || !success {
		t.Fatalf("expected settled success, got settled=%v success=%v", settled, success)
	}
}

func TestRunSettledReportsFailure(t *testing.T) {
	state := settledState(map[workflow.StepID]workflow.StepStatus{
		workflow.StepCopy:     workflow.Succeeded(),
		workflow.StepEmulator: workflow.Failed("shim install failed"),
	}, "", "step emulator failed: shim install failed")

	quiet := 0
	var settled, success bool
	for i := 0; i < settleTicks; i++ {
		settled, success = runSettled(state, &quiet)
	}
	if !settled || success {
		t.Fatalf("expected settled failure, got settled=%v success=%v", settled, success)
	}
}

func TestRunSettledWaitsWhileRunning(t *testing.T) {
	running := settledState(map[workflow.StepID]workflow.StepStatus{
		workflow.StepCopy: workflow.InProgress(0.4, "copying"),
	}, workflow.StepCopy, "")

	quiet := 3
	if settled, _ := runSettled(running, &quiet); settled {
		t.Fatal("must not settle while a step is running")
	}
	if quiet != 0 {
		t.Fatalf("running state should reset the quiet counter, got %d", quiet)
	}

	idle := settledState(nil, "", "")
	quiet = 3
	if settled, _ := runSettled(idle, &quiet); settled {
		t.Fatal("must not settle before any step reaches a terminal state")
	}
}

func TestObserverFinishesOnRunFinished(t *testing.T) {
	var buf bytes.Buffer
	observer := newRunObserver(&buf)

	done, success := observer.handle(workflow.RunFinished{RunID: "run-1", Success: true})
	if !done || !success {
		t.Fatalf("expected done success, got done=%v success=%v", done, success)
	}
	done, success = observer.handle(workflow.RunFinished{RunID: "run-2", Success: false})
	if !done || success {
		t.Fatalf("expected done failure, got done=%v success=%v", done, success)
	}
}
