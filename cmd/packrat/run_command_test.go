package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"packrat/internal/history"
)

func TestRunCommandRequiresStepOrAll(t *testing.T) {
	configPath := writeTestConfig(t)
	ctx := newCommandContext(&configPath)

	cmd := newRunCommand(ctx)
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err == nil || !strings.Contains(err.Error(), "exactly one step") {
		t.Fatalf("expected usage error, got %v", err)
	}

	both := newRunCommand(ctx)
	both.SetOut(new(bytes.Buffer))
	both.SetErr(new(bytes.Buffer))
	both.SetArgs([]string{"copy", "--all"})
	if err := both.Execute(); err == nil || !strings.Contains(err.Error(), "exactly one step") {
		t.Fatalf("expected usage error for step plus --all, got %v", err)
	}
}

func TestRunCommandRejectsUnknownStep(t *testing.T) {
	configPath := writeTestConfig(t)
	ctx := newCommandContext(&configPath)

	cmd := newRunCommand(ctx)
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"bogus"})
	if err := cmd.Execute(); err == nil || !strings.Contains(err.Error(), "unknown step") {
		t.Fatalf("expected unknown step error, got %v", err)
	}
}

func TestStepsCommandListsAllSteps(t *testing.T) {
	var buf bytes.Buffer
	cmd := newStepsCommand()
	cmd.SetOut(&buf)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("steps command: %v", err)
	}

	got := buf.String()
	for _, name := range []string{"copy", "emulator", "companion", "launcher"} {
		if !strings.Contains(got, name) {
			t.Fatalf("steps output missing %q:\n%s", name, got)
		}
	}
}

func TestRunOutcomeLabel(t *testing.T) {
	started := time.Now()
	unfinished := history.Run{StartedAt: started}
	if got := runOutcomeLabel(unfinished); got != "unfinished" {
		t.Fatalf("unfinished label = %q", got)
	}
	if got := runDurationLabel(unfinished); got != "-" {
		t.Fatalf("unfinished duration = %q", got)
	}

	succeeded := history.Run{StartedAt: started, FinishedAt: started.Add(3 * time.Second), Finished: true, Success: true}
	if got := runOutcomeLabel(succeeded); got != "succeeded" {
		t.Fatalf("succeeded label = %q", got)
	}
	if got := runDurationLabel(succeeded); got != "3s" {
		t.Fatalf("succeeded duration = %q", got)
	}

	failed := history.Run{StartedAt: started, FinishedAt: started.Add(time.Second), Finished: true, Error: "step copy failed"}
	if got := runOutcomeLabel(failed); got != "failed: step copy failed" {
		t.Fatalf("failed label = %q", got)
	}
}
