package main

import (
	"fmt"

	"packrat/internal/workflow"
)

func stepStateLabel(status workflow.StepStatus) string {
	switch status.State {
	case workflow.StateNotStarted:
		return "not started"
	case workflow.StateInProgress:
		note := status.Note
		if note == "" {
			note = "running"
		}
		return fmt.Sprintf("%s (%.0f%%)", note, status.Progress*100)
	case workflow.StateSucceeded:
		return "succeeded"
	case workflow.StateFailed:
		return fmt.Sprintf("failed: %s", status.Message)
	}
	return string(status.State)
}

func renderWorkflowState(state workflow.WorkflowState) string {
	rows := make([][]string, 0, len(state.Steps))
	for _, id := range workflow.AllSteps() {
		rows = append(rows, []string{
			string(id),
			stepDisplayName(id),
			stepStateLabel(state.Steps[id]),
		})
	}
	return renderTable(
		[]column{{title: "Step"}, {title: "Name"}, {title: "Status"}},
		rows,
	)
}
