package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"packrat/internal/workflow"
)

const (
	pollInterval = 200 * time.Millisecond
	// settleTicks is how many consecutive quiet polls (no events, nothing
	// running, at least one terminal step) watch tolerates before treating
	// the run as over. Covers the case where the terminal event was evicted
	// from a full update queue.
	settleTicks = 5
)

// runObserver consumes engine updates and renders them for the terminal: a
// live progress bar on a TTY, plain lines otherwise. It is the only writer
// to out while a run is active.
type runObserver struct {
	out   io.Writer
	tty   bool
	bar   *progressbar.ProgressBar
	barID workflow.StepID
}

func newRunObserver(out io.Writer) *runObserver {
	tty := false
	if f, ok := out.(*os.File); ok {
		tty = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &runObserver{out: out, tty: tty}
}

// watch polls the manager's update queue until the run finishes and reports
// whether it succeeded.
func (o *runObserver) watch(mgr *workflow.Manager) bool {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	quiet := 0
	for {
		events := mgr.DrainUpdates()
		for _, event := range events {
			if done, success := o.handle(event); done {
				o.closeBar()
				return success
			}
		}

		if len(events) > 0 {
			quiet = 0
		} else if settled, success := runSettled(mgr.Snapshot(), &quiet); settled {
			o.closeBar()
			return success
		}
		<-ticker.C
	}
}

// runSettled reports whether the workflow should be treated as finished even
// though no terminal event arrived: nothing running, at least one step in a
// terminal state, and the state quiet for settleTicks consecutive polls.
// Guards against the terminal event being dropped from a full update queue.
func runSettled(state workflow.WorkflowState, quiet *int) (settled, success bool) {
	if state.CurrentlyRunning != "" {
		*quiet = 0
		return false, false
	}
	terminal := false
	failed := state.LastError != ""
	for _, status := range state.Steps {
		switch status.State {
		case workflow.StateInProgress:
			*quiet = 0
			return false, false
		case workflow.StateSucceeded:
			terminal = true
		case workflow.StateFailed:
			terminal = true
			failed = true
		}
	}
	if !terminal {
		*quiet = 0
		return false, false
	}
	*quiet++
	if *quiet < settleTicks {
		return false, false
	}
	return true, !failed
}

func (o *runObserver) handle(event workflow.Event) (done, success bool) {
	switch e := event.(type) {
	case workflow.StatusChanged:
		o.renderStatus(e.Step, e.Status)
	case workflow.LogAppended:
		o.printf("  %s %s\n", e.Entry.Level, e.Entry.Message)
	case workflow.DiskSpace:
		o.printf("disk space: need %s, have %s\n",
			humanize.IBytes(e.RequiredBytes), humanize.IBytes(e.AvailableBytes))
	case workflow.ErrorEvent:
		o.printf("error: %s\n", e.Message)
	case workflow.RunFinished:
		return true, e.Success
	}
	return false, false
}

func (o *runObserver) renderStatus(step workflow.StepID, status workflow.StepStatus) {
	name := stepDisplayName(step)
	switch status.State {
	case workflow.StateInProgress:
		if o.tty {
			o.ensureBar(step)
			o.bar.Describe(fmt.Sprintf("%s: %s", name, status.Note))
			_ = o.bar.Set(int(status.Progress*100 + 0.5))
		} else {
			o.printf("%s: %s (%.0f%%)\n", name, status.Note, status.Progress*100)
		}
	case workflow.StateSucceeded:
		o.closeBar()
		o.printf("%s: succeeded\n", name)
	case workflow.StateFailed:
		o.closeBar()
		o.printf("%s: failed: %s\n", name, status.Message)
	}
}

func (o *runObserver) ensureBar(step workflow.StepID) {
	if o.bar != nil && o.barID == step {
		return
	}
	o.closeBar()
	o.bar = progressbar.NewOptions(100,
		progressbar.OptionSetWriter(o.out),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionClearOnFinish(),
	)
	o.barID = step
}

func (o *runObserver) closeBar() {
	if o.bar == nil {
		return
	}
	_ = o.bar.Finish()
	o.bar = nil
	o.barID = ""
}

// printf writes a plain line, clearing any live bar first so bar redraws do
// not interleave with it.
func (o *runObserver) printf(format string, args ...any) {
	if o.bar != nil {
		_ = o.bar.Clear()
	}
	fmt.Fprintf(o.out, format, args...)
}
