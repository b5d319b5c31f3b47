package workflow

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"packrat/internal/logging"
	"packrat/internal/preflight"
)

type stepResult struct {
	step     StepID
	err      error
	duration time.Duration
}

// launch claims the in-progress slot, runs the step's preflight checks on
// the calling goroutine, and spawns the worker. Preflight failure transitions
// the step straight to Failed without spawning anything; the error is also
// returned so callers can react synchronously.
func (m *Manager) launch(id StepID) (<-chan stepResult, error) {
	handler, err := m.handler(id)
	if err != nil {
		return nil, err
	}

	if err := m.status.Begin(id, "starting"); err != nil {
		return nil, err
	}

	env := Env{SourceDir: m.cfg.Paths.SourceDir, DestDir: m.cfg.Paths.DestDir}
	if err := m.runPreflight(id, env); err != nil {
		status := Failed(err.Error())
		m.status.Finish(id, status)
		m.events.Publish(StatusChanged{Step: id, Status: status})
		m.events.Publish(ErrorEvent{Message: err.Error()})
		m.logger.Error("step preflight failed",
			logging.String(logging.FieldStep, string(id)),
			logging.Error(err),
		)
		return nil, err
	}

	m.events.Publish(StatusChanged{Step: id, Status: InProgress(0, "starting")})
	m.logger.Info("step started", logging.String(logging.FieldStep, string(id)))

	done := make(chan stepResult, 1)
	m.wg.Add(1)
	go m.runStep(id, handler, env, done)
	return done, nil
}

// runPreflight validates the step's preconditions. The copy step checks the
// source marker and destination free space; the install steps require the
// archive produced by copy to exist at the destination.
func (m *Manager) runPreflight(id StepID, env Env) error {
	switch id {
	case StepCopy:
		if env.SourceDir == "" {
			return fmt.Errorf("no source directory configured")
		}
		if err := preflight.CheckSource(env.SourceDir, m.cfg.Archive.MarkerFile); err != nil {
			return err
		}

		required, err := preflight.EstimateRequiredSpace(env.SourceDir)
		if err != nil {
			return fmt.Errorf("estimate required space: %w", err)
		}
		required = preflight.WithMargin(required, m.cfg.Archive.SpaceMarginPercent)

		available, err := preflight.AvailableSpace(env.DestDir)
		if err != nil {
			return fmt.Errorf("query free space: %w", err)
		}

		m.events.Publish(DiskSpace{RequiredBytes: required, AvailableBytes: available})
		if verdict := preflight.CheckSpace(required, available); !verdict.Sufficient {
			return fmt.Errorf("insufficient disk space: need %s, have %s (short %s)",
				humanize.IBytes(required), humanize.IBytes(available), humanize.IBytes(verdict.Shortfall))
		}
		return nil

	case StepEmulator:
		// The emulator patches the archived game tree, so the copied marker
		// must already be in place.
		return preflight.CheckSource(env.DestDir, m.cfg.Archive.MarkerFile)

	case StepCompanion, StepLauncher:
		info, err := os.Stat(env.DestDir)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("destination %q is not an existing directory (run the copy step first)", env.DestDir)
		}
		return nil
	}
	return fmt.Errorf("unknown step %q", id)
}

// runStep executes the opaque step operation on the worker goroutine. All
// failure paths, including panics, are converted to a Failed status; the
// worker never takes the process down.
func (m *Manager) runStep(id StepID, handler Handler, env Env, done chan<- stepResult) {
	defer m.wg.Done()

	start := time.Now()
	sampler := logging.NewProgressSampler(m.interval)
	var lastFraction float64

	report := func(fraction float64, note string) {
		if fraction < lastFraction {
			fraction = lastFraction
		} else {
			lastFraction = fraction
		}
		if !sampler.ShouldEmit(time.Now(), fraction, note) {
			return
		}
		m.status.Progress(id, fraction, note)
		m.events.Publish(StatusChanged{Step: id, Status: InProgress(fraction, note)})
		m.logger.Debug("step progress",
			logging.String(logging.FieldStep, string(id)),
			logging.Float64(logging.FieldProgress, fraction),
			logging.String("note", note),
		)
	}

	err := m.execute(handler, env, report)
	duration := time.Since(start)

	if err == nil {
		m.status.Finish(id, Succeeded())
		m.events.Publish(StatusChanged{Step: id, Status: Succeeded()})
		m.logger.Info("step succeeded",
			logging.String(logging.FieldStep, string(id)),
			logging.Duration("duration", duration),
		)
	} else {
		status := Failed(err.Error())
		m.status.Finish(id, status)
		m.events.Publish(StatusChanged{Step: id, Status: status})
		m.events.Publish(ErrorEvent{Message: err.Error()})
		m.logger.Error("step failed",
			logging.String(logging.FieldStep, string(id)),
			logging.Error(err),
		)
	}

	done <- stepResult{step: id, err: err, duration: duration}
}

func (m *Manager) execute(handler Handler, env Env, report ProgressFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("step panicked: %v", r)
		}
	}()
	return handler.Execute(context.Background(), env, report)
}
