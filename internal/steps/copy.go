package steps

import (
	"context"
	"fmt"

	"packrat/internal/config"
	"packrat/internal/fileutil"
	"packrat/internal/workflow"
)

// CopyStep copies the game installation tree into the destination,
// reporting byte-level progress against the measured source size.
type CopyStep struct{}

// NewCopyStep constructs the copy handler.
func NewCopyStep() *CopyStep { return &CopyStep{} }

func (s *CopyStep) ID() workflow.StepID { return workflow.StepCopy }

func (s *CopyStep) Execute(_ context.Context, env workflow.Env, report workflow.ProgressFunc) error {
	total, err := fileutil.DirSize(env.SourceDir)
	if err != nil {
		return fmt.Errorf("measure source: %w", err)
	}

	report(0, "copying game files")
	err = fileutil.CopyTree(env.SourceDir, env.DestDir, func(copied uint64) {
		fraction := 1.0
		if total > 0 {
			fraction = float64(copied) / float64(total)
		}
		report(fraction, "copying game files")
	})
	if err != nil {
		return fmt.Errorf("copy game files: %w", err)
	}

	report(1, "copy complete")
	return nil
}

// NewSet wires all four step handlers from config.
func NewSet(cfg *config.Config) workflow.HandlerSet {
	return workflow.HandlerSet{
		Copy:      NewCopyStep(),
		Emulator:  NewEmulatorStep(cfg.Payloads.EmulatorDir, cfg.Archive.AppID, cfg.Archive.GameExe),
		Companion: NewCompanionStep(cfg.Payloads.CompanionDir),
		Launcher:  NewLauncherStep(cfg.Payloads.LauncherDir),
	}
}
