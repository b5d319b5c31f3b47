package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"packrat/internal/fileutil"
	"packrat/internal/workflow"
)

// CompanionStep installs the launcher companion dlls into the archive's
// injection directory.
type CompanionStep struct {
	payloadDir string
}

// NewCompanionStep constructs the companion handler.
func NewCompanionStep(payloadDir string) *CompanionStep {
	return &CompanionStep{payloadDir: payloadDir}
}

func (s *CompanionStep) ID() workflow.StepID { return workflow.StepCompanion }

func (s *CompanionStep) Execute(_ context.Context, env workflow.Env, report workflow.ProgressFunc) error {
	entries, err := os.ReadDir(s.payloadDir)
	if err != nil {
		return fmt.Errorf("companion payload directory %q not found", s.payloadDir)
	}

	dllsDir := filepath.Join(env.DestDir, "dlls")
	if err := os.MkdirAll(dllsDir, 0o755); err != nil {
		return fmt.Errorf("create dlls directory: %w", err)
	}

	total := 0
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			total++
		}
	}
	if total == 0 {
		return fmt.Errorf("companion payload directory %q contains no files", s.payloadDir)
	}

	report(0, "installing companion")
	installed := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		src := filepath.Join(s.payloadDir, entry.Name())
		dst := filepath.Join(dllsDir, entry.Name())
		if err := fileutil.CopyFile(src, dst); err != nil {
			return fmt.Errorf("install %s: %w", entry.Name(), err)
		}
		installed++
		report(float64(installed)/float64(total), "installing companion")
	}

	report(1, "companion installed")
	return nil
}
