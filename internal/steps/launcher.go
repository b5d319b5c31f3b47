package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"packrat/internal/fileutil"
	"packrat/internal/workflow"
)

const launcherConfigRel = "resources/config.toml"

// LauncherStep installs the launcher payload under the archive and points
// its configuration at the emulator loader and the archived game directory.
type LauncherStep struct {
	payloadDir string
}

// NewLauncherStep constructs the launcher handler.
func NewLauncherStep(payloadDir string) *LauncherStep {
	return &LauncherStep{payloadDir: payloadDir}
}

func (s *LauncherStep) ID() workflow.StepID { return workflow.StepLauncher }

func (s *LauncherStep) Execute(_ context.Context, env workflow.Env, report workflow.ProgressFunc) error {
	if info, err := os.Stat(s.payloadDir); err != nil || !info.IsDir() {
		return fmt.Errorf("launcher payload directory %q not found", s.payloadDir)
	}

	launcherDir := filepath.Join(env.DestDir, "launcher")
	report(0, "installing launcher")
	if err := fileutil.CopyTree(s.payloadDir, launcherDir, nil); err != nil {
		return fmt.Errorf("install launcher payload: %w", err)
	}
	report(0.7, "patching launcher config")

	if err := s.patchConfig(launcherDir); err != nil {
		return err
	}

	report(1, "launcher installed")
	return nil
}

// patchConfig rewrites the payload's 'auto' placeholders so the launcher
// starts the emulator loader against the archived game tree.
func (s *LauncherStep) patchConfig(launcherDir string) error {
	configPath := filepath.Join(launcherDir, filepath.FromSlash(launcherConfigRel))
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("launcher payload missing %s: %w", launcherConfigRel, err)
	}

	content := string(data)
	content = strings.ReplaceAll(content, "executable = 'auto'", "executable = '../steamclient_loader_x64.exe'")
	content = strings.ReplaceAll(content, "path = 'auto'", "path = '..'")

	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("patch launcher config: %w", err)
	}
	return nil
}
