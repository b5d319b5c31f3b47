package steps

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"packrat/internal/fileutil"
	"packrat/internal/workflow"
)

const loaderConfigName = "ColdClientLoader.ini"

var emulatorSubdirs = []string{"dlls", "steam_settings", "saves"}

// EmulatorStep installs the Steam-emulator shim into the archived game tree
// and writes the loader configuration so the archive runs without Steam.
type EmulatorStep struct {
	payloadDir string
	appID      string
	gameExe    string
}

// NewEmulatorStep constructs the emulator handler.
func NewEmulatorStep(payloadDir, appID, gameExe string) *EmulatorStep {
	return &EmulatorStep{payloadDir: payloadDir, appID: appID, gameExe: gameExe}
}

func (s *EmulatorStep) ID() workflow.StepID { return workflow.StepEmulator }

func (s *EmulatorStep) Execute(_ context.Context, env workflow.Env, report workflow.ProgressFunc) error {
	if info, err := os.Stat(s.payloadDir); err != nil || !info.IsDir() {
		return fmt.Errorf("emulator payload directory %q not found", s.payloadDir)
	}

	report(0, "installing emulator shim")
	if err := fileutil.CopyTree(s.payloadDir, env.DestDir, nil); err != nil {
		return fmt.Errorf("install emulator payload: %w", err)
	}
	report(0.6, "installing emulator shim")

	for _, subdir := range emulatorSubdirs {
		if err := os.MkdirAll(filepath.Join(env.DestDir, subdir), 0o755); err != nil {
			return fmt.Errorf("create %s directory: %w", subdir, err)
		}
	}

	appIDPath := filepath.Join(env.DestDir, "steam_appid.txt")
	if err := os.WriteFile(appIDPath, []byte(s.appID), 0o644); err != nil {
		return fmt.Errorf("write steam_appid.txt: %w", err)
	}
	report(0.8, "configuring loader")

	if err := s.writeLoaderConfig(env.DestDir); err != nil {
		return err
	}

	report(1, "emulator installed")
	return nil
}

func (s *EmulatorStep) writeLoaderConfig(destDir string) error {
	content := fmt.Sprintf(
		"[SteamClient]\nExe=%s\nAppId=%s\n\n[Injection]\nDllsToInjectFolder=dlls\n",
		s.gameExe, s.appID,
	)
	path := filepath.Join(destDir, loaderConfigName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write loader config: %w", err)
	}
	return nil
}
