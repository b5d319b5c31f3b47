package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"packrat/internal/config"
)

func TestLoadDefaultsExpandPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("PACKRAT_SOURCE_DIR", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "packrat", "state")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.Paths.DestDir != filepath.Join(tempHome, "Desktop", "game-archive") {
		t.Fatalf("unexpected dest dir: %q", cfg.Paths.DestDir)
	}
	if cfg.Archive.MarkerFile != "steam_api64.dll" {
		t.Fatalf("unexpected marker file: %q", cfg.Archive.MarkerFile)
	}
	if cfg.Workflow.ProgressIntervalMS != 500 {
		t.Fatalf("unexpected progress interval: %d", cfg.Workflow.ProgressIntervalMS)
	}
	if cfg.Workflow.LogBufferSize != 50 {
		t.Fatalf("unexpected log buffer size: %d", cfg.Workflow.LogBufferSize)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %q/%q", cfg.Logging.Format, cfg.Logging.Level)
	}
}

func TestLoadReadsFileAndNormalizes(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	content := `
[paths]
source_dir = "~/games/aoe2"
dest_dir = "~/archive"

[archive]
marker_file = "  game.exe "

[logging]
level = "DEBUG"
`
	path := filepath.Join(tempHome, "packrat.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %q to be found, got %q exists=%v", path, resolved, exists)
	}
	if cfg.Paths.SourceDir != filepath.Join(tempHome, "games", "aoe2") {
		t.Fatalf("source dir not expanded: %q", cfg.Paths.SourceDir)
	}
	if cfg.Archive.MarkerFile != "game.exe" {
		t.Fatalf("marker file not trimmed: %q", cfg.Archive.MarkerFile)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("level not lowercased: %q", cfg.Logging.Level)
	}
}

func TestLoadSourceDirFromEnv(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	source := filepath.Join(tempHome, "source")
	t.Setenv("PACKRAT_SOURCE_DIR", source)

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.SourceDir != source {
		t.Fatalf("expected source dir from env, got %q", cfg.Paths.SourceDir)
	}
}

func TestLoadRejectsSameSourceAndDest(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	content := `
[paths]
source_dir = "~/archive"
dest_dir = "~/archive"
`
	path := filepath.Join(tempHome, "packrat.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for identical source and dest")
	}
}

func TestLoadRejectsUnknownLogFormat(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	content := "[logging]\nformat = \"xml\"\n"
	path := filepath.Join(tempHome, "packrat.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for unknown log format")
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	if err := config.WriteSample(path); err != nil {
		t.Fatalf("WriteSample: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("sample not written: %v", err)
	}
	if err := config.WriteSample(path); err == nil {
		t.Fatal("expected error overwriting existing config")
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.DestDir = filepath.Join(base, "dest")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir, cfg.Paths.DestDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
	}
}
