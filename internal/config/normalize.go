package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizePayloads(); err != nil {
		return err
	}
	c.normalizeArchive()
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.SourceDir) == "" {
		if value, ok := os.LookupEnv("PACKRAT_SOURCE_DIR"); ok {
			c.Paths.SourceDir = value
		}
	}
	if c.Paths.SourceDir != "" {
		if c.Paths.SourceDir, err = expandPath(c.Paths.SourceDir); err != nil {
			return fmt.Errorf("paths.source_dir: %w", err)
		}
	}
	if strings.TrimSpace(c.Paths.DestDir) == "" {
		c.Paths.DestDir = defaultDestDir
	}
	if c.Paths.DestDir, err = expandPath(c.Paths.DestDir); err != nil {
		return fmt.Errorf("paths.dest_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizePayloads() error {
	var err error
	if strings.TrimSpace(c.Payloads.EmulatorDir) == "" {
		c.Payloads.EmulatorDir = defaultEmulatorDir
	}
	if c.Payloads.EmulatorDir, err = expandPath(c.Payloads.EmulatorDir); err != nil {
		return fmt.Errorf("payloads.emulator_dir: %w", err)
	}
	if strings.TrimSpace(c.Payloads.CompanionDir) == "" {
		c.Payloads.CompanionDir = defaultCompanionDir
	}
	if c.Payloads.CompanionDir, err = expandPath(c.Payloads.CompanionDir); err != nil {
		return fmt.Errorf("payloads.companion_dir: %w", err)
	}
	if strings.TrimSpace(c.Payloads.LauncherDir) == "" {
		c.Payloads.LauncherDir = defaultLauncherDir
	}
	if c.Payloads.LauncherDir, err = expandPath(c.Payloads.LauncherDir); err != nil {
		return fmt.Errorf("payloads.launcher_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeArchive() {
	c.Archive.MarkerFile = strings.TrimSpace(c.Archive.MarkerFile)
	if c.Archive.MarkerFile == "" {
		c.Archive.MarkerFile = defaultMarkerFile
	}
	if c.Archive.SpaceMarginPercent < 0 {
		c.Archive.SpaceMarginPercent = 0
	}
	c.Archive.AppID = strings.TrimSpace(c.Archive.AppID)
	if c.Archive.AppID == "" {
		c.Archive.AppID = defaultAppID
	}
	c.Archive.GameExe = strings.TrimSpace(c.Archive.GameExe)
	if c.Archive.GameExe == "" {
		c.Archive.GameExe = defaultGameExe
	}
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.ProgressIntervalMS <= 0 {
		c.Workflow.ProgressIntervalMS = defaultProgressIntervalMS
	}
	if c.Workflow.EventBuffer <= 0 {
		c.Workflow.EventBuffer = defaultEventBuffer
	}
	if c.Workflow.LogBufferSize <= 0 {
		c.Workflow.LogBufferSize = defaultLogBufferSize
	}
	if c.Workflow.HistoryLimit <= 0 {
		c.Workflow.HistoryLimit = defaultHistoryLimit
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
