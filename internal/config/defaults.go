package config

const (
	defaultDestDir            = "~/Desktop/game-archive"
	defaultStateDir           = "~/.local/share/packrat/state"
	defaultLogDir             = "~/.local/share/packrat/logs"
	defaultEmulatorDir        = "~/.local/share/packrat/payloads/emulator"
	defaultCompanionDir       = "~/.local/share/packrat/payloads/companion"
	defaultLauncherDir        = "~/.local/share/packrat/payloads/launcher"
	defaultMarkerFile         = "steam_api64.dll"
	defaultSpaceMarginPercent = 10
	defaultAppID              = "813780"
	defaultGameExe            = "AoE2DE_s.exe"
	defaultProgressIntervalMS = 500
	defaultEventBuffer        = 256
	defaultLogBufferSize      = 50
	defaultHistoryLimit       = 20
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DestDir:  defaultDestDir,
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Payloads: Payloads{
			EmulatorDir:  defaultEmulatorDir,
			CompanionDir: defaultCompanionDir,
			LauncherDir:  defaultLauncherDir,
		},
		Archive: Archive{
			MarkerFile:         defaultMarkerFile,
			SpaceMarginPercent: defaultSpaceMarginPercent,
			AppID:              defaultAppID,
			GameExe:            defaultGameExe,
		},
		Workflow: Workflow{
			ProgressIntervalMS: defaultProgressIntervalMS,
			EventBuffer:        defaultEventBuffer,
			LogBufferSize:      defaultLogBufferSize,
			HistoryLimit:       defaultHistoryLimit,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
