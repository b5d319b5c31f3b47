package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"packrat/internal/config"
	"packrat/internal/history"
	"packrat/internal/logging"
	"packrat/internal/steps"
	"packrat/internal/workflow"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var (
		runAll bool
		source string
		dest   string
	)

	cmd := &cobra.Command{
		Use:   "run [step]",
		Short: "Execute one archive step or the whole workflow",
		Long: `Execute a single archive step by name, or the full workflow with --all.
Steps run one at a time; progress is reported as the step advances. Use
"packrat steps" to list the step names.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if runAll == (len(args) == 1) {
				return errors.New("pass exactly one step name, or --all")
			}

			var stepID workflow.StepID
			if !runAll {
				id, err := workflow.ParseStepID(args[0])
				if err != nil {
					return err
				}
				stepID = id
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return runWorkflow(cfg, runAll, stepID, source, dest)
		},
	}

	cmd.Flags().BoolVar(&runAll, "all", false, "Run every step in order, stopping at the first failure")
	cmd.Flags().StringVar(&source, "source", "", "Override the source installation directory")
	cmd.Flags().StringVar(&dest, "dest", "", "Override the archive destination directory")
	return cmd
}

func runWorkflow(cfg *config.Config, runAll bool, stepID workflow.StepID, sourceFlag, destFlag string) error {
	ring := logging.NewRing(cfg.Workflow.LogBufferSize)
	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{filepath.Join(cfg.Paths.LogDir, "packrat.log")},
		Mirror:      ring,
	})
	if err != nil {
		return err
	}

	if err := applyPathOverrides(cfg, sourceFlag, destFlag, logger); err != nil {
		return err
	}
	if cfg.Paths.SourceDir == "" {
		return errors.New("no source directory: set paths.source_dir, pass --source, or rerun after a previous session")
	}

	hist, err := history.Open(cfg)
	if err != nil {
		return fmt.Errorf("open run history: %w", err)
	}
	defer hist.Close()

	mgr, err := workflow.NewManager(cfg, hist, logger, ring)
	if err != nil {
		if errors.Is(err, workflow.ErrAlreadyRunning) {
			return err
		}
		return fmt.Errorf("initialize workflow engine: %w", err)
	}
	defer mgr.Close()

	mgr.ConfigureHandlers(steps.NewSet(cfg))

	if runAll {
		err = mgr.RunAll()
	} else {
		err = mgr.StartStep(stepID)
	}
	if err != nil {
		return err
	}

	observer := newRunObserver(os.Stdout)
	success := observer.watch(mgr)
	mgr.Wait()
	fmt.Println(renderWorkflowState(mgr.Snapshot()))

	if success {
		if err := config.SaveLastPaths(cfg.Paths.StateDir, config.LastPaths{
			SourcePath:      cfg.Paths.SourceDir,
			DestinationPath: cfg.Paths.DestDir,
		}); err != nil {
			logger.Warn("save last paths", logging.Error(err))
			fmt.Fprintf(os.Stderr, "warning: could not save last-used paths: %v\n", err)
		}
		return nil
	}

	if lastErr := mgr.Snapshot().LastError; lastErr != "" {
		return errors.New(lastErr)
	}
	return errors.New("run failed")
}

// applyPathOverrides resolves the effective source and destination: command
// flags win over the config file, which wins over the last-session record.
func applyPathOverrides(cfg *config.Config, sourceFlag, destFlag string, logger *slog.Logger) error {
	last := config.LoadLastPaths(cfg.Paths.StateDir, logger)

	if sourceFlag != "" {
		abs, err := filepath.Abs(sourceFlag)
		if err != nil {
			return fmt.Errorf("resolve --source: %w", err)
		}
		cfg.Paths.SourceDir = abs
	} else if cfg.Paths.SourceDir == "" && last.SourcePath != "" {
		logger.Info("reusing source from previous session", logging.String("path", last.SourcePath))
		cfg.Paths.SourceDir = last.SourcePath
	}

	if destFlag != "" {
		abs, err := filepath.Abs(destFlag)
		if err != nil {
			return fmt.Errorf("resolve --dest: %w", err)
		}
		cfg.Paths.DestDir = abs
		if err := os.MkdirAll(abs, 0o755); err != nil {
			return fmt.Errorf("create destination: %w", err)
		}
	}

	if cfg.Paths.SourceDir != "" && cfg.Paths.SourceDir == cfg.Paths.DestDir {
		return errors.New("destination must differ from source")
	}
	return nil
}
