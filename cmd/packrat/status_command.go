package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"packrat/internal/history"
	"packrat/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configured paths, environment checks, and the last run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, renderTable(
				[]column{{title: "Path"}, {title: "Value"}},
				[][]string{
					{"Config", ctx.configPath},
					{"Source", orUnset(cfg.Paths.SourceDir)},
					{"Destination", cfg.Paths.DestDir},
					{"State", cfg.Paths.StateDir},
					{"Logs", cfg.Paths.LogDir},
				},
			))

			rows := make([][]string, 0, 3)
			for _, result := range preflight.RunAll(cfg) {
				mark := "fail"
				if result.Passed {
					mark = "ok"
				}
				rows = append(rows, []string{result.Name, mark, result.Detail})
			}
			fmt.Fprintln(out, renderTable(
				[]column{{title: "Check"}, {title: "Result"}, {title: "Detail"}},
				rows,
			))

			hist, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open run history: %w", err)
			}
			defer hist.Close()

			runs, err := hist.RecentRuns(cmd.Context(), 1)
			if err != nil {
				return fmt.Errorf("read run history: %w", err)
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded yet.")
				return nil
			}
			fmt.Fprintf(out, "Last run: %s\n", describeRun(runs[0]))
			return nil
		},
	}
}

func describeRun(run history.Run) string {
	when := run.StartedAt.Local().Format(time.RFC1123)
	if !run.Finished {
		return fmt.Sprintf("%s run started %s (unfinished)", run.Kind, when)
	}
	if run.Success {
		return fmt.Sprintf("%s run at %s succeeded in %s", run.Kind, when, run.FinishedAt.Sub(run.StartedAt).Round(time.Second))
	}
	return fmt.Sprintf("%s run at %s failed: %s", run.Kind, when, run.Error)
}

func orUnset(value string) string {
	if value == "" {
		return "(unset)"
	}
	return value
}
