package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"packrat/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded workflow runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if limit <= 0 {
				limit = cfg.Workflow.HistoryLimit
			}

			hist, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open run history: %w", err)
			}
			defer hist.Close()

			runs, err := hist.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("read run history: %w", err)
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.StartedAt.Local().Format("2006-01-02 15:04:05"),
					run.Kind,
					runOutcomeLabel(run),
					fmt.Sprintf("%d", len(run.Steps)),
					runDurationLabel(run),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]column{{title: "Started"}, {title: "Kind"}, {title: "Outcome"}, {title: "Steps", numeric: true}, {title: "Duration", numeric: true}},
				rows,
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of runs to list (default from config)")
	return cmd
}

func runOutcomeLabel(run history.Run) string {
	if !run.Finished {
		return "unfinished"
	}
	if run.Success {
		return "succeeded"
	}
	if run.Error != "" {
		return fmt.Sprintf("failed: %s", run.Error)
	}
	return "failed"
}

func runDurationLabel(run history.Run) string {
	if !run.Finished {
		return "-"
	}
	return run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String()
}
