package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"packrat/internal/workflow"
)

var stepDescriptions = map[workflow.StepID]string{
	workflow.StepCopy:      "Copy the game installation into the archive",
	workflow.StepEmulator:  "Install the Steam-emulator shim and loader config",
	workflow.StepCompanion: "Install the launcher companion dlls",
	workflow.StepLauncher:  "Install the launcher and point it at the archive",
}

var titleCaser = cases.Title(language.English)

func stepDisplayName(id workflow.StepID) string {
	return titleCaser.String(strings.ReplaceAll(string(id), "_", " "))
}

func newStepsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "steps",
		Short: "List the archive steps in execution order",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(workflow.AllSteps()))
			for i, id := range workflow.AllSteps() {
				rows = append(rows, []string{
					fmt.Sprintf("%d", i+1),
					string(id),
					stepDisplayName(id),
					stepDescriptions[id],
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]column{{title: "#", numeric: true}, {title: "Step"}, {title: "Name"}, {title: "Description"}},
				rows,
			))
			return nil
		},
	}
}
