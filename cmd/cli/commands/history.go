package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jakechorley/project-allocator/pkg/core/services"
)

// HistoryCmd creates the history command
func HistoryCmd(app *AppContext) *cobra.Command {
	var runID string

	cmd := &cobra.Command{
		Use:   "history [count]",
		Short: "List recent runs, or show one run's assignments with --run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count := services.DefaultHistoryCount
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("count must be a number: %w", err)
				}
				count = n
			}

			database, err := app.Database()
			if err != nil {
				return err
			}

			if runID != "" {
				run, err := services.ShowRun(app.Ctx, database, app.Logger, runID)
				if err != nil {
					return err
				}
				printRun(app.Out, run)
				return nil
			}

			runs, err := services.ListRuns(app.Ctx, database, app.Logger, count)
			if err != nil {
				return err
			}

			printRuns(app.Out, runs)
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "Show the assignments of this run id")

	return cmd
}
