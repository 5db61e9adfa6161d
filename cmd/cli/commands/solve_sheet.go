package commands

import (
	"github.com/spf13/cobra"

	"github.com/jakechorley/project-allocator/pkg/core/services"
)

// SolveSheetCmd creates the solveSheet command
func SolveSheetCmd(app *AppContext) *cobra.Command {
	opts := &solveOptions{}

	cmd := &cobra.Command{
		Use:   "solveSheet",
		Short: "Solve the assignment from the configured Google spreadsheet and publish it to a new tab",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sheets, err := app.SheetsClient()
			if err != nil {
				return err
			}

			var store services.RunRecorder
			if opts.save {
				database, err := app.Database()
				if err != nil {
					return err
				}
				store = database
			}

			result, err := services.SolveFromSheet(app.Ctx, sheets, store, app.Logger, app.Cfg, services.SolveSheetRequest{
				DryRun: opts.dryRun,
				Save:   opts.save,
			})
			if err != nil {
				return err
			}

			printSolveResult(app.Out, result)
			return nil
		},
	}

	addSolveFlags(cmd.Flags(), opts, false)

	return cmd
}
