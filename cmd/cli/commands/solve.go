package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jakechorley/project-allocator/pkg/core/services"
)

type solveOptions struct {
	outputDir string
	dryRun    bool
	save      bool
}

func addSolveFlags(flags *pflag.FlagSet, opts *solveOptions, withOutputDir bool) {
	if withOutputDir {
		flags.StringVarP(&opts.outputDir, "output-dir", "o", "", "Directory for the result files (overrides outputDir from config)")
	}
	flags.BoolVar(&opts.dryRun, "dry-run", false, "Solve and print the result without writing it anywhere")
	flags.BoolVar(&opts.save, "save", false, "Record the run in the run history database")
}

// SolveCmd creates the solve command
func SolveCmd(app *AppContext) *cobra.Command {
	opts := &solveOptions{}

	cmd := &cobra.Command{
		Use:   "solve <capacity_file> <preference_file>",
		Short: "Solve the optimal project assignment from CSV files",
		Long: `Reads project capacities (first row of capacity_file) and student preferences
(one row per student, higher is better) and assigns every student to exactly one
project without exceeding any capacity, maximizing the total preference.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var store services.RunRecorder
			if opts.save {
				database, err := app.Database()
				if err != nil {
					return err
				}
				store = database
			}

			result, err := services.SolveFromFiles(app.Ctx, store, app.Logger, app.Cfg, services.SolveFilesRequest{
				CapacityPath:   args[0],
				PreferencePath: args[1],
				OutputDir:      opts.outputDir,
				DryRun:         opts.dryRun,
				Save:           opts.save,
			})
			if err != nil {
				return err
			}

			printSolveResult(app.Out, result)
			return nil
		},
	}

	addSolveFlags(cmd.Flags(), opts, true)

	return cmd
}
