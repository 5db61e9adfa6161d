package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/project-allocator/cmd/cli/commands"
	"github.com/jakechorley/project-allocator/internal/config"
	"github.com/jakechorley/project-allocator/pkg/utils/logging"
)

var (
	env string
	app *commands.AppContext
)

func main() {
	app = &commands.AppContext{
		Ctx: context.Background(),
		Out: os.Stdout,
	}

	rootCmd := &cobra.Command{
		Use:   "allocator",
		Short: "Project Allocator CLI - Assign students to projects",
		Long: `Assigns every student to exactly one project, respecting project capacities and
maximizing total student preference, by solving a binary linear program.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Logger != nil {
				_ = app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (selects allocator_config.<env>.yaml)")

	rootCmd.AddCommand(commands.SolveCmd(app))
	rootCmd.AddCommand(commands.SolveSheetCmd(app))
	rootCmd.AddCommand(commands.HistoryCmd(app))

	err := rootCmd.Execute()
	app.Close()
	os.Exit(commands.ExitCode(err))
}

// initApp loads config and sets up the logger. Clients and the database are opened by the commands that need them.
func initApp() error {
	app.Env = env

	cfg, err := config.LoadWithEnv(env)
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		cfg = config.Default()
	case err != nil:
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.Cfg = cfg

	app.Logger, err = logging.InitLogger(env, cfg.LogsDir)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.Logger.Debug("Starting application",
		zap.String("environment", env),
		zap.String("output_dir", cfg.OutputDir),
		zap.Bool("sheets_configured", cfg.Sheets != nil),
		zap.Bool("history_configured", cfg.DatabaseURL != ""))

	return nil
}
