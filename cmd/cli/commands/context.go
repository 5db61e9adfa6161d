package commands

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/jakechorley/project-allocator/internal/config"
	"github.com/jakechorley/project-allocator/pkg/clients/sheetsclient"
	"github.com/jakechorley/project-allocator/pkg/postgres"
	"github.com/jakechorley/project-allocator/pkg/utils"
)

// AppContext holds the application dependencies shared across all commands.
// Google and PostgreSQL connections are opened on first use so that file solves need neither.
type AppContext struct {
	Env    string
	Cfg    *config.Config
	Logger *zap.Logger
	Ctx    context.Context
	Out    io.Writer

	sheetsClient *sheetsclient.Client
	database     *postgres.DB
}

// SheetsClient authorizes against Google and returns a Sheets client
func (a *AppContext) SheetsClient() (*sheetsclient.Client, error) {
	if a.sheetsClient != nil {
		return a.sheetsClient, nil
	}

	a.Logger.Info("Loading OAuth client configuration")
	oauthCfg, err := config.LoadOAuthClientWithEnv(a.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to load OAuth client config: %w", err)
	}

	oauthConfig, err := utils.GetOAuthConfig(oauthCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth config: %w", err)
	}

	store, err := utils.DefaultTokenStore()
	if err != nil {
		return nil, err
	}

	httpClient, err := utils.NewAuthenticator(oauthConfig, store, a.Logger).Client(a.Ctx, a.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth token: %w", err)
	}

	a.sheetsClient, err = sheetsclient.NewClient(a.Ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, err
	}
	a.Logger.Debug("Sheets client initialized successfully")

	return a.sheetsClient, nil
}

// Database connects to the configured PostgreSQL database and applies pending migrations
func (a *AppContext) Database() (*postgres.DB, error) {
	if a.database != nil {
		return a.database, nil
	}
	if a.Cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("run history requires databaseURL in the config file")
	}

	a.Logger.Info("Connecting to database")
	database, err := postgres.NewDB(a.Ctx, a.Cfg.DatabaseURL, a.Logger)
	if err != nil {
		return nil, err
	}

	if err := database.RunMigrations(a.Ctx); err != nil {
		database.Close()
		return nil, err
	}

	a.database = database
	a.Logger.Debug("Database initialized successfully")

	return a.database, nil
}

// Close releases any connections opened by the commands
func (a *AppContext) Close() {
	if a.database != nil {
		a.database.Close()
		a.database = nil
	}
}
