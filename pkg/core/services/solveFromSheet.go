package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/project-allocator/internal/config"
	"github.com/jakechorley/project-allocator/pkg/clients/sheetsclient"
	"github.com/jakechorley/project-allocator/pkg/core/assignment"
	"github.com/jakechorley/project-allocator/pkg/db"
)

// SheetsClient defines the spreadsheet operations needed to solve from a sheet
type SheetsClient interface {
	ReadCapacities(ctx context.Context, spreadsheetID, sheetRange string) (assignment.CapacityVector, error)
	ReadPreferences(ctx context.Context, spreadsheetID, sheetRange string) (assignment.PreferenceMatrix, error)
	PublishAssignment(ctx context.Context, spreadsheetID, tabPrefix string, published *sheetsclient.PublishedAssignment) (string, error)
}

// SolveSheetRequest describes a solve from the configured spreadsheet
type SolveSheetRequest struct {
	// DryRun solves without publishing a results tab
	DryRun bool

	// Save records the run in the run store
	Save bool
}

// SolveFromSheet reads capacities and preferences from the configured spreadsheet, solves,
// publishes the result into a new tab, and optionally records the run
func SolveFromSheet(
	ctx context.Context,
	sheets SheetsClient,
	store RunRecorder,
	logger *zap.Logger,
	cfg *config.Config,
	req SolveSheetRequest,
) (*SolveResult, error) {
	if cfg.Sheets == nil {
		return nil, fmt.Errorf("sheets is not configured")
	}
	sheetsCfg := cfg.Sheets

	logger.Debug("Starting solveFromSheet",
		zap.String("spreadsheet_id", sheetsCfg.SpreadsheetID),
		zap.Bool("dry_run", req.DryRun))

	caps, err := sheets.ReadCapacities(ctx, sheetsCfg.SpreadsheetID, sheetsCfg.CapacityRange)
	if err != nil {
		return nil, fmt.Errorf("failed to read capacities: %w", err)
	}

	prefs, err := sheets.ReadPreferences(ctx, sheetsCfg.SpreadsheetID, sheetsCfg.PreferenceRange)
	if err != nil {
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}

	result, err := solve(logger, cfg, assignment.NewProblem(prefs, caps))
	if err != nil {
		return nil, err
	}

	if !req.DryRun {
		title, err := sheets.PublishAssignment(ctx, sheetsCfg.SpreadsheetID, sheetsCfg.ResultsTabPrefix, &sheetsclient.PublishedAssignment{
			RunID:       result.RunID,
			SolvedAt:    result.SolvedAt,
			Preferences: prefs,
			Outcome:     result.Outcome,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to publish assignment: %w", err)
		}
		result.TabTitle = title
		logger.Info("Published assignment", zap.String("tab", title))
	}

	if req.Save {
		if err := recordRun(ctx, store, logger, result, db.SourceSheet); err != nil {
			return nil, err
		}
	}

	return result, nil
}
