package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/jakechorley/project-allocator/internal/config"
	"github.com/jakechorley/project-allocator/pkg/csvio"
	"github.com/jakechorley/project-allocator/pkg/db"
)

// SolveFilesRequest describes a solve from CSV inputs
type SolveFilesRequest struct {
	CapacityPath   string
	PreferencePath string

	// OutputDir overrides the configured output directory when set
	OutputDir string

	// DryRun solves without writing output files
	DryRun bool

	// Save records the run in the run store
	Save bool
}

// SolveFromFiles loads the problem from CSV files, solves it, writes the assignment matrix and
// objective value, and optionally records the run
func SolveFromFiles(
	ctx context.Context,
	store RunRecorder,
	logger *zap.Logger,
	cfg *config.Config,
	req SolveFilesRequest,
) (*SolveResult, error) {
	logger.Debug("Starting solveFromFiles",
		zap.String("capacity_file", req.CapacityPath),
		zap.String("preference_file", req.PreferencePath),
		zap.Bool("dry_run", req.DryRun))

	p, err := csvio.LoadProblem(req.CapacityPath, req.PreferencePath)
	if err != nil {
		return nil, err
	}

	result, err := solve(logger, cfg, p)
	if err != nil {
		return nil, err
	}

	if !req.DryRun {
		if err := writeOutputs(logger, cfg, req.OutputDir, result); err != nil {
			return nil, err
		}
	}

	if req.Save {
		if err := recordRun(ctx, store, logger, result, db.SourceFiles); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func writeOutputs(logger *zap.Logger, cfg *config.Config, outputDir string, result *SolveResult) error {
	if outputDir == "" {
		outputDir = cfg.OutputDir
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	assignmentsPath := filepath.Join(outputDir, cfg.AssignmentsFile)
	if err := csvio.WriteAssignments(assignmentsPath, result.Outcome.Assignment); err != nil {
		return err
	}

	objectivePath := filepath.Join(outputDir, cfg.ObjectiveFile)
	if err := csvio.WriteObjective(objectivePath, result.Outcome.Objective); err != nil {
		return err
	}

	result.AssignmentsPath = assignmentsPath
	result.ObjectivePath = objectivePath

	logger.Debug("Results written",
		zap.String("assignments", assignmentsPath),
		zap.String("objective", objectivePath))

	return nil
}
