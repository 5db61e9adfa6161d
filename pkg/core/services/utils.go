package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/project-allocator/internal/config"
	"github.com/jakechorley/project-allocator/pkg/core/assignment"
	"github.com/jakechorley/project-allocator/pkg/db"
)

// now is replaced in tests
var now = time.Now

// RunRecorder defines the database operation needed to record a solve
type RunRecorder interface {
	InsertRun(ctx context.Context, run *db.Run) error
}

// SolveResult describes a completed solve and where its results went
type SolveResult struct {
	RunID    string
	SolvedAt time.Time
	Problem  assignment.Problem
	Outcome  *assignment.Outcome

	// Empty when nothing was written
	AssignmentsPath string
	ObjectivePath   string
	TabTitle        string

	Saved bool
}

// solve runs the optimization with the configured tolerance and stamps the result with a new run id
func solve(logger *zap.Logger, cfg *config.Config, p assignment.Problem) (*SolveResult, error) {
	outcome, err := assignment.Assign(assignment.Config{
		Tolerance: cfg.Tolerance,
		Logger:    logger,
	}, p)
	if err != nil {
		return nil, err
	}

	result := &SolveResult{
		RunID:    uuid.NewString(),
		SolvedAt: now().UTC(),
		Problem:  p,
		Outcome:  outcome,
	}

	logger.Info("Solved assignment",
		zap.String("run_id", result.RunID),
		zap.Int("students", p.Students),
		zap.Int("projects", p.Projects),
		zap.Float64("objective", outcome.Objective))

	return result, nil
}

// recordRun stores the run when a store is available
func recordRun(ctx context.Context, store RunRecorder, logger *zap.Logger, result *SolveResult, source string) error {
	if store == nil {
		logger.Warn("No run store configured, run not saved", zap.String("run_id", result.RunID))
		return nil
	}

	run := &db.Run{
		ID:          result.RunID,
		SolvedAt:    result.SolvedAt,
		Source:      source,
		Students:    result.Problem.Students,
		Projects:    result.Problem.Projects,
		Objective:   result.Outcome.Objective,
		Assignments: db.AssignmentsFrom(result.RunID, result.Outcome.ProjectOf, result.Problem.Preferences),
	}

	if err := store.InsertRun(ctx, run); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	result.Saved = true
	logger.Debug("Run saved", zap.String("run_id", run.ID))
	return nil
}
