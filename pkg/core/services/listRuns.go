package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/project-allocator/pkg/db"
)

// DefaultHistoryCount is how many runs history shows when no count is given
const DefaultHistoryCount = 10

// RunReader defines the database operations needed to inspect run history
type RunReader interface {
	GetRuns(ctx context.Context, limit int) ([]db.Run, error)
	GetRun(ctx context.Context, id string) (*db.Run, error)
}

// ListRuns returns up to count runs, newest first
func ListRuns(ctx context.Context, store RunReader, logger *zap.Logger, count int) ([]db.Run, error) {
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", count)
	}

	logger.Debug("Listing runs", zap.Int("count", count))

	runs, err := store.GetRuns(ctx, count)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch runs: %w", err)
	}

	return runs, nil
}

// ShowRun returns one run with its per-student assignments
func ShowRun(ctx context.Context, store RunReader, logger *zap.Logger, id string) (*db.Run, error) {
	logger.Debug("Fetching run", zap.String("run_id", id))

	run, err := store.GetRun(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch run: %w", err)
	}

	return run, nil
}
