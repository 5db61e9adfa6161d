package db

import (
	"context"
	"errors"
)

// ErrRunNotFound is returned by GetRun when no run has the given id
var ErrRunNotFound = errors.New("run not found")

// RunStore defines the interface for run history operations.
// postgres.DB implements it.
type RunStore interface {
	InsertRun(ctx context.Context, run *Run) error
	GetRuns(ctx context.Context, limit int) ([]Run, error)
	GetRun(ctx context.Context, id string) (*Run, error)
}
