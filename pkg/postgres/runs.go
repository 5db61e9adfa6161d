package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/jakechorley/project-allocator/pkg/db"
)

// InsertRun stores a run and its assignments in one transaction
func (d *DB) InsertRun(ctx context.Context, run *db.Run) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO run (id, solved_at, source, students, projects, objective)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, run.ID, run.SolvedAt, run.Source, run.Students, run.Projects, run.Objective)
	for _, a := range run.Assignments {
		batch.Queue(`
			INSERT INTO run_assignment (run_id, student, project, preference)
			VALUES ($1, $2, $3, $4)
		`, run.ID, a.Student, a.Project, a.Preference)
	}

	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	d.logger.Debug("Run recorded",
		zap.String("run_id", run.ID),
		zap.Int("assignments", len(run.Assignments)))

	return nil
}

// GetRuns returns the most recent runs first, without their assignments
func (d *DB) GetRuns(ctx context.Context, limit int) ([]db.Run, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, solved_at, source, students, projects, objective
		FROM run
		ORDER BY solved_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []db.Run
	for rows.Next() {
		var r db.Run
		if err := rows.Scan(&r.ID, &r.SolvedAt, &r.Source, &r.Students, &r.Projects, &r.Objective); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// GetRun returns one run with its assignments ordered by student
func (d *DB) GetRun(ctx context.Context, id string) (*db.Run, error) {
	var r db.Run
	err := d.pool.QueryRow(ctx, `
		SELECT id, solved_at, source, students, projects, objective
		FROM run
		WHERE id = $1
	`, id).Scan(&r.ID, &r.SolvedAt, &r.Source, &r.Students, &r.Projects, &r.Objective)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", db.ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run %s: %w", id, err)
	}

	rows, err := d.pool.Query(ctx, `
		SELECT run_id, student, project, preference
		FROM run_assignment
		WHERE run_id = $1
		ORDER BY student
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments for run %s: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var a db.RunAssignment
		if err := rows.Scan(&a.RunID, &a.Student, &a.Project, &a.Preference); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		r.Assignments = append(r.Assignments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignments: %w", err)
	}

	return &r, nil
}
