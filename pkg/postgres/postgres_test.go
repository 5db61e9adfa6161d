package postgres

import (
	"context"
	"io/fs"
	"os"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/jakechorley/project-allocator/pkg/db"
)

func TestPendingMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/002_add_index.sql":   {Data: []byte("CREATE INDEX")},
		"migrations/001_create_runs.sql": {Data: []byte("CREATE TABLE")},
		"migrations/README.md":           {Data: []byte("notes")},
		"migrations/old/003_nested.sql":  {Data: []byte("ignored")},
	}

	pending, err := pendingMigrations(fsys, map[string]bool{})
	require.NoError(t, err)
	assert.Equal(t, []string{"001_create_runs.sql", "002_add_index.sql"}, pending)

	pending, err = pendingMigrations(fsys, map[string]bool{"001_create_runs.sql": true})
	require.NoError(t, err)
	assert.Equal(t, []string{"002_add_index.sql"}, pending)
}

func TestPendingMigrations_MissingDirectory(t *testing.T) {
	_, err := pendingMigrations(fstest.MapFS{}, nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read migrations directory")
}

func TestEmbeddedMigrations(t *testing.T) {
	pending, err := pendingMigrations(migrationsFS, nil)
	require.NoError(t, err)
	require.NotEmpty(t, pending)
	assert.Equal(t, "001_create_runs.sql", pending[0])

	content, err := fs.ReadFile(migrationsFS, "migrations/001_create_runs.sql")
	require.NoError(t, err)
	assert.Contains(t, string(content), "CREATE TABLE IF NOT EXISTS run_assignment")
}

// TestDB_RunHistory needs a disposable database, e.g.
// ALLOCATOR_TEST_DATABASE_URL=postgres://postgres@localhost:5432/allocator_test
func TestDB_RunHistory(t *testing.T) {
	connString := os.Getenv("ALLOCATOR_TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("ALLOCATOR_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	store, err := NewDB(ctx, connString, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(store.Close)

	require.NoError(t, store.RunMigrations(ctx))
	require.NoError(t, store.RunMigrations(ctx), "migrations are applied once")

	runID := uuid.NewString()
	run := &db.Run{
		ID:          runID,
		SolvedAt:    time.Now().UTC().Truncate(time.Microsecond),
		Source:      db.SourceFiles,
		Students:    3,
		Projects:    3,
		Objective:   9,
		Assignments: db.AssignmentsFrom(runID, []int{2, 1, 0}, [][]int{{2, 1, 3}, {1, 3, 2}, {3, 2, 1}}),
	}
	require.NoError(t, store.InsertRun(ctx, run))

	runs, err := store.GetRuns(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].ID)
	assert.Empty(t, runs[0].Assignments)

	got, err := store.GetRun(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, 9.0, got.Objective)
	assert.Equal(t, run.Assignments, got.Assignments)

	_, err = store.GetRun(ctx, uuid.NewString())
	assert.ErrorIs(t, err, db.ErrRunNotFound)
	assert.True(t, strings.Contains(err.Error(), "run not found"))
}
