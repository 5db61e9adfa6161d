package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jakechorley/project-allocator/pkg/clients/sheetsclient"
	"github.com/jakechorley/project-allocator/pkg/core/assignment"
	"github.com/jakechorley/project-allocator/pkg/db"
)

// mockStore implements RunRecorder and RunReader in memory
type mockStore struct {
	runs      []db.Run
	inserted  []*db.Run
	insertErr error
	getErr    error
	lastLimit int
}

func (m *mockStore) InsertRun(ctx context.Context, run *db.Run) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted = append(m.inserted, run)
	return nil
}

func (m *mockStore) GetRuns(ctx context.Context, limit int) ([]db.Run, error) {
	m.lastLimit = limit
	if m.getErr != nil {
		return nil, m.getErr
	}
	if limit < len(m.runs) {
		return m.runs[:limit], nil
	}
	return m.runs, nil
}

func (m *mockStore) GetRun(ctx context.Context, id string) (*db.Run, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for i := range m.runs {
		if m.runs[i].ID == id {
			return &m.runs[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", db.ErrRunNotFound, id)
}

// mockSheets implements SheetsClient with canned inputs
type mockSheets struct {
	caps       assignment.CapacityVector
	prefs      assignment.PreferenceMatrix
	readErr    error
	publishErr error

	published []*sheetsclient.PublishedAssignment
	prefixes  []string
}

func (m *mockSheets) ReadCapacities(ctx context.Context, spreadsheetID, sheetRange string) (assignment.CapacityVector, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	return m.caps, nil
}

func (m *mockSheets) ReadPreferences(ctx context.Context, spreadsheetID, sheetRange string) (assignment.PreferenceMatrix, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	return m.prefs, nil
}

func (m *mockSheets) PublishAssignment(ctx context.Context, spreadsheetID, tabPrefix string, published *sheetsclient.PublishedAssignment) (string, error) {
	if m.publishErr != nil {
		return "", m.publishErr
	}
	m.published = append(m.published, published)
	m.prefixes = append(m.prefixes, tabPrefix)
	return tabPrefix + " " + published.SolvedAt.Format(time.RFC3339), nil
}

// fixedNow pins the solve timestamp for the duration of a test
func fixedNow(t testing.TB, at time.Time) {
	previous := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = previous })
}
