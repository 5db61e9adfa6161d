package sheetsclient

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jakechorley/project-allocator/pkg/core/assignment"
)

// PublishedAssignment is a solved assignment ready to be written to a results tab
type PublishedAssignment struct {
	RunID       string
	SolvedAt    time.Time
	Preferences assignment.PreferenceMatrix
	Outcome     *assignment.Outcome
}

// PublishAssignment writes the assignment into a new tab named "<prefix> <timestamp>" and returns the tab title
func (c *Client) PublishAssignment(ctx context.Context, spreadsheetID, tabPrefix string, published *PublishedAssignment) (string, error) {
	title := resultsTabTitle(tabPrefix, published.SolvedAt)

	if _, err := c.CreateSheet(ctx, spreadsheetID, title); err != nil {
		return "", err
	}

	if err := c.UpdateValues(ctx, spreadsheetID, quoteTabTitle(title)+"!A1", resultRows(published)); err != nil {
		return "", err
	}

	return title, nil
}

func resultsTabTitle(prefix string, solvedAt time.Time) string {
	return fmt.Sprintf("%s %s", prefix, solvedAt.UTC().Format("2006-01-02 15:04:05"))
}

// quoteTabTitle quotes a tab title for A1 notation, doubling any single quotes
func quoteTabTitle(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}

// resultRows lays out one row per student, then the objective and run id
func resultRows(published *PublishedAssignment) [][]interface{} {
	outcome := published.Outcome

	rows := make([][]interface{}, 0, len(outcome.ProjectOf)+4)
	rows = append(rows, []interface{}{"Student", "Project", "Preference"})
	for student, project := range outcome.ProjectOf {
		rows = append(rows, []interface{}{student, project, published.Preferences[student][project]})
	}
	rows = append(rows,
		[]interface{}{},
		[]interface{}{"Objective", outcome.Objective},
		[]interface{}{"Run", published.RunID},
	)
	return rows
}
