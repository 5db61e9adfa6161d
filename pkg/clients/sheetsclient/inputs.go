package sheetsclient

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jakechorley/project-allocator/pkg/core/assignment"
)

// ErrInvalidCell is returned when a spreadsheet cell does not hold an integer
var ErrInvalidCell = errors.New("invalid cell")

// ReadCapacities reads the first row of sheetRange as project capacities
func (c *Client) ReadCapacities(ctx context.Context, spreadsheetID, sheetRange string) (assignment.CapacityVector, error) {
	values, err := c.GetValues(ctx, spreadsheetID, sheetRange)
	if err != nil {
		return nil, err
	}
	caps, err := ParseCapacityValues(values)
	if err != nil {
		return nil, fmt.Errorf("capacity range %s: %w", sheetRange, err)
	}
	return caps, nil
}

// ReadPreferences reads one row per student from sheetRange
func (c *Client) ReadPreferences(ctx context.Context, spreadsheetID, sheetRange string) (assignment.PreferenceMatrix, error) {
	values, err := c.GetValues(ctx, spreadsheetID, sheetRange)
	if err != nil {
		return nil, err
	}
	prefs, err := ParsePreferenceValues(values)
	if err != nil {
		return nil, fmt.Errorf("preference range %s: %w", sheetRange, err)
	}
	return prefs, nil
}

// ParseCapacityValues converts the first non-empty row of a value range into capacities
func ParseCapacityValues(values [][]interface{}) (assignment.CapacityVector, error) {
	rows, err := parseValues(values)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: project capacities should be provided", ErrInvalidCell)
	}
	return assignment.CapacityVector(rows[0]), nil
}

// ParsePreferenceValues converts every non-empty row of a value range into preferences.
// The Sheets API trims trailing empty cells, so short rows surface later as a shape mismatch.
func ParsePreferenceValues(values [][]interface{}) (assignment.PreferenceMatrix, error) {
	rows, err := parseValues(values)
	if err != nil {
		return nil, err
	}
	return assignment.PreferenceMatrix(rows), nil
}

func parseValues(values [][]interface{}) ([][]int, error) {
	var rows [][]int
	for i, record := range values {
		if len(record) == 0 {
			continue
		}
		row := make([]int, len(record))
		for j, cell := range record {
			v, err := cellInt(cell)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %d: %v", ErrInvalidCell, i+1, j+1, err)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func cellInt(cell interface{}) (int, error) {
	switch v := cell.(type) {
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("%q is not an integer", v)
		}
		return n, nil
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%g is not an integer", v)
		}
		return int(v), nil
	case int:
		return v, nil
	case nil:
		return 0, fmt.Errorf("empty cell")
	default:
		return 0, fmt.Errorf("unsupported value %v (%T)", v, v)
	}
}
