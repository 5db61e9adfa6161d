package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jakechorley/project-allocator/pkg/core/assignment"
)

var (
	// ErrFileNotFound is returned when an input file does not exist
	ErrFileNotFound = errors.New("file not found")

	// ErrInvalidFormat is returned when an input file cannot be parsed as integers
	ErrInvalidFormat = errors.New("invalid csv format")
)

// LoadProblem reads the capacity and preference files and returns the problem they describe.
// Shape consistency between the two files is left to assignment.Validate.
func LoadProblem(capacityPath, preferencePath string) (assignment.Problem, error) {
	caps, err := LoadCapacities(capacityPath)
	if err != nil {
		return assignment.Problem{}, err
	}

	prefs, err := LoadPreferences(preferencePath)
	if err != nil {
		return assignment.Problem{}, err
	}

	return assignment.NewProblem(prefs, caps), nil
}

// LoadCapacities reads the first row of the file as project capacities
func LoadCapacities(path string) (assignment.CapacityVector, error) {
	f, err := openInput(path, "capacity")
	if err != nil {
		return nil, err
	}
	defer f.Close()

	caps, err := ParseCapacities(f)
	if err != nil {
		return nil, fmt.Errorf("capacity file %s: %w", path, err)
	}
	return caps, nil
}

// LoadPreferences reads one row of preferences per student
func LoadPreferences(path string) (assignment.PreferenceMatrix, error) {
	f, err := openInput(path, "preference")
	if err != nil {
		return nil, err
	}
	defer f.Close()

	prefs, err := ParsePreferences(f)
	if err != nil {
		return nil, fmt.Errorf("preference file %s: %w", path, err)
	}
	return prefs, nil
}

// ParseCapacities parses the first non-empty row of r. Later rows are ignored.
func ParseCapacities(r io.Reader) (assignment.CapacityVector, error) {
	reader := newReader(r)

	record, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: project capacities should be provided", ErrInvalidFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	line, _ := reader.FieldPos(0)
	row, err := parseRow(record, line)
	if err != nil {
		return nil, err
	}
	if len(row) == 0 {
		return nil, fmt.Errorf("%w: project capacities should be provided", ErrInvalidFormat)
	}

	return assignment.CapacityVector(row), nil
}

// ParsePreferences parses every non-empty row of r
func ParsePreferences(r io.Reader) (assignment.PreferenceMatrix, error) {
	reader := newReader(r)

	var prefs assignment.PreferenceMatrix
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}

		line, _ := reader.FieldPos(0)
		row, err := parseRow(record, line)
		if err != nil {
			return nil, err
		}
		if len(row) == 0 {
			continue
		}
		prefs = append(prefs, row)
	}

	return prefs, nil
}

// WriteAssignments writes the matrix as comma-delimited integer rows
func WriteAssignments(path string, a assignment.AssignmentMatrix) error {
	return writeAtomic(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		for _, row := range a.Rows() {
			record := make([]string, len(row))
			for j, v := range row {
				record[j] = strconv.Itoa(v)
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

// WriteObjective writes the objective value as plain text
func WriteObjective(path string, objective float64) error {
	return writeAtomic(path, func(w io.Writer) error {
		_, err := io.WriteString(w, FormatObjective(objective))
		return err
	})
}

// FormatObjective renders the objective without trailing zeros (12, 10.5)
func FormatObjective(objective float64) string {
	return strconv.FormatFloat(objective, 'f', -1, 64)
}

func newReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	// Ragged rows are reported by assignment.Validate as a shape mismatch
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader
}

func parseRow(record []string, line int) ([]int, error) {
	row := make([]int, 0, len(record))
	for col, cell := range record {
		cell = strings.TrimSpace(cell)
		if cell == "" && len(record) == 1 {
			continue
		}
		v, err := strconv.Atoi(cell)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d column %d: %q is not an integer", ErrInvalidFormat, line, col+1, cell)
		}
		row = append(row, v)
	}
	return row, nil
}

func openInput(path, kind string) (*os.File, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s file %s: %w", kind, path, ErrFileNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file: %w", kind, err)
	}
	return f, nil
}

// writeAtomic writes to a temp file in the target directory and renames it into place
func writeAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}

	if err := write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}

	return nil
}
