package db

import "time"

// Run sources
const (
	SourceFiles = "files"
	SourceSheet = "sheet"
)

// Run represents one successful solve
type Run struct {
	ID        string
	SolvedAt  time.Time
	Source    string
	Students  int
	Projects  int
	Objective float64

	// Assignments is only populated by GetRun
	Assignments []RunAssignment
}

// RunAssignment is the project a student received in a run
type RunAssignment struct {
	RunID      string
	Student    int
	Project    int
	Preference int
}

// AssignmentsFrom builds the per-student rows of a run from the solved project indices
func AssignmentsFrom(runID string, projectOf []int, prefs [][]int) []RunAssignment {
	assignments := make([]RunAssignment, len(projectOf))
	for student, project := range projectOf {
		assignments[student] = RunAssignment{
			RunID:      runID,
			Student:    student,
			Project:    project,
			Preference: prefs[student][project],
		}
	}
	return assignments
}
