package assignment

import (
	"gonum.org/v1/gonum/mat"
)

// IntegralityTolerance is the maximum distance a solved variable may sit from 0 or 1
// before the solution is rejected as non-integral. The same bound is used when comparing
// the recomputed objective against the solver's reported objective.
const IntegralityTolerance = 1e-6

// PreferenceMatrix holds one row per student and one column per project.
// Entry (i, j) is student i's utility for project j; higher values are preferred.
type PreferenceMatrix [][]int

// CapacityVector holds the maximum number of students each project may receive
type CapacityVector []int

// Problem is a single assignment instance
type Problem struct {
	Students    int
	Projects    int
	Preferences PreferenceMatrix
	Capacities  CapacityVector
}

// NewProblem builds a Problem whose counts are taken from the data itself
func NewProblem(prefs PreferenceMatrix, caps CapacityVector) Problem {
	return Problem{
		Students:    len(prefs),
		Projects:    len(caps),
		Preferences: prefs,
		Capacities:  caps,
	}
}

// AssignmentMatrix is a solved 0/1 student-by-project matrix.
// It is only produced by Extract and is read-only.
type AssignmentMatrix struct {
	students int
	projects int
	cells    []int8
}

func newAssignmentMatrix(students, projects int) AssignmentMatrix {
	return AssignmentMatrix{
		students: students,
		projects: projects,
		cells:    make([]int8, students*projects),
	}
}

// Students returns the number of rows
func (a AssignmentMatrix) Students() int { return a.students }

// Projects returns the number of columns
func (a AssignmentMatrix) Projects() int { return a.projects }

// At returns 1 if student i is assigned to project j, 0 otherwise
func (a AssignmentMatrix) At(i, j int) int {
	return int(a.cells[i*a.projects+j])
}

// Rows returns a copy of the matrix as nested int slices
func (a AssignmentMatrix) Rows() [][]int {
	rows := make([][]int, a.students)
	for i := range rows {
		rows[i] = make([]int, a.projects)
		for j := range rows[i] {
			rows[i][j] = a.At(i, j)
		}
	}
	return rows
}

// ProjectOf returns the project index student i is assigned to, or -1 if none
func (a AssignmentMatrix) ProjectOf(i int) int {
	for j := 0; j < a.projects; j++ {
		if a.At(i, j) == 1 {
			return j
		}
	}
	return -1
}

// RowSums returns the number of projects each student is assigned to
func (a AssignmentMatrix) RowSums() []int {
	sums := make([]int, a.students)
	for i := range sums {
		for j := 0; j < a.projects; j++ {
			sums[i] += a.At(i, j)
		}
	}
	return sums
}

// ColumnSums returns the number of students each project received
func (a AssignmentMatrix) ColumnSums() []int {
	sums := make([]int, a.projects)
	for i := 0; i < a.students; i++ {
		for j := range sums {
			sums[j] += a.At(i, j)
		}
	}
	return sums
}

// Dense returns a copy of the matrix as a gonum dense matrix
func (a AssignmentMatrix) Dense() *mat.Dense {
	data := make([]float64, len(a.cells))
	for k, v := range a.cells {
		data[k] = float64(v)
	}
	return mat.NewDense(a.students, a.projects, data)
}

// Score returns the total preference value the assignment achieves under prefs
func (a AssignmentMatrix) Score(prefs PreferenceMatrix) int {
	total := 0
	for i := 0; i < a.students; i++ {
		if j := a.ProjectOf(i); j >= 0 {
			total += prefs[i][j]
		}
	}
	return total
}
