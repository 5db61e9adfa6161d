package assignment

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Config contains the collaborators for a call to Assign
type Config struct {
	// Solver to use (defaults to a SimplexSolver)
	Solver Solver

	// Tolerance for rounding and objective comparison (defaults to IntegralityTolerance)
	Tolerance float64

	Logger *zap.Logger
}

// Outcome is the result of a successful Assign
type Outcome struct {
	Assignment AssignmentMatrix
	Objective  float64

	// ProjectOf maps each student index to its assigned project index
	ProjectOf []int

	// Model size, for reporting
	VariableCount   int
	ConstraintCount int
}

// Violation describes a broken invariant in a solved assignment
type Violation struct {
	Student     int // -1 when the violation concerns a project
	Project     int // -1 when the violation concerns a student
	Description string
}

// Assign validates the problem, builds its model, solves it and extracts the assignment.
// Errors are returned unmodified from the stage that detected them.
func Assign(cfg Config, p Problem) (*Outcome, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	solver := cfg.Solver
	if solver == nil {
		solver = NewSimplexSolver(logger)
	}
	tol := cfg.Tolerance
	if tol <= 0 {
		tol = IntegralityTolerance
	}

	logger.Debug("Validating problem",
		zap.Int("students", p.Students),
		zap.Int("projects", p.Projects))
	if err := p.Validate(); err != nil {
		return nil, err
	}

	m := BuildModel(p)
	logger.Debug("Model built",
		zap.Int("variables", len(m.Variables)),
		zap.Int("constraints", len(m.Constraints)))

	raw, err := solver.Solve(m)
	if err != nil {
		return nil, err
	}

	matrix, objective, err := Extract(m, raw, tol)
	if err != nil {
		return nil, err
	}

	if violations := ValidateAssignment(p, matrix); len(violations) > 0 {
		descriptions := make([]string, len(violations))
		for k, v := range violations {
			descriptions[k] = v.Description
		}
		return nil, newError(KindSolverInternal, "solved assignment breaks model invariants: %s", strings.Join(descriptions, "; "))
	}

	logger.Debug("Assignment extracted", zap.Float64("objective", objective))

	projectOf := make([]int, p.Students)
	for i := range projectOf {
		projectOf[i] = matrix.ProjectOf(i)
	}

	return &Outcome{
		Assignment:      matrix,
		Objective:       objective,
		ProjectOf:       projectOf,
		VariableCount:   len(m.Variables),
		ConstraintCount: len(m.Constraints),
	}, nil
}

// ValidateAssignment checks that every student has exactly one project and that no
// project exceeds its capacity. An empty slice means the assignment is valid.
func ValidateAssignment(p Problem, a AssignmentMatrix) []Violation {
	var violations []Violation

	if a.Students() != p.Students || a.Projects() != p.Projects {
		return []Violation{{
			Student:     -1,
			Project:     -1,
			Description: fmt.Sprintf("assignment is %dx%d, expected %dx%d", a.Students(), a.Projects(), p.Students, p.Projects),
		}}
	}

	for i, sum := range a.RowSums() {
		if sum != 1 {
			violations = append(violations, Violation{
				Student:     i,
				Project:     -1,
				Description: fmt.Sprintf("student %d assigned to %d projects", i, sum),
			})
		}
	}

	for j, sum := range a.ColumnSums() {
		if sum > p.Capacities[j] {
			violations = append(violations, Violation{
				Student:     -1,
				Project:     j,
				Description: fmt.Sprintf("project %d has %d students but capacity is %d", j, sum, p.Capacities[j]),
			})
		}
	}

	return violations
}
