package assignment

import (
	"math"
)

// Extract rounds a raw solution into an AssignmentMatrix and recomputes its objective.
//
// Each value must lie within tol of 0 or 1. The recomputed objective must agree with the
// solver's reported objective within tol, scaled by the objective's magnitude.
func Extract(m *Model, raw *RawSolution, tol float64) (AssignmentMatrix, float64, error) {
	if raw == nil {
		return AssignmentMatrix{}, 0, newError(KindSolverInternal, "no solution to extract")
	}
	if raw.Status != StatusOptimal {
		return AssignmentMatrix{}, 0, statusError(raw.Status, nil)
	}
	if len(raw.Values) != len(m.Variables) {
		return AssignmentMatrix{}, 0, newError(KindSolverInternal, "solution has %d values for %d variables", len(raw.Values), len(m.Variables))
	}

	result := newAssignmentMatrix(m.Students, m.Projects)
	rounded := make([]float64, len(raw.Values))
	for _, v := range m.Variables {
		value := raw.Values[v.Index]
		r := math.Round(value)
		if math.IsNaN(value) || math.Abs(value-r) > tol || (r != 0 && r != 1) {
			return AssignmentMatrix{}, 0, newError(KindNonIntegralSolution, "%s = %g", v.Name(), value)
		}
		rounded[v.Index] = r
		result.cells[v.Student*m.Projects+v.Project] = int8(r)
	}

	objective := m.ObjectiveValue(rounded)
	if math.Abs(objective-raw.Objective) > tol*math.Max(1, math.Abs(objective)) {
		return AssignmentMatrix{}, 0, newError(KindObjectiveMismatch, "recomputed objective %g, solver reported %g", objective, raw.Objective)
	}

	return result, objective, nil
}
