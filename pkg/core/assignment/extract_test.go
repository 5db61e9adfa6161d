package assignment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rawFor builds a raw solution with the given student->project picks
func rawFor(m *Model, picks []int, objective float64) *RawSolution {
	values := make([]float64, len(m.Variables))
	for i, j := range picks {
		values[m.Var(i, j)] = 1
	}
	return &RawSolution{Status: StatusOptimal, Values: values, Objective: objective}
}

func TestExtract_ExactValues(t *testing.T) {
	m := BuildModel(scenarioB())

	matrix, objective, err := Extract(m, rawFor(m, []int{2, 1, 0}, 9), IntegralityTolerance)

	require.NoError(t, err)
	assert.Equal(t, 9.0, objective)
	assert.Equal(t, [][]int{{0, 0, 1}, {0, 1, 0}, {1, 0, 0}}, matrix.Rows())
}

func TestExtract_RoundsWithinTolerance(t *testing.T) {
	m := BuildModel(scenarioB())
	raw := rawFor(m, []int{2, 1, 0}, 9.0000000001)
	raw.Values[m.Var(0, 2)] = 0.9999999
	raw.Values[m.Var(0, 0)] = 1e-9
	raw.Values[m.Var(1, 0)] = -1e-9

	matrix, objective, err := Extract(m, raw, IntegralityTolerance)

	require.NoError(t, err)
	assert.Equal(t, 9.0, objective)
	assert.Equal(t, 2, matrix.ProjectOf(0))
	assert.Equal(t, 0, matrix.At(0, 0))
	assert.Equal(t, 0, matrix.At(1, 0))
}

func TestExtract_NonIntegral(t *testing.T) {
	tests := []struct {
		name  string
		value float64
	}{
		{"half", 0.5},
		{"just outside tolerance", 0.99},
		{"rounds to two", 2},
		{"rounds to minus one", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := BuildModel(scenarioB())
			raw := rawFor(m, []int{2, 1, 0}, 9)
			raw.Values[m.Var(0, 2)] = tt.value

			_, _, err := Extract(m, raw, IntegralityTolerance)

			assert.ErrorIs(t, err, ErrNonIntegralSolution)
			assert.Contains(t, err.Error(), "x_0_2")
			assert.True(t, IsSolverFault(err))
		})
	}
}

func TestExtract_ObjectiveMismatch(t *testing.T) {
	m := BuildModel(scenarioB())

	_, _, err := Extract(m, rawFor(m, []int{2, 1, 0}, 8), IntegralityTolerance)

	assert.ErrorIs(t, err, ErrObjectiveMismatch)
	assert.Contains(t, err.Error(), "recomputed objective 9, solver reported 8")
	assert.True(t, IsSolverFault(err))
}

func TestExtract_WrongLength(t *testing.T) {
	m := BuildModel(scenarioB())

	_, _, err := Extract(m, &RawSolution{Status: StatusOptimal, Values: []float64{1, 0}}, IntegralityTolerance)

	assert.ErrorIs(t, err, ErrSolverInternal)
}

func TestExtract_NilOrNonOptimal(t *testing.T) {
	m := BuildModel(scenarioB())

	_, _, err := Extract(m, nil, IntegralityTolerance)
	assert.ErrorIs(t, err, ErrSolverInternal)

	_, _, err = Extract(m, &RawSolution{Status: StatusInfeasible}, IntegralityTolerance)
	assert.ErrorIs(t, err, ErrInfeasible)
}
