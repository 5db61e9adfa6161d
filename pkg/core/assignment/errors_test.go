package assignment

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesOnlyItsKind(t *testing.T) {
	err := newError(KindInsufficientCapacity, "total capacity %d is less than %d students", 3, 4)

	assert.ErrorIs(t, err, ErrInsufficientCapacity)
	assert.NotErrorIs(t, err, ErrShapeMismatch)
	assert.NotErrorIs(t, err, ErrInfeasible)
	assert.Equal(t, "insufficient capacity: total capacity 3 is less than 4 students", err.Error())
}

func TestError_SurvivesWrapping(t *testing.T) {
	cause := errors.New("backend said no")
	err := fmt.Errorf("failed to solve: %w", &Error{Kind: KindInfeasible, Cause: cause})

	assert.ErrorIs(t, err, ErrInfeasible)
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsDataError(err))
	assert.False(t, IsSolverFault(err))
	assert.Equal(t, "failed to solve: problem is infeasible: backend said no", err.Error())
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		kind   Kind
		data   bool
		solver bool
	}{
		{KindShapeMismatch, true, false},
		{KindInsufficientCapacity, true, false},
		{KindNegativeValue, true, false},
		{KindInfeasible, true, false},
		{KindNonIntegralSolution, false, true},
		{KindObjectiveMismatch, false, true},
		{KindSolverInternal, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			err := &Error{Kind: tt.kind}
			assert.Equal(t, tt.data, IsDataError(err))
			assert.Equal(t, tt.solver, IsSolverFault(err))
		})
	}

	plain := errors.New("not ours")
	assert.False(t, IsDataError(plain))
	assert.False(t, IsSolverFault(plain))
}

func TestKind_StringUnknown(t *testing.T) {
	assert.Equal(t, "kind(99)", Kind(99).String())
}
