package assignment

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// DefaultSimplexTolerance is the reduced-cost threshold at which the simplex stops
const DefaultSimplexTolerance = 1e-10

// Status is the terminal state reported by a solver backend
type Status int

const (
	StatusOptimal Status = iota
	StatusInfeasible
	StatusUnbounded
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "OPTIMAL"
	case StatusInfeasible:
		return "INFEASIBLE"
	case StatusUnbounded:
		return "UNBOUNDED"
	case StatusError:
		return "ERROR"
	}
	return fmt.Sprintf("STATUS(%d)", int(s))
}

// RawSolution is the unrounded output of a solver for a Model
type RawSolution struct {
	Status Status

	// Values holds one entry per model variable, indexed by Variable.Index
	Values []float64

	// Objective is the solver's own objective value, in the model's sense
	Objective float64
}

// Solver solves a Model to global optimality.
// Implementations return an *Error of KindInfeasible or KindSolverInternal on failure and
// never return a partial solution.
type Solver interface {
	Solve(m *Model) (*RawSolution, error)
}

// SimplexSolver solves the model's linear relaxation with gonum's simplex.
// The assignment and capacity rows form a totally unimodular matrix with integral
// right-hand sides, so the optimal basic solution is already binary.
type SimplexSolver struct {
	Tolerance float64
	Logger    *zap.Logger
}

// NewSimplexSolver returns a SimplexSolver with the default tolerance
func NewSimplexSolver(logger *zap.Logger) *SimplexSolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SimplexSolver{
		Tolerance: DefaultSimplexTolerance,
		Logger:    logger,
	}
}

// Solve runs the simplex on the model's standard form
func (s *SimplexSolver) Solve(m *Model) (raw *RawSolution, err error) {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// gonum panics on malformed input rather than returning an error
	defer func() {
		if r := recover(); r != nil {
			raw = nil
			err = &Error{Kind: KindSolverInternal, Detail: "simplex panicked", Cause: fmt.Errorf("%v", r)}
		}
	}()

	c, a, b := m.StandardForm()
	rows, cols := a.Dims()
	logger.Debug("Running simplex",
		zap.Int("rows", rows),
		zap.Int("columns", cols),
		zap.Float64("tolerance", s.Tolerance))

	optF, optX, lpErr := lp.Simplex(c, a, b, s.Tolerance, nil)
	status := simplexStatus(lpErr)
	logger.Debug("Simplex finished", zap.Stringer("status", status), zap.Float64("opt_f", optF))

	if status != StatusOptimal {
		return nil, statusError(status, lpErr)
	}

	if len(optX) != cols {
		return nil, newError(KindSolverInternal, "simplex returned %d values for %d columns", len(optX), cols)
	}

	objective := optF
	if m.Maximize {
		objective = -optF
	}

	values := make([]float64, len(m.Variables))
	copy(values, optX[:len(m.Variables)])

	return &RawSolution{
		Status:    StatusOptimal,
		Values:    values,
		Objective: objective,
	}, nil
}

// simplexStatus maps a gonum simplex error onto a Status
func simplexStatus(err error) Status {
	switch {
	case err == nil:
		return StatusOptimal
	case errors.Is(err, lp.ErrInfeasible):
		return StatusInfeasible
	case errors.Is(err, lp.ErrUnbounded):
		return StatusUnbounded
	default:
		return StatusError
	}
}

// statusError converts a non-optimal status into the pipeline's typed error
func statusError(status Status, cause error) error {
	if status == StatusInfeasible {
		return &Error{Kind: KindInfeasible, Detail: "no assignment satisfies every constraint", Cause: cause}
	}
	return &Error{Kind: KindSolverInternal, Detail: fmt.Sprintf("solver terminated with status %s", status), Cause: cause}
}
