package assignment

import (
	"errors"
	"fmt"
)

// Kind classifies a failure of the assignment pipeline
type Kind int

const (
	KindShapeMismatch Kind = iota + 1
	KindInsufficientCapacity
	KindNegativeValue
	KindInfeasible
	KindNonIntegralSolution
	KindObjectiveMismatch
	KindSolverInternal
)

// Sentinel errors, one per Kind. Use errors.Is to match an *Error against them.
var (
	ErrShapeMismatch        = errors.New("shape mismatch")
	ErrInsufficientCapacity = errors.New("insufficient capacity")
	ErrNegativeValue        = errors.New("negative value")
	ErrInfeasible           = errors.New("problem is infeasible")
	ErrNonIntegralSolution  = errors.New("solution is not integral")
	ErrObjectiveMismatch    = errors.New("objective mismatch")
	ErrSolverInternal       = errors.New("solver internal error")
)

var kindSentinels = map[Kind]error{
	KindShapeMismatch:        ErrShapeMismatch,
	KindInsufficientCapacity: ErrInsufficientCapacity,
	KindNegativeValue:        ErrNegativeValue,
	KindInfeasible:           ErrInfeasible,
	KindNonIntegralSolution:  ErrNonIntegralSolution,
	KindObjectiveMismatch:    ErrObjectiveMismatch,
	KindSolverInternal:       ErrSolverInternal,
}

func (k Kind) String() string {
	if s, ok := kindSentinels[k]; ok {
		return s.Error()
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the typed failure returned by every stage of the pipeline
type Error struct {
	Kind   Kind
	Detail string
	// Cause is the underlying backend error, if any
	Cause error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Is reports whether target is the sentinel for this error's Kind
func (e *Error) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// IsDataError reports whether err was caused by the input data.
// The caller should fix the input rather than retry.
func IsDataError(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	switch e.Kind {
	case KindShapeMismatch, KindInsufficientCapacity, KindNegativeValue, KindInfeasible:
		return true
	}
	return false
}

// IsSolverFault reports whether err is a violation of the solver contract
func IsSolverFault(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	switch e.Kind {
	case KindNonIntegralSolution, KindObjectiveMismatch, KindSolverInternal:
		return true
	}
	return false
}
