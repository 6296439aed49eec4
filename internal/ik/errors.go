package ik

import (
	"errors"
	"fmt"

	"github.com/roach88/simpleik/internal/vecmath"
)

// SolveError represents a degenerate configuration detected by the solver.
//
// Solve errors are pure values: the solver never mutates state before
// returning one, so a caller may keep whatever outputs it already holds.
type SolveError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes solve errors.
type ErrorCode string

const (
	// ErrCodeDegenerateVector indicates a zero-length or non-finite vector
	// where a direction is required.
	ErrCodeDegenerateVector ErrorCode = "DEGENERATE_VECTOR"

	// ErrCodeDegenerateTarget indicates the target coincides with the root.
	ErrCodeDegenerateTarget ErrorCode = "DEGENERATE_TARGET"

	// ErrCodeDegenerateEdge indicates a zero, negative or non-finite bone length.
	ErrCodeDegenerateEdge ErrorCode = "DEGENERATE_EDGE"

	// ErrCodeParallelAimPole indicates the pole vector is parallel to the
	// aim direction, leaving the bend plane undefined.
	ErrCodeParallelAimPole ErrorCode = "PARALLEL_AIM_POLE"
)

// Error implements the error interface.
func (e *SolveError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *SolveError) Unwrap() error {
	return e.Err
}

// CodeOf returns the solve error code carried by err, or "" if err is not
// (and does not wrap) a SolveError.
func CodeOf(err error) ErrorCode {
	var se *SolveError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsDegenerateVector returns true for zero-length direction errors.
// A parallel aim/pole pair is a special case of a degenerate direction
// (the bend-plane normal has zero length), so it matches too.
func IsDegenerateVector(err error) bool {
	switch CodeOf(err) {
	case ErrCodeDegenerateVector, ErrCodeParallelAimPole:
		return true
	}
	var dv *vecmath.DegenerateVectorError
	return errors.As(err, &dv)
}

// IsDegenerateTarget returns true if the target coincided with the root.
func IsDegenerateTarget(err error) bool {
	return CodeOf(err) == ErrCodeDegenerateTarget
}

// IsDegenerateEdge returns true if a bone length was unusable.
func IsDegenerateEdge(err error) bool {
	return CodeOf(err) == ErrCodeDegenerateEdge
}

// IsParallelAimPole returns true if the pole was parallel to the aim direction.
func IsParallelAimPole(err error) bool {
	return CodeOf(err) == ErrCodeParallelAimPole
}

func newDegenerateTargetError() *SolveError {
	return &SolveError{
		Code:    ErrCodeDegenerateTarget,
		Message: "target coincides with chain root",
	}
}

func newDegenerateEdgeError(name string, length float64) *SolveError {
	return &SolveError{
		Code:    ErrCodeDegenerateEdge,
		Message: fmt.Sprintf("edge %s must be a positive finite length (got %g)", name, length),
	}
}

func newDegenerateVectorError(name string, err error) *SolveError {
	return &SolveError{
		Code:    ErrCodeDegenerateVector,
		Message: fmt.Sprintf("%s has no direction", name),
		Err:     err,
	}
}

func newParallelAimPoleError() *SolveError {
	return &SolveError{
		Code:    ErrCodeParallelAimPole,
		Message: "pole vector is parallel to the aim direction, bend plane undefined",
	}
}
