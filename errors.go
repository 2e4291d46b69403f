package fvec

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the adapter, the vector type and the
// statistic invocation matches exactly one of these via errors.Is.
var (
	// ErrType indicates an input that is neither a Vector nor an Array, an
	// Array whose elements are not floating point, or a released vector.
	ErrType = errors.New("type error")
	// ErrShape indicates an Array with unsupported dimensionality.
	ErrShape = errors.New("shape error")
	// ErrConversion indicates a failed cast to float32.
	ErrConversion = errors.New("conversion error")
	// ErrIndex indicates an out-of-range channel or sample access.
	ErrIndex = errors.New("index error")
	// ErrAllocation indicates an invalid size or an exhausted memory budget.
	ErrAllocation = errors.New("allocation error")
)

// TypeError reports an input of the wrong kind.
type TypeError struct {
	Msg string
}

func (e *TypeError) Error() string { return "fvec: " + e.Msg }

// Is reports whether target is ErrType.
func (e *TypeError) Is(target error) bool { return target == ErrType }

// ShapeError reports an Array with unsupported dimensionality.
type ShapeError struct {
	Msg   string
	Shape []int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("fvec: %s (shape %v)", e.Msg, e.Shape)
}

// Is reports whether target is ErrShape.
func (e *ShapeError) Is(target error) bool { return target == ErrShape }

// ConversionError reports a failed dtype cast.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ConversionError struct {
	From  DType
	To    DType
	cause error
}

func (e *ConversionError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("fvec: failed converting %s to %s: %v", e.From, e.To, e.cause)
	}
	return fmt.Sprintf("fvec: failed converting %s to %s", e.From, e.To)
}

// Is reports whether target is ErrConversion.
func (e *ConversionError) Is(target error) bool { return target == ErrConversion }

func (e *ConversionError) Unwrap() error { return e.cause }

// IndexError reports an out-of-range access.
type IndexError struct {
	What  string
	Index int
	Limit int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("fvec: %s index %d out of range [0, %d)", e.What, e.Index, e.Limit)
}

// Is reports whether target is ErrIndex.
func (e *IndexError) Is(target error) bool { return target == ErrIndex }

// AllocationError reports a failed allocation.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type AllocationError struct {
	Length   int
	Channels int
	Msg      string
	cause    error
}

func (e *AllocationError) Error() string {
	msg := "fvec: cannot allocate: " + e.Msg
	if e.Length != 0 || e.Channels != 0 {
		msg = fmt.Sprintf("fvec: cannot allocate %d channels of length %d: %s", e.Channels, e.Length, e.Msg)
	}
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

// Is reports whether target is ErrAllocation.
func (e *AllocationError) Is(target error) bool { return target == ErrAllocation }

func (e *AllocationError) Unwrap() error { return e.cause }

// KindOf returns the name of the error kind err belongs to, or "" if err is
// nil or not produced by this package.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrType):
		return "TypeError"
	case errors.Is(err, ErrShape):
		return "ShapeError"
	case errors.Is(err, ErrConversion):
		return "ConversionError"
	case errors.Is(err, ErrIndex):
		return "IndexError"
	case errors.Is(err, ErrAllocation):
		return "AllocationError"
	default:
		return ""
	}
}
