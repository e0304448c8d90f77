package engine

import (
	"errors"
	"fmt"

	"github.com/spektr-org/gcframe/frame"
)

// ============================================================================
// ERRORS
// ============================================================================
// Every structured error has a sentinel so callers can use errors.Is with
// either the sentinel or a zero value of the type.
// ============================================================================

var (
	ErrInputType        = errors.New("unsupported input type")
	ErrNotGrouped       = errors.New("not grouped")
	ErrTypeMismatch     = errors.New("selector type mismatch")
	ErrInvalidOperation = errors.New("invalid operation")
)

// InputTypeError reports a wrapped value that is neither a table nor a series.
type InputTypeError struct {
	Value any
}

// Error implements the error interface.
func (e *InputTypeError) Error() string {
	return fmt.Sprintf("engine: cannot wrap %T: want *frame.Table or *frame.Series", e.Value)
}

// Is reports whether target is ErrInputType or an *InputTypeError.
func (e *InputTypeError) Is(target error) bool {
	_, ok := target.(*InputTypeError)
	return ok || target == ErrInputType
}

// NotGroupedError reports an operation that needs a grouping on a frame
// still holding a single table.
type NotGroupedError struct {
	Op string
}

// Error implements the error interface.
func (e *NotGroupedError) Error() string {
	return fmt.Sprintf("engine: %s requires a grouping, call GroupBy first", e.Op)
}

// Is reports whether target is ErrNotGrouped or a *NotGroupedError.
func (e *NotGroupedError) Is(target error) bool {
	_, ok := target.(*NotGroupedError)
	return ok || target == ErrNotGrouped
}

// TypeMismatchError reports a selector that neither matches a label of the
// axis nor is an integer position. Kind is set instead when the selector
// resolved but the axis holds labels that cannot be rebased.
type TypeMismatchError struct {
	Selector frame.Label
	Axis     frame.Axis
	Kind     frame.Kind
}

// Error implements the error interface.
func (e *TypeMismatchError) Error() string {
	if e.Kind != frame.KindInvalid {
		return fmt.Sprintf("cannot rebase a %s %s axis on %s: want int, float, duration or time labels",
			e.Kind, e.Axis, frame.FormatLabel(e.Selector))
	}
	return fmt.Sprintf("%s is not a valid %s identifier", frame.FormatLabel(e.Selector), e.Axis)
}

// Is reports whether target is ErrTypeMismatch or a *TypeMismatchError.
func (e *TypeMismatchError) Is(target error) bool {
	_, ok := target.(*TypeMismatchError)
	return ok || target == ErrTypeMismatch
}

// InvalidOperationError reports an operator name outside
// subtract, add, multiply and divide.
type InvalidOperationError struct {
	Operation string
}

// Error implements the error interface.
func (e *InvalidOperationError) Error() string {
	return fmt.Sprintf("engine: invalid operation %q: want subtract, add, multiply or divide", e.Operation)
}

// Is reports whether target is ErrInvalidOperation or an *InvalidOperationError.
func (e *InvalidOperationError) Is(target error) bool {
	_, ok := target.(*InvalidOperationError)
	return ok || target == ErrInvalidOperation
}
