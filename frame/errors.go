package frame

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by table construction, grouping and concatenation.
var (
	ErrOutOfRange       = errors.New("position out of range")
	ErrLengthMismatch   = errors.New("length mismatch")
	ErrDuplicateLabel   = errors.New("duplicate label")
	ErrColumnNotFound   = errors.New("column not found")
	ErrNoTables         = errors.New("no tables to concatenate")
	ErrUnsupportedLabel = errors.New("unsupported label type")
)

// IndexError reports a position outside an axis.
type IndexError struct {
	Axis     Axis
	Position int
	Len      int
}

// Error implements the error interface.
func (e *IndexError) Error() string {
	return fmt.Sprintf("frame: %s position %d is out of range [0..%d)", e.Axis, e.Position, e.Len)
}

// Is reports whether target is ErrOutOfRange or another IndexError.
func (e *IndexError) Is(target error) bool {
	if target == ErrOutOfRange {
		return true
	}
	_, ok := target.(*IndexError)
	return ok
}

// CheckPosition returns an *IndexError when pos is not in [0, n).
func CheckPosition(axis Axis, pos, n int) error {
	if pos < 0 || pos >= n {
		return &IndexError{Axis: axis, Position: pos, Len: n}
	}
	return nil
}
