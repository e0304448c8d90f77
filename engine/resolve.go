package engine

import (
	"github.com/spektr-org/gcframe/frame"
)

// ============================================================================
// AXIS RESOLVER — Selector → position
// ============================================================================
// A selector resolves by label only when it has the same concrete type as
// the first label of the axis. Without that check an integer offset could
// match a time label through loose equality. Integers that do not resolve
// by label are positions. Positions are not range-checked here.
// ============================================================================

// Resolve maps selector onto a position along axis. on names the axis in
// the error message.
func Resolve(selector frame.Label, axis []frame.Label, on frame.Axis) (int, error) {
	selector = frame.NormalizeLabel(selector)
	if len(axis) > 0 && frame.SameType(selector, axis[0]) {
		for i, l := range axis {
			if frame.Equal(l, selector) {
				return i, nil
			}
		}
	}
	if !frame.IsInteger(selector) {
		return 0, &TypeMismatchError{Selector: selector, Axis: on}
	}
	return selector.(int), nil
}
