package engine

import (
	"github.com/spektr-org/gcframe/frame"
)

// ============================================================================
// ROW/COLUMN OPERATOR
// ============================================================================
// Only numeric columns take part. Text and time columns pass through.
//   Row(sel):  every numeric cell c[i] becomes c[i] op c[ref]
//   Col(sel):  every numeric cell c[i] becomes c[i] op ref[i], where ref is
//              the numeric column at the resolved position
// The reference vector is read before any cell changes.
// ============================================================================

// Apply runs op against the reference selected by sel. The table is
// modified in place and returned.
func Apply(t *frame.Table, sel Selector, op Operation) (*frame.Table, error) {
	if !op.Valid() {
		return nil, &InvalidOperationError{Operation: string(op)}
	}

	numeric := t.NumericColumns()

	switch sel.Axis {
	case frame.AxisColumns:
		labels := make([]frame.Label, len(numeric))
		for i, c := range numeric {
			labels[i] = c.Label()
		}
		pos, err := Resolve(sel.Label, labels, frame.AxisColumns)
		if err != nil {
			return nil, err
		}
		if err := frame.CheckPosition(frame.AxisColumns, pos, len(numeric)); err != nil {
			return nil, err
		}
		ref := numeric[pos].Numbers()
		for _, c := range numeric {
			c.MapNumbers(func(i int, v float64) float64 { return op.apply(v, ref[i]) })
		}

	default:
		pos, err := Resolve(sel.Label, t.Index().Labels(), frame.AxisRows)
		if err != nil {
			return nil, err
		}
		if err := frame.CheckPosition(frame.AxisRows, pos, t.NumRows()); err != nil {
			return nil, err
		}
		for _, c := range numeric {
			ref := c.Float(pos)
			c.MapNumbers(func(_ int, v float64) float64 { return op.apply(v, ref) })
		}
	}
	return t, nil
}

// Operator returns a Step that applies op against sel.
func Operator(sel Selector, op Operation) Step {
	return func(t *frame.Table) (*frame.Table, error) {
		return Apply(t, sel, op)
	}
}
