package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/gcframe/frame"
)

// ============================================================================
// OPERATOR TESTS
// ============================================================================

// sample: index [10 20 30], A [2 4 8], note [x y z], B [1 5 10]
func sample(t *testing.T) *frame.Table {
	t.Helper()
	tbl, err := frame.New(frame.IntIndex([]int{10, 20, 30}),
		frame.NewNumber("A", []float64{2, 4, 8}),
		frame.NewText("note", []string{"x", "y", "z"}),
		frame.NewNumber("B", []float64{1, 5, 10}),
	)
	require.NoError(t, err)
	return tbl
}

func numbers(t *testing.T, tbl *frame.Table, label string) []float64 {
	t.Helper()
	c, ok := tbl.ColumnByLabel(label)
	require.True(t, ok, "column %s", label)
	return c.Numbers()
}

func TestApplySubtractReferenceRowBecomesZero(t *testing.T) {
	for _, ref := range []frame.Label{0, 1, 2, 10, 30} {
		tbl, err := Apply(sample(t), Row(ref), OpSubtract)
		require.NoError(t, err)

		pos, _ := Resolve(ref, tbl.Index().Labels(), frame.AxisRows)
		for _, c := range tbl.NumericColumns() {
			assert.Equal(t, 0.0, c.Float(pos), "ref %v column %v", ref, c.Label())
		}
	}
}

func TestApplyRowOperations(t *testing.T) {
	tests := []struct {
		op    Operation
		wantA []float64
		wantB []float64
	}{
		{OpSubtract, []float64{0, 2, 6}, []float64{0, 4, 9}},
		{OpAdd, []float64{4, 6, 10}, []float64{2, 6, 11}},
		{OpMultiply, []float64{4, 8, 16}, []float64{1, 5, 10}},
		{OpDivide, []float64{1, 2, 4}, []float64{1, 5, 10}},
	}
	for _, tc := range tests {
		t.Run(string(tc.op), func(t *testing.T) {
			tbl, err := Apply(sample(t), Row(0), tc.op)
			require.NoError(t, err)
			assert.Equal(t, tc.wantA, numbers(t, tbl, "A"))
			assert.Equal(t, tc.wantB, numbers(t, tbl, "B"))

			note, _ := tbl.ColumnByLabel("note")
			assert.Equal(t, "y", note.Text(1), "text columns pass through")
		})
	}
}

func TestApplyByRowLabel(t *testing.T) {
	tbl, err := Apply(sample(t), Row(20), OpSubtract)
	require.NoError(t, err)
	assert.Equal(t, []float64{-2, 0, 4}, numbers(t, tbl, "A"))
}

func TestApplyOnesRowLeavesValues(t *testing.T) {
	tbl, err := frame.New(nil,
		frame.NewNumber("A", []float64{1, 3, -7}),
		frame.NewNumber("B", []float64{1, 0.5, 9}),
	)
	require.NoError(t, err)

	for _, op := range []Operation{OpMultiply, OpDivide} {
		out, err := Apply(tbl.Clone(), Row(0), op)
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 3, -7}, numbers(t, out, "A"))
		assert.Equal(t, []float64{1, 0.5, 9}, numbers(t, out, "B"))
	}
}

func TestApplyDivideByZero(t *testing.T) {
	tbl, err := frame.New(nil, frame.NewNumber("A", []float64{0, 3, 0}))
	require.NoError(t, err)

	out, err := Apply(tbl, Row(0), OpDivide)
	require.NoError(t, err)
	vals := numbers(t, out, "A")
	assert.True(t, math.IsNaN(vals[0]))
	assert.True(t, math.IsInf(vals[1], 1))
	assert.True(t, math.IsNaN(vals[2]))
}

func TestApplyByColumn(t *testing.T) {
	tbl, err := Apply(sample(t), Col("B"), OpSubtract)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, -1, -2}, numbers(t, tbl, "A"))
	assert.Equal(t, []float64{0, 0, 0}, numbers(t, tbl, "B"))
}

func TestApplyByColumnPositionCountsNumericOnly(t *testing.T) {
	// position 1 among numeric columns is B, the text column is skipped
	tbl, err := Apply(sample(t), Col(1), OpDivide)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 0.8, 0.8}, numbers(t, tbl, "A"))
	assert.Equal(t, []float64{1, 1, 1}, numbers(t, tbl, "B"))
}

func TestApplyTextColumnIsNotAReference(t *testing.T) {
	_, err := Apply(sample(t), Col("note"), OpSubtract)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestApplyInvalidOperationLeavesData(t *testing.T) {
	tbl := sample(t)
	_, err := Apply(tbl, Row(0), Operation("mod"))

	var inv *InvalidOperationError
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, "mod", inv.Operation)
	assert.ErrorIs(t, err, ErrInvalidOperation)
	assert.Equal(t, []float64{2, 4, 8}, numbers(t, tbl, "A"))
}

func TestApplyOutOfRange(t *testing.T) {
	_, err := Apply(sample(t), Row(9), OpAdd)
	assert.ErrorIs(t, err, frame.ErrOutOfRange)

	_, err = Apply(sample(t), Col(2), OpAdd)
	var ie *frame.IndexError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, frame.AxisColumns, ie.Axis)
}

func TestParseOperation(t *testing.T) {
	op, err := ParseOperation(" Divide ")
	require.NoError(t, err)
	assert.Equal(t, OpDivide, op)

	_, err = ParseOperation("mod")
	assert.ErrorIs(t, err, ErrInvalidOperation)
}
