package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/gcframe/frame"
)

// ============================================================================
// FILTER TESTS
// ============================================================================

func TestFilterRows(t *testing.T) {
	tbl, err := frame.New(frame.IntIndex([]int{1, 2, 3, 4}),
		frame.NewText("site", []string{"North", "south", "north", ""}),
		frame.NewNumber("kind", []float64{1, 2, 2, 2}),
	)
	require.NoError(t, err)

	out, err := FilterRows(tbl, Filters{"site": {"NORTH", "south"}})
	require.NoError(t, err)
	assert.Equal(t, []frame.Label{1, 2, 3}, out.Index().Labels(), "case-insensitive, missing cells fail")

	out, err = FilterRows(tbl, Filters{"site": {"north"}, "kind": {"2"}})
	require.NoError(t, err)
	assert.Equal(t, []frame.Label{3}, out.Index().Labels(), "columns are AND-combined")

	out, err = FilterRows(tbl, Filters{"kind": {"1.0", "x"}})
	require.NoError(t, err)
	assert.Equal(t, []frame.Label{1}, out.Index().Labels(), "numbers match by value")
}

func TestFilterRowsEmptyAndUnknown(t *testing.T) {
	tbl := sample(t)

	out, err := FilterRows(tbl, Filters{"note": nil})
	require.NoError(t, err)
	assert.Same(t, tbl, out)

	_, err = FilterRows(tbl, Filters{"nope": {"x"}})
	assert.ErrorIs(t, err, frame.ErrColumnNotFound)
}
