package helpers

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/gcframe/frame"
	"github.com/spektr-org/gcframe/schema"
)

// ============================================================================
// CSV HELPER TESTS
// ============================================================================

var loadCSV = []byte(`Date,Site,Load,Note
2024-01-01,A,1.5,ok
2024-01-02,A,2,
2024-01-01,B,N/A,x
2024-01-02,B,"4",y
`)

func day(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

func TestParseCSVAuto(t *testing.T) {
	tbl, sch, err := ParseCSVAuto(loadCSV)
	require.NoError(t, err)
	assert.Equal(t, "Date", sch.Index)

	assert.True(t, tbl.Index().IsTime())
	assert.Equal(t, []frame.Label{day(1), day(2), day(1), day(2)}, tbl.Index().Labels())
	assert.Equal(t, []frame.Label{"Site", "Load", "Note"}, tbl.ColumnLabels())

	load, ok := tbl.ColumnByLabel("Load")
	require.True(t, ok)
	assert.True(t, load.IsNumeric())
	vals := load.Numbers()
	assert.Equal(t, 1.5, vals[0])
	assert.Equal(t, 2.0, vals[1])
	assert.True(t, math.IsNaN(vals[2]), "null cells are missing")
	assert.Equal(t, 4.0, vals[3])

	note, _ := tbl.ColumnByLabel("Note")
	assert.Equal(t, "", note.Text(1))
	assert.Equal(t, "y", note.Text(3))
}

func TestParseCSVSelectedColumns(t *testing.T) {
	sch, err := schema.DiscoverFromCSV(loadCSV)
	require.NoError(t, err)

	tbl, err := ParseCSV(loadCSV, *sch, CSVOptions{
		IndexColumn: NoIndex,
		Columns:     []string{"load", "Site"},
	})
	require.NoError(t, err)
	assert.Equal(t, []frame.Label{0, 1, 2, 3}, tbl.Index().Labels())
	assert.Equal(t, []frame.Label{"Load", "Site"}, tbl.ColumnLabels())
}

func TestParseCSVIntegerIndex(t *testing.T) {
	data := []byte("step,v\n1,10\n2,20\n4,40\n")
	sch, err := schema.DiscoverFromCSV(data)
	require.NoError(t, err)
	assert.Empty(t, sch.Index, "no time column to suggest")

	tbl, err := ParseCSV(data, *sch, CSVOptions{IndexColumn: "step"})
	require.NoError(t, err)
	assert.Equal(t, frame.KindInt, tbl.Index().Kind())
	assert.Equal(t, []frame.Label{1, 2, 4}, tbl.Index().Labels())
	assert.Equal(t, []frame.Label{"v"}, tbl.ColumnLabels())

	data = []byte("x,v\n0.5,1\n1.5,2\n")
	sch, err = schema.DiscoverFromCSV(data)
	require.NoError(t, err)
	tbl, err = ParseCSV(data, *sch, CSVOptions{IndexColumn: "x"})
	require.NoError(t, err)
	assert.Equal(t, []frame.Label{0.5, 1.5}, tbl.Index().Labels())
}

func TestParseCSVHandWrittenSchema(t *testing.T) {
	sch := schema.Config{
		Index: "When",
		Columns: []schema.ColumnMeta{
			{Header: "When", Key: "when", Kind: schema.KindTime, Role: schema.RoleIndex},
			{Header: "Reading", Key: "reading", Kind: schema.KindNumber, Role: schema.RoleValue},
		},
	}
	data := []byte("When,Reading,Extra\n2024-01-01 06:00:00,3,z\nnot a time,4,z\n")

	tbl, err := ParseCSV(data, sch, CSVOptions{})
	require.NoError(t, err)
	assert.Equal(t, []frame.Label{"Reading"}, tbl.ColumnLabels(), "columns outside the schema are dropped")
	assert.Equal(t, time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC), tbl.Index().At(0))
	assert.True(t, tbl.Index().At(1).(time.Time).IsZero(), "unparseable times are missing")
}

func TestParseSeries(t *testing.T) {
	sch, err := schema.DiscoverFromCSV(loadCSV)
	require.NoError(t, err)

	s, err := ParseSeries(loadCSV, *sch, "Load", CSVOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Load", s.Name())
	assert.Equal(t, 4, s.Len())
	assert.True(t, s.Index().IsTime())
}

func TestParseKeys(t *testing.T) {
	sch, err := schema.DiscoverFromCSV(loadCSV)
	require.NoError(t, err)

	keys, err := ParseKeys(loadCSV, *sch, "Site", CSVOptions{})
	require.NoError(t, err)
	assert.Equal(t, frame.ByKeys{"A", "A", "B", "B"}, keys)

	keys, err = ParseKeys(loadCSV, *sch, "Note", CSVOptions{})
	require.NoError(t, err)
	assert.Equal(t, frame.ByKeys{"ok", nil, "x", "y"}, keys, "empty cells give nil keys")

	_, err = ParseKeys(loadCSV, *sch, "nope", CSVOptions{})
	assert.ErrorContains(t, err, "not in the schema")
}

func TestParseCSVErrors(t *testing.T) {
	sch, err := schema.DiscoverFromCSV(loadCSV)
	require.NoError(t, err)

	_, err = ParseCSV(loadCSV, *sch, CSVOptions{IndexColumn: "missing"})
	assert.ErrorContains(t, err, "not in the schema")

	_, err = ParseSeries(loadCSV, *sch, "nope", CSVOptions{})
	assert.Error(t, err)

	_, err = ParseCSV(nil, *sch, CSVOptions{})
	assert.ErrorContains(t, err, "headers")

	other := schema.Config{Columns: []schema.ColumnMeta{{Header: "Gone", Key: "gone", Kind: schema.KindText}}}
	_, err = ParseCSV(loadCSV, other, CSVOptions{Columns: []string{"gone"}})
	assert.ErrorContains(t, err, "not in the CSV")
}
