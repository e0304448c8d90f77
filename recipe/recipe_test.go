package recipe

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/gcframe/engine"
	"github.com/spektr-org/gcframe/frame"
	"github.com/spektr-org/gcframe/schema"
)

// ============================================================================
// RECIPE TESTS
// ============================================================================

var sitesCSV = []byte(`date,site,A
2024-01-01,x,1
2024-01-02,x,3
2024-01-01,y,10
2024-01-02,y,14
`)

const sitesRecipe = `
name: sites
groupBy: {column: site, dropKey: true}
steps:
  - op: resetStartingValues
output: {rowField: idx_}
`

func load(t *testing.T, r *Recipe) *engine.Frame {
	t.Helper()
	sch, err := schema.DiscoverFromCSV(sitesCSV)
	require.NoError(t, err)
	f, err := r.Frame(sitesCSV, *sch)
	require.NoError(t, err)
	return f
}

func TestParse(t *testing.T) {
	r, err := Parse([]byte(sitesRecipe))
	require.NoError(t, err)

	assert.Equal(t, "sites", r.Name)
	assert.Equal(t, "site", r.GroupBy.Column)
	assert.True(t, r.GroupBy.DropKey)
	require.Len(t, r.Steps, 1)
	assert.Equal(t, OpResetStartingValues, r.Steps[0].Op)
	require.NotNil(t, r.Output.RowField)
	assert.Equal(t, "idx_", *r.Output.RowField)
}

func TestParseJSON(t *testing.T) {
	r, err := Parse([]byte(`{"name": "j", "groupBy": {"column": "site"}, "steps": [{"op": "divide", "index": 1}]}`))
	require.NoError(t, err)
	assert.Equal(t, 1, r.Steps[0].Index)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown op", "steps: [{op: mod}]", "step 0"},
		{"both selectors", "steps: [{op: add, index: 0, column: A}]", "not both"},
		{"reset index selector", "steps: [{op: resetIndex, index: 0}]", "reference"},
		{"bad multi-index", "concat: {multiIndex: flat}", "multi-index"},
		{"bad axis", "concat: {axis: 2}", "axis"},
		{"bad join", "concat: {join: left}", "join"},
		{"bad output axis", "output: {axis: 5}", "output"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			assert.ErrorContains(t, err, tc.want)
		})
	}

	_, err := Parse([]byte("steps: [{op: mod}]"))
	var inv *engine.InvalidOperationError
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, "mod", inv.Operation)

	_, err = Parse([]byte("name: [unclosed"))
	assert.ErrorContains(t, err, "parse YAML")
}

func TestMultiIndexValues(t *testing.T) {
	for yaml, want := range map[string]engine.MultiIndex{
		"concat: {}":                  engine.MultiIndexHierarchy,
		"concat: {multiIndex: false}": engine.MultiIndexNone,
		"concat: {multiIndex: true}":  engine.MultiIndexHierarchy,
		"concat: {multiIndex: join}":  engine.MultiIndexJoin,
	} {
		r, err := Parse([]byte(yaml))
		require.NoError(t, err, yaml)
		got, err := r.multiIndex()
		require.NoError(t, err)
		assert.Equal(t, want, got, yaml)
	}
}

func TestApplyAndExport(t *testing.T) {
	r, err := Parse([]byte(sitesRecipe))
	require.NoError(t, err)

	f := r.Apply(load(t, r))
	require.NoError(t, f.Err())
	assert.True(t, f.Grouped())
	assert.Equal(t, 2, f.Len(), "drop key plus one operation")

	var buf bytes.Buffer
	require.NoError(t, r.Export(f, &buf))
	assert.JSONEq(t, `{"data": [
		{"A|x": 0, "A|y": 0, "idx_": "2024-01-01T00:00:00"},
		{"A|x": 2, "A|y": 4, "idx_": "2024-01-02T00:00:00"}
	]}`, buf.String())
	assert.Equal(t, 0, f.Len(), "export clears the pipeline")
}

func TestApplyConcatHierarchy(t *testing.T) {
	r, err := Parse([]byte(`
groupBy: {column: site, dropKey: true}
steps:
  - op: divide
    index: "2024-01-02"
`))
	require.NoError(t, err)

	out, err := r.Reassemble(r.Apply(load(t, r)))
	require.NoError(t, err)
	assert.Equal(t, []frame.Label{
		frame.Tuple{Outer: "x", Inner: "A"},
		frame.Tuple{Outer: "y", Inner: "A"},
	}, out.ColumnLabels())

	y, ok := out.ColumnByLabel(frame.Tuple{Outer: "y", Inner: "A"})
	require.True(t, ok)
	assert.Equal(t, []float64{10.0 / 14.0, 1}, y.Numbers(), "text reference matched against the time index")
}

func TestApplyColumnSelectorAndRows(t *testing.T) {
	data := []byte("t,g,A,B\n1,p,2,1\n2,p,4,2\n1,q,9,3\n")
	sch, err := schema.DiscoverFromCSV(data)
	require.NoError(t, err)

	r, err := Parse([]byte(`
index: t
groupBy: {column: g, dropKey: true, sort: true}
steps:
  - {op: divide, column: B}
concat: {multiIndex: join, sep: "/", axis: 0}
`))
	require.NoError(t, err)

	f, err := r.Frame(data, *sch)
	require.NoError(t, err)
	out, err := r.Reassemble(r.Apply(f))
	require.NoError(t, err)

	assert.Equal(t, []frame.Label{"1/p", "2/p", "1/q"}, out.Index().Labels())
	a, _ := out.ColumnByLabel("A")
	assert.Equal(t, []float64{2, 2, 3}, a.Numbers())
}

func TestApplyResetIndex(t *testing.T) {
	r, err := Parse([]byte(`
groupBy: {column: site, dropKey: true}
steps:
  - {op: resetIndex, reference: "2024-01-02", keepDurations: true}
concat: {multiIndex: none}
`))
	require.NoError(t, err)

	out, err := r.Reassemble(r.Apply(load(t, r)))
	require.NoError(t, err)
	assert.Equal(t, []frame.Label{-24 * time.Hour, time.Duration(0)}, out.Index().Labels())
}

func TestApplySeriesRename(t *testing.T) {
	r, err := Parse([]byte(`
value: A
rename: Load
`))
	require.NoError(t, err)

	f := r.Apply(load(t, r))
	require.NoError(t, f.Err())
	assert.Equal(t, []frame.Label{"Load"}, f.Table().ColumnLabels())
}

func TestApplySeriesGroupByAndExport(t *testing.T) {
	r, err := Parse([]byte(`
value: A
groupBy: {column: site}
steps:
  - op: subtract
`))
	require.NoError(t, err)

	f := r.Apply(load(t, r))
	require.NoError(t, f.Err())
	assert.True(t, f.Grouped())

	var buf bytes.Buffer
	require.NoError(t, r.Export(f, &buf))
	assert.JSONEq(t, `{"data": [
		{"Value|x": 0, "Value|y": 0, "idx_": "2024-01-01T00:00:00"},
		{"Value|x": 2, "Value|y": 4, "idx_": "2024-01-02T00:00:00"}
	]}`, buf.String())

	r.Rename = "Load"
	out, err := r.Reassemble(r.Apply(load(t, r)))
	require.NoError(t, err)
	assert.Equal(t, []frame.Label{
		frame.Tuple{Outer: "x", Inner: "Load"},
		frame.Tuple{Outer: "y", Inner: "Load"},
	}, out.ColumnLabels())
}

func TestFrameFilter(t *testing.T) {
	r, err := Parse([]byte(`
filter: {site: [Y]}
groupBy: {column: site, dropKey: true}
`))
	require.NoError(t, err)

	out, err := r.Reassemble(r.Apply(load(t, r)))
	require.NoError(t, err)
	assert.Equal(t, []frame.Label{frame.Tuple{Outer: "y", Inner: "A"}}, out.ColumnLabels())

	_, err = Parse([]byte("value: A\nfilter: {site: [x]}"))
	assert.ErrorContains(t, err, "filter")
}

func TestApplyErrorsAreSticky(t *testing.T) {
	r := &Recipe{GroupBy: GroupSpec{Column: "nope"}}
	f := r.Apply(load(t, r))
	assert.ErrorIs(t, f.Err(), frame.ErrColumnNotFound)

	_, err := r.Reassemble(f)
	assert.ErrorIs(t, err, frame.ErrColumnNotFound)
}

func TestApplyInvalidOpRecordedOnFrame(t *testing.T) {
	r := &Recipe{GroupBy: GroupSpec{Column: "site"}, Steps: []StepSpec{{Op: "mod"}}}
	f := r.Apply(load(t, r))
	assert.ErrorIs(t, f.Err(), engine.ErrInvalidOperation)
}

func TestLoadAndExportFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.json")
	path := filepath.Join(dir, "recipe.yaml")
	body := "groupBy: {column: site, dropKey: true}\noutput:\n  file: \"" + out + "\"\n  sep: \"#\"\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	r, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, r.ExportFile(r.Apply(load(t, r))))

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data": [
		{"A#x": 1, "A#y": 10, "idx_": "2024-01-01T00:00:00"},
		{"A#x": 3, "A#y": 14, "idx_": "2024-01-02T00:00:00"}
	]}`, string(got))

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
