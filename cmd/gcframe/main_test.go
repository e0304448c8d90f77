package main

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// ============================================================================
// CLI TESTS
// ============================================================================

const sitesCSV = `date,site,A
2024-01-01,x,1
2024-01-02,x,3
2024-01-01,y,10
2024-01-02,y,14
`

const sitesRecipe = `name: sites
groupBy: {column: site, dropKey: true}
steps:
  - op: resetStartingValues
`

func setup(t *testing.T) (options, *observer.ObservedLogs, *zap.Logger) {
	t.Helper()
	dir := t.TempDir()
	data := filepath.Join(dir, "data.csv")
	rec := filepath.Join(dir, "recipe.yaml")
	require.NoError(t, os.WriteFile(data, []byte(sitesCSV), 0o600))
	require.NoError(t, os.WriteFile(rec, []byte(sitesRecipe), 0o600))

	core, logs := observer.New(zap.InfoLevel)
	return options{file: data, recipe: rec, format: "json"}, logs, zap.New(core)
}

func TestRunJSONToStdout(t *testing.T) {
	opts, logs, logger := setup(t)

	var out bytes.Buffer
	require.NoError(t, run(opts, &out, logger))
	assert.JSONEq(t, `{"data": [
		{"A|x": 0, "A|y": 0, "idx_": "2024-01-01T00:00:00"},
		{"A|x": 2, "A|y": 4, "idx_": "2024-01-02T00:00:00"}
	]}`, out.String())

	assert.Equal(t, 1, logs.FilterMessage("discovered schema").Len())
	assert.Equal(t, 1, logs.FilterMessage("applied recipe").Len())
}

func TestRunJSONToFile(t *testing.T) {
	opts, logs, logger := setup(t)
	opts.out = filepath.Join(t.TempDir(), "out.json")

	var stdout bytes.Buffer
	require.NoError(t, run(opts, &stdout, logger))
	assert.Empty(t, stdout.String())

	got, err := os.ReadFile(opts.out)
	require.NoError(t, err)
	assert.Contains(t, string(got), `"A|y":4`)
	assert.Equal(t, 1, logs.FilterMessage("exported records").Len())
}

func TestRunPretty(t *testing.T) {
	opts, _, logger := setup(t)
	opts.format = "pretty"

	var out bytes.Buffer
	require.NoError(t, run(opts, &out, logger))
	assert.True(t, strings.HasPrefix(out.String(), "{\n  \"data\": ["))
}

func TestRunText(t *testing.T) {
	opts, _, logger := setup(t)
	opts.format = "text"

	var out bytes.Buffer
	require.NoError(t, run(opts, &out, logger))
	assert.Contains(t, out.String(), "(x, A)")
	assert.Contains(t, out.String(), "[2 rows x 2 columns]")
}

func TestRunCSV(t *testing.T) {
	opts, _, logger := setup(t)
	opts.format = "csv"

	var out bytes.Buffer
	require.NoError(t, run(opts, &out, logger))
	assert.Equal(t, "A|x,A|y,idx_\n0,0,2024-01-01T00:00:00\n2,4,2024-01-02T00:00:00\n", out.String())
}

func TestRunDiscover(t *testing.T) {
	opts, _, logger := setup(t)
	opts.discover = true
	opts.recipe = ""

	var out bytes.Buffer
	require.NoError(t, run(opts, &out, logger))
	assert.Contains(t, out.String(), `"index":"date"`)
}

func TestRunErrors(t *testing.T) {
	opts, _, logger := setup(t)

	bad := opts
	bad.file = filepath.Join(t.TempDir(), "missing.csv")
	assert.ErrorContains(t, run(bad, &bytes.Buffer{}, logger), "failed to read file")

	bad = opts
	bad.format = "xml"
	assert.ErrorContains(t, run(bad, &bytes.Buffer{}, logger), "unknown format")

	bad = opts
	bad.schema = filepath.Join(t.TempDir(), "missing.json")
	assert.ErrorContains(t, run(bad, &bytes.Buffer{}, logger), "schema")
}

func TestFmtNum(t *testing.T) {
	assert.Equal(t, "3", fmtNum(3))
	assert.Equal(t, "-0.25", fmtNum(-0.25))
	assert.Equal(t, "", fmtNum(math.NaN()))
}
