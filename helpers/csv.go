package helpers

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/spektr-org/gcframe/frame"
	"github.com/spektr-org/gcframe/schema"
)

// ============================================================================
// CSV HELPER — Parses CSV data into frame tables and series
// ============================================================================
// Consumer reads the CSV from wherever it lives (file, S3, Sheets).
// This helper converts the raw bytes into a *frame.Table using the schema:
// the index column becomes the row index, the other kept columns become
// number, time or text columns labeled by their CSV header.
// ============================================================================

// CSVOptions selects what ParseCSV keeps.
type CSVOptions struct {
	// IndexColumn names the index column by header or key. Empty uses the
	// schema's suggested index; "-" forces a positional index.
	IndexColumn string

	// Columns restricts the table to these columns, in this order. Empty
	// keeps every column whose role is not skip.
	Columns []string
}

// NoIndex as IndexColumn numbers the rows 0..n-1.
const NoIndex = "-"

type colMapping struct {
	pos  int
	meta schema.ColumnMeta
}

// ParseCSV parses CSV bytes into a table using sch for classification.
// Cells that are null or fail to parse become missing values.
func ParseCSV(data []byte, sch schema.Config, opts CSVOptions) (*frame.Table, error) {
	headers, rows, err := readCSV(data)
	if err != nil {
		return nil, err
	}

	byHeader := make(map[string]int, len(headers))
	for i, h := range headers {
		byHeader[strings.TrimSpace(h)] = i
	}
	lookup := func(name string) (colMapping, error) {
		meta, ok := sch.Column(name)
		if !ok {
			return colMapping{}, fmt.Errorf("helpers: column %q is not in the schema", name)
		}
		pos, ok := byHeader[meta.Header]
		if !ok {
			return colMapping{}, fmt.Errorf("helpers: column %q is not in the CSV", meta.Header)
		}
		return colMapping{pos: pos, meta: meta}, nil
	}

	indexName := opts.IndexColumn
	if indexName == "" {
		indexName = sch.Index
	}
	var index *frame.Index
	indexHeader := ""
	if indexName != "" && indexName != NoIndex {
		m, err := lookup(indexName)
		if err != nil {
			return nil, err
		}
		index = buildIndex(m, rows)
		indexHeader = m.meta.Header
	}

	var mappings []colMapping
	if len(opts.Columns) > 0 {
		for _, name := range opts.Columns {
			m, err := lookup(name)
			if err != nil {
				return nil, err
			}
			mappings = append(mappings, m)
		}
	} else {
		for i, h := range headers {
			meta, ok := sch.Column(strings.TrimSpace(h))
			if !ok || meta.Role == schema.RoleSkip || meta.Header == indexHeader {
				// Unmapped columns are silently skipped
				continue
			}
			mappings = append(mappings, colMapping{pos: i, meta: meta})
		}
	}

	cols := make([]*frame.Column, 0, len(mappings))
	for _, m := range mappings {
		cols = append(cols, buildColumn(m, rows))
	}
	if index == nil {
		index = frame.RangeIndex(len(rows))
	}
	return frame.New(index, cols...)
}

// ParseCSVAuto discovers the schema and parses in one call.
// Returns both the table and the inferred schema so callers can inspect
// or persist it.
func ParseCSVAuto(data []byte) (*frame.Table, *schema.Config, error) {
	sch, err := schema.DiscoverFromCSV(data, schema.DiscoverOptions{})
	if err != nil {
		return nil, nil, err
	}
	tbl, err := ParseCSV(data, *sch, CSVOptions{})
	if err != nil {
		return nil, nil, err
	}
	return tbl, sch, nil
}

// ParseSeries parses one value column into a series over the index column.
func ParseSeries(data []byte, sch schema.Config, valueColumn string, opts CSVOptions) (*frame.Series, error) {
	opts.Columns = []string{valueColumn}
	tbl, err := ParseCSV(data, sch, opts)
	if err != nil {
		return nil, err
	}
	return frame.SeriesOf(tbl.Index(), tbl.Column(0))
}

// ParseKeys parses one column into group keys, row for row with the series
// ParseSeries returns for the same data. Missing cells give nil keys.
func ParseKeys(data []byte, sch schema.Config, keyColumn string, opts CSVOptions) (frame.ByKeys, error) {
	opts.Columns = []string{keyColumn}
	tbl, err := ParseCSV(data, sch, opts)
	if err != nil {
		return nil, err
	}
	col := tbl.Column(0)
	keys := make(frame.ByKeys, col.Len())
	for i := range keys {
		if !col.IsMissing(i) {
			keys[i] = col.Value(i)
		}
	}
	return keys, nil
}

// ============================================================================
// READING
// ============================================================================

func readCSV(data []byte) ([]string, [][]string, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		rows = append(rows, row)
	}
	return headers, rows, nil
}

func cell(row []string, pos int) (string, bool) {
	if pos >= len(row) || schema.IsNull(row[pos]) {
		return "", false
	}
	return strings.TrimSpace(row[pos]), true
}

// buildIndex turns a column into a typed index. Whole numbers make an
// integer index.
func buildIndex(m colMapping, rows [][]string) *frame.Index {
	switch m.meta.Kind {
	case schema.KindTime:
		return frame.TimeIndex(parseTimes(m, rows))
	case schema.KindNumber:
		nums := parseNumbers(m, rows)
		ints := make([]int, len(nums))
		for i, f := range nums {
			if math.IsNaN(f) || f != math.Trunc(f) {
				return frame.FloatIndex(nums)
			}
			ints[i] = int(f)
		}
		return frame.IntIndex(ints)
	}
	texts := make([]string, len(rows))
	for i, row := range rows {
		texts[i], _ = cell(row, m.pos)
	}
	return frame.TextIndex(texts)
}

func buildColumn(m colMapping, rows [][]string) *frame.Column {
	label := m.meta.Header
	switch m.meta.Kind {
	case schema.KindNumber:
		return frame.NewNumber(label, parseNumbers(m, rows))
	case schema.KindTime:
		return frame.NewTime(label, parseTimes(m, rows))
	}
	texts := make([]string, len(rows))
	for i, row := range rows {
		texts[i], _ = cell(row, m.pos)
	}
	return frame.NewText(label, texts)
}

func parseNumbers(m colMapping, rows [][]string) []float64 {
	out := make([]float64, len(rows))
	for i, row := range rows {
		out[i] = math.NaN()
		if s, ok := cell(row, m.pos); ok {
			if f, ok := schema.ParseNumber(s); ok {
				out[i] = f
			}
		}
	}
	return out
}

func parseTimes(m colMapping, rows [][]string) []time.Time {
	out := make([]time.Time, len(rows))
	for i, row := range rows {
		if s, ok := cell(row, m.pos); ok {
			out[i], _ = schema.ParseTime(s, m.meta.TimeLayout)
		}
	}
	return out
}
