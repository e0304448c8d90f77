package schema

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// ============================================================================
// AUTO-DISCOVERY — Heuristic column classification
// ============================================================================
// Inspects raw CSV and generates a schema.Config.
//
// Classification pipeline per column:
//   1. Drop null markers, count unique values, keep sorted samples
//   2. Detect kind: time or number when 80%+ of the values parse
//   3. Classify role:
//        number → value
//        time   → index
//        text   → group, or skip when unique per row
//   4. The first time column becomes the suggested index
// ============================================================================

// DiscoverOptions controls discovery behavior.
type DiscoverOptions struct {
	SampleSize     int      // Max rows to inspect (0 = all). Default: 1000
	Name           string   // Dataset name override
	RecoverColumns []string // Headers to keep as group columns even if skipped
}

// DefaultDiscoverOptions returns sensible defaults.
func DefaultDiscoverOptions() DiscoverOptions {
	return DiscoverOptions{
		SampleSize: 1000,
	}
}

// DiscoverFromCSV generates a schema.Config by inspecting CSV data.
func DiscoverFromCSV(data []byte, opts ...DiscoverOptions) (*Config, error) {
	opt := DefaultDiscoverOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	if len(headers) == 0 {
		return nil, fmt.Errorf("CSV has no columns")
	}

	var rows [][]string
	limit := opt.SampleSize
	if limit <= 0 {
		limit = 100000 // safety cap
	}
	for i := 0; i < limit; i++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("CSV has no data rows")
	}

	config := &Config{
		Name:           opt.Name,
		DiscoveredFrom: "CSV",
		DiscoveredAt:   time.Now().Format(time.RFC3339),
	}
	if config.Name == "" {
		config.Name = "Auto-discovered Dataset"
	}

	recovered := make(map[string]bool, len(opt.RecoverColumns))
	for _, h := range opt.RecoverColumns {
		recovered[h] = true
	}

	for i, header := range headers {
		col := analyzeColumn(strings.TrimSpace(header), i, rows)
		if col.Role == RoleSkip && recovered[col.Header] && col.UniqueCount > 0 {
			col.Role = RoleGroup
			col.SkipReason = ""
		}
		if col.Role == RoleIndex && config.Index == "" {
			config.Index = col.Header
		}
		config.Columns = append(config.Columns, col)
	}
	return config, nil
}

// ============================================================================
// COLUMN ANALYSIS
// ============================================================================

// analyzeColumn inspects all values in a column and classifies it.
func analyzeColumn(header string, index int, rows [][]string) ColumnMeta {
	col := ColumnMeta{
		Header:      header,
		Key:         toSnakeCase(header),
		DisplayName: toDisplayName(header),
		Kind:        KindText,
	}

	values := make([]string, 0, len(rows))
	uniqueSet := make(map[string]bool)
	for _, row := range rows {
		if index >= len(row) || IsNull(row[index]) {
			col.NullCount++
			continue
		}
		val := strings.TrimSpace(row[index])
		values = append(values, val)
		uniqueSet[val] = true
	}
	col.UniqueCount = len(uniqueSet)

	if len(values) == 0 {
		col.Role = RoleSkip
		col.SkipReason = "All values are empty/null"
		return col
	}

	col.SampleValues = collectSamples(uniqueSet, 10)
	col.Kind, col.TimeLayout = detectKind(values)
	col.classifyRole(len(rows))

	switch {
	case col.UniqueCount <= 10:
		col.CardinalityHint = "low"
	case col.UniqueCount <= 100:
		col.CardinalityHint = "medium"
	default:
		col.CardinalityHint = "high"
	}
	return col
}

// classifyRole derives the role from the kind and the cardinality.
func (col *ColumnMeta) classifyRole(totalRows int) {
	switch col.Kind {
	case KindNumber:
		col.Role = RoleValue
	case KindTime:
		col.Role = RoleIndex
	default:
		if col.UniqueCount == totalRows && totalRows > 10 {
			col.Role = RoleSkip
			col.SkipReason = "Unique per row, likely an identifier"
			return
		}
		col.Role = RoleGroup
	}
}

// ============================================================================
// KIND DETECTION
// ============================================================================

// detectKind requires 80%+ of the non-null values to parse as a time or a
// number. Time is tried first.
func detectKind(values []string) (Kind, string) {
	threshold := int(float64(len(values)) * 0.8)

	if layout, n := bestTimeLayout(values); n >= threshold && n > 0 {
		return KindTime, layout
	}

	numCount := 0
	for _, v := range values {
		if _, ok := ParseNumber(v); ok {
			numCount++
		}
	}
	if numCount >= threshold && numCount > 0 {
		return KindNumber, ""
	}
	return KindText, ""
}

// TimeLayouts are the layouts tried during discovery, in order.
var TimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006-01",
	"01/02/2006 15:04",
	"01/02/2006",
	"02/01/2006",
	"Jan-2006",
	"January 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// bestTimeLayout returns the layout that parses the most values. Plain
// integers never count as times.
func bestTimeLayout(values []string) (string, int) {
	best, bestCount := "", 0
	for _, layout := range TimeLayouts {
		n := 0
		for _, v := range values {
			if _, err := time.Parse(layout, v); err == nil {
				n++
			}
		}
		if n > bestCount {
			best, bestCount = layout, n
		}
	}
	return best, bestCount
}

// ParseTime parses a time cell with layout, or with the first of
// TimeLayouts that fits when layout is empty.
func ParseTime(s, layout string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if layout != "" {
		t, err := time.Parse(layout, s)
		return t, err == nil
	}
	for _, l := range TimeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseNumber parses a number cell. Thousands separators and a leading
// currency symbol are accepted.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "") // handle "1,234.56"
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(s, "€")
	s = strings.TrimPrefix(s, "£")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		f = -f
	}
	return f, true
}

// IsNull reports whether a cell is one of the null markers.
func IsNull(s string) bool {
	switch strings.TrimSpace(s) {
	case "", "null", "NULL", "N/A", "n/a", "NaN", "nan":
		return true
	}
	return false
}

// ============================================================================
// STRING UTILITIES
// ============================================================================

// toSnakeCase converts "Column Name" or "columnName" → "column_name".
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) && i > 0 {
			prev := rune(s[i-1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				result.WriteRune('_')
			}
		}
		result.WriteRune(r)
	}

	s = result.String()
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "__", "_")
	s = strings.Trim(s, "_")
	return s
}

// toDisplayName cleans a header for human display.
// "story_points" → "Story Points", "assignee" → "Assignee"
func toDisplayName(s string) string {
	if strings.Contains(s, " ") {
		return strings.TrimSpace(s)
	}

	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")

	words := strings.Fields(s)
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
		}
	}
	return strings.Join(words, " ")
}

// collectSamples picks up to maxSamples values in sorted order.
func collectSamples(uniqueSet map[string]bool, maxSamples int) []string {
	samples := make([]string, 0, len(uniqueSet))
	for v := range uniqueSet {
		samples = append(samples, v)
	}
	sort.Strings(samples)

	if len(samples) > maxSamples {
		samples = samples[:maxSamples]
	}
	return samples
}
