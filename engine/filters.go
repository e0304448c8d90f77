package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spektr-org/gcframe/frame"
)

// ============================================================================
// FILTERS — Row selection by column values
// ============================================================================
// Single-pass filter: checks ALL column constraints per row in one loop.
// Text cells are compared case-insensitively, number cells by value.
// ============================================================================

// Filters maps a column label to the values a row may carry there.
// Columns are AND-combined; values within a column are OR-combined.
type Filters map[string][]string

// IsEmpty reports whether no column restricts the rows.
func (f Filters) IsEmpty() bool {
	for _, allowed := range f {
		if len(allowed) > 0 {
			return false
		}
	}
	return true
}

// FilterRows returns the rows of t matching all filters, in order.
// An empty filter returns t itself.
func FilterRows(t *frame.Table, filters Filters) (*frame.Table, error) {
	if filters.IsEmpty() {
		return t, nil
	}

	checks := make([]filterCheck, 0, len(filters))
	for label, allowed := range filters {
		if len(allowed) == 0 {
			continue
		}
		col, ok := t.ColumnByLabel(label)
		if !ok {
			return nil, fmt.Errorf("engine: filter: %w: %s", frame.ErrColumnNotFound, label)
		}
		c := filterCheck{col: col, set: toLowerSet(allowed)}
		if col.IsNumeric() {
			c.nums = toNumberSet(allowed)
		}
		checks = append(checks, c)
	}

	// Single pass: a row passes if it matches ALL column filters
	rows := make([]int, 0, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		pass := true
		for _, c := range checks {
			if c.col.IsMissing(i) || !c.matches(i) {
				pass = false
				break
			}
		}
		if pass {
			rows = append(rows, i)
		}
	}
	return t.Take(rows), nil
}

type filterCheck struct {
	col  *frame.Column
	set  map[string]bool
	nums map[float64]bool
}

func (c filterCheck) matches(i int) bool {
	if c.nums != nil && c.nums[c.col.Float(i)] {
		return true
	}
	return c.set[strings.ToLower(frame.FormatLabel(c.col.Value(i)))]
}

// toNumberSet keeps the entries that parse as numbers.
func toNumberSet(items []string) map[float64]bool {
	set := make(map[float64]bool, len(items))
	for _, item := range items {
		if f, err := strconv.ParseFloat(strings.TrimSpace(item), 64); err == nil {
			set[f] = true
		}
	}
	return set
}

// toLowerSet converts a string slice to a lowercase lookup set.
func toLowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = true
	}
	return set
}
