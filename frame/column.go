package frame

import (
	"math"
	"slices"
	"time"
)

// Column is a labeled vector of numbers, text or times.
// Missing cells are NaN, "" and the zero time respectively.
type Column struct {
	label Label
	kind  Kind
	nums  []float64
	texts []string
	times []time.Time
}

// NewNumber returns a numeric column. The values are copied.
func NewNumber(label Label, vals []float64) *Column {
	return &Column{label: NormalizeLabel(label), kind: KindFloat, nums: slices.Clone(vals)}
}

// NewText returns a text column. The values are copied.
func NewText(label Label, vals []string) *Column {
	return &Column{label: NormalizeLabel(label), kind: KindText, texts: slices.Clone(vals)}
}

// NewTime returns a time column. The values are copied.
func NewTime(label Label, vals []time.Time) *Column {
	return &Column{label: NormalizeLabel(label), kind: KindTime, times: slices.Clone(vals)}
}

// Label returns the column label.
func (c *Column) Label() Label { return c.label }

// Kind returns KindFloat, KindText or KindTime.
func (c *Column) Kind() Kind { return c.kind }

// IsNumeric reports whether the column holds numbers.
func (c *Column) IsNumeric() bool { return c.kind == KindFloat }

// Len returns the number of cells.
func (c *Column) Len() int {
	switch c.kind {
	case KindFloat:
		return len(c.nums)
	case KindText:
		return len(c.texts)
	case KindTime:
		return len(c.times)
	}
	return 0
}

// Float returns cell i of a numeric column, NaN for other kinds.
func (c *Column) Float(i int) float64 {
	if c.kind != KindFloat {
		return math.NaN()
	}
	return c.nums[i]
}

// Text returns cell i of a text column, or the text form of any other cell.
func (c *Column) Text(i int) string {
	if c.kind == KindText {
		return c.texts[i]
	}
	if c.IsMissing(i) {
		return ""
	}
	return FormatLabel(c.Value(i))
}

// Time returns cell i of a time column, the zero time for other kinds.
func (c *Column) Time(i int) time.Time {
	if c.kind != KindTime {
		return time.Time{}
	}
	return c.times[i]
}

// Value returns cell i as float64, string or time.Time.
func (c *Column) Value(i int) any {
	switch c.kind {
	case KindFloat:
		return c.nums[i]
	case KindText:
		return c.texts[i]
	case KindTime:
		return c.times[i]
	}
	return nil
}

// IsMissing reports whether cell i is missing.
func (c *Column) IsMissing(i int) bool {
	switch c.kind {
	case KindFloat:
		return math.IsNaN(c.nums[i])
	case KindText:
		return c.texts[i] == ""
	case KindTime:
		return c.times[i].IsZero()
	}
	return true
}

// Numbers returns a copy of the values of a numeric column, nil otherwise.
func (c *Column) Numbers() []float64 {
	if c.kind != KindFloat {
		return nil
	}
	return slices.Clone(c.nums)
}

// MapNumbers replaces every value v at row i of a numeric column with
// fn(i, v). It does nothing on other kinds.
func (c *Column) MapNumbers(fn func(row int, v float64) float64) {
	if c.kind != KindFloat {
		return
	}
	for i, v := range c.nums {
		c.nums[i] = fn(i, v)
	}
}

// WithLabel returns a shallow copy of the column under another label.
// The cells are shared.
func (c *Column) WithLabel(label Label) *Column {
	cp := *c
	cp.label = NormalizeLabel(label)
	return &cp
}

// Clone returns an independent copy.
func (c *Column) Clone() *Column {
	return &Column{
		label: c.label,
		kind:  c.kind,
		nums:  slices.Clone(c.nums),
		texts: slices.Clone(c.texts),
		times: slices.Clone(c.times),
	}
}

// take gathers the given rows; a row of -1 yields a missing cell.
func (c *Column) take(rows []int) *Column {
	out := &Column{label: c.label, kind: c.kind}
	switch c.kind {
	case KindFloat:
		out.nums = make([]float64, len(rows))
		for i, r := range rows {
			if r < 0 {
				out.nums[i] = math.NaN()
			} else {
				out.nums[i] = c.nums[r]
			}
		}
	case KindText:
		out.texts = make([]string, len(rows))
		for i, r := range rows {
			if r >= 0 {
				out.texts[i] = c.texts[r]
			}
		}
	case KindTime:
		out.times = make([]time.Time, len(rows))
		for i, r := range rows {
			if r >= 0 {
				out.times[i] = c.times[r]
			}
		}
	}
	return out
}

// asText converts the cells to their text form.
func (c *Column) asText() *Column {
	if c.kind == KindText {
		return c.Clone()
	}
	texts := make([]string, c.Len())
	for i := range texts {
		texts[i] = c.Text(i)
	}
	return &Column{label: c.label, kind: KindText, texts: texts}
}

// missingColumn returns n missing cells of the given kind.
func missingColumn(label Label, kind Kind, n int) *Column {
	rows := make([]int, n)
	for i := range rows {
		rows[i] = -1
	}
	return (&Column{label: label, kind: kind}).take(rows)
}

// appendCells appends the cells of o, which must share the kind of c.
func (c *Column) appendCells(o *Column) {
	c.nums = append(c.nums, o.nums...)
	c.texts = append(c.texts, o.texts...)
	c.times = append(c.times, o.times...)
}
