package frame

import (
	"fmt"
	"slices"
	"time"
)

// Table is a row index plus an ordered list of columns of equal length.
type Table struct {
	index   *Index
	columns []*Column
}

// New builds a table. A nil index becomes a RangeIndex over the column
// length. Column labels must be unique and all lengths must agree.
func New(index *Index, columns ...*Column) (*Table, error) {
	n := -1
	if index != nil {
		n = index.Len()
	}
	seen := make(map[any]struct{}, len(columns))
	for _, c := range columns {
		if n < 0 {
			n = c.Len()
		}
		if c.Len() != n {
			return nil, fmt.Errorf("frame: %w: column %s has %d rows, want %d",
				ErrLengthMismatch, FormatLabel(c.label), c.Len(), n)
		}
		k := keyOf(c.label)
		if _, dup := seen[k]; dup {
			return nil, fmt.Errorf("frame: %w: column %s", ErrDuplicateLabel, FormatLabel(c.label))
		}
		seen[k] = struct{}{}
	}
	if n < 0 {
		n = 0
	}
	if index == nil {
		index = RangeIndex(n)
	}
	cols := make([]*Column, len(columns))
	for i, c := range columns {
		cols[i] = c.Clone()
	}
	return &Table{index: index.Clone(), columns: cols}, nil
}

// newTable assembles a table from parts the caller owns. No checks.
func newTable(index *Index, columns []*Column) *Table {
	return &Table{index: index, columns: columns}
}

// Index returns the row index.
func (t *Table) Index() *Index { return t.index }

// SetIndex replaces the row index.
func (t *Table) SetIndex(ix *Index) error {
	if ix.Len() != t.NumRows() {
		return fmt.Errorf("frame: %w: index has %d labels, table has %d rows",
			ErrLengthMismatch, ix.Len(), t.NumRows())
	}
	t.index = ix
	return nil
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return t.index.Len() }

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int { return len(t.columns) }

// Column returns the column at position i.
func (t *Table) Column(i int) *Column { return t.columns[i] }

// Columns returns the columns in order. The slice is a copy, the columns
// are shared.
func (t *Table) Columns() []*Column { return slices.Clone(t.columns) }

// ColumnByLabel returns the first column carrying label.
func (t *Table) ColumnByLabel(label Label) (*Column, bool) {
	for _, c := range t.columns {
		if Equal(c.label, label) {
			return c, true
		}
	}
	return nil, false
}

// ColumnLabels returns the column labels in order.
func (t *Table) ColumnLabels() []Label {
	labels := make([]Label, len(t.columns))
	for i, c := range t.columns {
		labels[i] = c.label
	}
	return labels
}

// ColumnIndex returns the column labels as an Index.
func (t *Table) ColumnIndex() *Index { return newIndex(t.ColumnLabels()) }

// NumericColumns returns the numeric columns in order.
func (t *Table) NumericColumns() []*Column {
	var out []*Column
	for _, c := range t.columns {
		if c.IsNumeric() {
			out = append(out, c)
		}
	}
	return out
}

// AddColumn appends a column. Its label must be new and its length must
// match the table.
func (t *Table) AddColumn(c *Column) error {
	if c.Len() != t.NumRows() {
		return fmt.Errorf("frame: %w: column %s has %d rows, want %d",
			ErrLengthMismatch, FormatLabel(c.label), c.Len(), t.NumRows())
	}
	if _, ok := t.ColumnByLabel(c.label); ok {
		return fmt.Errorf("frame: %w: column %s", ErrDuplicateLabel, FormatLabel(c.label))
	}
	t.columns = append(t.columns, c)
	return nil
}

// RenameColumn sets the label of column i.
func (t *Table) RenameColumn(i int, label Label) {
	t.columns[i] = t.columns[i].WithLabel(label)
}

// Drop returns a table without the columns carrying any of labels.
// Columns are shared with t.
func (t *Table) Drop(labels ...Label) *Table {
	cols := make([]*Column, 0, len(t.columns))
	for _, c := range t.columns {
		if !slices.ContainsFunc(labels, func(l Label) bool { return Equal(c.label, l) }) {
			cols = append(cols, c)
		}
	}
	return &Table{index: t.index, columns: cols}
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	cols := make([]*Column, len(t.columns))
	for i, c := range t.columns {
		cols[i] = c.Clone()
	}
	return &Table{index: t.index.Clone(), columns: cols}
}

// Take returns a new table holding the given rows in order.
func (t *Table) Take(rows []int) *Table {
	cols := make([]*Column, len(t.columns))
	for i, c := range t.columns {
		cols[i] = c.take(rows)
	}
	return &Table{index: t.index.Take(rows), columns: cols}
}

// ============================================================================
// SERIES — single column with an index
// ============================================================================

// Series is one column of values aligned to an index.
type Series struct {
	name   string
	index  *Index
	values *Column
}

// NewSeries returns a numeric series. A nil index becomes a RangeIndex.
func NewSeries(name string, index *Index, values []float64) (*Series, error) {
	return SeriesOf(index, NewNumber(name, values))
}

// NewTimeSeries returns a numeric series indexed by times.
func NewTimeSeries(name string, times []time.Time, values []float64) (*Series, error) {
	return NewSeries(name, TimeIndex(times), values)
}

// SeriesOf pairs an index with any column.
func SeriesOf(index *Index, col *Column) (*Series, error) {
	if index == nil {
		index = RangeIndex(col.Len())
	}
	if index.Len() != col.Len() {
		return nil, fmt.Errorf("frame: %w: index has %d labels, values %d",
			ErrLengthMismatch, index.Len(), col.Len())
	}
	return &Series{name: FormatLabel(col.label), index: index.Clone(), values: col.Clone()}, nil
}

// Name returns the series name.
func (s *Series) Name() string { return s.name }

// Len returns the number of values.
func (s *Series) Len() int { return s.values.Len() }

// Index returns the row index.
func (s *Series) Index() *Index { return s.index }

// Values returns the value column.
func (s *Series) Values() *Column { return s.values }

// Table returns a one-column table whose column is labeled label,
// independent of the series name.
func (s *Series) Table(label Label) *Table {
	return newTable(s.index.Clone(), []*Column{s.values.Clone().WithLabel(label)})
}
