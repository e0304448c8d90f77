package frame

import (
	"fmt"
	"sort"
)

// ============================================================================
// CONCAT — Label-aligned concatenation of tables
// ============================================================================
// AxisColumns places tables side by side. Rows are aligned on the union of
// the row indexes (first-seen order), or on their intersection with
// JoinInner. Identical indexes are used as they are, duplicates included.
//
// AxisRows stacks tables. Columns are aligned by label the same way; a label
// that carries different kinds in different tables becomes a text column.
//
// Missing cells introduced by alignment are NaN, "" or the zero time.
// ============================================================================

// Axis selects the rows (index) or the columns of a table.
type Axis int

const (
	AxisRows Axis = iota
	AxisColumns
)

func (a Axis) String() string {
	switch a {
	case AxisRows:
		return "index"
	case AxisColumns:
		return "columns"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// Join selects how the non-concatenated axis is aligned.
type Join int

const (
	JoinOuter Join = iota
	JoinInner
)

// ConcatOption configures Concat.
type ConcatOption func(*concatConfig)

type concatConfig struct {
	join Join
	sort bool
}

// WithJoin sets the alignment mode. The default is JoinOuter.
func WithJoin(j Join) ConcatOption {
	return func(c *concatConfig) { c.join = j }
}

// WithSort sorts the aligned axis by label.
func WithSort() ConcatOption {
	return func(c *concatConfig) { c.sort = true }
}

// Concat joins tables along axis. The order of the tables is kept.
func Concat(tables []*Table, axis Axis, opts ...ConcatOption) (*Table, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("frame: %w", ErrNoTables)
	}
	var cfg concatConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	switch axis {
	case AxisColumns:
		return concatColumns(tables, cfg)
	case AxisRows:
		return concatRows(tables, cfg)
	}
	return nil, fmt.Errorf("frame: unknown axis %d", int(axis))
}

func concatColumns(tables []*Table, cfg concatConfig) (*Table, error) {
	indexes := make([]*Index, len(tables))
	for i, t := range tables {
		indexes[i] = t.index
	}
	index, err := alignAxis(indexes, cfg)
	if err != nil {
		return nil, err
	}

	var cols []*Column
	for _, t := range tables {
		if t.index.Equal(index) {
			for _, c := range t.columns {
				cols = append(cols, c.Clone())
			}
			continue
		}
		rows := t.index.positions(index)
		for _, c := range t.columns {
			cols = append(cols, c.take(rows))
		}
	}
	return newTable(index, cols), nil
}

func concatRows(tables []*Table, cfg concatConfig) (*Table, error) {
	labelAxes := make([]*Index, len(tables))
	for i, t := range tables {
		labelAxes[i] = t.ColumnIndex()
	}
	labels, err := alignAxis(labelAxes, cfg)
	if err != nil {
		return nil, err
	}

	// Positional stacking when every table carries the very same columns.
	positional := true
	for _, ax := range labelAxes {
		if !ax.Equal(labels) {
			positional = false
			break
		}
	}

	index := tables[0].index
	for _, t := range tables[1:] {
		index = index.Append(t.index)
	}

	cols := make([]*Column, labels.Len())
	for j := range cols {
		parts := make([]*Column, len(tables))
		kind := KindInvalid
		for i, t := range tables {
			var c *Column
			if positional {
				c = t.columns[j]
			} else if p := labelAxes[i].Position(labels.At(j)); p >= 0 {
				c = t.columns[p]
			}
			parts[i] = c
			if c == nil {
				continue
			}
			switch {
			case kind == KindInvalid:
				kind = c.kind
			case kind != c.kind:
				kind = KindText
			}
		}
		cols[j] = stackColumn(labels.At(j), kind, parts, tables)
	}
	return newTable(index, cols), nil
}

// stackColumn appends the parts of one output column; a nil part stands for
// a table without that column.
func stackColumn(label Label, kind Kind, parts []*Column, tables []*Table) *Column {
	out := &Column{label: label, kind: kind}
	for i, p := range parts {
		switch {
		case p == nil:
			p = missingColumn(label, kind, tables[i].NumRows())
		case p.kind != kind:
			p = p.asText()
		}
		out.appendCells(p)
	}
	return out
}

// alignAxis computes the aligned labels of the non-concatenated axis.
func alignAxis(axes []*Index, cfg concatConfig) (*Index, error) {
	first := axes[0]
	same := true
	for _, ax := range axes[1:] {
		if !ax.Equal(first) {
			same = false
			break
		}
	}
	if same && !cfg.sort {
		return first.Clone(), nil
	}

	for _, ax := range axes {
		if !ax.IsUnique() {
			return nil, fmt.Errorf("frame: %w: cannot align on an axis with repeated labels", ErrDuplicateLabel)
		}
	}

	var labels []Label
	switch cfg.join {
	case JoinInner:
		for _, l := range first.labels {
			inAll := true
			for _, ax := range axes[1:] {
				if ax.Position(l) < 0 {
					inAll = false
					break
				}
			}
			if inAll {
				labels = append(labels, l)
			}
		}
	default:
		seen := make(map[any]struct{})
		for _, ax := range axes {
			for _, l := range ax.labels {
				k := keyOf(l)
				if _, ok := seen[k]; ok {
					continue
				}
				seen[k] = struct{}{}
				labels = append(labels, l)
			}
		}
	}

	if cfg.sort {
		sort.SliceStable(labels, func(i, j int) bool { return Less(labels[i], labels[j]) })
	}
	if labels == nil {
		labels = []Label{}
	}
	return newIndex(labels), nil
}
