package frame

import (
	"fmt"
	"sort"
)

// ============================================================================
// GROUPING — Split a table into row subsets sharing a key
// ============================================================================
// Groups come out in key discovery order unless SortKeys is given.
// Each group holds its own copy of the rows, so transforming a group never
// touches the source table or the other groups.
// Rows whose key is missing (nil, NaN, empty text) are dropped by default.
// ============================================================================

// Group is one key and the rows that share it.
type Group struct {
	Key   Label
	Table *Table
}

// Grouping is the ordered result of GroupBy.
type Grouping struct {
	groups []Group
}

// Len returns the number of groups.
func (g *Grouping) Len() int { return len(g.groups) }

// Groups returns the groups in order. The slice is a copy.
func (g *Grouping) Groups() []Group {
	out := make([]Group, len(g.groups))
	copy(out, g.groups)
	return out
}

// Keys returns the group keys in order.
func (g *Grouping) Keys() []Label {
	keys := make([]Label, len(g.groups))
	for i, grp := range g.groups {
		keys[i] = grp.Key
	}
	return keys
}

// Lookup returns the table of the group with the given key.
func (g *Grouping) Lookup(key Label) (*Table, bool) {
	for _, grp := range g.groups {
		if Equal(grp.Key, key) {
			return grp.Table, true
		}
	}
	return nil, false
}

// Grouper produces one key per table row.
type Grouper interface {
	GroupKeys(t *Table) ([]Label, error)
}

// ByColumn groups rows by the values of the column with this label.
type ByColumn string

// GroupKeys implements Grouper.
func (b ByColumn) GroupKeys(t *Table) ([]Label, error) {
	col, ok := t.ColumnByLabel(string(b))
	if !ok {
		return nil, fmt.Errorf("frame: %w: %s", ErrColumnNotFound, string(b))
	}
	keys := make([]Label, t.NumRows())
	for i := range keys {
		if !col.IsMissing(i) {
			keys[i] = col.Value(i)
		}
	}
	return keys, nil
}

// ByKeys groups row i under key i. The length must match the table.
type ByKeys []Label

// GroupKeys implements Grouper.
func (b ByKeys) GroupKeys(t *Table) ([]Label, error) {
	if len(b) != t.NumRows() {
		return nil, fmt.Errorf("frame: %w: %d keys for %d rows", ErrLengthMismatch, len(b), t.NumRows())
	}
	keys := make([]Label, len(b))
	for i, k := range b {
		keys[i] = NormalizeLabel(k)
	}
	return keys, nil
}

// ByIndex groups rows by a function of their index label.
// A nil function groups by the label itself.
type ByIndex func(Label) Label

// GroupKeys implements Grouper.
func (b ByIndex) GroupKeys(t *Table) ([]Label, error) {
	keys := make([]Label, t.NumRows())
	for i := range keys {
		l := t.index.At(i)
		if b != nil {
			l = b(l)
		}
		keys[i] = NormalizeLabel(l)
	}
	return keys, nil
}

// GroupOption configures GroupBy.
type GroupOption func(*groupConfig)

type groupConfig struct {
	sortKeys    bool
	keepMissing bool
}

// SortKeys orders the groups by key instead of discovery order.
func SortKeys() GroupOption {
	return func(c *groupConfig) { c.sortKeys = true }
}

// KeepMissing keeps rows with a missing key in a group keyed by nil.
func KeepMissing() GroupOption {
	return func(c *groupConfig) { c.keepMissing = true }
}

// GroupBy splits t into groups of rows sharing a key.
func GroupBy(t *Table, by Grouper, opts ...GroupOption) (*Grouping, error) {
	var cfg groupConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	keys, err := by.GroupKeys(t)
	if err != nil {
		return nil, err
	}

	grouped := make(map[any][]int)
	order := make([]Label, 0)
	for i, key := range keys {
		if isMissing(key) {
			if !cfg.keepMissing {
				continue
			}
			key = nil
		}
		k := keyOf(key)
		if _, exists := grouped[k]; !exists {
			order = append(order, key)
		}
		grouped[k] = append(grouped[k], i)
	}

	if cfg.sortKeys {
		sort.SliceStable(order, func(i, j int) bool { return Less(order[i], order[j]) })
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, Group{
			Key:   key,
			Table: t.Take(grouped[keyOf(key)]),
		})
	}
	return &Grouping{groups: groups}, nil
}

// NewGrouping assembles a grouping from prepared groups, in order.
func NewGrouping(groups ...Group) *Grouping {
	out := make([]Group, len(groups))
	copy(out, groups)
	return &Grouping{groups: out}
}
