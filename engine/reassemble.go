package engine

import (
	"github.com/spektr-org/gcframe/frame"
	"github.com/spektr-org/gcframe/pipeline"
)

// ============================================================================
// GROUP REASSEMBLER
// ============================================================================
// Pipeline:
//   1. Run the step on a copy of every group table, in group order
//   2. Relabel the concatenation axis of every result
//        columns when concatenating along frame.AxisColumns
//        rows    when concatenating along frame.AxisRows
//   3. frame.Concat the results in group order
//
// Relabeling uses the labels each group had before the step ran, so a
// step that rebases the index still yields distinct row labels. When the
// step changed the length of the axis, the labels after the step are used.
// The grouping itself is never modified.
// ============================================================================

// Reassemble applies step to every group and concatenates the results.
// A nil step is the identity. Without WithMultiIndex the axis is relabeled
// as a hierarchy.
func Reassemble(g *frame.Grouping, step Step, opts ...Option) (*frame.Table, error) {
	return reassemble(g, step, applyOptions(opts))
}

func reassemble(g *frame.Grouping, step Step, cfg *config) (*frame.Table, error) {
	groups, err := transformGroups(g, step)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return frame.New(nil)
	}

	before := g.Groups()
	tables := make([]*frame.Table, len(groups))
	for i, grp := range groups {
		if err := relabel(grp, axisLabels(before[i].Table, cfg.Axis), cfg); err != nil {
			return nil, err
		}
		tables[i] = grp.Table
	}
	return frame.Concat(tables, cfg.Axis, cfg.ConcatOptions...)
}

// transformGroups runs step on a copy of each group table. Errors from the
// step are returned as they are.
func transformGroups(g *frame.Grouping, step Step) ([]frame.Group, error) {
	if step == nil {
		step = pipeline.Identity[*frame.Table]
	}
	groups := g.Groups()
	out := make([]frame.Group, len(groups))
	for i, grp := range groups {
		t, err := step(grp.Table.Clone())
		if err != nil {
			return nil, err
		}
		out[i] = frame.Group{Key: grp.Key, Table: t}
	}
	return out, nil
}

// relabel rewrites the concatenation axis of one group result in place,
// naming entry i after original[i].
func relabel(grp frame.Group, original []frame.Label, cfg *config) error {
	name := labeler(grp.Key, cfg)
	if name == nil {
		return nil
	}

	t := grp.Table
	labels := axisLabels(t, cfg.Axis)
	if len(original) == len(labels) {
		labels = original
	}
	if cfg.Axis == frame.AxisRows {
		named := make([]frame.Label, len(labels))
		for i, l := range labels {
			named[i] = name(l)
		}
		ix, err := frame.NewIndex(named...)
		if err != nil {
			return err
		}
		return t.SetIndex(ix)
	}
	for i, l := range labels {
		t.RenameColumn(i, name(l))
	}
	return nil
}

func axisLabels(t *frame.Table, axis frame.Axis) []frame.Label {
	if axis == frame.AxisRows {
		return t.Index().Labels()
	}
	return t.ColumnLabels()
}

// labeler returns the label mapping for one group, or nil when labels stay.
func labeler(key frame.Label, cfg *config) func(frame.Label) frame.Label {
	switch cfg.MultiIndex {
	case MultiIndexJoin:
		suffix := cfg.Separator + frame.FormatLabel(key)
		return func(l frame.Label) frame.Label {
			return frame.FormatLabel(l) + suffix
		}
	case MultiIndexHierarchy:
		return func(l frame.Label) frame.Label {
			return frame.Tuple{Outer: key, Inner: l}
		}
	}
	return nil
}
