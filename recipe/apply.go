package recipe

import (
	"io"
	"time"

	"github.com/spektr-org/gcframe/engine"
	"github.com/spektr-org/gcframe/frame"
	"github.com/spektr-org/gcframe/helpers"
	"github.com/spektr-org/gcframe/schema"
)

// ============================================================================
// APPLY — Recipe → engine.Frame calls
// ============================================================================

// Frame loads the CSV the way the recipe asks: a series when Value is set,
// a table otherwise. For a series the grouping column is read alongside,
// and Apply groups the series by its keys.
func (r *Recipe) Frame(data []byte, sch schema.Config, opts ...engine.WrapOption) (*engine.Frame, error) {
	csvOpts := helpers.CSVOptions{IndexColumn: r.Index, Columns: r.Columns}
	r.keys = nil
	if r.Value != "" {
		s, err := helpers.ParseSeries(data, sch, r.Value, csvOpts)
		if err != nil {
			return nil, err
		}
		if r.GroupBy.Column != "" {
			if r.keys, err = helpers.ParseKeys(data, sch, r.GroupBy.Column, csvOpts); err != nil {
				return nil, err
			}
		}
		return engine.WrapSeries(s, opts...), nil
	}
	tbl, err := helpers.ParseCSV(data, sch, csvOpts)
	if err != nil {
		return nil, err
	}
	if tbl, err = engine.FilterRows(tbl, r.Filter); err != nil {
		return nil, err
	}
	return engine.WrapTable(tbl, opts...), nil
}

// Apply renames, groups and queues the steps on f. Failures are recorded
// on f and surface from its terminal calls.
func (r *Recipe) Apply(f *engine.Frame) *engine.Frame {
	if r.Rename != "" {
		f = f.Rename(r.Rename)
	}
	if r.GroupBy.Column != "" {
		var gopts []frame.GroupOption
		if r.GroupBy.Sort {
			gopts = append(gopts, frame.SortKeys())
		}
		if r.GroupBy.KeepMissing {
			gopts = append(gopts, frame.KeepMissing())
		}
		var by frame.Grouper = frame.ByColumn(r.GroupBy.Column)
		if r.keys != nil {
			by = r.keys
		}
		f = f.GroupBy(by, gopts...)
		if r.GroupBy.DropKey {
			key := r.GroupBy.Column
			f = f.Pipe(func(t *frame.Table) (*frame.Table, error) { return t.Drop(key), nil })
		}
	}
	for _, s := range r.Steps {
		f = s.apply(f)
	}
	return f
}

func (s StepSpec) apply(f *engine.Frame) *engine.Frame {
	switch s.Op {
	case OpResetStartingValues:
		return f.ResetStartingValues()
	case OpResetIndex:
		return f.Pipe(func(t *frame.Table) (*frame.Table, error) {
			opts := []engine.IndexOption{}
			if s.Reference != nil {
				opts = append(opts, engine.WithReference(coerce(s.Reference, t.Index())))
			}
			if s.KeepDurations {
				opts = append(opts, engine.KeepDurations())
			}
			return engine.ResetIndex(t, opts...)
		})
	}

	op, err := engine.ParseOperation(s.Op)
	if err != nil {
		// Operate records the invalid operation on the frame.
		return f.Operate(engine.Operation(s.Op))
	}
	if s.Index == nil && s.Column == nil {
		return f.Operate(op)
	}
	return f.Pipe(func(t *frame.Table) (*frame.Table, error) {
		if s.Column != nil {
			return engine.Apply(t, engine.Col(s.Column), op)
		}
		return engine.Apply(t, engine.Row(coerce(s.Index, t.Index())), op)
	})
}

// coerce turns a text reference into a time or duration when the index
// holds those, since YAML hands timestamps over as strings.
func coerce(v any, ix *frame.Index) frame.Label {
	str, ok := v.(string)
	if !ok {
		return v
	}
	switch ix.Kind() {
	case frame.KindTime:
		if t, ok := schema.ParseTime(str, ""); ok {
			return t
		}
	case frame.KindDuration:
		if d, err := time.ParseDuration(str); err == nil {
			return d
		}
	}
	return v
}

// ConcatOptions returns the engine options for the concat settings.
func (r *Recipe) ConcatOptions() []engine.Option {
	mode, _ := r.multiIndex()
	axis, _ := axisOf(r.Concat.Axis)
	join, _ := joinOf(r.Concat.Join)

	opts := []engine.Option{engine.WithMultiIndex(mode), engine.WithAxis(axis)}
	if r.Concat.Sep != nil {
		opts = append(opts, engine.WithSeparator(*r.Concat.Sep))
	}
	copts := []frame.ConcatOption{frame.WithJoin(join)}
	if r.Concat.Sort {
		copts = append(copts, frame.WithSort())
	}
	return append(opts, engine.WithConcatOptions(copts...))
}

// OutputOptions returns the engine options for the export settings.
func (r *Recipe) OutputOptions() []engine.Option {
	axis, _ := axisOf(r.Output.Axis)
	opts := []engine.Option{engine.WithAxis(axis)}
	if r.Output.Sep != nil {
		opts = append(opts, engine.WithSeparator(*r.Output.Sep))
	}
	if r.Output.RowField != nil {
		opts = append(opts, engine.WithRowField(*r.Output.RowField))
	}
	return opts
}

// Reassemble concatenates the groups of f with the recipe's concat settings.
func (r *Recipe) Reassemble(f *engine.Frame) (*frame.Table, error) {
	return f.Concat(r.ConcatOptions()...)
}

// Export writes the {"data": [...]} document for f to w.
func (r *Recipe) Export(f *engine.Frame, w io.Writer) error {
	return f.WriteJSON(w, r.OutputOptions()...)
}

// ExportFile writes the document to Output.File.
func (r *Recipe) ExportFile(f *engine.Frame) error {
	return f.ToJSON(r.Output.File, r.OutputOptions()...)
}
