package engine

import (
	"fmt"
	"io"
	"os"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"go.uber.org/zap"

	"github.com/spektr-org/gcframe/frame"
	"github.com/spektr-org/gcframe/pipeline"
)

// ============================================================================
// FRAME — Chainable pipeline over a table or a grouping
// ============================================================================
// A Frame holds exactly one of:
//   - a single table (after Wrap)
//   - a grouping     (after GroupBy; the switch happens once)
//
// Chained calls register pipeline steps. Nothing runs until Concat, ToJSON,
// WriteJSON, ToArrow or TransformedGroups. A successful Concat or export
// clears the pipeline; a failed one leaves it as it was.
//
// Registration failures are kept: the failing call appends nothing, Err()
// reports the error and every later reassembly returns it.
//
// A Frame is not safe for concurrent use.
// ============================================================================

// Frame wraps a copy of a table or series.
type Frame struct {
	table    *frame.Table
	grouping *frame.Grouping
	pipe     pipeline.Pipeline[*frame.Table]
	err      error

	logger *zap.Logger
}

// Wrap wraps a *frame.Table or *frame.Series. Anything else fails with an
// *InputTypeError.
func Wrap(src any, opts ...WrapOption) (*Frame, error) {
	switch v := src.(type) {
	case *frame.Table:
		if v != nil {
			return WrapTable(v, opts...), nil
		}
	case *frame.Series:
		if v != nil {
			return WrapSeries(v, opts...), nil
		}
	}
	return nil, &InputTypeError{Value: src}
}

// WrapTable wraps a copy of t.
func WrapTable(t *frame.Table, opts ...WrapOption) *Frame {
	return newFrame(t.Clone(), applyWrapOptions(opts))
}

// WrapSeries wraps s as a one-column table whose column is labeled with the
// value name ("Value" unless WithValueName says otherwise).
func WrapSeries(s *frame.Series, opts ...WrapOption) *Frame {
	cfg := applyWrapOptions(opts)
	return newFrame(s.Table(cfg.valueName), cfg)
}

func newFrame(t *frame.Table, cfg *wrapConfig) *Frame {
	cfg.logger.Debug("wrapped table",
		zap.Int("rows", t.NumRows()),
		zap.Int("columns", t.NumColumns()),
		zap.Stringer("index_kind", t.Index().Kind()),
	)
	return &Frame{table: t, logger: cfg.logger}
}

// ============================================================================
// VARIANT
// ============================================================================

// Grouped reports whether the frame holds a grouping.
func (f *Frame) Grouped() bool { return f.grouping != nil }

// Table returns the wrapped table, or nil once grouped.
func (f *Frame) Table() *frame.Table { return f.table }

// Grouping returns the grouping, or nil before GroupBy.
func (f *Frame) Grouping() *frame.Grouping { return f.grouping }

// Err returns the first registration error.
func (f *Frame) Err() error { return f.err }

// Len returns the number of registered steps.
func (f *Frame) Len() int { return f.pipe.Len() }

// Pipeline returns the composition of the registered steps.
func (f *Frame) Pipeline() Step { return f.pipe.Compose() }

// ============================================================================
// CHAINABLE CALLS
// ============================================================================

// Rename relabels the sole column of the wrapped table. Tables with more
// than one column and grouped frames are left alone.
func (f *Frame) Rename(name string) *Frame {
	if f.err != nil {
		return f
	}
	if f.Grouped() {
		f.logger.Warn("rename ignored on a grouped frame", zap.String("name", name))
		return f
	}
	if f.table.NumColumns() != 1 {
		f.logger.Debug("rename ignored",
			zap.String("name", name),
			zap.Int("columns", f.table.NumColumns()),
		)
		return f
	}
	f.table.RenameColumn(0, name)
	return f
}

// GroupBy turns the wrapped table into a grouping. It does nothing when the
// frame is already grouped.
func (f *Frame) GroupBy(by frame.Grouper, opts ...frame.GroupOption) *Frame {
	if f.err != nil || f.Grouped() {
		return f
	}
	g, err := frame.GroupBy(f.table, by, opts...)
	if err != nil {
		f.fail(fmt.Errorf("engine: group by: %w", err))
		return f
	}
	f.grouping = g
	f.table = nil
	f.logger.Debug("grouped table", zap.Int("groups", g.Len()))
	return f
}

// Pipe registers steps after the existing ones.
func (f *Frame) Pipe(steps ...Step) *Frame {
	if f.err != nil {
		return f
	}
	f.pipe.Append(steps...)
	return f
}

// Operate registers Apply(op) against sel. Without a selector the reference
// is Row(0). More than one selector is an error.
func (f *Frame) Operate(op Operation, sel ...Selector) *Frame {
	if f.err != nil {
		return f
	}
	if !op.Valid() {
		f.fail(&InvalidOperationError{Operation: string(op)})
		return f
	}
	s := Row(0)
	switch len(sel) {
	case 0:
	case 1:
		s = sel[0]
	default:
		f.fail(fmt.Errorf("engine: %s takes at most one selector, got %d", op, len(sel)))
		return f
	}
	return f.Pipe(Operator(s, op))
}

// Subtract registers c - reference.
func (f *Frame) Subtract(sel ...Selector) *Frame { return f.Operate(OpSubtract, sel...) }

// Add registers c + reference.
func (f *Frame) Add(sel ...Selector) *Frame { return f.Operate(OpAdd, sel...) }

// Multiply registers c * reference.
func (f *Frame) Multiply(sel ...Selector) *Frame { return f.Operate(OpMultiply, sel...) }

// Divide registers c / reference.
func (f *Frame) Divide(sel ...Selector) *Frame { return f.Operate(OpDivide, sel...) }

// ResetStartingValues registers a subtraction of the first row.
func (f *Frame) ResetStartingValues() *Frame { return f.Operate(OpSubtract, Row(0)) }

// ResetIndex registers an index rebase.
func (f *Frame) ResetIndex(opts ...IndexOption) *Frame { return f.Pipe(Reindexer(opts...)) }

func (f *Frame) fail(err error) {
	f.err = err
	f.logger.Debug("step registration failed", zap.Error(err))
}

// ============================================================================
// REASSEMBLY
// ============================================================================

// ready returns the registration error or a *NotGroupedError for op.
func (f *Frame) ready(op string) error {
	if f.err != nil {
		return f.err
	}
	if !f.Grouped() {
		return &NotGroupedError{Op: op}
	}
	return nil
}

// Concat runs the pipeline on every group and concatenates the results.
// Defaults: frame.AxisColumns, MultiIndexHierarchy, separator "|".
func (f *Frame) Concat(opts ...Option) (*frame.Table, error) {
	if err := f.ready("Concat"); err != nil {
		return nil, err
	}
	return f.reassemble(applyOptions(opts))
}

// TransformedGroups runs the pipeline on every group and returns the
// results keyed like the grouping. The pipeline is kept.
func (f *Frame) TransformedGroups() ([]frame.Group, error) {
	if err := f.ready("TransformedGroups"); err != nil {
		return nil, err
	}
	return transformGroups(f.grouping, f.pipe.Compose())
}

func (f *Frame) reassemble(cfg *config) (*frame.Table, error) {
	out, err := reassemble(f.grouping, f.pipe.Compose(), cfg)
	if err != nil {
		return nil, err
	}
	f.logger.Debug("reassembled groups",
		zap.Int("groups", f.grouping.Len()),
		zap.Int("steps", f.pipe.Len()),
		zap.Stringer("axis", cfg.Axis),
		zap.String("multi_index", string(cfg.MultiIndex)),
		zap.Int("rows", out.NumRows()),
		zap.Int("columns", out.NumColumns()),
	)
	f.pipe.Reset()
	return out, nil
}

// exportTable reassembles for export: joined labels, or none when the
// separator is empty.
func (f *Frame) exportTable(op string, opts []Option) (*frame.Table, *config, error) {
	if err := f.ready(op); err != nil {
		return nil, nil, err
	}
	cfg := applyOptions(opts)
	cfg.MultiIndex = MultiIndexNone
	if cfg.Separator != "" {
		cfg.MultiIndex = MultiIndexJoin
	}
	t, err := f.reassemble(cfg)
	if err != nil {
		return nil, nil, err
	}
	return t, cfg, nil
}

// ============================================================================
// EXPORT
// ============================================================================

// WriteJSON reassembles the groups and writes {"data": [...]} to w.
// WithMultiIndex is ignored.
func (f *Frame) WriteJSON(w io.Writer, opts ...Option) error {
	t, cfg, err := f.exportTable("WriteJSON", opts)
	if err != nil {
		return err
	}
	return EncodeJSON(w, BuildRecords(t, cfg.RowField))
}

// ToJSON is WriteJSON into fileName, which is created or truncated.
// Errors opening, writing or closing the file are returned as they are.
func (f *Frame) ToJSON(fileName string, opts ...Option) error {
	t, cfg, err := f.exportTable("ToJSON", opts)
	if err != nil {
		return err
	}
	records := BuildRecords(t, cfg.RowField)

	file, err := os.Create(fileName)
	if err != nil {
		return err
	}
	if err := EncodeJSON(file, records); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}

	f.logger.Info("exported records",
		zap.String("file", fileName),
		zap.Int("records", len(records)),
	)
	return nil
}

// ToArrow reassembles like ToJSON and converts the table into an Arrow
// record. The row label becomes the first field, named by WithRowField.
// The caller releases the record.
func (f *Frame) ToArrow(mem memory.Allocator, opts ...Option) (arrow.Record, error) {
	t, cfg, err := f.exportTable("ToArrow", opts)
	if err != nil {
		return nil, err
	}
	return t.ToArrow(mem, cfg.RowField)
}
