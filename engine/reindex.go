package engine

import (
	"time"

	"github.com/spektr-org/gcframe/frame"
)

// ============================================================================
// INDEX NORMALIZER — Rebase the row index on a reference entry
// ============================================================================
// int, float and duration indexes: label - label[ref], same kind.
// time indexes: offsets t - t[ref], re-expressed as epoch + offset (UTC)
// so the reference row lands on 1970-01-01. KeepDurations leaves the offsets
// as a duration index instead.
// Text, tuple and mixed indexes have no subtraction and fail with a
// *TypeMismatchError.
// ============================================================================

// IndexOption configures ResetIndex.
type IndexOption func(*indexConfig)

type indexConfig struct {
	reference     frame.Label
	keepDurations bool
}

// WithReference sets the entry that becomes the origin, by label or by
// position. The default is position 0.
func WithReference(label frame.Label) IndexOption {
	return func(c *indexConfig) { c.reference = frame.NormalizeLabel(label) }
}

// KeepDurations leaves a time index as plain offsets.
func KeepDurations() IndexOption {
	return func(c *indexConfig) { c.keepDurations = true }
}

func applyIndexOptions(opts []IndexOption) *indexConfig {
	cfg := &indexConfig{reference: 0}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// ResetIndex replaces the row index of t with its offsets from the
// reference entry. Columns are untouched. t is modified and returned.
func ResetIndex(t *frame.Table, opts ...IndexOption) (*frame.Table, error) {
	cfg := applyIndexOptions(opts)

	ix := t.Index()
	if ix.Len() == 0 {
		return t, nil
	}
	pos, err := Resolve(cfg.reference, ix.Labels(), frame.AxisRows)
	if err != nil {
		return nil, err
	}
	if err := frame.CheckPosition(frame.AxisRows, pos, ix.Len()); err != nil {
		return nil, err
	}
	origin := ix.At(pos)

	var rebased *frame.Index
	switch ix.Kind() {
	case frame.KindInt:
		o := origin.(int)
		rebased = ix.Map(func(l frame.Label) frame.Label { return l.(int) - o })
	case frame.KindFloat:
		o := origin.(float64)
		rebased = ix.Map(func(l frame.Label) frame.Label { return l.(float64) - o })
	case frame.KindDuration:
		o := origin.(time.Duration)
		rebased = ix.Map(func(l frame.Label) frame.Label { return l.(time.Duration) - o })
	case frame.KindTime:
		o := origin.(time.Time)
		epoch := time.Unix(0, 0).UTC()
		rebased = ix.Map(func(l frame.Label) frame.Label {
			d := l.(time.Time).Sub(o)
			if cfg.keepDurations {
				return d
			}
			return epoch.Add(d)
		})
	default:
		return nil, &TypeMismatchError{Selector: origin, Axis: frame.AxisRows, Kind: ix.Kind()}
	}

	if err := t.SetIndex(rebased); err != nil {
		return nil, err
	}
	return t, nil
}

// Reindexer returns a Step that runs ResetIndex with opts.
func Reindexer(opts ...IndexOption) Step {
	return func(t *frame.Table) (*frame.Table, error) {
		return ResetIndex(t, opts...)
	}
}
