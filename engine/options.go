package engine

import (
	"go.uber.org/zap"

	"github.com/spektr-org/gcframe/frame"
)

// ============================================================================
// ENGINE OPTIONS — Functional options for Concat, ToJSON and Wrap
// ============================================================================

// DefaultSeparator joins label and group key in MultiIndexJoin mode.
const DefaultSeparator = "|"

// DefaultRowField is the record field holding the row label on export.
const DefaultRowField = "idx_"

// DefaultValueName labels the sole column of a wrapped series.
const DefaultValueName = "Value"

// Option configures reassembly and export.
type Option func(*config)

type config struct {
	Axis          frame.Axis
	MultiIndex    MultiIndex
	Separator     string
	RowField      string
	ConcatOptions []frame.ConcatOption
}

// WithAxis sets the concatenation axis. frame.AxisColumns places the group
// tables side by side (default), frame.AxisRows stacks them.
func WithAxis(axis frame.Axis) Option {
	return func(c *config) {
		c.Axis = axis
	}
}

// WithMultiIndex sets how the concatenation axis is relabeled.
// Concat defaults to MultiIndexHierarchy. ToJSON ignores it.
func WithMultiIndex(mode MultiIndex) Option {
	return func(c *config) {
		c.MultiIndex = mode
	}
}

// WithSeparator sets the join separator (default "|"). For ToJSON an empty
// separator turns relabeling off.
func WithSeparator(sep string) Option {
	return func(c *config) {
		c.Separator = sep
	}
}

// WithRowField names the record field that carries the row label on export.
// An empty name leaves the row label out.
func WithRowField(name string) Option {
	return func(c *config) {
		c.RowField = name
	}
}

// WithConcatOptions passes options through to frame.Concat.
func WithConcatOptions(opts ...frame.ConcatOption) Option {
	return func(c *config) {
		c.ConcatOptions = append(c.ConcatOptions, opts...)
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		Axis:       frame.AxisColumns,
		MultiIndex: MultiIndexHierarchy,
		Separator:  DefaultSeparator,
		RowField:   DefaultRowField,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// ============================================================================
// WRAP OPTIONS
// ============================================================================

// WrapOption configures a Frame.
type WrapOption func(*wrapConfig)

type wrapConfig struct {
	logger    *zap.Logger
	valueName string
}

// WithLogger sets the logger used by the frame. The default discards.
func WithLogger(logger *zap.Logger) WrapOption {
	return func(c *wrapConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithValueName sets the column label given to a wrapped series.
func WithValueName(name string) WrapOption {
	return func(c *wrapConfig) {
		c.valueName = name
	}
}

func applyWrapOptions(opts []WrapOption) *wrapConfig {
	cfg := &wrapConfig{
		logger:    zap.NewNop(),
		valueName: DefaultValueName,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
