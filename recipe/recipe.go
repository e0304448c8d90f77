package recipe

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spektr-org/gcframe/engine"
	"github.com/spektr-org/gcframe/frame"
)

// ============================================================================
// RECIPE — Declarative description of a split, transform and reassemble run
// ============================================================================
// A recipe names the CSV columns to load, the grouping column, the ordered
// pipeline steps and the concat/export settings. YAML on disk, JSON works
// as well since it is a YAML subset.
// ============================================================================

// Step op names beyond the four engine operations.
const (
	OpResetStartingValues = "resetStartingValues"
	OpResetIndex          = "resetIndex"
)

// Recipe is one pipeline run.
type Recipe struct {
	Name string `yaml:"name" json:"name"`

	// Index is the CSV column used as row index. Empty uses the discovered
	// one, "-" numbers the rows.
	Index string `yaml:"index,omitempty" json:"index,omitempty"`
	// Value loads this one column as a series instead of a table.
	Value string `yaml:"value,omitempty" json:"value,omitempty"`
	// Columns restricts the loaded table columns.
	Columns []string `yaml:"columns,omitempty" json:"columns,omitempty"`
	// Filter keeps the table rows whose cells match, before grouping.
	Filter engine.Filters `yaml:"filter,omitempty" json:"filter,omitempty"`
	// Rename relabels the sole column of an ungrouped frame.
	Rename string `yaml:"rename,omitempty" json:"rename,omitempty"`

	GroupBy GroupSpec  `yaml:"groupBy" json:"groupBy"`
	Steps   []StepSpec `yaml:"steps" json:"steps"`
	Concat  ConcatSpec `yaml:"concat" json:"concat"`
	Output  OutputSpec `yaml:"output" json:"output"`

	// keys holds the group keys of a series loaded by Frame, whose table
	// no longer carries the grouping column.
	keys frame.ByKeys
}

// GroupSpec names the grouping column.
type GroupSpec struct {
	Column      string `yaml:"column" json:"column"`
	Sort        bool   `yaml:"sort,omitempty" json:"sort,omitempty"`
	KeepMissing bool   `yaml:"keepMissing,omitempty" json:"keepMissing,omitempty"`
	// DropKey removes the grouping column from every group before the steps.
	DropKey bool `yaml:"dropKey,omitempty" json:"dropKey,omitempty"`
}

// StepSpec is one pipeline stage. Index and Column select the reference
// row or column of an operation; at most one may be set.
type StepSpec struct {
	Op            string `yaml:"op" json:"op"`
	Index         any    `yaml:"index,omitempty" json:"index,omitempty"`
	Column        any    `yaml:"column,omitempty" json:"column,omitempty"`
	Reference     any    `yaml:"reference,omitempty" json:"reference,omitempty"`
	KeepDurations bool   `yaml:"keepDurations,omitempty" json:"keepDurations,omitempty"`
}

// ConcatSpec configures reassembly.
type ConcatSpec struct {
	MultiIndex any     `yaml:"multiIndex,omitempty" json:"multiIndex,omitempty"` // hierarchy (default), join, none or false
	Sep        *string `yaml:"sep,omitempty" json:"sep,omitempty"`
	Axis       *int    `yaml:"axis,omitempty" json:"axis,omitempty"` // 0 rows, 1 columns (default)
	Join       string  `yaml:"join,omitempty" json:"join,omitempty"` // outer (default), inner
	Sort       bool    `yaml:"sort,omitempty" json:"sort,omitempty"`
}

// OutputSpec configures the JSON export.
type OutputSpec struct {
	File     string  `yaml:"file,omitempty" json:"file,omitempty"`
	RowField *string `yaml:"rowField,omitempty" json:"rowField,omitempty"`
	Sep      *string `yaml:"sep,omitempty" json:"sep,omitempty"`
	Axis     *int    `yaml:"axis,omitempty" json:"axis,omitempty"`
}

// Parse decodes and validates a recipe.
func Parse(data []byte) (*Recipe, error) {
	var r Recipe
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("recipe: failed to parse YAML: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Load reads and parses a recipe file.
func Load(path string) (*Recipe, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the caller
	if err != nil {
		return nil, fmt.Errorf("recipe: failed to read %s: %w", path, err)
	}
	return Parse(data)
}

// Validate checks op names, selectors and concat settings without
// touching any data.
func (r *Recipe) Validate() error {
	if r.Value != "" && !r.Filter.IsEmpty() {
		return fmt.Errorf("recipe: filter applies to tables, not to the %q series", r.Value)
	}
	for i, s := range r.Steps {
		if err := s.validate(); err != nil {
			return fmt.Errorf("recipe: step %d: %w", i, err)
		}
	}
	if _, err := r.multiIndex(); err != nil {
		return fmt.Errorf("recipe: concat: %w", err)
	}
	if _, err := axisOf(r.Concat.Axis); err != nil {
		return fmt.Errorf("recipe: concat: %w", err)
	}
	if _, err := axisOf(r.Output.Axis); err != nil {
		return fmt.Errorf("recipe: output: %w", err)
	}
	if _, err := joinOf(r.Concat.Join); err != nil {
		return fmt.Errorf("recipe: concat: %w", err)
	}
	return nil
}

func (s StepSpec) validate() error {
	switch s.Op {
	case OpResetStartingValues:
		return nil
	case OpResetIndex:
		if s.Index != nil || s.Column != nil {
			return fmt.Errorf("%s takes a reference, not a selector", s.Op)
		}
		return nil
	}
	if _, err := engine.ParseOperation(s.Op); err != nil {
		return err
	}
	if s.Index != nil && s.Column != nil {
		return fmt.Errorf("%s: set index or column, not both", s.Op)
	}
	return nil
}

func (r *Recipe) multiIndex() (engine.MultiIndex, error) {
	switch v := r.Concat.MultiIndex.(type) {
	case nil:
		return engine.MultiIndexHierarchy, nil
	case bool:
		if v {
			return engine.MultiIndexHierarchy, nil
		}
		return engine.MultiIndexNone, nil
	case string:
		return engine.ParseMultiIndex(v)
	}
	return engine.MultiIndexNone, fmt.Errorf("multiIndex must be a mode name or false, got %v", r.Concat.MultiIndex)
}

func axisOf(v *int) (frame.Axis, error) {
	if v == nil {
		return frame.AxisColumns, nil
	}
	switch *v {
	case 0:
		return frame.AxisRows, nil
	case 1:
		return frame.AxisColumns, nil
	}
	return frame.AxisColumns, fmt.Errorf("axis must be 0 or 1, got %d", *v)
}

func joinOf(name string) (frame.Join, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "outer":
		return frame.JoinOuter, nil
	case "inner":
		return frame.JoinInner, nil
	}
	return frame.JoinOuter, fmt.Errorf("unknown join %q", name)
}
