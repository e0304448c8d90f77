package engine

import (
	"fmt"
	"strings"

	"github.com/spektr-org/gcframe/frame"
	"github.com/spektr-org/gcframe/pipeline"
)

// ============================================================================
// ENGINE TYPES — Operations, relabeling modes, selectors and steps
// ============================================================================

// Step is one pipeline stage applied to a per-group table.
type Step = pipeline.Func[*frame.Table]

// ============================================================================
// OPERATION — Element-wise arithmetic against a reference row or column
// ============================================================================

// Operation names one of the four arithmetic operators.
type Operation string

const (
	OpSubtract Operation = "subtract"
	OpAdd      Operation = "add"
	OpMultiply Operation = "multiply"
	OpDivide   Operation = "divide"
)

// Valid reports whether op is one of the supported operations.
func (op Operation) Valid() bool {
	switch op {
	case OpSubtract, OpAdd, OpMultiply, OpDivide:
		return true
	}
	return false
}

// ParseOperation maps a name onto an Operation. Case is ignored.
func ParseOperation(name string) (Operation, error) {
	op := Operation(strings.ToLower(strings.TrimSpace(name)))
	if !op.Valid() {
		return "", &InvalidOperationError{Operation: name}
	}
	return op, nil
}

// apply computes x op ref. Division follows IEEE-754.
func (op Operation) apply(x, ref float64) float64 {
	switch op {
	case OpSubtract:
		return x - ref
	case OpAdd:
		return x + ref
	case OpMultiply:
		return x * ref
	case OpDivide:
		return x / ref
	}
	return x
}

// ============================================================================
// MULTI-INDEX — Relabeling of the concatenation axis
// ============================================================================

// MultiIndex selects how reassembly relabels the concatenation axis.
type MultiIndex string

const (
	// MultiIndexNone keeps the labels produced by concatenation.
	MultiIndexNone MultiIndex = ""
	// MultiIndexHierarchy turns label L of group G into frame.Tuple{G, L}.
	MultiIndexHierarchy MultiIndex = "hierarchy"
	// MultiIndexJoin turns label L of group G into "L<sep>G".
	MultiIndexJoin MultiIndex = "join"
)

// ParseMultiIndex maps a name onto a MultiIndex. "", "none" and "false"
// disable relabeling.
func ParseMultiIndex(name string) (MultiIndex, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none", "false":
		return MultiIndexNone, nil
	case "hierarchy":
		return MultiIndexHierarchy, nil
	case "join":
		return MultiIndexJoin, nil
	}
	return MultiIndexNone, fmt.Errorf("engine: unknown multi-index mode %q", name)
}

// ============================================================================
// SELECTOR — Reference row or column
// ============================================================================

// Selector picks a reference row (AxisRows) or numeric column (AxisColumns)
// by label or, failing that, by integer position.
type Selector struct {
	Axis  frame.Axis
	Label frame.Label
}

// Row selects a row of the index.
func Row(label frame.Label) Selector {
	return Selector{Axis: frame.AxisRows, Label: frame.NormalizeLabel(label)}
}

// Col selects a numeric column.
func Col(label frame.Label) Selector {
	return Selector{Axis: frame.AxisColumns, Label: frame.NormalizeLabel(label)}
}

func (s Selector) String() string {
	return fmt.Sprintf("%s[%s]", s.Axis, frame.FormatLabel(s.Label))
}
