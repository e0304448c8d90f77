package frame

import (
	"fmt"
	"slices"
	"time"
)

// Index is the ordered row axis of a table. Labels may repeat; lookups
// return the first match.
type Index struct {
	kind   Kind
	labels []Label
}

// NewIndex builds an index from arbitrary labels, normalizing numeric
// variants. Unsupported label types are rejected.
func NewIndex(labels ...Label) (*Index, error) {
	out := make([]Label, len(labels))
	for i, l := range labels {
		l = NormalizeLabel(l)
		if KindOf(l) == KindInvalid {
			return nil, fmt.Errorf("frame: %w: %v (%T)", ErrUnsupportedLabel, l, l)
		}
		out[i] = l
	}
	return newIndex(out), nil
}

// newIndex wraps already-normalized labels without copying.
func newIndex(labels []Label) *Index {
	return &Index{kind: inferKind(labels), labels: labels}
}

// RangeIndex returns the default 0..n-1 integer index.
func RangeIndex(n int) *Index {
	labels := make([]Label, n)
	for i := range labels {
		labels[i] = i
	}
	return &Index{kind: KindInt, labels: labels}
}

// IntIndex returns an index of integer labels.
func IntIndex(vals []int) *Index { return typedIndex(vals, KindInt) }

// FloatIndex returns an index of float labels.
func FloatIndex(vals []float64) *Index { return typedIndex(vals, KindFloat) }

// TextIndex returns an index of string labels.
func TextIndex(vals []string) *Index { return typedIndex(vals, KindText) }

// TimeIndex returns a time-like index.
func TimeIndex(vals []time.Time) *Index { return typedIndex(vals, KindTime) }

// DurationIndex returns an index of offsets.
func DurationIndex(vals []time.Duration) *Index { return typedIndex(vals, KindDuration) }

func typedIndex[T any](vals []T, kind Kind) *Index {
	labels := make([]Label, len(vals))
	for i, v := range vals {
		labels[i] = v
	}
	if len(labels) == 0 {
		kind = KindInt
	}
	return &Index{kind: kind, labels: labels}
}

func inferKind(labels []Label) Kind {
	if len(labels) == 0 {
		return KindInt
	}
	k := KindOf(labels[0])
	for _, l := range labels[1:] {
		if KindOf(l) != k {
			return KindMixed
		}
	}
	return k
}

// Len returns the number of labels.
func (ix *Index) Len() int { return len(ix.labels) }

// Kind returns the kind shared by all labels, or KindMixed.
func (ix *Index) Kind() Kind { return ix.kind }

// IsTime reports whether the axis is time-like.
func (ix *Index) IsTime() bool { return ix.kind == KindTime }

// At returns the label at position i.
func (ix *Index) At(i int) Label { return ix.labels[i] }

// Labels returns a copy of the labels.
func (ix *Index) Labels() []Label { return slices.Clone(ix.labels) }

// Position returns the first position holding l, or -1.
func (ix *Index) Position(l Label) int {
	for i, x := range ix.labels {
		if Equal(x, l) {
			return i
		}
	}
	return -1
}

// IsUnique reports whether no label repeats.
func (ix *Index) IsUnique() bool {
	seen := make(map[any]struct{}, len(ix.labels))
	for _, l := range ix.labels {
		k := keyOf(l)
		if _, ok := seen[k]; ok {
			return false
		}
		seen[k] = struct{}{}
	}
	return true
}

// Equal reports whether both indexes hold the same labels in the same order.
func (ix *Index) Equal(o *Index) bool {
	if ix.Len() != o.Len() {
		return false
	}
	for i, l := range ix.labels {
		if !SameType(l, o.labels[i]) || !Equal(l, o.labels[i]) {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (ix *Index) Clone() *Index {
	return &Index{kind: ix.kind, labels: slices.Clone(ix.labels)}
}

// Take returns the labels at the given positions.
func (ix *Index) Take(rows []int) *Index {
	labels := make([]Label, len(rows))
	for i, r := range rows {
		labels[i] = ix.labels[r]
	}
	return &Index{kind: ix.kind, labels: labels}
}

// Map returns a new index holding fn applied to every label.
func (ix *Index) Map(fn func(Label) Label) *Index {
	labels := make([]Label, len(ix.labels))
	for i, l := range ix.labels {
		labels[i] = NormalizeLabel(fn(l))
	}
	return newIndex(labels)
}

// Append returns the labels of ix followed by those of o.
func (ix *Index) Append(o *Index) *Index {
	labels := make([]Label, 0, ix.Len()+o.Len())
	labels = append(labels, ix.labels...)
	labels = append(labels, o.labels...)
	return newIndex(labels)
}

// positions maps each label of target onto its first position in ix,
// or -1 when ix does not hold it.
func (ix *Index) positions(target *Index) []int {
	first := make(map[any]int, len(ix.labels))
	for i, l := range ix.labels {
		k := keyOf(l)
		if _, ok := first[k]; !ok {
			first[k] = i
		}
	}
	rows := make([]int, target.Len())
	for i, l := range target.labels {
		if p, ok := first[keyOf(l)]; ok {
			rows[i] = p
		} else {
			rows[i] = -1
		}
	}
	return rows
}
