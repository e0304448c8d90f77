package frame

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// ============================================================================
// LABELS — Axis entries for rows and columns
// ============================================================================
// A label is a plain Go value. The supported dynamic types are:
//   int, float64, string, time.Time, time.Duration, Tuple
// Other integer and float widths are normalized on the way in, so int64(3)
// and int(3) are the same label. Times compare by instant, not by location.
// ============================================================================

// Label is a single entry on a table axis.
type Label = any

// Tuple is a two-level label: the outer level is a group key and the inner
// level the label the entry had inside its group.
type Tuple struct {
	Outer Label
	Inner Label
}

// String renders the tuple as "(outer, inner)".
func (t Tuple) String() string {
	return "(" + FormatLabel(t.Outer) + ", " + FormatLabel(t.Inner) + ")"
}

// Kind classifies the labels of an axis or the values of a column.
type Kind int

const (
	KindInvalid Kind = iota
	KindInt
	KindFloat
	KindText
	KindTime
	KindDuration
	KindTuple
	KindMixed
)

var kindNames = [...]string{
	KindInvalid:  "invalid",
	KindInt:      "int",
	KindFloat:    "float",
	KindText:     "text",
	KindTime:     "time",
	KindDuration: "duration",
	KindTuple:    "tuple",
	KindMixed:    "mixed",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// IsNumeric reports whether values of this kind support arithmetic.
func (k Kind) IsNumeric() bool { return k == KindInt || k == KindFloat }

// KindOf returns the kind of a single (normalized) label.
func KindOf(l Label) Kind {
	switch l.(type) {
	case int:
		return KindInt
	case float64:
		return KindFloat
	case string:
		return KindText
	case time.Time:
		return KindTime
	case time.Duration:
		return KindDuration
	case Tuple:
		return KindTuple
	}
	return KindInvalid
}

// NormalizeLabel maps Go integer and float variants onto int and float64.
// Other values are returned as they are.
func NormalizeLabel(l Label) Label {
	switch v := l.(type) {
	case int8:
		return int(v)
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return int(v)
	case uint:
		return int(v)
	case uint8:
		return int(v)
	case uint16:
		return int(v)
	case uint32:
		return int(v)
	case uint64:
		return int(v)
	case float32:
		return float64(v)
	}
	return l
}

// IsInteger reports whether l holds an integer value.
func IsInteger(l Label) bool {
	_, ok := NormalizeLabel(l).(int)
	return ok
}

// SameType reports whether a and b have the same concrete type after
// normalization.
func SameType(a, b Label) bool {
	return reflect.TypeOf(NormalizeLabel(a)) == reflect.TypeOf(NormalizeLabel(b))
}

// Equal reports whether a and b are the same label. Labels of different
// types are never equal.
func Equal(a, b Label) bool {
	return keyOf(NormalizeLabel(a)) == keyOf(NormalizeLabel(b))
}

type timeKey int64

type tupleKey struct {
	outer, inner any
}

// keyOf returns a comparable map key for a normalized label.
func keyOf(l Label) any {
	switch v := l.(type) {
	case time.Time:
		return timeKey(v.UnixNano())
	case Tuple:
		return tupleKey{keyOf(NormalizeLabel(v.Outer)), keyOf(NormalizeLabel(v.Inner))}
	}
	return l
}

// isMissing reports whether a label denotes a missing value.
func isMissing(l Label) bool {
	switch v := l.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(v)
	}
	return false
}

// ============================================================================
// FORMATTING
// ============================================================================

const (
	// TimeLayout renders time labels in text form.
	TimeLayout = "2006-01-02 15:04:05.999999999"
	// ISOLayout renders time labels in ISO-8601 form.
	ISOLayout = "2006-01-02T15:04:05.999999999"
)

// FormatLabel renders a label in its natural string form.
func FormatLabel(l Label) string {
	return formatLabel(l, TimeLayout)
}

// FormatISO renders a label like FormatLabel, but uses ISO-8601 for times.
func FormatISO(l Label) string {
	return formatLabel(l, ISOLayout)
}

func formatLabel(l Label, layout string) string {
	switch v := NormalizeLabel(l).(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case float64:
		return formatFloat(v)
	case time.Time:
		return formatTime(v, layout)
	case time.Duration:
		return v.String()
	case Tuple:
		return v.String()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// formatFloat renders whole floats with a trailing ".0", unlike ints.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if math.IsNaN(v) || math.IsInf(v, 0) || strings.ContainsRune(s, '.') {
		return s
	}
	return s + ".0"
}

func formatTime(t time.Time, layout string) string {
	s := t.Format(layout)
	if _, offset := t.Zone(); offset != 0 {
		s += t.Format("-07:00")
	}
	return s
}

// Less orders two labels. Labels of the same kind use their natural order;
// otherwise the kind decides, then the text form.
func Less(a, b Label) bool {
	a, b = NormalizeLabel(a), NormalizeLabel(b)
	ka, kb := KindOf(a), KindOf(b)
	if ka != kb {
		return ka < kb
	}
	switch x := a.(type) {
	case int:
		return x < b.(int)
	case float64:
		return x < b.(float64)
	case string:
		return x < b.(string)
	case time.Time:
		return x.Before(b.(time.Time))
	case time.Duration:
		return x < b.(time.Duration)
	case Tuple:
		y := b.(Tuple)
		if !Equal(x.Outer, y.Outer) {
			return Less(x.Outer, y.Outer)
		}
		return Less(x.Inner, y.Inner)
	}
	return FormatLabel(a) < FormatLabel(b)
}
