package frame

import (
	"bytes"
	"encoding/json"
	"math"
	"time"
)

// Record is one table row as ordered key/value pairs. Keys keep the order in
// which they were first set.
type Record struct {
	keys   []string
	values []any
}

// Set stores v under key. An existing key keeps its position and takes the
// new value.
func (r *Record) Set(key string, v any) {
	for i, k := range r.keys {
		if k == key {
			r.values[i] = v
			return
		}
	}
	r.keys = append(r.keys, key)
	r.values = append(r.values, v)
}

// Get returns the value stored under key.
func (r Record) Get(key string) (any, bool) {
	for i, k := range r.keys {
		if k == key {
			return r.values[i], true
		}
	}
	return nil, false
}

// Keys returns the keys in order.
func (r Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of keys.
func (r Record) Len() int { return len(r.keys) }

// MarshalJSON writes the record as a JSON object in key order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(jsonValue(r.values[i]))
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// jsonValue maps cell values onto what encoding/json can represent.
func jsonValue(v any) any {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil
		}
	case time.Time:
		if x.IsZero() {
			return nil
		}
		return FormatISO(x)
	case time.Duration:
		return x.String()
	case Tuple:
		return x.String()
	}
	return v
}

// Records returns one Record per row, keyed by the text form of the column
// labels. Missing cells of any kind are nil. Repeated column labels collapse
// onto one key holding the last column's value.
func (t *Table) Records() []Record {
	keys := make([]string, len(t.columns))
	for j, c := range t.columns {
		keys[j] = FormatLabel(c.label)
	}
	out := make([]Record, t.NumRows())
	for i := range out {
		rec := Record{
			keys:   make([]string, 0, len(keys)),
			values: make([]any, 0, len(keys)),
		}
		for j, c := range t.columns {
			var v any
			if !c.IsMissing(i) {
				v = c.Value(i)
			}
			rec.Set(keys[j], v)
		}
		out[i] = rec
	}
	return out
}
