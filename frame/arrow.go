package frame

import (
	"fmt"
	"math"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// ============================================================================
// ARROW — Columnar export
// ============================================================================
// The row index becomes the first field, named by indexField, unless
// indexField is empty. Field types:
//   int → int64, float → float64, time → timestamp[ns], duration → duration[ns]
//   text, tuple and mixed labels → utf8 (text form)
// Numeric columns become float64 (NaN → null), text columns utf8 ("" → null)
// and time columns timestamp[ns] (zero time → null).
// The caller releases the returned record.
// ============================================================================

// ToArrow converts the table into an Arrow record.
func (t *Table) ToArrow(mem memory.Allocator, indexField string) (arrow.Record, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	fields := make([]arrow.Field, 0, len(t.columns)+1)
	if indexField != "" {
		fields = append(fields, arrow.Field{Name: indexField, Type: indexArrowType(t.index.kind), Nullable: true})
	}
	for _, c := range t.columns {
		fields = append(fields, arrow.Field{Name: FormatLabel(c.label), Type: columnArrowType(c.kind), Nullable: true})
	}
	schema := arrow.NewSchema(fields, nil)

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	f := 0
	if indexField != "" {
		if err := appendIndex(b.Field(0), t.index); err != nil {
			return nil, err
		}
		f = 1
	}
	for j, c := range t.columns {
		if err := appendColumn(b.Field(f+j), c); err != nil {
			return nil, err
		}
	}
	return b.NewRecord(), nil
}

func indexArrowType(k Kind) arrow.DataType {
	switch k {
	case KindInt:
		return arrow.PrimitiveTypes.Int64
	case KindFloat:
		return arrow.PrimitiveTypes.Float64
	case KindTime:
		return arrow.FixedWidthTypes.Timestamp_ns
	case KindDuration:
		return arrow.FixedWidthTypes.Duration_ns
	}
	return arrow.BinaryTypes.String
}

func columnArrowType(k Kind) arrow.DataType {
	switch k {
	case KindFloat:
		return arrow.PrimitiveTypes.Float64
	case KindTime:
		return arrow.FixedWidthTypes.Timestamp_ns
	}
	return arrow.BinaryTypes.String
}

func appendIndex(fb array.Builder, ix *Index) error {
	switch b := fb.(type) {
	case *array.Int64Builder:
		for _, l := range ix.labels {
			b.Append(int64(l.(int)))
		}
	case *array.Float64Builder:
		for _, l := range ix.labels {
			b.Append(l.(float64))
		}
	case *array.TimestampBuilder:
		for _, l := range ix.labels {
			b.Append(arrow.Timestamp(l.(time.Time).UnixNano()))
		}
	case *array.DurationBuilder:
		for _, l := range ix.labels {
			b.Append(arrow.Duration(l.(time.Duration)))
		}
	case *array.StringBuilder:
		for _, l := range ix.labels {
			b.Append(FormatLabel(l))
		}
	default:
		return fmt.Errorf("frame: no arrow builder for index kind %s", ix.kind)
	}
	return nil
}

func appendColumn(fb array.Builder, c *Column) error {
	switch b := fb.(type) {
	case *array.Float64Builder:
		for _, v := range c.nums {
			if math.IsNaN(v) {
				b.AppendNull()
				continue
			}
			b.Append(v)
		}
	case *array.TimestampBuilder:
		for _, v := range c.times {
			if v.IsZero() {
				b.AppendNull()
				continue
			}
			b.Append(arrow.Timestamp(v.UnixNano()))
		}
	case *array.StringBuilder:
		for _, v := range c.texts {
			if v == "" {
				b.AppendNull()
				continue
			}
			b.Append(v)
		}
	default:
		return fmt.Errorf("frame: no arrow builder for column %s", FormatLabel(c.label))
	}
	return nil
}
