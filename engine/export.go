package engine

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spektr-org/gcframe/frame"
)

// ============================================================================
// EXPORT — Table → records → {"data": [...]}
// ============================================================================
// One record per row, fields in column order. The row label is appended
// under the row field: ISO-8601 for a time index, natural text otherwise.
// A column already named like the row field keeps its position and takes
// the row label.
// ============================================================================

// Document is the exported JSON envelope.
type Document struct {
	Data []frame.Record `json:"data"`
}

// BuildRecords converts t into records. An empty rowField leaves the row
// label out.
func BuildRecords(t *frame.Table, rowField string) []frame.Record {
	recs := t.Records()
	if rowField == "" {
		return recs
	}
	ix := t.Index()
	for i := range recs {
		recs[i].Set(rowField, rowLabel(ix, i))
	}
	return recs
}

func rowLabel(ix *frame.Index, i int) string {
	if ix.IsTime() {
		return frame.FormatISO(ix.At(i))
	}
	return frame.FormatLabel(ix.At(i))
}

// EncodeJSON writes the records inside the {"data": [...]} envelope.
// Write errors are returned as they are.
func EncodeJSON(w io.Writer, records []frame.Record) error {
	if records == nil {
		records = []frame.Record{}
	}
	body, err := json.Marshal(Document{Data: records})
	if err != nil {
		return fmt.Errorf("engine: encode records: %w", err)
	}
	_, err = w.Write(body)
	return err
}
