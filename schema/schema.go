package schema

// ============================================================================
// SCHEMA — Describes the columns of a CSV dataset before it becomes a table
// ============================================================================
// Auto-discovered from raw CSV (DiscoverFromCSV) or written by hand.
// helpers.ParseCSV uses it to pick the index column, to parse time and
// number cells and to decide which columns are kept.
// ============================================================================

// Kind is the value kind of a column.
type Kind string

const (
	KindNumber Kind = "number"
	KindTime   Kind = "time"
	KindText   Kind = "text"
)

// Role is what a column is used for once loaded.
type Role string

const (
	// RoleValue columns carry the numbers the pipeline transforms.
	RoleValue Role = "value"
	// RoleIndex columns can serve as the row index.
	RoleIndex Role = "index"
	// RoleGroup columns are candidate group keys.
	RoleGroup Role = "group"
	// RoleSkip columns are left out of the table.
	RoleSkip Role = "skip"
)

// Config describes the complete shape of a dataset.
type Config struct {
	Name    string       `json:"name"`
	Columns []ColumnMeta `json:"columns"`

	// Index is the header of the suggested index column, if any.
	Index string `json:"index,omitempty"`

	// Auto-discovery metadata
	DiscoveredFrom string `json:"discoveredFrom,omitempty"`
	DiscoveredAt   string `json:"discoveredAt,omitempty"`
}

// ColumnMeta describes one CSV column.
type ColumnMeta struct {
	Header          string   `json:"header"`
	Key             string   `json:"key"`
	DisplayName     string   `json:"displayName"`
	Kind            Kind     `json:"kind"`
	Role            Role     `json:"role"`
	TimeLayout      string   `json:"timeLayout,omitempty"` // Go layout for KindTime
	SampleValues    []string `json:"sampleValues"`
	UniqueCount     int      `json:"uniqueCount"`
	NullCount       int      `json:"nullCount"`
	CardinalityHint string   `json:"cardinalityHint,omitempty"` // "low", "medium", "high"
	SkipReason      string   `json:"skipReason,omitempty"`
}

// Column finds a column by header or key.
func (c Config) Column(name string) (ColumnMeta, bool) {
	for _, col := range c.Columns {
		if col.Header == name || col.Key == name {
			return col, true
		}
	}
	return ColumnMeta{}, false
}

// Keys returns the keys of the columns with the given role, all columns
// when role is empty.
func (c Config) Keys(role Role) []string {
	var keys []string
	for _, col := range c.Columns {
		if role == "" || col.Role == role {
			keys = append(keys, col.Key)
		}
	}
	return keys
}

// ValueKeys returns the keys of the value columns.
func (c Config) ValueKeys() []string { return c.Keys(RoleValue) }

// GroupKeys returns the keys of the candidate group columns.
func (c Config) GroupKeys() []string { return c.Keys(RoleGroup) }
