package dataset

import (
	"encoding/json"
	"fmt"
	"time"
)

// Value is a single cell. Concrete types are string, float64 and
// time.Time; a nil Value means missing.
type Value interface{}

// Row maps normalized column names to cell values.
type Row map[string]Value

// Table is the in-memory dataset the analysis pipeline operates on.
// Columns preserves source column order; Rows preserves source row order.
// A Table belongs to exactly one analysis run and is never shared between
// concurrent requests.
type Table struct {
	Columns []string
	Rows    []Row
}

// HasColumn reports whether the table declares the given column.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// AddColumn declares a new column if it is not already present.
func (t *Table) AddColumn(name string) {
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
}

// String returns the cell as a string, reporting false for missing or
// non-string cells.
func (r Row) String(col string) (string, bool) {
	s, ok := r[col].(string)
	return s, ok
}

// Float returns the cell as a float64, reporting false for missing or
// non-numeric cells.
func (r Row) Float(col string) (float64, bool) {
	f, ok := r[col].(float64)
	return f, ok
}

// Time returns the cell as a time.Time, reporting false for missing or
// non-timestamp cells.
func (r Row) Time(col string) (time.Time, bool) {
	ts, ok := r[col].(time.Time)
	return ts, ok
}

type tableJSON struct {
	Columns []string                 `json:"columns"`
	Rows    []map[string]interface{} `json:"rows"`
}

// MarshalJSON encodes the table with timestamps as RFC 3339 strings so a
// snapshot survives a round trip through storage.
func (t *Table) MarshalJSON() ([]byte, error) {
	out := tableJSON{Columns: t.Columns, Rows: make([]map[string]interface{}, 0, len(t.Rows))}
	for _, row := range t.Rows {
		enc := make(map[string]interface{}, len(row))
		for col, v := range row {
			if ts, ok := v.(time.Time); ok {
				enc[col] = ts.Format(time.RFC3339)
			} else {
				enc[col] = v
			}
		}
		out.Rows = append(out.Rows, enc)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a stored snapshot. Timestamp columns come back as
// strings; callers re-run Normalize to recover time.Time cells.
func (t *Table) UnmarshalJSON(data []byte) error {
	var in tableJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("failed to decode table snapshot: %w", err)
	}
	t.Columns = in.Columns
	t.Rows = make([]Row, 0, len(in.Rows))
	for _, enc := range in.Rows {
		row := make(Row, len(enc))
		for col, v := range enc {
			row[col] = v
		}
		t.Rows = append(t.Rows, row)
	}
	return nil
}
