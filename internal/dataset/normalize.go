package dataset

import (
	"strings"
	"time"
)

// Column names containing any of these fragments get timestamp coercion
// during normalization.
var timeNameFragments = []string{"date", "time", "created", "timestamp"}

// Layouts tried in order when coercing a cell to a timestamp.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"02-01-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	time.RFC1123,
}

// Normalize coerces a raw table into canonical form: all-missing rows and
// columns are dropped, column names are trimmed and lowercased, and cells
// in date-like columns are parsed into timestamps. Coercion is best effort;
// a value that cannot be parsed becomes missing rather than an error.
func Normalize(t *Table) *Table {
	if t == nil {
		return &Table{}
	}

	renamed := make([]string, 0, len(t.Columns))
	for _, col := range t.Columns {
		renamed = append(renamed, strings.ToLower(strings.TrimSpace(col)))
	}

	rows := make([]Row, 0, len(t.Rows))
	for _, row := range t.Rows {
		out := make(Row, len(row))
		empty := true
		for i, col := range t.Columns {
			v := row[col]
			if isMissing(v) {
				continue
			}
			empty = false
			out[renamed[i]] = v
		}
		if !empty {
			rows = append(rows, out)
		}
	}

	// Drop columns with no surviving values.
	columns := make([]string, 0, len(renamed))
	for _, col := range renamed {
		populated := false
		for _, row := range rows {
			if !isMissing(row[col]) {
				populated = true
				break
			}
		}
		if populated && !contains(columns, col) {
			columns = append(columns, col)
		}
	}

	out := &Table{Columns: columns, Rows: rows}
	coerceTimeColumns(out)
	return out
}

func coerceTimeColumns(t *Table) {
	for _, col := range t.Columns {
		if !isTimeName(col) {
			continue
		}
		for _, row := range t.Rows {
			v, ok := row[col]
			if !ok {
				continue
			}
			if _, already := v.(time.Time); already {
				continue
			}
			if ts, ok := ParseTimestamp(v); ok {
				row[col] = ts
			} else {
				delete(row, col)
			}
		}
	}
}

// ParseTimestamp attempts to interpret a cell as a point in time.
func ParseTimestamp(v Value) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, true
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range timeLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts, true
			}
		}
	}
	return time.Time{}, false
}

func isTimeName(col string) bool {
	for _, frag := range timeNameFragments {
		if strings.Contains(col, frag) {
			return true
		}
	}
	return false
}

func isMissing(v Value) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return true
	}
	return false
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
