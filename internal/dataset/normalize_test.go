package dataset

import (
	"testing"
	"time"
)

func TestNormalizeColumnNames(t *testing.T) {
	raw := &Table{
		Columns: []string{" Comment ", "LIKES"},
		Rows: []Row{
			{" Comment ": "great", "LIKES": 3.0},
		},
	}

	out := Normalize(raw)

	if len(out.Columns) != 2 {
		t.Fatalf("expected 2 columns, got %v", out.Columns)
	}
	if out.Columns[0] != "comment" || out.Columns[1] != "likes" {
		t.Fatalf("expected trimmed lowercase names, got %v", out.Columns)
	}
	if v, ok := out.Rows[0].String("comment"); !ok || v != "great" {
		t.Fatalf("expected comment cell to survive rename, got %v", out.Rows[0])
	}
}

func TestNormalizeDropsEmptyRowsAndColumns(t *testing.T) {
	raw := &Table{
		Columns: []string{"comment", "junk"},
		Rows: []Row{
			{"comment": "fine", "junk": nil},
			{"comment": nil, "junk": "  "},
			{"comment": "also fine", "junk": nil},
		},
	}

	out := Normalize(raw)

	if len(out.Rows) != 2 {
		t.Fatalf("expected 2 rows after dropping empty row, got %d", len(out.Rows))
	}
	if out.HasColumn("junk") {
		t.Fatalf("expected all-missing column to be dropped, got %v", out.Columns)
	}
}

func TestNormalizeParsesDateColumns(t *testing.T) {
	raw := &Table{
		Columns: []string{"created_at", "comment"},
		Rows: []Row{
			{"created_at": "2024-01-02", "comment": "a"},
			{"created_at": "not a date", "comment": "b"},
		},
	}

	out := Normalize(raw)

	ts, ok := out.Rows[0].Time("created_at")
	if !ok {
		t.Fatalf("expected first timestamp to parse, got %v", out.Rows[0]["created_at"])
	}
	want := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	if !ts.Equal(want) {
		t.Fatalf("expected %v, got %v", want, ts)
	}

	// Unparseable values become missing, never an error.
	if _, present := out.Rows[1]["created_at"]; present {
		t.Fatalf("expected unparseable timestamp to be dropped, got %v", out.Rows[1]["created_at"])
	}
}

func TestNormalizeLeavesNonDateColumnsAlone(t *testing.T) {
	raw := &Table{
		Columns: []string{"comment"},
		Rows:    []Row{{"comment": "2024-01-02"}},
	}

	out := Normalize(raw)

	if _, ok := out.Rows[0].String("comment"); !ok {
		t.Fatalf("expected non-date column to keep string value, got %T", out.Rows[0]["comment"])
	}
}

func TestNormalizeNil(t *testing.T) {
	out := Normalize(nil)
	if len(out.Rows) != 0 || len(out.Columns) != 0 {
		t.Fatalf("expected empty table, got %+v", out)
	}
}
