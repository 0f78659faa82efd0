package dataset

import (
	"strings"
	"testing"
)

func TestLoadCSV(t *testing.T) {
	csv := "Comment,Likes\nGreat product,10\nTerrible service,2\n"

	table, err := LoadCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
	if !table.HasColumn("comment") || !table.HasColumn("likes") {
		t.Fatalf("expected normalized columns, got %v", table.Columns)
	}
	if v, ok := table.Rows[0].Float("likes"); !ok || v != 10 {
		t.Fatalf("expected numeric likes=10, got %v", table.Rows[0]["likes"])
	}
	if v, ok := table.Rows[1].String("comment"); !ok || v != "Terrible service" {
		t.Fatalf("unexpected comment cell: %v", table.Rows[1]["comment"])
	}
}

func TestLoadCSVLatin1Fallback(t *testing.T) {
	// 0xE9 is Latin-1 'é' and invalid on its own as UTF-8.
	raw := append([]byte("comment\ncaf"), 0xE9, '\n')

	table, err := LoadCSV(strings.NewReader(string(raw)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _ := table.Rows[0].String("comment"); v != "café" {
		t.Fatalf("expected latin-1 fallback decode, got %q", v)
	}
}

func TestLoadJSON(t *testing.T) {
	payload := `[{"comment":"nice","likes":5},{"comment":"bad","likes":1}]`

	table, err := LoadJSON(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
	if v, ok := table.Rows[0].Float("likes"); !ok || v != 5 {
		t.Fatalf("expected likes=5, got %v", table.Rows[0]["likes"])
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	if _, err := Load("data.xls", nil); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestTableSnapshotRoundTrip(t *testing.T) {
	csv := "comment,created_at\nhello,2024-03-01\n"
	table, err := LoadCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := table.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var restored Table
	if err := restored.UnmarshalJSON(data); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	normalized := Normalize(&restored)

	if _, ok := normalized.Rows[0].Time("created_at"); !ok {
		t.Fatalf("expected timestamp to survive round trip, got %v", normalized.Rows[0]["created_at"])
	}
	if v, _ := normalized.Rows[0].String("comment"); v != "hello" {
		t.Fatalf("expected comment to survive round trip, got %q", v)
	}
}
