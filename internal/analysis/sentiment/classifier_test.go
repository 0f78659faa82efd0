package sentiment

import (
	"testing"

	"github.com/sentilens/backend/internal/dataset"
)

type stubScorer map[string]float64

func (s stubScorer) Compound(text string) float64 { return s[text] }

func TestLabelForThresholds(t *testing.T) {
	cases := []struct {
		score float64
		want  Label
	}{
		{0.5, Positive},
		{0.05, Positive},
		{0.049, Neutral},
		{0.0, Neutral},
		{-0.049, Neutral},
		{-0.05, Negative},
		{-0.5, Negative},
	}
	for _, tc := range cases {
		if got := LabelFor(tc.score); got != tc.want {
			t.Fatalf("LabelFor(%f) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestClassifyAppendsColumns(t *testing.T) {
	scorer := stubScorer{"i love it": 0.8, "awful": -0.6, "meh": 0.0}
	table := &dataset.Table{
		Columns: []string{"comment"},
		Rows: []dataset.Row{
			{"comment": "i love it"},
			{"comment": "awful"},
			{"comment": "meh"},
		},
	}

	out := NewClassifier(scorer).Classify(table)

	if !out.HasColumn(Column) || !out.HasColumn(ScoreColumn) {
		t.Fatalf("expected sentiment columns, got %v", out.Columns)
	}

	wantLabels := []Label{Positive, Negative, Neutral}
	for i, row := range out.Rows {
		if got := RowLabel(row); got != wantLabels[i] {
			t.Fatalf("row %d: got %s, want %s", i, got, wantLabels[i])
		}
		score, ok := row.Float(ScoreColumn)
		if !ok || score < -1 || score > 1 {
			t.Fatalf("row %d: score out of range: %v", i, row[ScoreColumn])
		}
	}
}

func TestClassifyNonStringIsNeutral(t *testing.T) {
	table := &dataset.Table{
		Columns: []string{"comment"},
		Rows: []dataset.Row{
			{"comment": 42.0},
			{},
		},
	}

	out := NewClassifier(stubScorer{}).Classify(table)

	for i, row := range out.Rows {
		if got := RowLabel(row); got != Neutral {
			t.Fatalf("row %d: expected Neutral, got %s", i, got)
		}
		if score, _ := row.Float(ScoreColumn); score != 0 {
			t.Fatalf("row %d: expected score 0, got %f", i, score)
		}
	}
}

func TestClassifyNoTextColumnIsNoop(t *testing.T) {
	table := &dataset.Table{
		Columns: []string{"likes"},
		Rows:    []dataset.Row{{"likes": 3.0}},
	}

	out := NewClassifier(stubScorer{}).Classify(table)

	if out.HasColumn(Column) || out.HasColumn(ScoreColumn) {
		t.Fatalf("expected table unchanged, got columns %v", out.Columns)
	}
	if len(out.Rows) != 1 {
		t.Fatalf("expected rows untouched, got %d", len(out.Rows))
	}
}

func TestClassifyUsesFallbackColumn(t *testing.T) {
	scorer := stubScorer{"long descriptive note": 0.3}
	table := &dataset.Table{
		Columns: []string{"tag", "note"},
		Rows: []dataset.Row{
			{"tag": "x", "note": "long descriptive note"},
		},
	}

	out := NewClassifier(scorer).Classify(table)

	if got := RowLabel(out.Rows[0]); got != Positive {
		t.Fatalf("expected fallback column to be scored, got %s", got)
	}
}

func TestRowLabelDefaultsToNeutral(t *testing.T) {
	if got := RowLabel(dataset.Row{}); got != Neutral {
		t.Fatalf("expected Neutral for missing column, got %s", got)
	}
	if got := RowLabel(dataset.Row{Column: "Bogus"}); got != Neutral {
		t.Fatalf("expected Neutral for malformed label, got %s", got)
	}
}
