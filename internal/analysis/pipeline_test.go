package analysis

import (
	"strings"
	"testing"

	"github.com/sentilens/backend/internal/analysis/sentiment"
	"github.com/sentilens/backend/internal/dataset"
)

// phraseScorer scores by the first matching fragment, so fixtures read
// like real feedback instead of lexicon entries.
type phraseScorer map[string]float64

func (s phraseScorer) Compound(text string) float64 {
	for fragment, score := range s {
		if strings.Contains(text, fragment) {
			return score
		}
	}
	return 0
}

func TestPipelineEndToEnd(t *testing.T) {
	scorer := phraseScorer{
		"love":     0.8,
		"terrible": -0.7,
	}
	csv := strings.Join([]string{
		"review,created_at,likes",
		"love the battery,2024-01-01,12",
		"love the battery life,2024-01-02,8",
		"terrible quality battery,2024-01-03,1",
		"just a battery,2024-01-04,3",
	}, "\n")

	table, err := dataset.LoadCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("fixture load failed: %v", err)
	}

	report := NewPipeline(scorer, 10).Run(table)

	if report.GeneratedAt.IsZero() {
		t.Fatal("expected generated_at to be set")
	}

	// Classification lands on the table itself.
	if !table.HasColumn(sentiment.Column) || !table.HasColumn(sentiment.ScoreColumn) {
		t.Fatalf("expected classified columns, got %v", table.Columns)
	}

	// Four distinct days inside a short span bucket daily.
	if len(report.Trends) != 4 {
		t.Fatalf("expected 4 daily buckets, got %+v", report.Trends)
	}
	if report.Trends[0].DateStr != "2024-01-01" || report.Trends[0].Positive != 1 {
		t.Fatalf("unexpected first bucket: %+v", report.Trends[0])
	}

	// "battery" appears in every row and must rank first.
	if len(report.Topics) == 0 || report.Topics[0].Keyword != "battery" {
		t.Fatalf("expected battery as top topic, got %+v", report.Topics)
	}
	if report.Topics[0].Mentions != 4 {
		t.Fatalf("expected 4 battery mentions, got %+v", report.Topics[0])
	}

	if len(report.Keywords) == 0 {
		t.Fatal("expected keyword counts")
	}

	// 2 positive / 1 negative / 1 neutral.
	if report.Market.TotalMentions != 4 {
		t.Fatalf("expected 4 mentions, got %d", report.Market.TotalMentions)
	}
	if report.Market.PositiveRatio != 50.0 || report.Market.NegativeRatio != 25.0 {
		t.Fatalf("unexpected ratios: %+v", report.Market)
	}
	if report.Market.TemporalShift == nil {
		t.Fatal("expected temporal shift with timestamped rows")
	}

	// The single negative row mentions quality.
	if len(report.Issues) != 1 || report.Issues[0].Issue != "Quality" {
		t.Fatalf("unexpected issues: %+v", report.Issues)
	}
}

func TestPipelineRunIsIdempotent(t *testing.T) {
	scorer := phraseScorer{"love": 0.8}
	table := &dataset.Table{
		Columns: []string{"review"},
		Rows:    []dataset.Row{{"review": "love it"}},
	}

	p := NewPipeline(scorer, 10)
	first := p.Run(table)
	second := p.Run(table)

	if first.Market.PositiveRatio != second.Market.PositiveRatio {
		t.Fatalf("reruns diverged: %f vs %f",
			first.Market.PositiveRatio, second.Market.PositiveRatio)
	}
	// Columns are not duplicated on reruns.
	count := 0
	for _, c := range table.Columns {
		if c == sentiment.Column {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("sentiment column duplicated: %v", table.Columns)
	}
}

func TestPipelineWithoutText(t *testing.T) {
	table := &dataset.Table{
		Columns: []string{"likes"},
		Rows:    []dataset.Row{{"likes": 3.0}},
	}

	report := NewPipeline(phraseScorer{}, 10).Run(table)

	if report.Trends != nil || report.Topics != nil || report.Issues != nil {
		t.Fatalf("expected empty fragments, got %+v", report)
	}
	if report.Market.OverallSentiment != "Neutral" {
		t.Fatalf("expected neutral market default, got %+v", report.Market)
	}
}
