package keywords

import (
	"testing"

	"github.com/sentilens/backend/internal/analysis/sentiment"
	"github.com/sentilens/backend/internal/dataset"
)

func topicTable(rows []dataset.Row) *dataset.Table {
	return &dataset.Table{
		Columns: []string{"comment", sentiment.Column},
		Rows:    rows,
	}
}

func labeled(text string, label sentiment.Label) dataset.Row {
	return dataset.Row{"comment": text, sentiment.Column: string(label)}
}

func findTopic(topics []Topic, keyword string) (Topic, bool) {
	for _, tp := range topics {
		if tp.Keyword == keyword {
			return tp, true
		}
	}
	return Topic{}, false
}

func TestTrendingTopicsFiltersTokens(t *testing.T) {
	table := topicTable([]dataset.Row{
		// "the" is a stopword, "app" is too short, "123" is non-alpha.
		labeled("the app battery 123 battery", sentiment.Positive),
	})

	topics := TrendingTopics(table, 0)

	if len(topics) != 1 {
		t.Fatalf("expected only battery to survive, got %+v", topics)
	}
	if topics[0].Keyword != "battery" || topics[0].Mentions != 2 {
		t.Fatalf("unexpected topic: %+v", topics[0])
	}
}

func TestTrendingTopicsSentimentBreakdown(t *testing.T) {
	rows := []dataset.Row{
		labeled("battery", sentiment.Positive),
		labeled("battery", sentiment.Positive),
		labeled("battery", sentiment.Positive),
		labeled("battery", sentiment.Negative),
	}

	topics := TrendingTopics(topicTable(rows), 0)

	tp, ok := findTopic(topics, "battery")
	if !ok {
		t.Fatalf("battery missing from %+v", topics)
	}
	if tp.Mentions != 4 {
		t.Fatalf("expected 4 mentions, got %d", tp.Mentions)
	}
	if tp.PositiveRatio != 75.0 || tp.NegativeRatio != 25.0 || tp.NeutralRatio != 0.0 {
		t.Fatalf("unexpected ratios: %+v", tp)
	}
	if tp.DominantSentiment != string(sentiment.Positive) {
		t.Fatalf("expected Positive dominant, got %s", tp.DominantSentiment)
	}
}

func TestTrendingTopicsDominantTiePriority(t *testing.T) {
	rows := []dataset.Row{
		labeled("battery", sentiment.Positive),
		labeled("battery", sentiment.Negative),
	}

	topics := TrendingTopics(topicTable(rows), 0)

	tp, _ := findTopic(topics, "battery")
	if tp.DominantSentiment != string(sentiment.Positive) {
		t.Fatalf("tie should prefer Positive, got %s", tp.DominantSentiment)
	}
}

func TestTrendingTopicsStableTieOrder(t *testing.T) {
	rows := []dataset.Row{
		labeled("battery screen", sentiment.Neutral),
		labeled("battery screen", sentiment.Neutral),
	}

	topics := TrendingTopics(topicTable(rows), 0)

	if len(topics) != 2 {
		t.Fatalf("expected 2 topics, got %d", len(topics))
	}
	// Equal counts keep first-seen order.
	if topics[0].Keyword != "battery" || topics[1].Keyword != "screen" {
		t.Fatalf("tie order broken: %+v", topics)
	}
}

func TestTrendingTopicsCap(t *testing.T) {
	rows := []dataset.Row{
		labeled("battery screen camera speaker display keyboard", sentiment.Neutral),
	}

	topics := TrendingTopics(topicTable(rows), 2)

	if len(topics) != 2 {
		t.Fatalf("expected cap of 2, got %d", len(topics))
	}
}

func TestTrendingTopicsNoTextColumn(t *testing.T) {
	table := &dataset.Table{Columns: []string{"likes"}}

	if topics := TrendingTopics(table, 0); topics != nil {
		t.Fatalf("expected nil without text column, got %+v", topics)
	}
}

func TestTopKeywordsShorterMinLength(t *testing.T) {
	table := topicTable([]dataset.Row{
		// "app" (3 chars) is excluded from topics but counts as a keyword.
		labeled("app app battery", sentiment.Neutral),
	})

	kws := TopKeywords(table, 0)

	if len(kws) != 2 {
		t.Fatalf("expected 2 keywords, got %+v", kws)
	}
	if kws[0].Keyword != "app" || kws[0].Count != 2 {
		t.Fatalf("expected app ranked first with 2, got %+v", kws[0])
	}
}

func TestTopKeywordsLimit(t *testing.T) {
	table := topicTable([]dataset.Row{
		labeled("battery screen camera", sentiment.Neutral),
	})

	if kws := TopKeywords(table, 1); len(kws) != 1 {
		t.Fatalf("expected limit of 1, got %+v", kws)
	}
}
