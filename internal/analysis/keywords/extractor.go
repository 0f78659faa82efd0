package keywords

import (
	"math"
	"sort"
	"strings"

	"github.com/jdkato/prose/v2"
	"go.uber.org/zap"

	"github.com/sentilens/backend/internal/analysis/sentiment"
	"github.com/sentilens/backend/internal/dataset"
	"github.com/sentilens/backend/pkg/logger"
)

// DefaultTopN caps the ranked topic list.
const DefaultTopN = 10

// Minimum token lengths for the two passes. The ranked topic pass keeps
// tokens longer than 3 characters; the plain keyword pass longer than 2.
const (
	topicMinLength   = 3
	keywordMinLength = 2
)

// Topic is one ranked keyword with its sentiment breakdown.
type Topic struct {
	Keyword           string  `json:"keyword"`
	Mentions          int     `json:"mentions"`
	PositiveRatio     float64 `json:"positive_ratio"`
	NegativeRatio     float64 `json:"negative_ratio"`
	NeutralRatio      float64 `json:"neutral_ratio"`
	DominantSentiment string  `json:"dominant_sentiment"`
}

// KeywordCount is one entry of the plain most-common-words pass.
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

type topicCounts struct {
	keyword  string
	total    int
	positive int
	negative int
	neutral  int
}

// TrendingTopics tokenizes every row's text, filters noise and ranks the
// surviving tokens by mention count with a per-token sentiment breakdown.
// Ranking is stable: count ties keep first-seen order. A table without a
// resolvable text column yields an empty result.
func TrendingTopics(t *dataset.Table, topN int) []Topic {
	textCol, ok := dataset.TextColumn(t)
	if !ok {
		return nil
	}
	if topN <= 0 {
		topN = DefaultTopN
	}

	logger.Debug("Extracting trending topics", zap.String("column", textCol))

	index := map[string]int{}
	var ordered []*topicCounts

	for _, row := range t.Rows {
		text, isStr := row.String(textCol)
		if !isStr {
			continue
		}
		label := sentiment.RowLabel(row)

		for _, token := range tokenize(strings.ToLower(text), topicMinLength) {
			i, seen := index[token]
			if !seen {
				i = len(ordered)
				index[token] = i
				ordered = append(ordered, &topicCounts{keyword: token})
			}
			tc := ordered[i]
			tc.total++
			switch label {
			case sentiment.Positive:
				tc.positive++
			case sentiment.Negative:
				tc.negative++
			default:
				tc.neutral++
			}
		}
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].total > ordered[j].total
	})
	if len(ordered) > topN {
		ordered = ordered[:topN]
	}

	out := make([]Topic, 0, len(ordered))
	for _, tc := range ordered {
		total := float64(tc.total)
		out = append(out, Topic{
			Keyword:           tc.keyword,
			Mentions:          tc.total,
			PositiveRatio:     round1(float64(tc.positive) / total * 100),
			NegativeRatio:     round1(float64(tc.negative) / total * 100),
			NeutralRatio:      round1(float64(tc.neutral) / total * 100),
			DominantSentiment: dominant(tc),
		})
	}
	return out
}

// TopKeywords is the lighter pass: plain frequency counts with no
// sentiment attribution, default top 20.
func TopKeywords(t *dataset.Table, limit int) []KeywordCount {
	textCol, ok := dataset.TextColumn(t)
	if !ok {
		return nil
	}
	if limit <= 0 {
		limit = 20
	}

	index := map[string]int{}
	var ordered []KeywordCount
	for _, row := range t.Rows {
		text, isStr := row.String(textCol)
		if !isStr {
			continue
		}
		for _, token := range tokenize(strings.ToLower(text), keywordMinLength) {
			i, seen := index[token]
			if !seen {
				i = len(ordered)
				index[token] = i
				ordered = append(ordered, KeywordCount{Keyword: token})
			}
			ordered[i].Count++
		}
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Count > ordered[j].Count
	})
	if len(ordered) > limit {
		ordered = ordered[:limit]
	}
	return ordered
}

// tokenize splits text into word tokens and keeps those consisting solely
// of lowercase letters, longer than minLength and not stopwords. A text
// the tokenizer rejects is skipped, never an error.
func tokenize(text string, minLength int) []string {
	doc, err := prose.NewDocument(text,
		prose.WithSegmentation(false),
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil
	}

	var out []string
	for _, tok := range doc.Tokens() {
		word := tok.Text
		if len(word) <= minLength || !isLowerAlpha(word) || isStopword(word) {
			continue
		}
		out = append(out, word)
	}
	return out
}

func isLowerAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return len(s) > 0
}

// dominant picks the label with the highest sub-count; ties resolve by
// the Positive, Negative, Neutral priority order.
func dominant(tc *topicCounts) string {
	best := sentiment.Positive
	bestCount := tc.positive
	if tc.negative > bestCount {
		best = sentiment.Negative
		bestCount = tc.negative
	}
	if tc.neutral > bestCount {
		best = sentiment.Neutral
	}
	return string(best)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
