package issues

import (
	"math"
	"sort"
	"strings"

	"github.com/sentilens/backend/internal/analysis/sentiment"
	"github.com/sentilens/backend/internal/dataset"
)

// Severity tiers relative to the negative-row count.
const (
	SeverityHigh   = "High"
	SeverityMedium = "Medium"
	SeverityLow    = "Low"
)

const maxIssues = 5

// category is one fixed problem class with its substring keywords.
type category struct {
	name     string
	keywords []string
}

var categories = []category{
	{"Quality", []string{"quality", "broken", "defect", "faulty", "poor"}},
	{"Service", []string{"service", "support", "customer service", "help", "response"}},
	{"Price", []string{"price", "expensive", "cost", "overpriced", "refund"}},
	{"Delivery", []string{"delivery", "shipping", "late", "delayed", "never arrived"}},
	{"Performance", []string{"slow", "lag", "crash", "bug", "error", "not working"}},
}

// Issue is one detected problem category among negative rows.
type Issue struct {
	Issue      string  `json:"issue"`
	Mentions   int     `json:"mentions"`
	Severity   string  `json:"severity"`
	Percentage float64 `json:"percentage"`
}

// Detect scans negative-sentiment rows for the fixed issue categories.
// A row matching several categories counts toward each. Categories with
// zero matches are omitted; at most five are returned, ranked by mention
// count with category order breaking ties.
func Detect(t *dataset.Table) []Issue {
	if !t.HasColumn(sentiment.Column) {
		return nil
	}
	textCol, ok := dataset.TextColumn(t)
	if !ok {
		return nil
	}

	var negative []string
	for _, row := range t.Rows {
		if sentiment.RowLabel(row) != sentiment.Negative {
			continue
		}
		if text, isStr := row.String(textCol); isStr {
			negative = append(negative, strings.ToLower(text))
		}
	}
	if len(negative) == 0 {
		return nil
	}

	n := float64(len(negative))
	var out []Issue
	for _, cat := range categories {
		count := 0
		for _, text := range negative {
			if matchesAny(text, cat.keywords) {
				count++
			}
		}
		if count == 0 {
			continue
		}
		out = append(out, Issue{
			Issue:      cat.name,
			Mentions:   count,
			Severity:   severityFor(count, n),
			Percentage: math.Round(float64(count)/n*1000) / 10,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Mentions > out[j].Mentions })
	if len(out) > maxIssues {
		out = out[:maxIssues]
	}
	return out
}

func matchesAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// severityFor tiers a category's prevalence: over 30% of negative rows is
// High, over 10% Medium, anything else with matches Low.
func severityFor(count int, negativeRows float64) string {
	c := float64(count)
	switch {
	case c > negativeRows*0.3:
		return SeverityHigh
	case c > negativeRows*0.1:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
