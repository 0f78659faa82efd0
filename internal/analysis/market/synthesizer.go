package market

import (
	"math"
	"sort"
	"time"

	"github.com/sentilens/backend/internal/analysis/sentiment"
	"github.com/sentilens/backend/internal/dataset"
)

// Column names treated as an engagement metric, checked in order.
var engagementColumns = []string{"likes", "like_count", "upvotes", "votes"}

// Engagement trend verdicts.
const (
	engagementPositive = "Positive content drives higher engagement"
	engagementNegative = "Negative content drives higher engagement"
	engagementBalanced = "Balanced engagement across sentiments"
	engagementStable   = "Stable"
)

// Recommendation messages, grouped by the cascade branch that emits them.
var (
	recsNoSentiment = []string{"No sentiment data available"}
	recsPositive    = []string{
		"Strong positive sentiment - maintain current strategy",
		"Consider amplifying positive messaging",
	}
	recsNegative = []string{
		"High negative sentiment detected",
		"Immediate action recommended - investigate root causes",
		"Increase customer engagement and support",
	}
	recsNeutral = []string{
		"High neutral sentiment - opportunity to create stronger emotional connection",
		"Focus on creating more engaging content",
	}
	recImproving = "Sentiment is improving over time"
	recDeclining = "Sentiment is declining - requires attention"
)

// verdictRule maps a sentiment-score band to its verdict. Rules are
// evaluated top to bottom; the first match wins, so the boundary behavior
// is explicit and auditable.
type verdictRule struct {
	applies    func(score float64) bool
	verdict    string
	confidence func(score float64) float64
}

var verdictRules = []verdictRule{
	{
		applies: func(s float64) bool { return s > 0.2 },
		verdict: "Very Positive",
		confidence: func(s float64) float64 {
			return math.Min(95, 70+s*50)
		},
	},
	{
		applies:    func(s float64) bool { return s > 0.05 },
		verdict:    "Positive",
		confidence: func(float64) float64 { return 65 },
	},
	{
		applies: func(s float64) bool { return s < -0.2 },
		verdict: "Very Negative",
		confidence: func(s float64) float64 {
			return math.Min(95, 70+math.Abs(s)*50)
		},
	},
	{
		applies:    func(s float64) bool { return s < -0.05 },
		verdict:    "Negative",
		confidence: func(float64) float64 { return 65 },
	},
	{
		applies:    func(float64) bool { return true },
		verdict:    "Neutral",
		confidence: func(float64) float64 { return 55 },
	},
}

// TemporalShift compares the positive-row fraction of the dataset's first
// and second halves when sorted by time. A nil TemporalShift on Insights
// means the check was not computed (no time column, or nothing parsed),
// as opposed to a computed zero shift.
type TemporalShift struct {
	FirstHalfPositive  float64 `json:"first_half_positive"`
	SecondHalfPositive float64 `json:"second_half_positive"`
	Direction          string  `json:"direction"`
}

// Temporal shift directions.
const (
	ShiftImproving = "improving"
	ShiftDeclining = "declining"
	ShiftFlat      = "flat"
)

// Insights is the fixed-shape market sentiment report.
type Insights struct {
	OverallSentiment string         `json:"overall_sentiment"`
	SentimentScore   float64        `json:"sentiment_score"`
	Confidence       float64        `json:"confidence"`
	PositiveRatio    float64        `json:"positive_ratio"`
	NegativeRatio    float64        `json:"negative_ratio"`
	NeutralRatio     float64        `json:"neutral_ratio"`
	TotalMentions    int            `json:"total_mentions"`
	EngagementTrend  string         `json:"engagement_trend"`
	Recommendations  []string       `json:"recommendations"`
	TemporalShift    *TemporalShift `json:"temporal_shift,omitempty"`
}

func neutralDefault(total int) Insights {
	return Insights{
		OverallSentiment: "Neutral",
		EngagementTrend:  engagementStable,
		TotalMentions:    total,
		Recommendations:  []string{},
	}
}

// Synthesize reduces the classified table to a scalar verdict, ratios,
// an engagement comparison and a recommendation list. A table without a
// sentiment column, or with no rows, yields the neutral default.
func Synthesize(t *dataset.Table) Insights {
	total := len(t.Rows)
	if !t.HasColumn(sentiment.Column) {
		out := neutralDefault(total)
		out.Recommendations = append(out.Recommendations, recsNoSentiment...)
		return out
	}
	if total == 0 {
		return neutralDefault(0)
	}

	var positive, negative, neutral int
	for _, row := range t.Rows {
		switch sentiment.RowLabel(row) {
		case sentiment.Positive:
			positive++
		case sentiment.Negative:
			negative++
		default:
			neutral++
		}
	}

	out := neutralDefault(total)
	out.PositiveRatio = round1(float64(positive) / float64(total) * 100)
	out.NegativeRatio = round1(float64(negative) / float64(total) * 100)
	out.NeutralRatio = round1(float64(neutral) / float64(total) * 100)

	score := float64(positive-negative) / float64(total)
	out.SentimentScore = round3(score)

	for _, rule := range verdictRules {
		if rule.applies(score) {
			out.OverallSentiment = rule.verdict
			out.Confidence = rule.confidence(score)
			break
		}
	}

	out.EngagementTrend = engagementTrend(t)
	out.Recommendations = append(out.Recommendations, recommendations(out)...)

	if shift := temporalShift(t); shift != nil {
		out.TemporalShift = shift
		switch shift.Direction {
		case ShiftImproving:
			out.Recommendations = append(out.Recommendations, recImproving)
		case ShiftDeclining:
			out.Recommendations = append(out.Recommendations, recDeclining)
		}
	}

	return out
}

// recommendations is the fixed priority cascade: exactly one branch group
// fires, chosen by the first matching ratio threshold.
func recommendations(in Insights) []string {
	switch {
	case in.PositiveRatio > 60:
		return recsPositive
	case in.NegativeRatio > 40:
		return recsNegative
	case in.NeutralRatio > 50:
		return recsNeutral
	default:
		return nil
	}
}

// engagementTrend compares mean engagement of Positive rows against
// Negative rows when an engagement column exists. A label with no rows
// contributes a mean of 0.
func engagementTrend(t *dataset.Table) string {
	col := ""
	for _, candidate := range engagementColumns {
		if t.HasColumn(candidate) {
			col = candidate
			break
		}
	}
	if col == "" {
		return engagementStable
	}

	var posSum, negSum float64
	var posN, negN int
	for _, row := range t.Rows {
		v, ok := row.Float(col)
		if !ok {
			continue
		}
		switch sentiment.RowLabel(row) {
		case sentiment.Positive:
			posSum += v
			posN++
		case sentiment.Negative:
			negSum += v
			negN++
		}
	}

	posMean, negMean := 0.0, 0.0
	if posN > 0 {
		posMean = posSum / float64(posN)
	}
	if negN > 0 {
		negMean = negSum / float64(negN)
	}

	switch {
	case posMean > negMean*1.5:
		return engagementPositive
	case negMean > posMean*1.5:
		return engagementNegative
	default:
		return engagementBalanced
	}
}

// temporalShift sorts rows by time, splits them at the floor midpoint and
// compares each half's positive fraction. Returns nil when the check
// cannot run: no time column, no parseable timestamps, or a degenerate
// half.
func temporalShift(t *dataset.Table) *TemporalShift {
	timeCol, ok := dataset.TimeColumn(t)
	if !ok {
		return nil
	}

	var rows []stampedRow
	for _, row := range t.Rows {
		ts, parsed := row.Time(timeCol)
		if !parsed {
			if ts, parsed = dataset.ParseTimestamp(row[timeCol]); !parsed {
				continue
			}
		}
		rows = append(rows, stampedRow{at: ts, label: sentiment.RowLabel(row)})
	}
	if len(rows) == 0 {
		return nil
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].at.Before(rows[j].at) })

	mid := len(rows) / 2
	first, second := rows[:mid], rows[mid:]
	if len(first) == 0 || len(second) == 0 {
		return nil
	}

	shift := &TemporalShift{
		FirstHalfPositive:  positiveFraction(first),
		SecondHalfPositive: positiveFraction(second),
		Direction:          ShiftFlat,
	}
	if shift.SecondHalfPositive > shift.FirstHalfPositive+0.1 {
		shift.Direction = ShiftImproving
	} else if shift.SecondHalfPositive < shift.FirstHalfPositive-0.1 {
		shift.Direction = ShiftDeclining
	}
	return shift
}

type stampedRow struct {
	at    time.Time
	label sentiment.Label
}

func positiveFraction(rows []stampedRow) float64 {
	n := 0
	for _, r := range rows {
		if r.label == sentiment.Positive {
			n++
		}
	}
	return float64(n) / float64(len(rows))
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
