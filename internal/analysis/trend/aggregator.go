package trend

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/sentilens/backend/internal/analysis/sentiment"
	"github.com/sentilens/backend/internal/dataset"
	"github.com/sentilens/backend/pkg/logger"
)

// Granularity is the adaptive time-bucketing unit.
type Granularity string

const (
	Daily   Granularity = "daily"
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
)

// Bucket is one pivoted time-series point, directly chartable.
type Bucket struct {
	DateStr  string `json:"date_str"`
	Positive int    `json:"Positive"`
	Negative int    `json:"Negative"`
	Neutral  int    `json:"Neutral"`
}

// Aggregate buckets classified rows by time and sentiment. Rows with a
// missing or unparseable timestamp are excluded; an empty surviving set,
// a missing time column or an unclassified table all yield an empty
// result rather than an error.
func Aggregate(t *dataset.Table, timeCol string) []Bucket {
	if timeCol == "" || !t.HasColumn(sentiment.Column) {
		return nil
	}

	type stamped struct {
		at    time.Time
		label sentiment.Label
	}
	var rows []stamped
	for _, row := range t.Rows {
		ts, ok := row.Time(timeCol)
		if !ok {
			if ts, ok = dataset.ParseTimestamp(row[timeCol]); !ok {
				continue
			}
		}
		rows = append(rows, stamped{at: ts, label: sentiment.RowLabel(row)})
	}
	if len(rows) == 0 {
		return nil
	}

	minAt, maxAt := rows[0].at, rows[0].at
	for _, r := range rows[1:] {
		if r.at.Before(minAt) {
			minAt = r.at
		}
		if r.at.After(maxAt) {
			maxAt = r.at
		}
	}

	gran := GranularityFor(maxAt.Sub(minAt))
	logger.Debug("Aggregating sentiment trend",
		zap.String("granularity", string(gran)),
		zap.Int("rows", len(rows)),
	)

	byBucket := map[time.Time]*Bucket{}
	for _, r := range rows {
		key := truncate(r.at, gran)
		b, ok := byBucket[key]
		if !ok {
			b = &Bucket{DateStr: key.Format("2006-01-02")}
			byBucket[key] = b
		}
		switch r.label {
		case sentiment.Positive:
			b.Positive++
		case sentiment.Negative:
			b.Negative++
		default:
			b.Neutral++
		}
	}

	keys := make([]time.Time, 0, len(byBucket))
	for k := range byBucket {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	out := make([]Bucket, 0, len(keys))
	for _, k := range keys {
		out = append(out, *byBucket[k])
	}
	return out
}

// GranularityFor picks the bucket size from the observed span: under 60
// days daily, under 365 days weekly, otherwise monthly. A span of exactly
// 60 days is weekly and exactly 365 days is monthly.
func GranularityFor(span time.Duration) Granularity {
	days := span.Hours() / 24
	switch {
	case days < 60:
		return Daily
	case days < 365:
		return Weekly
	default:
		return Monthly
	}
}

func truncate(at time.Time, gran Granularity) time.Time {
	at = at.UTC()
	switch gran {
	case Weekly:
		// Snap to the Monday of the ISO week.
		offset := (int(at.Weekday()) + 6) % 7
		at = at.AddDate(0, 0, -offset)
	case Monthly:
		return time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
}
