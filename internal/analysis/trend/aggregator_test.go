package trend

import (
	"testing"
	"time"

	"github.com/sentilens/backend/internal/analysis/sentiment"
	"github.com/sentilens/backend/internal/dataset"
)

var day = 24 * time.Hour

func classifiedTable(rows []dataset.Row) *dataset.Table {
	return &dataset.Table{
		Columns: []string{"date", "comment", sentiment.Column, sentiment.ScoreColumn},
		Rows:    rows,
	}
}

func row(at time.Time, label sentiment.Label) dataset.Row {
	return dataset.Row{
		"date":           at,
		sentiment.Column: string(label),
	}
}

func TestGranularityBoundaries(t *testing.T) {
	cases := []struct {
		days int
		want Granularity
	}{
		{0, Daily},
		{59, Daily},
		{60, Weekly}, // exactly 60 days is the coarser bucket
		{364, Weekly},
		{365, Monthly},
		{1000, Monthly},
	}
	for _, tc := range cases {
		if got := GranularityFor(time.Duration(tc.days) * day); got != tc.want {
			t.Fatalf("GranularityFor(%d days) = %s, want %s", tc.days, got, tc.want)
		}
	}
}

func TestAggregateSingleDay(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	table := classifiedTable([]dataset.Row{
		row(at, sentiment.Positive),
		row(at.Add(time.Hour), sentiment.Negative),
		row(at.Add(2*time.Hour), sentiment.Positive),
	})

	buckets := Aggregate(table, "date")

	if len(buckets) != 1 {
		t.Fatalf("expected exactly one bucket, got %d", len(buckets))
	}
	b := buckets[0]
	if b.DateStr != "2024-05-01" {
		t.Fatalf("unexpected bucket label %q", b.DateStr)
	}
	if b.Positive != 2 || b.Negative != 1 || b.Neutral != 0 {
		t.Fatalf("unexpected counts: %+v", b)
	}
}

func TestAggregateOrderedAndZeroFilled(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	table := classifiedTable([]dataset.Row{
		row(base.Add(2*day), sentiment.Negative),
		row(base, sentiment.Positive),
		row(base.Add(2*day), sentiment.Negative),
	})

	buckets := Aggregate(table, "date")

	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}
	if buckets[0].DateStr != "2024-05-01" || buckets[1].DateStr != "2024-05-03" {
		t.Fatalf("buckets out of order: %+v", buckets)
	}
	// Labels absent in a bucket are zero counts, not absent columns.
	if buckets[0].Negative != 0 || buckets[0].Neutral != 0 {
		t.Fatalf("expected zero fill, got %+v", buckets[0])
	}
	seen := map[string]bool{}
	for _, b := range buckets {
		if seen[b.DateStr] {
			t.Fatalf("duplicate bucket %q", b.DateStr)
		}
		seen[b.DateStr] = true
	}
}

func TestAggregateMonthlyBuckets(t *testing.T) {
	base := time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)
	table := classifiedTable([]dataset.Row{
		row(base, sentiment.Positive),
		row(base.AddDate(2, 0, 0), sentiment.Positive), // two-year span forces monthly
	})

	buckets := Aggregate(table, "date")

	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}
	if buckets[0].DateStr != "2023-01-01" {
		t.Fatalf("expected month-start label, got %q", buckets[0].DateStr)
	}
}

func TestAggregateSkipsUnparseableTimestamps(t *testing.T) {
	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	table := classifiedTable([]dataset.Row{
		row(at, sentiment.Positive),
		{"date": "garbage", sentiment.Column: string(sentiment.Positive)},
		{sentiment.Column: string(sentiment.Positive)},
	})

	buckets := Aggregate(table, "date")

	if len(buckets) != 1 || buckets[0].Positive != 1 {
		t.Fatalf("expected only the parseable row, got %+v", buckets)
	}
}

func TestAggregateWithoutSentimentColumn(t *testing.T) {
	table := &dataset.Table{
		Columns: []string{"date"},
		Rows:    []dataset.Row{{"date": time.Now()}},
	}

	if buckets := Aggregate(table, "date"); buckets != nil {
		t.Fatalf("expected nil without sentiment column, got %+v", buckets)
	}
}

func TestAggregateWithoutTimeColumn(t *testing.T) {
	table := classifiedTable(nil)
	if buckets := Aggregate(table, ""); buckets != nil {
		t.Fatalf("expected nil without time column, got %+v", buckets)
	}
}
