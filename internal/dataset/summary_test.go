package dataset

import (
	"math"
	"strings"
	"testing"
)

func summaryFixture() *Table {
	return &Table{
		Columns: []string{"comment", "likes"},
		Rows: []Row{
			{"comment": "good", "likes": 2.0},
			{"comment": "good", "likes": 4.0},
			{"comment": "bad"},
		},
	}
}

func TestSummarizeShapeAndNulls(t *testing.T) {
	s := Summarize(summaryFixture(), "reviews.csv")

	if s.Rows != 3 || s.Columns != 2 {
		t.Fatalf("expected 3x2, got %dx%d", s.Rows, s.Columns)
	}

	var likes *ColumnSummary
	for i := range s.Details {
		if s.Details[i].Name == "likes" {
			likes = &s.Details[i]
		}
	}
	if likes == nil {
		t.Fatal("expected likes column detail")
	}
	if likes.NonNull != 2 || likes.Nulls != 1 {
		t.Fatalf("expected 2 non-null / 1 null, got %d/%d", likes.NonNull, likes.Nulls)
	}
}

func TestSummarizeNumericStats(t *testing.T) {
	s := Summarize(summaryFixture(), "reviews.csv")

	st, ok := s.Numeric["likes"]
	if !ok {
		t.Fatal("expected numeric stats for likes")
	}
	if st.Count != 2 || st.Mean != 3 || st.Min != 2 || st.Max != 4 {
		t.Fatalf("unexpected stats: %+v", st)
	}
	// Sample std of {2,4} is sqrt(2).
	if math.Abs(st.Std-math.Sqrt2) > 1e-9 {
		t.Fatalf("expected std=sqrt(2), got %f", st.Std)
	}
}

func TestSummarizeCategoricalStats(t *testing.T) {
	s := Summarize(summaryFixture(), "reviews.csv")

	st, ok := s.Categorical["comment"]
	if !ok {
		t.Fatal("expected categorical stats for comment")
	}
	if st.Count != 3 || st.Unique != 2 || st.Top != "good" || st.Freq != 2 {
		t.Fatalf("unexpected stats: %+v", st)
	}
}

func TestTextDigestSections(t *testing.T) {
	digest := Summarize(summaryFixture(), "reviews.csv").TextDigest()

	for _, want := range []string{
		"reviews.csv",
		"Total Rows: 3",
		"--- COLUMN DETAILS",
		"--- NUMERICAL DATA SUMMARY ---",
		"--- CATEGORICAL DATA SUMMARY ---",
	} {
		if !strings.Contains(digest, want) {
			t.Fatalf("digest missing %q:\n%s", want, digest)
		}
	}
}
