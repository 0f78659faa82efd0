package dataset

import "strings"

// Known names for the free-text column, checked in priority order.
var textSynonyms = []string{"feedback", "review", "comment", "content", "text", "body"}

// Substrings that mark a column as time-bearing.
var timeSynonyms = []string{"date", "time", "created"}

// TextColumn returns the column holding free text, resolved by matching
// normalized column names against the synonym list. Resolution is
// deterministic for a given column set.
func TextColumn(t *Table) (string, bool) {
	for _, syn := range textSynonyms {
		for _, col := range t.Columns {
			if col == syn {
				return col, true
			}
		}
	}
	return "", false
}

// TextColumnWithFallback resolves the text column by synonym first, then
// falls back to the string-typed column with the greatest mean length.
// Ties on mean length resolve to source column order. Only the sentiment
// classifier uses the fallback.
func TextColumnWithFallback(t *Table) (string, bool) {
	if col, ok := TextColumn(t); ok {
		return col, true
	}

	best := ""
	bestMean := 0.0
	for _, col := range t.Columns {
		total, count := 0, 0
		for _, row := range t.Rows {
			if s, ok := row.String(col); ok {
				total += len(s)
				count++
			}
		}
		if count == 0 {
			continue
		}
		mean := float64(total) / float64(count)
		if mean > bestMean {
			best = col
			bestMean = mean
		}
	}
	return best, best != ""
}

// TimeColumn returns the first column whose name contains a time-bearing
// substring.
func TimeColumn(t *Table) (string, bool) {
	for _, col := range t.Columns {
		lower := strings.ToLower(col)
		for _, syn := range timeSynonyms {
			if strings.Contains(lower, syn) {
				return col, true
			}
		}
	}
	return "", false
}
