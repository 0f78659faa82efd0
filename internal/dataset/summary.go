package dataset

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// ColumnSummary describes one column's inferred type and fill rate.
type ColumnSummary struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	NonNull int    `json:"non_null"`
	Nulls   int    `json:"nulls"`
}

// NumericStats are descriptive statistics for a numeric column.
type NumericStats struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// CategoricalStats are descriptive statistics for a string column.
type CategoricalStats struct {
	Count  int    `json:"count"`
	Unique int    `json:"unique"`
	Top    string `json:"top"`
	Freq   int    `json:"freq"`
}

// Summary is the digest of a table handed to the chat assistant and shown
// on the dashboard. It carries shape, per-column detail and descriptive
// statistics; the assistant treats its text form as an opaque blob.
type Summary struct {
	Filename    string                      `json:"filename"`
	Rows        int                         `json:"rows"`
	Columns     int                         `json:"columns"`
	Details     []ColumnSummary             `json:"column_details"`
	Numeric     map[string]NumericStats     `json:"numeric"`
	Categorical map[string]CategoricalStats `json:"categorical"`
}

// Summarize computes the digest for a table.
func Summarize(t *Table, filename string) Summary {
	s := Summary{
		Filename:    filename,
		Rows:        len(t.Rows),
		Columns:     len(t.Columns),
		Numeric:     map[string]NumericStats{},
		Categorical: map[string]CategoricalStats{},
	}

	for _, col := range t.Columns {
		var nums []float64
		var strCounts map[string]int
		nonNull := 0
		colType := "unknown"

		for _, row := range t.Rows {
			v, ok := row[col]
			if !ok || v == nil {
				continue
			}
			nonNull++
			switch val := v.(type) {
			case float64:
				colType = "number"
				nums = append(nums, val)
			case time.Time:
				colType = "timestamp"
			case string:
				colType = "string"
				if strCounts == nil {
					strCounts = map[string]int{}
				}
				strCounts[val]++
			}
		}

		s.Details = append(s.Details, ColumnSummary{
			Name:    col,
			Type:    colType,
			NonNull: nonNull,
			Nulls:   len(t.Rows) - nonNull,
		})

		if len(nums) > 0 {
			s.Numeric[col] = describeNumeric(nums)
		}
		if len(strCounts) > 0 {
			s.Categorical[col] = describeCategorical(strCounts)
		}
	}

	return s
}

// TextDigest renders the summary as the text blob forwarded to the
// language model.
func (s Summary) TextDigest() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Here is a summary of the data from the file '%s':\n\n", s.Filename)
	fmt.Fprintf(&b, "--- FILE INFO ---\nTotal Rows: %d\nTotal Columns: %d\n\n", s.Rows, s.Columns)

	b.WriteString("--- COLUMN DETAILS (Name, Type, Nulls) ---\n")
	for _, d := range s.Details {
		fmt.Fprintf(&b, "%s: %s, %d non-null, %d null\n", d.Name, d.Type, d.NonNull, d.Nulls)
	}

	b.WriteString("\n--- NUMERICAL DATA SUMMARY ---\n")
	if len(s.Numeric) == 0 {
		b.WriteString("No numerical data.\n")
	} else {
		for _, col := range sortedKeys(s.Numeric) {
			st := s.Numeric[col]
			fmt.Fprintf(&b, "%s: count=%d mean=%.3f std=%.3f min=%.3f max=%.3f\n",
				col, st.Count, st.Mean, st.Std, st.Min, st.Max)
		}
	}

	b.WriteString("\n--- CATEGORICAL DATA SUMMARY ---\n")
	if len(s.Categorical) == 0 {
		b.WriteString("No categorical data.\n")
	} else {
		for _, col := range sortedCatKeys(s.Categorical) {
			st := s.Categorical[col]
			fmt.Fprintf(&b, "%s: count=%d unique=%d top=%q freq=%d\n",
				col, st.Count, st.Unique, st.Top, st.Freq)
		}
	}

	return b.String()
}

func describeNumeric(nums []float64) NumericStats {
	st := NumericStats{Count: len(nums), Min: nums[0], Max: nums[0]}
	sum := 0.0
	for _, n := range nums {
		sum += n
		if n < st.Min {
			st.Min = n
		}
		if n > st.Max {
			st.Max = n
		}
	}
	st.Mean = sum / float64(len(nums))

	if len(nums) > 1 {
		variance := 0.0
		for _, n := range nums {
			variance += (n - st.Mean) * (n - st.Mean)
		}
		st.Std = math.Sqrt(variance / float64(len(nums)-1))
	}
	return st
}

func describeCategorical(counts map[string]int) CategoricalStats {
	st := CategoricalStats{Unique: len(counts)}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		n := counts[k]
		st.Count += n
		if n > st.Freq {
			st.Freq = n
			st.Top = k
		}
	}
	return st
}

func sortedKeys(m map[string]NumericStats) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedCatKeys(m map[string]CategoricalStats) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
