package dataset

import (
	"fmt"
	"strings"
)

// Source A (sub-optimizer) column names, as published.
const (
	colPlayer         = "Player"
	colPosition       = "Position"
	colMinutes        = "Minutes"
	colImpact         = "Impact"
	colPredicted      = "Predicted Impact"
	colFatigue        = "Fatigue_Score"
	colRecommendation = "Sub_Recommendation"
	colProbability    = "Sub Early Probability"
)

// Source B (performance drop-off) column names.
const (
	colActualImpact = "Actual Impact"
)

// header maps trimmed column names to their index in a CSV row.
type header map[string]int

// indexHeader builds a header from the first CSV row, trimming whitespace
// from every column name.
func indexHeader(row []string) header {
	h := make(header, len(row))
	for i, name := range row {
		h[strings.TrimSpace(name)] = i
	}
	return h
}

// require fails fast with ErrSchema when any expected column is absent,
// instead of failing later at an arbitrary use site.
func (h header) require(source string, cols ...string) error {
	for _, col := range cols {
		if _, ok := h[col]; !ok {
			return fmt.Errorf("%w: %s is missing column %q", ErrSchema, source, col)
		}
	}
	return nil
}

// field returns the trimmed cell for col, or ok=false when the row is short.
func (h header) field(row []string, col string) (string, bool) {
	idx, ok := h[col]
	if !ok || idx >= len(row) {
		return "", false
	}
	return strings.TrimSpace(row[idx]), true
}
