// Package filter applies the dashboard's conjunction of record predicates.
package filter

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/dionchettiar/pitchboard/internal/domain/model"
)

// All is the sentinel that disables a categorical predicate.
const All = "All"

// Spec describes one filter evaluation. The three predicates are ANDed:
// exact recommendation match, case-sensitive position substring match, and
// an inclusive fatigue range.
type Spec struct {
	Recommendation string  `json:"recommendation"`
	Position       string  `json:"position"`
	FatigueMin     float64 `json:"fatigue_min"`
	FatigueMax     float64 `json:"fatigue_max"`
}

// Default returns a spec that matches every record.
func Default() Spec {
	return Spec{
		Recommendation: All,
		Position:       All,
		FatigueMin:     math.Inf(-1),
		FatigueMax:     math.Inf(1),
	}
}

// Validate rejects inverted fatigue ranges and unknown recommendations.
func (s Spec) Validate() error {
	if s.FatigueMin > s.FatigueMax {
		return fmt.Errorf("%w: fatigue range [%v, %v]", ErrInvalidSpec, s.FatigueMin, s.FatigueMax)
	}
	if s.Recommendation != All {
		if _, err := model.ParseRecommendation(s.Recommendation); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidSpec, err)
		}
	}
	return nil
}

// Matches reports whether a single record satisfies all three predicates.
func (s Spec) Matches(r model.PlayerRecord) bool {
	if s.Recommendation != All && string(r.SubRecommendation) != s.Recommendation {
		return false
	}
	if s.Position != All && !strings.Contains(r.Position, s.Position) {
		return false
	}
	return r.FatigueScore >= s.FatigueMin && r.FatigueScore <= s.FatigueMax
}

// Apply returns the subset of records matching the spec, preserving order.
// An empty result is valid and distinct from a load failure.
func Apply(records []model.PlayerRecord, spec Spec) []model.PlayerRecord {
	out := make([]model.PlayerRecord, 0, len(records))
	for _, r := range records {
		if spec.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// TopN returns the n records with the largest overperformance, descending,
// ties broken by original order. Result size is min(n, len(records)).
func TopN(records []model.PlayerRecord, n int) []model.PlayerRecord {
	if n <= 0 {
		return nil
	}
	ranked := make([]model.PlayerRecord, len(records))
	copy(ranked, records)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Overperformance > ranked[j].Overperformance
	})
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}

// SortKey names a sortable table column.
type SortKey string

// Sortable columns of the player table.
const (
	SortOverperformance SortKey = "overperformance"
	SortFatigue         SortKey = "fatigue"
	SortMinutes         SortKey = "minutes"
	SortActualImpact    SortKey = "actual_impact"
	SortProbability     SortKey = "probability"
	SortPlayer          SortKey = "player"
)

// ParseSortKey maps a query value to a known SortKey; empty defaults to
// overperformance.
func ParseSortKey(raw string) (SortKey, error) {
	switch SortKey(strings.ToLower(strings.TrimSpace(raw))) {
	case "", SortOverperformance:
		return SortOverperformance, nil
	case SortFatigue:
		return SortFatigue, nil
	case SortMinutes:
		return SortMinutes, nil
	case SortActualImpact:
		return SortActualImpact, nil
	case SortProbability:
		return SortProbability, nil
	case SortPlayer:
		return SortPlayer, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSortKey, raw)
	}
}

// Sort orders records by the given key, descending unless asc. The sort is
// stable so ties keep their load order.
func Sort(records []model.PlayerRecord, key SortKey, asc bool) []model.PlayerRecord {
	out := make([]model.PlayerRecord, len(records))
	copy(out, records)

	less := func(a, b model.PlayerRecord) bool {
		switch key {
		case SortFatigue:
			return a.FatigueScore < b.FatigueScore
		case SortMinutes:
			return a.Minutes < b.Minutes
		case SortActualImpact:
			return a.ActualImpact < b.ActualImpact
		case SortProbability:
			return a.SubEarlyProbability < b.SubEarlyProbability
		case SortPlayer:
			return a.Player < b.Player
		default:
			return a.Overperformance < b.Overperformance
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if asc {
			return less(out[i], out[j])
		}
		return less(out[j], out[i])
	})
	return out
}
