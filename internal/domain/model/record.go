// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
)

// Recommendation is the categorical substitution guidance for a player.
type Recommendation string

// Known recommendation values, as they appear in the source data.
const (
	RecommendSubEarly   Recommendation = "Sub Early"
	RecommendMonitor    Recommendation = "Monitor"
	RecommendKeepInGame Recommendation = "Keep in Game"
)

// Recommendations lists every known recommendation in display order.
func Recommendations() []Recommendation {
	return []Recommendation{RecommendKeepInGame, RecommendMonitor, RecommendSubEarly}
}

// ParseRecommendation maps a raw source value onto a known Recommendation.
func ParseRecommendation(raw string) (Recommendation, error) {
	switch Recommendation(strings.TrimSpace(raw)) {
	case RecommendSubEarly:
		return RecommendSubEarly, nil
	case RecommendMonitor:
		return RecommendMonitor, nil
	case RecommendKeepInGame:
		return RecommendKeepInGame, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRecommendation, raw)
	}
}

// PlayerRecord is one row per player per analysis run. The full record set is
// immutable once loaded; filters and sorts operate on derived views.
type PlayerRecord struct {
	Player   string  `json:"player"`   // trimmed, unique merge key
	Position string  `json:"position"` // trimmed; may be a comma-joined list
	Minutes  float64 `json:"minutes"`

	ActualImpact    float64 `json:"actual_impact"`    // source A "Impact", the authoritative value
	PredictedImpact float64 `json:"predicted_impact"` // source A "Predicted Impact"

	// Overperformance is always recomputed at load as
	// ActualImpact - PredictedImpact, never read from a source column.
	Overperformance float64 `json:"overperformance"`

	// ActualImpactPerf is source B's "Actual Impact", joined in on Player.
	// The source pipeline fetches it but derives nothing from it; it is kept
	// on the record so the full export reproduces the merged table.
	ActualImpactPerf float64 `json:"actual_impact_perf"`

	FatigueScore        float64        `json:"fatigue_score"`
	SubRecommendation   Recommendation `json:"sub_recommendation"`
	SubEarlyProbability float64        `json:"sub_early_probability"` // in [0,1]
}

// Positions splits the record's position field on commas and trims each part.
// Empty parts are dropped.
func (r PlayerRecord) Positions() []string {
	parts := strings.Split(r.Position, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
