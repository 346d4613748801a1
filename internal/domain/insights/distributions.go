package insights

import "github.com/dionchettiar/pitchboard/internal/domain/model"

// Distributions bundles the two summary charts: the recommendation pie and
// the fatigue histogram with its reference thresholds.
type Distributions struct {
	Recommendations []RecommendationCount `json:"recommendations"`
	Histogram       []HistogramBin        `json:"histogram"`
	ModerateLine    float64               `json:"moderate_line"`
	HighLine        float64               `json:"high_line"`
}

// ComputeDistributions derives both charts over the given (usually filtered)
// record set.
func ComputeDistributions(records []model.PlayerRecord, bins int) Distributions {
	return Distributions{
		Recommendations: RecommendationCounts(records),
		Histogram:       FatigueHistogram(records, bins),
		ModerateLine:    ModerateFatigue,
		HighLine:        HighFatigue,
	}
}
