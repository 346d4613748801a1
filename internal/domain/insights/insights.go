// Package insights computes scalar summaries and distributions over a
// record set. Every function is total: empty input yields NaN for mean-type
// statistics and ok=false for extrema, and callers must guard before display.
package insights

import (
	"math"
	"sort"

	"github.com/dionchettiar/pitchboard/internal/domain/model"
)

// Fatigue thresholds marking moderate and high fatigue. The histogram view
// draws reference lines at both.
const (
	ModerateFatigue = 1.0
	HighFatigue     = 2.0
)

// topPerformerCount is how many overperformers feed the top-performers block.
const topPerformerCount = 5

// Average returns the mean of field over records, NaN on empty input.
func Average(records []model.PlayerRecord, field func(model.PlayerRecord) float64) float64 {
	if len(records) == 0 {
		return math.NaN()
	}
	return Sum(records, field) / float64(len(records))
}

// Sum returns the sum of field over records; zero on empty input.
func Sum(records []model.PlayerRecord, field func(model.PlayerRecord) float64) float64 {
	var total float64
	for _, r := range records {
		total += field(r)
	}
	return total
}

// CountWhere counts records satisfying pred.
func CountWhere(records []model.PlayerRecord, pred func(model.PlayerRecord) bool) int {
	var n int
	for _, r := range records {
		if pred(r) {
			n++
		}
	}
	return n
}

// ArgMax returns the first record maximizing field, ok=false on empty input.
func ArgMax(records []model.PlayerRecord, field func(model.PlayerRecord) float64) (model.PlayerRecord, bool) {
	if len(records) == 0 {
		return model.PlayerRecord{}, false
	}
	best := records[0]
	for _, r := range records[1:] {
		if field(r) > field(best) {
			best = r
		}
	}
	return best, true
}

// Summary backs the dashboard's metric tiles, computed over the base set.
type Summary struct {
	TotalPlayers     int     `json:"total_players"`
	AvgFatigue       float64 `json:"avg_fatigue"`
	HighFatigueCount int     `json:"high_fatigue_count"`
	SubEarlyCount    int     `json:"sub_early_count"`
}

// Summarize computes the metric tiles.
func Summarize(records []model.PlayerRecord) Summary {
	avg := Average(records, fatigue)
	if math.IsNaN(avg) {
		avg = 0
	}
	return Summary{
		TotalPlayers:     len(records),
		AvgFatigue:       avg,
		HighFatigueCount: CountWhere(records, func(r model.PlayerRecord) bool { return r.FatigueScore > HighFatigue }),
		SubEarlyCount:    CountWhere(records, func(r model.PlayerRecord) bool { return r.SubRecommendation == model.RecommendSubEarly }),
	}
}

// HighRisk describes the players above the high-fatigue threshold.
type HighRisk struct {
	Count              int     `json:"count"`
	AvgOverperformance float64 `json:"avg_overperformance"`
}

// TopPerformers describes the best overperformers in the base set.
type TopPerformers struct {
	BestOverperformance float64 `json:"best_overperformance"`
	BestPlayer          string  `json:"best_player"`
	AvgMinutes          float64 `json:"avg_minutes"`
}

// SubStrategy describes the early-substitution candidates.
type SubStrategy struct {
	Count              int     `json:"count"`
	AvgFatigue         float64 `json:"avg_fatigue"`
	OverperformanceSum float64 `json:"overperformance_sum"`
}

// Key bundles the footer insight blocks, computed over the base set.
type Key struct {
	HighRisk      HighRisk      `json:"high_risk"`
	TopPerformers TopPerformers `json:"top_performers"`
	SubStrategy   SubStrategy   `json:"sub_strategy"`
}

// ComputeKey derives the three insight blocks. Mean-type fields are NaN when
// their subset is empty; the API layer zeroes them before serialization.
func ComputeKey(records []model.PlayerRecord) Key {
	highFatigue := filterRecords(records, func(r model.PlayerRecord) bool { return r.FatigueScore > HighFatigue })
	subEarly := filterRecords(records, func(r model.PlayerRecord) bool { return r.SubRecommendation == model.RecommendSubEarly })

	top := topByOverperformance(records, topPerformerCount)
	var performers TopPerformers
	if len(top) > 0 {
		performers = TopPerformers{
			BestOverperformance: top[0].Overperformance,
			BestPlayer:          top[0].Player,
			AvgMinutes:          Average(top, func(r model.PlayerRecord) float64 { return r.Minutes }),
		}
	} else {
		performers = TopPerformers{BestOverperformance: math.NaN(), AvgMinutes: math.NaN()}
	}

	return Key{
		HighRisk: HighRisk{
			Count:              len(highFatigue),
			AvgOverperformance: Average(highFatigue, overperformance),
		},
		TopPerformers: performers,
		SubStrategy: SubStrategy{
			Count:              len(subEarly),
			AvgFatigue:         Average(subEarly, fatigue),
			OverperformanceSum: Sum(subEarly, overperformance),
		},
	}
}

// RecommendationCount is one slice of the recommendation pie.
type RecommendationCount struct {
	Recommendation model.Recommendation `json:"recommendation"`
	Count          int                  `json:"count"`
}

// RecommendationCounts tallies records per recommendation, ordered by count
// descending then display order, dropping empty categories.
func RecommendationCounts(records []model.PlayerRecord) []RecommendationCount {
	counts := make(map[model.Recommendation]int)
	for _, r := range records {
		counts[r.SubRecommendation]++
	}
	out := make([]RecommendationCount, 0, len(counts))
	for _, rec := range model.Recommendations() {
		if counts[rec] > 0 {
			out = append(out, RecommendationCount{Recommendation: rec, Count: counts[rec]})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// HistogramBin is one bar of the fatigue histogram.
type HistogramBin struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}

// FatigueHistogram bins fatigue scores into bins equal-width buckets spanning
// the observed range. Returns nil on empty input or non-positive bins. A
// degenerate range (all scores equal) yields a single full bucket.
func FatigueHistogram(records []model.PlayerRecord, bins int) []HistogramBin {
	if len(records) == 0 || bins <= 0 {
		return nil
	}
	lo, hi := records[0].FatigueScore, records[0].FatigueScore
	for _, r := range records[1:] {
		lo = math.Min(lo, r.FatigueScore)
		hi = math.Max(hi, r.FatigueScore)
	}
	if lo == hi {
		return []HistogramBin{{Lo: lo, Hi: hi, Count: len(records)}}
	}

	width := (hi - lo) / float64(bins)
	out := make([]HistogramBin, bins)
	for i := range out {
		out[i] = HistogramBin{Lo: lo + float64(i)*width, Hi: lo + float64(i+1)*width}
	}
	for _, r := range records {
		idx := int((r.FatigueScore - lo) / width)
		if idx >= bins { // the max value lands in the last bucket
			idx = bins - 1
		}
		out[idx].Count++
	}
	return out
}

// Positions collects the unique position tokens across records: each Position
// field is split on commas, trimmed, deduplicated, and sorted.
func Positions(records []model.PlayerRecord) []string {
	seen := make(map[string]struct{})
	for _, r := range records {
		for _, p := range r.Positions() {
			seen[p] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func fatigue(r model.PlayerRecord) float64         { return r.FatigueScore }
func overperformance(r model.PlayerRecord) float64 { return r.Overperformance }

func filterRecords(records []model.PlayerRecord, pred func(model.PlayerRecord) bool) []model.PlayerRecord {
	out := make([]model.PlayerRecord, 0, len(records))
	for _, r := range records {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

func topByOverperformance(records []model.PlayerRecord, n int) []model.PlayerRecord {
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
