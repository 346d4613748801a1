// Package fixtures generates synthetic source CSVs, serves them over HTTP,
// and verifies a full fetch-merge-export cycle against them.
package fixtures

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math/rand"
	"strconv"

	"github.com/google/uuid"

	"github.com/dionchettiar/pitchboard/internal/domain/model"
)

// archetype shapes one generated player: a position set plus the value
// ranges the numeric fields are drawn from.
type archetype struct {
	position   string
	minutesLo  float64
	minutesHi  float64
	impactLo   float64
	impactHi   float64
	fatigueLo  float64
	fatigueHi  float64
	subEarlyLo float64
	subEarlyHi float64
}

// Archetypes cover the fatigue spectrum so every recommendation and both
// histogram thresholds show up in generated data.
var archetypes = []archetype{
	{"FW", 400, 1200, 3.0, 8.0, 0.1, 0.9, 0.02, 0.25},
	{"MF", 900, 2400, 2.0, 6.5, 0.6, 1.6, 0.15, 0.55},
	{"MF,FW", 700, 2000, 2.5, 7.0, 0.9, 2.1, 0.20, 0.70},
	{"DF", 1500, 3000, 1.0, 4.5, 1.4, 2.8, 0.40, 0.95},
	{"GK", 2000, 3060, 0.5, 3.0, 0.2, 1.1, 0.01, 0.15},
}

// Fixture is one generated dataset: the two source CSVs plus the records a
// correct merge must produce from them, in source-A row order.
type Fixture struct {
	SourceA  []byte
	SourceB  []byte
	Expected []model.PlayerRecord
}

// Generate builds a fixture with numPlayers clean players and dirtyRows
// broken rows per source. Headers carry stray whitespace the way the real
// sources do, so the fixture also exercises header trimming.
func Generate(numPlayers, dirtyRows int, seed int64) (*Fixture, error) {
	if numPlayers < 1 {
		return nil, fmt.Errorf("%w: numPlayers %d", ErrGenerate, numPlayers)
	}
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // fixture data, not crypto

	expected := make([]model.PlayerRecord, 0, numPlayers)
	for i := 0; i < numPlayers; i++ {
		a := archetypes[i%len(archetypes)]
		impact := span(rng, a.impactLo, a.impactHi)
		predicted := impact + span(rng, -1.5, 1.5)
		fatigue := span(rng, a.fatigueLo, a.fatigueHi)
		rec := recommendationFor(fatigue)

		expected = append(expected, model.PlayerRecord{
			Player:              fmt.Sprintf("Player %s", uuid.New().String()[:8]),
			Position:            a.position,
			Minutes:             float64(int(span(rng, a.minutesLo, a.minutesHi))),
			ActualImpact:        impact,
			PredictedImpact:     predicted,
			Overperformance:     impact - predicted,
			ActualImpactPerf:    impact + span(rng, -0.5, 0.5),
			FatigueScore:        fatigue,
			SubRecommendation:   rec,
			SubEarlyProbability: span(rng, a.subEarlyLo, a.subEarlyHi),
		})
	}

	srcA, err := renderSourceA(expected, dirtyRows, rng)
	if err != nil {
		return nil, err
	}
	srcB, err := renderSourceB(expected, dirtyRows, rng)
	if err != nil {
		return nil, err
	}
	return &Fixture{SourceA: srcA, SourceB: srcB, Expected: expected}, nil
}

// recommendationFor mirrors how the upstream optimizer labels players: high
// fatigue pulls them off early, moderate fatigue gets watched.
func recommendationFor(fatigue float64) model.Recommendation {
	switch {
	case fatigue > 2.0:
		return model.RecommendSubEarly
	case fatigue > 1.0:
		return model.RecommendMonitor
	default:
		return model.RecommendKeepInGame
	}
}

func span(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func renderSourceA(records []model.PlayerRecord, dirtyRows int, rng *rand.Rand) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	// Padded headers, matching the published files.
	if err := w.Write([]string{
		" Player", "Position ", "Minutes", "Impact",
		"Predicted Impact", "Fatigue_Score", "Sub_Recommendation",
		"Sub Early Probability",
	}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerate, err)
	}

	for _, r := range records {
		row := []string{
			" " + r.Player,
			r.Position,
			strconv.FormatFloat(r.Minutes, 'f', -1, 64),
			num(r.ActualImpact),
			num(r.PredictedImpact),
			num(r.FatigueScore),
			string(r.SubRecommendation),
			num(r.SubEarlyProbability),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrGenerate, err)
		}
	}

	for i := 0; i < dirtyRows; i++ {
		if err := w.Write(dirtyARow(i, rng)); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrGenerate, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerate, err)
	}
	return buf.Bytes(), nil
}

// dirtyARow produces a row a correct merge must drop: blank fields, garbage
// numbers, out-of-range values, unknown labels, or a player with no
// performance counterpart.
func dirtyARow(i int, rng *rand.Rand) []string {
	name := fmt.Sprintf("Ghost %s", uuid.New().String()[:8])
	switch i % 5 {
	case 0: // no source-B match
		return []string{name, "FW", "800", "4.0", "3.5", "1.0", "Monitor", "0.3"}
	case 1: // unparseable minutes
		return []string{name, "MF", "n/a", "4.0", "3.5", "1.0", "Monitor", "0.3"}
	case 2: // probability out of range
		return []string{name, "DF", "800", "4.0", "3.5", "1.0", "Monitor", "1.7"}
	case 3: // unknown recommendation label
		return []string{name, "FW", "800", "4.0", "3.5", "1.0", "Bench Forever", "0.3"}
	default: // blank position
		return []string{name, "", "800", num(span(rng, 1, 5)), "3.5", "1.0", "Monitor", "0.3"}
	}
}

func renderSourceB(records []model.PlayerRecord, dirtyRows int, rng *rand.Rand) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Player ", " Actual Impact"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerate, err)
	}
	for _, r := range records {
		if err := w.Write([]string{r.Player, num(r.ActualImpactPerf)}); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrGenerate, err)
		}
	}
	for i := 0; i < dirtyRows; i++ {
		// Players only source B knows about; a left join must ignore them.
		row := []string{fmt.Sprintf("Phantom %s", uuid.New().String()[:8]), num(span(rng, 1, 8))}
		if i%2 == 0 {
			row[1] = "broken"
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrGenerate, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerate, err)
	}
	return buf.Bytes(), nil
}

func num(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
