// Package dataset loads the two remote CSV sources, merges them on Player,
// and derives the overperformance metric.
package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dionchettiar/pitchboard/internal/domain/model"
	"github.com/dionchettiar/pitchboard/pkg/logger"
	"github.com/dionchettiar/pitchboard/pkg/metrics"
)

// Loader produces one merged snapshot per Load call.
type Loader struct {
	fetcher Fetcher
	sourceA string // sub-optimizer CSV (fatigue/substitution data)
	sourceB string // performance drop-off CSV
	logger  logger.Logger
}

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithFetcher replaces the resource fetcher.
func WithFetcher(f Fetcher) Option {
	return func(l *Loader) {
		if f != nil {
			l.fetcher = f
		}
	}
}

// WithSources sets the two CSV resource URLs.
func WithSources(sourceA, sourceB string) Option {
	return func(l *Loader) {
		l.sourceA = sourceA
		l.sourceB = sourceB
	}
}

// WithLogger sets a custom logger for the loader.
func WithLogger(lg logger.Logger) Option {
	return func(l *Loader) {
		if lg != nil {
			l.logger = lg
		}
	}
}

// New constructs a Loader with default configuration.
func New(opts ...Option) *Loader {
	l := &Loader{
		fetcher: NewHTTPFetcher(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches both sources, left-joins source B's (Player, Actual Impact)
// projection into source A on Player, computes overperformance, and drops
// any row with a missing or unparseable field. Either source failing, or the
// merge producing zero usable rows, is an ErrLoad: the caller must enter a
// full error state rather than render an empty dashboard.
func (l *Loader) Load(ctx context.Context) (*model.Snapshot, error) {
	start := time.Now()

	records, dropped, err := l.load(ctx)
	if err != nil {
		metrics.RecordDatasetLoadError()
		if l.logger != nil {
			l.logger.Error(ctx, "dataset load failed", logger.Error(err))
		}
		return nil, err
	}

	metrics.RecordDatasetLoad(float64(time.Since(start).Milliseconds()))
	metrics.UpdateDatasetRecords(len(records))
	metrics.RecordDatasetRowsDropped(dropped)

	snap := model.NewSnapshot(records)
	if l.logger != nil {
		l.logger.Info(ctx, "dataset loaded",
			logger.String("snapshotID", snap.ID),
			logger.Int("records", len(records)),
			logger.Int("dropped", dropped),
		)
	}
	return snap, nil
}

func (l *Loader) load(ctx context.Context) ([]model.PlayerRecord, int, error) {
	perf, err := l.loadPerformance(ctx)
	if err != nil {
		return nil, 0, err
	}

	body, err := l.fetcher.Fetch(ctx, l.sourceA)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = body.Close() }()

	rows, err := readCSV(body)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: source A: %w", ErrLoad, err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("%w: source A has no header row", ErrLoad)
	}

	h := indexHeader(rows[0])
	if err := h.require("source A",
		colPlayer, colPosition, colMinutes, colImpact,
		colPredicted, colFatigue, colRecommendation, colProbability,
	); err != nil {
		return nil, 0, err
	}

	records := make([]model.PlayerRecord, 0, len(rows)-1)
	dropped := 0
	for _, row := range rows[1:] {
		rec, ok := mergeRow(h, row, perf)
		if !ok {
			dropped++
			continue
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, dropped, fmt.Errorf("%w: merge produced zero usable rows", ErrLoad)
	}
	return records, dropped, nil
}

// loadPerformance reads source B into a Player -> Actual Impact projection.
func (l *Loader) loadPerformance(ctx context.Context) (map[string]float64, error) {
	body, err := l.fetcher.Fetch(ctx, l.sourceB)
	if err != nil {
		return nil, err
	}
	defer func() { _ = body.Close() }()

	rows, err := readCSV(body)
	if err != nil {
		return nil, fmt.Errorf("%w: source B: %w", ErrLoad, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: source B has no header row", ErrLoad)
	}

	h := indexHeader(rows[0])
	if err := h.require("source B", colPlayer, colActualImpact); err != nil {
		return nil, err
	}

	perf := make(map[string]float64, len(rows)-1)
	for _, row := range rows[1:] {
		player, ok := h.field(row, colPlayer)
		if !ok || player == "" {
			continue
		}
		raw, ok := h.field(row, colActualImpact)
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			// Treated as absent; the A-side row will be dropped whole.
			continue
		}
		perf[player] = v
	}
	return perf, nil
}

// mergeRow builds one PlayerRecord from a source-A row and the source-B
// projection. ok=false means the row must be discarded entirely: a missing
// field, an unparseable number, a value outside its documented range, or no
// match in source B (left-join then drop-incomplete).
func mergeRow(h header, row []string, perf map[string]float64) (model.PlayerRecord, bool) {
	player, ok := h.field(row, colPlayer)
	if !ok || player == "" {
		return model.PlayerRecord{}, false
	}
	position, ok := h.field(row, colPosition)
	if !ok || position == "" {
		return model.PlayerRecord{}, false
	}

	minutes, ok := floatField(h, row, colMinutes)
	if !ok || minutes < 0 {
		return model.PlayerRecord{}, false
	}
	impact, ok := floatField(h, row, colImpact)
	if !ok {
		return model.PlayerRecord{}, false
	}
	predicted, ok := floatField(h, row, colPredicted)
	if !ok {
		return model.PlayerRecord{}, false
	}
	fatigue, ok := floatField(h, row, colFatigue)
	if !ok || fatigue < 0 {
		return model.PlayerRecord{}, false
	}
	probability, ok := floatField(h, row, colProbability)
	if !ok || probability < 0 || probability > 1 {
		return model.PlayerRecord{}, false
	}

	rawRec, ok := h.field(row, colRecommendation)
	if !ok {
		return model.PlayerRecord{}, false
	}
	recommendation, err := model.ParseRecommendation(rawRec)
	if err != nil {
		return model.PlayerRecord{}, false
	}

	actualPerf, ok := perf[player]
	if !ok {
		return model.PlayerRecord{}, false
	}

	return model.PlayerRecord{
		Player:          player,
		Position:        position,
		Minutes:         minutes,
		ActualImpact:    impact,
		PredictedImpact: predicted,
		// Recomputed on every load; a source Overperformance column, if one
		// ever appears, is ignored.
		Overperformance:     impact - predicted,
		ActualImpactPerf:    actualPerf,
		FatigueScore:        fatigue,
		SubRecommendation:   recommendation,
		SubEarlyProbability: probability,
	}, true
}

func floatField(h header, row []string, col string) (float64, bool) {
	raw, ok := h.field(row, col)
	if !ok || raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	// Sources occasionally carry ragged rows; short rows are dropped during
	// the merge rather than aborting the whole load.
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}
