// Package app wires the dataset store and the domain packages into the
// operations the HTTP layer exposes.
package app

import (
	"context"
	"fmt"
	"io"
	"math"
	"sync/atomic"
	"time"

	"github.com/dionchettiar/pitchboard/internal/adapters/repository"
	"github.com/dionchettiar/pitchboard/internal/domain/filter"
	"github.com/dionchettiar/pitchboard/internal/domain/insights"
	"github.com/dionchettiar/pitchboard/internal/domain/model"
	"github.com/dionchettiar/pitchboard/internal/domain/types"
	"github.com/dionchettiar/pitchboard/internal/export"
	"github.com/dionchettiar/pitchboard/pkg/logger"
	"github.com/dionchettiar/pitchboard/pkg/metrics"
)

// Default top-N bounds, overridable through WithTopNBounds.
const (
	defaultMinTopN     = 5
	defaultDefaultTopN = 15
	defaultMaxTopN     = 50
	defaultBins        = 20
)

// Service coordinates the snapshot store and the domain packages. All reads
// see one consistent snapshot; Reload swaps the snapshot atomically through
// the store.
type Service struct {
	store         repository.Store
	logger        logger.Logger
	minTopN       int
	defaultTopN   int
	maxTopN       int
	histogramBins int
	preload       bool
	onReload      func(*model.Snapshot)
	startTime     time.Time
	started       atomic.Bool
}

// New creates a Service with the given options.
func New(opts ...Option) *Service {
	s := &Service{
		minTopN:       defaultMinTopN,
		defaultTopN:   defaultDefaultTopN,
		maxTopN:       defaultMaxTopN,
		histogramBins: defaultBins,
		preload:       true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start readies the service and, unless preload is disabled, performs the
// first dataset load. A failed preload is logged and reported per request
// instead of aborting startup, so the service still comes up when a source
// is temporarily unreachable.
func (s *Service) Start(ctx context.Context) error {
	if s.logger == nil {
		s.logger = logger.Nop()
	}
	if s.store == nil {
		return fmt.Errorf("%w: no store configured", ErrNotStarted)
	}
	s.startTime = time.Now()
	s.started.Store(true)

	if s.preload {
		snap, err := s.store.Snapshot(ctx)
		if err != nil {
			s.logger.Error(ctx, "initial dataset load failed", logger.Error(err))
			return nil
		}
		s.logger.Info(ctx, "dataset preloaded",
			logger.String("snapshotID", snap.ID),
			logger.Int("records", snap.Count()))
		s.notifyReload(snap)
	}
	return nil
}

// Stop releases the service.
func (s *Service) Stop(_ context.Context) error {
	s.started.Store(false)
	return nil
}

// Players returns the filtered record set in the requested order.
func (s *Service) Players(ctx context.Context, spec filter.Spec, key filter.SortKey, asc bool) ([]model.PlayerRecord, error) {
	records, err := s.filtered(ctx, spec)
	if err != nil {
		return nil, err
	}
	return filter.Sort(records, key, asc), nil
}

// TopOverperformers returns the n best overperformers of the filtered set,
// with n clamped into the configured bounds. n <= 0 selects the default.
func (s *Service) TopOverperformers(ctx context.Context, spec filter.Spec, n int) ([]model.PlayerRecord, error) {
	records, err := s.filtered(ctx, spec)
	if err != nil {
		return nil, err
	}
	return filter.TopN(records, s.clampTopN(n)), nil
}

// Summary computes the metric tiles over the full base set, ignoring filters.
func (s *Service) Summary(ctx context.Context) (insights.Summary, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return insights.Summary{}, err
	}
	return insights.Summarize(snap.Records), nil
}

// Featured returns the most fatigued record of the filtered set, the one the
// dashboard spotlights. ok is false when the filter matched nothing.
func (s *Service) Featured(ctx context.Context, spec filter.Spec) (model.PlayerRecord, bool, error) {
	records, err := s.filtered(ctx, spec)
	if err != nil {
		return model.PlayerRecord{}, false, err
	}
	rec, ok := insights.ArgMax(records, func(r model.PlayerRecord) float64 { return r.FatigueScore })
	return rec, ok, nil
}

// Distributions computes the recommendation pie and fatigue histogram over
// the filtered set.
func (s *Service) Distributions(ctx context.Context, spec filter.Spec) (insights.Distributions, error) {
	records, err := s.filtered(ctx, spec)
	if err != nil {
		return insights.Distributions{}, err
	}
	return insights.ComputeDistributions(records, s.histogramBins), nil
}

// KeyInsights computes the footer insight blocks over the full base set,
// ignoring filters. NaN means from empty subsets are zeroed so the result
// serializes cleanly.
func (s *Service) KeyInsights(ctx context.Context) (insights.Key, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return insights.Key{}, err
	}
	key := insights.ComputeKey(snap.Records)
	key.HighRisk.AvgOverperformance = zeroNaN(key.HighRisk.AvgOverperformance)
	key.TopPerformers.BestOverperformance = zeroNaN(key.TopPerformers.BestOverperformance)
	key.TopPerformers.AvgMinutes = zeroNaN(key.TopPerformers.AvgMinutes)
	key.SubStrategy.AvgFatigue = zeroNaN(key.SubStrategy.AvgFatigue)
	return key, nil
}

// FilterOptions derives the filter controls from the base set: categorical
// choices plus the observed fatigue bounds and the top-N limits.
func (s *Service) FilterOptions(ctx context.Context) (types.FilterOptions, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return types.FilterOptions{}, err
	}
	recs := make([]string, 0, 4)
	recs = append(recs, filter.All)
	for _, r := range model.Recommendations() {
		recs = append(recs, string(r))
	}
	lo, hi, _ := snap.FatigueBounds()
	return types.FilterOptions{
		Recommendations: recs,
		Positions:       append([]string{filter.All}, insights.Positions(snap.Records)...),
		FatigueMin:      lo,
		FatigueMax:      hi,
		MinTopN:         s.minTopN,
		MaxTopN:         s.maxTopN,
		DefaultTopN:     s.defaultTopN,
	}, nil
}

// ExportFiltered writes the display-formatted CSV of the filtered, sorted
// set to w and returns the row count.
func (s *Service) ExportFiltered(ctx context.Context, spec filter.Spec, key filter.SortKey, asc bool, w io.Writer) (int, error) {
	records, err := s.Players(ctx, spec, key, asc)
	if err != nil {
		return 0, err
	}
	if err := export.WriteFiltered(w, records); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExport, err)
	}
	metrics.RecordExport("filtered")
	return len(records), nil
}

// ExportFull writes the full-precision CSV of the entire merged dataset to w
// and returns the row count.
func (s *Service) ExportFull(ctx context.Context, w io.Writer) (int, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return 0, err
	}
	if err := export.WriteFull(w, snap.Records); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExport, err)
	}
	metrics.RecordExport("full")
	return snap.Count(), nil
}

// Reload forces a fresh fetch-and-merge and returns the new snapshot info.
// On failure the previous snapshot is evicted and subsequent reads surface
// the load error.
func (s *Service) Reload(ctx context.Context) (types.ReloadInfo, error) {
	snap, err := s.store.Refresh(ctx)
	if err != nil {
		return types.ReloadInfo{}, err
	}
	s.logger.Info(ctx, "dataset reloaded",
		logger.String("snapshotID", snap.ID),
		logger.Int("records", snap.Count()))
	s.notifyReload(snap)
	return reloadInfo(snap), nil
}

// CurrentInfo returns info about the cached snapshot without triggering a
// load. ok is false when nothing is loaded yet.
func (s *Service) CurrentInfo(ctx context.Context) (types.ReloadInfo, bool) {
	if ls, isLoaded := s.store.(interface{ Loaded() bool }); isLoaded && !ls.Loaded() {
		return types.ReloadInfo{}, false
	}
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return types.ReloadInfo{}, false
	}
	return reloadInfo(snap), true
}

// GetStats returns runtime statistics for the stats endpoint.
func (s *Service) GetStats() map[string]interface{} {
	stats := map[string]interface{}{
		"started":        s.started.Load(),
		"min_top_n":      s.minTopN,
		"default_top_n":  s.defaultTopN,
		"max_top_n":      s.maxTopN,
		"histogram_bins": s.histogramBins,
	}
	if s.store != nil {
		stats["records"] = s.store.Count(context.Background())
	}
	if !s.startTime.IsZero() {
		stats["uptime_seconds"] = int64(time.Since(s.startTime).Seconds())
	}
	if ls, ok := s.store.(interface{ Loaded() bool }); ok {
		stats["loaded"] = ls.Loaded()
	}
	return stats
}

// TopNBounds exposes the configured clamp range and default.
func (s *Service) TopNBounds() (minN, defaultN, maxN int) {
	return s.minTopN, s.defaultTopN, s.maxTopN
}

func (s *Service) snapshot(ctx context.Context) (*model.Snapshot, error) {
	if !s.started.Load() {
		return nil, ErrNotStarted
	}
	return s.store.Snapshot(ctx)
}

// filtered validates the spec, applies it, and records filter metrics. An
// empty result is returned as an empty, non-nil slice.
func (s *Service) filtered(ctx context.Context, spec filter.Spec) ([]model.PlayerRecord, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	metrics.RecordFilterQuery()
	records := filter.Apply(snap.Records, spec)
	if len(records) == 0 {
		metrics.RecordEmptyFilterResult()
	}
	return records, nil
}

func (s *Service) clampTopN(n int) int {
	if n <= 0 {
		return s.defaultTopN
	}
	if n < s.minTopN {
		return s.minTopN
	}
	if n > s.maxTopN {
		return s.maxTopN
	}
	return n
}

func (s *Service) notifyReload(snap *model.Snapshot) {
	if s.onReload != nil {
		s.onReload(snap)
	}
}

func reloadInfo(snap *model.Snapshot) types.ReloadInfo {
	return types.ReloadInfo{
		SnapshotID:  snap.ID,
		RecordCount: snap.Count(),
		LoadedAt:    snap.LoadedAt,
	}
}

func zeroNaN(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}
