package app

import (
	"github.com/dionchettiar/pitchboard/internal/adapters/repository"
	"github.com/dionchettiar/pitchboard/internal/domain/model"
	"github.com/dionchettiar/pitchboard/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(lg logger.Logger) Option {
	return func(s *Service) {
		if lg != nil {
			s.logger = lg
		}
	}
}

// WithStore sets the snapshot store the service reads from.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithTopNBounds sets the clamp range and default for top-N queries.
func WithTopNBounds(minN, defaultN, maxN int) Option {
	return func(s *Service) {
		if minN > 0 && defaultN >= minN && maxN >= defaultN {
			s.minTopN = minN
			s.defaultTopN = defaultN
			s.maxTopN = maxN
		}
	}
}

// WithHistogramBins sets the number of fatigue histogram buckets.
func WithHistogramBins(bins int) Option {
	return func(s *Service) {
		if bins > 0 {
			s.histogramBins = bins
		}
	}
}

// WithPreload controls whether Start performs an eager first load.
func WithPreload(preload bool) Option {
	return func(s *Service) {
		s.preload = preload
	}
}

// WithReloadHook registers a callback invoked after every successful load,
// including the eager one during Start.
func WithReloadHook(hook func(*model.Snapshot)) Option {
	return func(s *Service) {
		if hook != nil {
			s.onReload = hook
		}
	}
}
