package repository

import "github.com/dionchettiar/pitchboard/pkg/logger"

// Option applies a configuration option to the MemoStore.
type Option func(*MemoStore)

// WithLogger sets a custom logger for the store.
func WithLogger(lg logger.Logger) Option {
	return func(s *MemoStore) {
		if lg != nil {
			s.logger = lg
		}
	}
}
