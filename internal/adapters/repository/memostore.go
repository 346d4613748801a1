package repository

import (
	"context"
	"sync"

	"github.com/dionchettiar/pitchboard/internal/domain/model"
	"github.com/dionchettiar/pitchboard/pkg/logger"
)

// MemoStore implements Store as a mutex-guarded memo around a Loader.
type MemoStore struct {
	mu     sync.RWMutex
	loader Loader
	cached *model.Snapshot
	logger logger.Logger
}

// NewMemoStore creates a memo store over the given loader.
func NewMemoStore(loader Loader, opts ...Option) *MemoStore {
	s := &MemoStore{loader: loader}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the cached snapshot, loading it on first use. Concurrent
// first callers collapse onto a single load under the write lock.
func (s *MemoStore) Snapshot(ctx context.Context) (*model.Snapshot, error) {
	s.mu.RLock()
	cached := s.cached
	s.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached != nil {
		return s.cached, nil
	}
	snap, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	s.cached = snap
	return snap, nil
}

// Refresh discards the cache and loads a fresh snapshot. On failure the
// previous snapshot stays evicted: a reload that fails must surface as a
// load-error state, not silently serve stale data.
func (s *MemoStore) Refresh(ctx context.Context) (*model.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.cached
	s.cached = nil
	snap, err := s.loader.Load(ctx)
	if err != nil {
		if s.logger != nil && prev != nil {
			s.logger.Warn(ctx, "refresh failed; cache evicted",
				logger.String("previousSnapshotID", prev.ID), logger.Error(err))
		}
		return nil, err
	}
	s.cached = snap
	return snap, nil
}

// Invalidate drops the cached snapshot without loading a new one.
func (s *MemoStore) Invalidate(_ context.Context) {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

// Count returns the record count of the cached snapshot, 0 when unloaded.
func (s *MemoStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cached.Count()
}

// Loaded reports whether a snapshot is currently cached.
func (s *MemoStore) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cached != nil
}
