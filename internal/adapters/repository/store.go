// Package repository provides the memoized snapshot store backing every view.
package repository

import (
	"context"

	"github.com/dionchettiar/pitchboard/internal/domain/model"
)

// Loader produces a fresh merged snapshot. Implemented by internal/dataset.
type Loader interface {
	Load(ctx context.Context) (*model.Snapshot, error)
}

// Store memoizes the loaded dataset for the process lifetime. The cache key
// is the fixed resource identity baked into the loader, so one cached
// snapshot is all there is; invalidation is manual.
type Store interface {
	// Snapshot returns the cached snapshot, loading it on first use.
	// A failed load is never cached.
	Snapshot(ctx context.Context) (*model.Snapshot, error)

	// Refresh discards the cache and loads a fresh snapshot.
	Refresh(ctx context.Context) (*model.Snapshot, error)

	// Invalidate drops the cached snapshot without loading a new one.
	Invalidate(ctx context.Context)

	// Count returns the record count of the cached snapshot, 0 when unloaded.
	Count(ctx context.Context) int
}
