package dataset

import "errors"

// Sentinel kinds for dataset errors.
var (
	// ErrLoad covers unreachable or malformed sources and a merge that
	// produced zero usable rows. Callers must treat it as a full error
	// state, never as an empty dataset.
	ErrLoad = errors.New("dataset load failed")

	// ErrSchema means a required column is missing from a source header.
	ErrSchema = errors.New("source schema mismatch")
)
