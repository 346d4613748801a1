package filter

import "errors"

// Sentinel kinds for filter errors.
var (
	ErrInvalidSpec    = errors.New("invalid filter spec")
	ErrUnknownSortKey = errors.New("unknown sort key")
)
