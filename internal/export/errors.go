package export

import "errors"

// Sentinel kinds for export errors.
var (
	ErrWrite = errors.New("csv export failed")
	ErrRead  = errors.New("csv import failed")
)
