package fixtures

import "errors"

// Sentinel kinds for fixture errors.
var (
	ErrGenerate = errors.New("fixture generation failed")
	ErrServe    = errors.New("fixture serve failed")
	ErrVerify   = errors.New("fixture verification failed")
)
