package model

import "errors"

// Sentinel kinds for model errors.
var (
	ErrUnknownRecommendation = errors.New("unknown sub recommendation")
)
