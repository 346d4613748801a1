// Package types contains common types used across the application.
package types

import "time"

// FilterOptions feeds the dashboard's filter controls: the recommendation
// dropdown, the position dropdown (built from the split position set, not
// from any UI widget state), the fatigue slider bounds, and the top-N limits.
type FilterOptions struct {
	Recommendations []string `json:"recommendations"`
	Positions       []string `json:"positions"`
	FatigueMin      float64  `json:"fatigue_min"`
	FatigueMax      float64  `json:"fatigue_max"`
	MinTopN         int      `json:"min_top_n"`
	MaxTopN         int      `json:"max_top_n"`
	DefaultTopN     int      `json:"default_top_n"`
}

// ReloadInfo describes one loaded snapshot. It is the payload of the reload
// endpoint's response and of websocket reload broadcasts.
type ReloadInfo struct {
	SnapshotID  string    `json:"snapshot_id"`
	RecordCount int       `json:"record_count"`
	LoadedAt    time.Time `json:"loaded_at"`
}
