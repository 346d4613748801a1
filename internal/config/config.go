// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load() layers file and env.
// - External errors must be wrapped via this package's error helpers.
package config

// Default top-N bounds for the overperformance view.
const (
	defaultMinTopN = 5
	defaultMaxTopN = 50
	defaultTopN    = 15
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8090".
	Addr string `koanf:"addr"`

	// SourceAURL points at the sub-optimizer CSV (fatigue/substitution data).
	SourceAURL string `koanf:"source_a_url"`

	// SourceBURL points at the performance drop-off CSV.
	SourceBURL string `koanf:"source_b_url"`

	// FetchTimeoutMS bounds each CSV fetch.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// DefaultTopN, MinTopN, and MaxTopN bound GET /api/top?limit.
	DefaultTopN int `koanf:"default_top_n"`
	MinTopN     int `koanf:"min_top_n"`
	MaxTopN     int `koanf:"max_top_n"`

	// HistogramBins sets the number of bins in the fatigue histogram.
	HistogramBins int `koanf:"histogram_bins"`

	// Preload fetches the dataset at startup instead of on first request.
	Preload bool `koanf:"preload"`
}

// New creates a Config populated with defaults. The source URLs default to
// the published dataset this dashboard was built for.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		Addr:           ":8090",
		SourceAURL:     "https://raw.githubusercontent.com/Dion-Chettiar/Streamlit_Dashboard/refs/heads/main/sub_optimizer%202.csv",
		SourceBURL:     "https://raw.githubusercontent.com/Dion-Chettiar/Streamlit_Dashboard/refs/heads/main/Performance_Dropoff_Per_Player.csv",
		FetchTimeoutMS: 20_000,
		DefaultTopN:    defaultTopN,
		MinTopN:        defaultMinTopN,
		MaxTopN:        defaultMaxTopN,
		HistogramBins:  20,
		Preload:        true,
	}
}
