package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if PITCH_CONFIG is set
//  3. env (prefix PITCH_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("PITCH_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: PITCH_ADDR, PITCH_SOURCE_A_URL, ...
	// Map env keys like PITCH_SOURCE_A_URL -> source_a_url (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("PITCH_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "pitch_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.SourceAURL == "":
		return fmt.Errorf("%w: source_a_url must not be empty", ErrInvalidConfig)
	case c.SourceBURL == "":
		return fmt.Errorf("%w: source_b_url must not be empty", ErrInvalidConfig)
	case c.FetchTimeoutMS <= 0:
		return fmt.Errorf("%w: fetch_timeout_ms must be positive", ErrInvalidConfig)
	case c.MinTopN < 1 || c.MaxTopN < c.MinTopN:
		return fmt.Errorf("%w: top-n bounds must satisfy 1 <= min <= max", ErrInvalidConfig)
	case c.DefaultTopN < c.MinTopN || c.DefaultTopN > c.MaxTopN:
		return fmt.Errorf("%w: default_top_n must fall within [min_top_n, max_top_n]", ErrInvalidConfig)
	case c.HistogramBins < 1:
		return fmt.Errorf("%w: histogram_bins must be positive", ErrInvalidConfig)
	}
	return nil
}
