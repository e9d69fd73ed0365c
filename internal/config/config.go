// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Loading layers defaults, a YAML file, a .env file and the environment.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"slices"
	"strings"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":7860".
	Addr string `koanf:"addr"`

	// ImagesDir is the directory of pictures to compare.
	ImagesDir string `koanf:"images_dir"`

	// RatingsFile and StatsFile are the two JSON documents.
	RatingsFile string `koanf:"ratings_file"`
	StatsFile   string `koanf:"stats_file"`

	// RoundsFile keeps committed round IDs between runs. Empty keeps them in
	// memory only.
	RoundsFile string `koanf:"rounds_file"`

	// ResetSecret gates the reset operation. Empty disables reset.
	ResetSecret string `koanf:"reset_secret"`

	// KFactor is the full Elo K factor.
	KFactor float64 `koanf:"k_factor"`

	// InitialRating is given to images seen for the first time.
	InitialRating int `koanf:"initial_rating"`

	// TieScoring is symmetric or first_favored.
	TieScoring string `koanf:"tie_scoring"`

	// Extensions lists the eligible image extensions.
	Extensions []string `koanf:"extensions"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// RoundCacheSize bounds how many committed round IDs are remembered.
	RoundCacheSize int `koanf:"round_cache_size"`

	// CORSAllowedOrigins lists origins allowed to call the HTTP API.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`
}

var tieScorings = []string{"symmetric", "first_favored"}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":7860",
		ImagesDir:           "pictures",
		RatingsFile:         "elo_data.json",
		StatsFile:           "stats_data.json",
		RoundsFile:          "rounds_data.json",
		KFactor:             32,
		InitialRating:       1000,
		TieScoring:          "symmetric",
		Extensions:          []string{".png", ".jpg", ".jpeg"},
		MaxLeaderboardLimit: 500,
		RoundCacheSize:      10_000,
		CORSAllowedOrigins:  []string{"*"},
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.ImagesDir) == "":
		return fmt.Errorf("%w: images_dir must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.RatingsFile) == "":
		return fmt.Errorf("%w: ratings_file must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.StatsFile) == "":
		return fmt.Errorf("%w: stats_file must not be empty", ErrInvalidConfig)
	case c.KFactor <= 0:
		return fmt.Errorf("%w: k_factor must be positive, got %v", ErrInvalidConfig, c.KFactor)
	case !slices.Contains(tieScorings, strings.ToLower(c.TieScoring)):
		return fmt.Errorf("%w: tie_scoring must be one of %s, got %q", ErrInvalidConfig, strings.Join(tieScorings, ", "), c.TieScoring)
	case len(c.Extensions) == 0:
		return fmt.Errorf("%w: extensions must not be empty", ErrInvalidConfig)
	case c.MaxLeaderboardLimit <= 0:
		return fmt.Errorf("%w: max_leaderboard_limit must be positive", ErrInvalidConfig)
	}
	return nil
}

// normalize trims list entries that came from comma separated values.
func (c *Config) normalize() {
	c.Extensions = trimList(c.Extensions)
	c.CORSAllowedOrigins = trimList(c.CORSAllowedOrigins)
	c.TieScoring = strings.ToLower(strings.TrimSpace(c.TieScoring))
	c.RoundsFile = strings.TrimSpace(c.RoundsFile)
}

func trimList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
