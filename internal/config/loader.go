package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix     = "PICARENA_"
	envConfigPath = envPrefix + "CONFIG"
)

var listKeys = map[string]struct{}{
	"extensions":           {},
	"cors_allowed_origins": {},
}

// LoadOption adjusts where Load looks for settings.
type LoadOption func(*loadOptions)

type loadOptions struct {
	file        string
	envFile     string
	envRequired bool
}

// WithFile sets the YAML file, taking precedence over PICARENA_CONFIG.
func WithFile(path string) LoadOption {
	return func(o *loadOptions) { o.file = path }
}

// WithEnvFile loads a .env file into the process environment before the
// environment layer is read. Variables already set are not overwritten.
// A missing default file is skipped; an explicitly required one is an error.
func WithEnvFile(path string, required bool) LoadOption {
	return func(o *loadOptions) {
		o.envFile = path
		o.envRequired = required
	}
}

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) from WithFile or PICARENA_CONFIG
//  3. env (prefix PICARENA_), after an optional .env file is applied
func Load(ctx context.Context, opts ...LoadOption) (*Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	if o.envFile != "" {
		if err := godotenv.Load(o.envFile); err != nil {
			if o.envRequired || !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: env file %s: %w", ErrLoadConfig, o.envFile, err)
			}
		}
	}

	k := koanf.New(".")

	path := o.file
	if path == "" {
		path = os.Getenv(envConfigPath)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// PICARENA_IMAGES_DIR -> images_dir. Keys are flat; underscores are kept.
	// List keys take comma separated values.
	envProvider := env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, any) {
		key = strings.TrimPrefix(strings.ToLower(key), strings.ToLower(envPrefix))
		if _, ok := listKeys[key]; ok {
			return key, strings.Split(value, ",")
		}
		return key, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	// List defaults are applied after decoding so a configured list replaces
	// them instead of being merged element by element.
	defaults := New()
	cfg := New()
	cfg.Extensions, cfg.CORSAllowedOrigins = nil, nil
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	cfg.normalize()
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = defaults.Extensions
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = defaults.CORSAllowedOrigins
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
