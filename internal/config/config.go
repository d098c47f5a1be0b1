// Package config loads demo settings from the environment, optionally
// seeded from a .env file. Every variable is prefixed with CHARTFORMS_.
//
// Example:
//
//	CHARTFORMS_LOG_LEVEL=debug CHARTFORMS_TAKEN_USERNAMES=foo,bar go run ./cmd/demo
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Prefix is prepended to every variable name.
const Prefix = "CHARTFORMS_"

var (
	// ErrParsingConfig is returned when the environment cannot be parsed into Config.
	ErrParsingConfig = errors.New("failed to parse environment variables into config")

	// ErrInvalidConfig is returned when parsed values are out of range.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrLoadingEnvFile is returned when an explicitly named .env file cannot be read.
	ErrLoadingEnvFile = errors.New("failed to load env file")
)

// Config holds the demo settings.
type Config struct {
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// InitialUsername seeds the sign-up form.
	InitialUsername string `env:"INITIAL_USERNAME"`
	// TakenUsernames are registered in the directory before the demo starts.
	TakenUsernames []string      `env:"TAKEN_USERNAMES" envSeparator:"," envDefault:"foo,bar,baz"`
	UniqueLatency  time.Duration `env:"UNIQUE_LATENCY" envDefault:"2s"`
	CreateLatency  time.Duration `env:"CREATE_LATENCY" envDefault:"500ms"`
	DebounceWindow time.Duration `env:"DEBOUNCE_WINDOW" envDefault:"500ms"`

	MaxMicrosteps int `env:"MAX_MICROSTEPS" envDefault:"100"`
}

// Load reads files into the environment and parses Config from it.
// Variables already set win over file contents. Without files, a .env in
// the working directory is read when present.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, errors.Join(ErrLoadingEnvFile, err)
		}
	} else if err := godotenv.Load(files...); err != nil {
		return Config{}, errors.Join(ErrLoadingEnvFile, err)
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: Prefix}); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad(files ...string) Config {
	cfg, err := Load(files...)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("%w: log format %q must be json or text", ErrInvalidConfig, c.LogFormat)
	}
	if c.UniqueLatency < 0 || c.CreateLatency < 0 || c.DebounceWindow < 0 {
		return fmt.Errorf("%w: durations must not be negative", ErrInvalidConfig)
	}
	if c.MaxMicrosteps <= 0 {
		return fmt.Errorf("%w: max microsteps must be positive, got %d", ErrInvalidConfig, c.MaxMicrosteps)
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, err
	}
	return l, nil
}
