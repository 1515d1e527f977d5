// Package config loads runtime settings from FLIPPER_* environment variables.
package config

import (
	"io"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

const (
	StorageSQLite = "sqlite"
	StorageMem    = "mem"
)

type Config struct {
	APIEndpoint  string `env:"API_ENDPOINT" envDefault:"localhost:8080"`
	Storage      string `env:"STORAGE" envDefault:"sqlite"`
	SQLitePath   string `env:"SQLITE_PATH" envDefault:"flipper.db"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	OTelEndpoint string `env:"OTEL_ENDPOINT"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](env.Options{Prefix: "FLIPPER_"})
	if err != nil {
		return Config{}, errors.Wrap(err, "parse env")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Storage {
	case StorageSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return errors.New("FLIPPER_SQLITE_PATH is required for sqlite storage")
		}
	case StorageMem:
	default:
		return errors.Errorf("unknown storage driver %q", c.Storage)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, errors.Wrapf(err, "log level %q", s)
	}
	return level, nil
}

// NewLogger builds the process logger at the configured level.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
