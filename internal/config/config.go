package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrParsingConfig is returned when environment variables cannot be parsed.
var ErrParsingConfig = errors.New("failed to parse environment variables into config")

// Config holds the service settings read from the environment.
type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	GRPCPort string `env:"GRPC_PORT" envDefault:"9090"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// MMDBPath is the fixed location of the GeoLite2 country database.
	MMDBPath string `env:"MMDB_PATH" envDefault:"./public/geo/GeoLite2-Country.mmdb"`
	// WatchMMDB logs a warning when the database file is replaced on disk.
	WatchMMDB bool `env:"WATCH_MMDB" envDefault:"true"`

	// ClientIPHeader names an extra request header trusted to carry the
	// client address. Its value is used verbatim.
	ClientIPHeader string `env:"CLIENT_IP_HEADER"`
}

// Load reads the optional .env files (the default ".env" when none are given)
// and parses the environment into a Config.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		// The default .env file is optional.
		_ = godotenv.Load()
	} else if err := godotenv.Load(files...); err != nil {
		return Config{}, fmt.Errorf("failed to load env files: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}

// SlogLevel converts the configured log level to slog.Level.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
