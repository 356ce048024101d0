// Package config loads PulsePlay runtime configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/justestif/pulseplay/internal/recommend"
)

// Defaults.
const (
	DefaultAddr        = "127.0.0.1:8080"
	DefaultCatalogPath = "spotify_tracks.csv"
)

// Sentinel errors.
var (
	// ErrMissingDatabaseURL is returned by RequireDatabase when DATABASE_URL is not set.
	ErrMissingDatabaseURL = errors.New("missing DATABASE_URL environment variable")

	// ErrPartialSpotifyCredentials is returned when only one of SPOTIFY_ID and SPOTIFY_SECRET is set.
	ErrPartialSpotifyCredentials = errors.New("SPOTIFY_ID and SPOTIFY_SECRET must be set together")
)

// Config holds all runtime configuration.
type Config struct {
	Addr        string
	CatalogPath string
	PoolSize    int
	Seed        *int64 // nil means seed from the clock
	LogLevel    slog.Level

	// Optional PostgreSQL catalog source
	DatabaseURL string

	// Optional Spotify enrichment
	SpotifyID     string
	SpotifySecret string
}

// Load reads configuration from environment variables with defaults.
// Malformed values are reported as errors rather than silently replaced.
func Load() (Config, error) {
	cfg := Config{
		Addr:          envStr("PULSEPLAY_ADDR", DefaultAddr),
		CatalogPath:   envStr("PULSEPLAY_CATALOG", DefaultCatalogPath),
		PoolSize:      recommend.DefaultPoolSize,
		LogLevel:      slog.LevelInfo,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SpotifyID:     os.Getenv("SPOTIFY_ID"),
		SpotifySecret: os.Getenv("SPOTIFY_SECRET"),
	}

	if v := os.Getenv("PULSEPLAY_POOL_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("PULSEPLAY_POOL_SIZE must be a positive integer, got %q", v)
		}
		cfg.PoolSize = n
	}

	if v := os.Getenv("PULSEPLAY_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("parsing PULSEPLAY_SEED: %w", err)
		}
		cfg.Seed = &seed
	}

	if v := os.Getenv("PULSEPLAY_LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(strings.ToLower(v))); err != nil {
			return Config{}, fmt.Errorf("parsing PULSEPLAY_LOG_LEVEL: %w", err)
		}
	}

	if (cfg.SpotifyID == "") != (cfg.SpotifySecret == "") {
		return Config{}, ErrPartialSpotifyCredentials
	}

	return cfg, nil
}

// SpotifyEnabled reports whether Spotify credentials are configured.
func (c Config) SpotifyEnabled() bool {
	return c.SpotifyID != "" && c.SpotifySecret != ""
}

// RequireDatabase returns ErrMissingDatabaseURL if no database is configured.
func (c Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	return nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
