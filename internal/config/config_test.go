package config

import (
	"errors"
	"log/slog"
	"strings"
	"testing"
)

var envKeys = []string{
	"PULSEPLAY_ADDR",
	"PULSEPLAY_CATALOG",
	"PULSEPLAY_POOL_SIZE",
	"PULSEPLAY_SEED",
	"PULSEPLAY_LOG_LEVEL",
	"DATABASE_URL",
	"SPOTIFY_ID",
	"SPOTIFY_SECRET",
}

// clearEnv blanks every variable Load reads for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Addr != DefaultAddr {
		t.Errorf("Addr = %q, want %q", cfg.Addr, DefaultAddr)
	}
	if cfg.CatalogPath != DefaultCatalogPath {
		t.Errorf("CatalogPath = %q, want %q", cfg.CatalogPath, DefaultCatalogPath)
	}
	if cfg.PoolSize != 20 {
		t.Errorf("PoolSize = %d, want 20", cfg.PoolSize)
	}
	if cfg.Seed != nil {
		t.Errorf("Seed = %v, want nil", *cfg.Seed)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want INFO", cfg.LogLevel)
	}
	if cfg.SpotifyEnabled() {
		t.Error("SpotifyEnabled() = true without credentials")
	}
	if !errors.Is(cfg.RequireDatabase(), ErrMissingDatabaseURL) {
		t.Error("RequireDatabase() should fail without DATABASE_URL")
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PULSEPLAY_ADDR", ":9000")
	t.Setenv("PULSEPLAY_CATALOG", "/data/tracks.csv")
	t.Setenv("PULSEPLAY_POOL_SIZE", "50")
	t.Setenv("PULSEPLAY_SEED", "42")
	t.Setenv("PULSEPLAY_LOG_LEVEL", "debug")
	t.Setenv("DATABASE_URL", "postgres://localhost/pulseplay")
	t.Setenv("SPOTIFY_ID", "id")
	t.Setenv("SPOTIFY_SECRET", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Addr != ":9000" || cfg.CatalogPath != "/data/tracks.csv" {
		t.Errorf("Addr/CatalogPath = %q/%q", cfg.Addr, cfg.CatalogPath)
	}
	if cfg.PoolSize != 50 {
		t.Errorf("PoolSize = %d, want 50", cfg.PoolSize)
	}
	if cfg.Seed == nil || *cfg.Seed != 42 {
		t.Errorf("Seed = %v, want 42", cfg.Seed)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want DEBUG", cfg.LogLevel)
	}
	if !cfg.SpotifyEnabled() {
		t.Error("SpotifyEnabled() = false with credentials")
	}
	if err := cfg.RequireDatabase(); err != nil {
		t.Errorf("RequireDatabase() error = %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr error
		wantMsg string
	}{
		{name: "non-numeric pool size", key: "PULSEPLAY_POOL_SIZE", value: "many", wantMsg: "PULSEPLAY_POOL_SIZE"},
		{name: "zero pool size", key: "PULSEPLAY_POOL_SIZE", value: "0", wantMsg: "PULSEPLAY_POOL_SIZE"},
		{name: "bad seed", key: "PULSEPLAY_SEED", value: "abc", wantMsg: "PULSEPLAY_SEED"},
		{name: "bad log level", key: "PULSEPLAY_LOG_LEVEL", value: "loud", wantMsg: "PULSEPLAY_LOG_LEVEL"},
		{name: "id without secret", key: "SPOTIFY_ID", value: "id", wantErr: ErrPartialSpotifyCredentials},
		{name: "secret without id", key: "SPOTIFY_SECRET", value: "secret", wantErr: ErrPartialSpotifyCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			if err == nil {
				t.Fatal("Load() error = nil, want error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Load() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Load() error = %q, want it to mention %s", err, tt.wantMsg)
			}
		})
	}
}
