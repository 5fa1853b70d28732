// Package config centralizes kiri's environment-variable driven
// configuration, following internal/server/server.go's readCacheSize
// convention: read an env var, fall back to a documented default.
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds every daemon-wide tunable.
type Config struct {
	RemotePort     int
	WatchDebounce  time.Duration
	StatusPoll     time.Duration
	DiffCacheSize  int
	RateLimitRPS   int
	RateLimitBurst int
	SettingsPath   string
}

// Load reads Config from the environment, logging each resolved value at Info
// the way internal/server.readCacheSize logs its resolution.
func Load(logger *slog.Logger) Config {
	cfg := Config{
		RemotePort:     envInt("KIRI_REMOTE_PORT", 9876, logger),
		WatchDebounce:  envMillis("KIRI_WATCH_DEBOUNCE_MS", 300, logger),
		StatusPoll:     envMillis("KIRI_STATUS_POLL_MS", 2000, logger),
		DiffCacheSize:  envInt("KIRI_DIFF_CACHE_SIZE", 500, logger),
		RateLimitRPS:   envInt("KIRI_RATE_LIMIT_RPS", 10, logger),
		RateLimitBurst: envInt("KIRI_RATE_LIMIT_BURST", 20, logger),
		SettingsPath:   envString("KIRI_SETTINGS_PATH", defaultSettingsPath(), logger),
	}
	logger.Info("configuration loaded",
		"remotePort", cfg.RemotePort,
		"watchDebounce", cfg.WatchDebounce,
		"statusPoll", cfg.StatusPoll,
		"diffCacheSize", cfg.DiffCacheSize,
		"rateLimitRPS", cfg.RateLimitRPS,
		"rateLimitBurst", cfg.RateLimitBurst,
		"settingsPath", cfg.SettingsPath,
	)
	return cfg
}

func defaultSettingsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".config", "kiri", "kiri-settings.json")
}

func envInt(name string, def int, logger *slog.Logger) int {
	raw := os.Getenv(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		logger.Warn("ignoring invalid env var, using default", "var", name, "value", raw, "default", def)
		return def
	}
	return n
}

func envMillis(name string, defMillis int, logger *slog.Logger) time.Duration {
	return time.Duration(envInt(name, defMillis, logger)) * time.Millisecond
}

func envString(name, def string, logger *slog.Logger) string {
	if raw := os.Getenv(name); raw != "" {
		return raw
	}
	_ = logger
	return def
}
