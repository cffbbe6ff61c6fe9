// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

package config

import (
	"time"
)

// Source kinds.
const (
	SourceGitHub = "github"
	SourceDir    = "dir"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Source  SourceConfig  `koanf:"source"`
	Cache   CacheConfig   `koanf:"cache"`
	Ingest  IngestConfig  `koanf:"ingest"`
	Logging LoggingConfig `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// SourceConfig selects and tunes the snapshot source.
type SourceConfig struct {
	// Kind is "github" or "dir".
	Kind string `koanf:"kind"`

	// GitHub repository holding snapshots/.
	Owner  string `koanf:"owner"`
	Repo   string `koanf:"repo"`
	Branch string `koanf:"branch"`

	// Dir is the local snapshot directory for Kind "dir".
	Dir string `koanf:"dir"`

	APIBaseURL string `koanf:"api_base_url"`
	// StaticBaseURL serves the part files directly (the published site's
	// snapshots/ folder). When empty each part's download_url is used.
	StaticBaseURL string `koanf:"static_base_url"`
	Token         string `koanf:"token"`

	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
	MaxRetries        int           `koanf:"max_retries"`
	RetryBaseDelay    time.Duration `koanf:"retry_base_delay"`
}

// CacheConfig controls the on-disk cache of downloaded parts.
type CacheConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Path     string        `koanf:"path"`
	InMemory bool          `koanf:"in_memory"`
	TTL      time.Duration `koanf:"ttl"`
}

// IngestConfig holds ingestion and viewer session settings.
type IngestConfig struct {
	// PageSize is the number of rows per page (default 100).
	PageSize int `koanf:"page_size"`

	// Debounce is the quiescence window for city filter edits.
	Debounce time.Duration `koanf:"debounce"`

	// AutoStart begins ingestion when the server starts.
	AutoStart bool `koanf:"auto_start"`

	// ReloadSchedule is an optional cron expression ("0 7 * * *", "@daily")
	// that re-runs ingestion to pick up a new snapshot.
	ReloadSchedule string `koanf:"reload_schedule"`

	SessionTTL  time.Duration `koanf:"session_ttl"`
	MaxSessions int           `koanf:"max_sessions"`

	// NormalizeCacheSize bounds the folded-city memo.
	NormalizeCacheSize int `koanf:"normalize_cache_size"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// Load reads configuration from defaults, an optional config file and the
// environment, then validates it.
func Load() (*Config, error) {
	loadDotEnv()
	return LoadWithKoanf()
}
