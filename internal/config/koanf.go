// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/company-finder/config.yaml",
	"/etc/company-finder/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DotEnvFile is loaded into the environment before koanf reads it.
const DotEnvFile = ".env"

// defaultConfig returns a Config struct with all sensible default values.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   300,
			RateLimitWindow: time.Minute,
		},
		Source: SourceConfig{
			Kind:              SourceGitHub,
			Owner:             "sprowk",
			Repo:              "company-finder",
			Branch:            "main",
			APIBaseURL:        "https://api.github.com",
			Timeout:           60 * time.Second,
			RequestsPerSecond: 5,
			Burst:             2,
			MaxRetries:        5,
			RetryBaseDelay:    time.Second,
		},
		Cache: CacheConfig{
			Enabled: true,
			Path:    "./data/partcache",
			TTL:     7 * 24 * time.Hour,
		},
		Ingest: IngestConfig{
			PageSize:           100,
			Debounce:           500 * time.Millisecond,
			AutoStart:          true,
			SessionTTL:         30 * time.Minute,
			MaxSessions:        1000,
			NormalizeCacheSize: 50000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadWithKoanf loads configuration using koanf with layered sources:
// defaults, then the config file, then environment variables.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// loadDotEnv loads .env when present. Existing variables win.
func loadDotEnv() {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: ignoring %s: %v\n", DotEnvFile, err)
	}
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings while the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_host":          "server.host",
	"http_port":          "server.port",
	"server_timeout":     "server.timeout",
	"shutdown_timeout":   "server.shutdown_timeout",
	"cors_origins":       "server.cors_origins",
	"rate_limit_reqs":    "server.rate_limit_reqs",
	"rate_limit_window":  "server.rate_limit_window",
	"disable_rate_limit": "server.rate_limit_disabled",

	// Source
	"source_kind":                "source.kind",
	"snapshot_dir":               "source.dir",
	"github_owner":               "source.owner",
	"github_repo":                "source.repo",
	"github_branch":              "source.branch",
	"github_api_url":             "source.api_base_url",
	"github_token":               "source.token",
	"snapshot_base_url":          "source.static_base_url",
	"source_timeout":             "source.timeout",
	"source_requests_per_second": "source.requests_per_second",
	"source_burst":               "source.burst",
	"source_max_retries":         "source.max_retries",
	"source_retry_base_delay":    "source.retry_base_delay",

	// Part cache
	"part_cache_enabled":   "cache.enabled",
	"part_cache_path":      "cache.path",
	"part_cache_in_memory": "cache.in_memory",
	"part_cache_ttl":       "cache.ttl",

	// Ingestion and sessions
	"page_size":            "ingest.page_size",
	"city_debounce":        "ingest.debounce",
	"ingest_auto_start":    "ingest.auto_start",
	"reload_schedule":      "ingest.reload_schedule",
	"session_ttl":          "ingest.session_ttl",
	"max_sessions":         "ingest.max_sessions",
	"normalize_cache_size": "ingest.normalize_cache_size",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - GITHUB_TOKEN -> source.token
//   - CITY_DEBOUNCE -> ingest.debounce
//
// Unmapped variables return "" and are skipped so unrelated environment
// does not pollute the configuration.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
