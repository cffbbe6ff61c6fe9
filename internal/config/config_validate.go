// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/sprowk/company-finder/internal/logging"
)

// MaxPageSize bounds IngestConfig.PageSize.
const MaxPageSize = 1000

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSource(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateIngest(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.RateLimitDisabled {
		return nil
	}
	if c.Server.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQS must be at least 1, got %d", c.Server.RateLimitReqs)
	}
	if c.Server.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.Server.RateLimitWindow)
	}
	return nil
}

// validateSource validates the snapshot source for its kind.
func (c *Config) validateSource() error {
	switch c.Source.Kind {
	case SourceGitHub:
		return c.validateGitHubSource()
	case SourceDir:
		if strings.TrimSpace(c.Source.Dir) == "" {
			return fmt.Errorf("SNAPSHOT_DIR is required when SOURCE_KIND=dir")
		}
		return nil
	default:
		return fmt.Errorf("SOURCE_KIND must be %q or %q, got %q", SourceGitHub, SourceDir, c.Source.Kind)
	}
}

func (c *Config) validateGitHubSource() error {
	if c.Source.Owner == "" || c.Source.Repo == "" || c.Source.Branch == "" {
		return fmt.Errorf("GITHUB_OWNER, GITHUB_REPO and GITHUB_BRANCH are required when SOURCE_KIND=github")
	}
	if err := validateHTTPURL("GITHUB_API_URL", c.Source.APIBaseURL); err != nil {
		return err
	}
	if c.Source.StaticBaseURL != "" {
		if err := validateHTTPURL("SNAPSHOT_BASE_URL", c.Source.StaticBaseURL); err != nil {
			return err
		}
	}
	if c.Source.RequestsPerSecond < 0 {
		return fmt.Errorf("SOURCE_REQUESTS_PER_SECOND must not be negative, got %v", c.Source.RequestsPerSecond)
	}
	if c.Source.MaxRetries < 0 || c.Source.MaxRetries > 10 {
		return fmt.Errorf("SOURCE_MAX_RETRIES must be between 0 and 10, got %d", c.Source.MaxRetries)
	}
	return nil
}

func validateHTTPURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", name, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s must include a host, got %q", name, raw)
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.Enabled && !c.Cache.InMemory && strings.TrimSpace(c.Cache.Path) == "" {
		return fmt.Errorf("PART_CACHE_PATH is required when the part cache is enabled on disk")
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("PART_CACHE_TTL must not be negative, got %s", c.Cache.TTL)
	}
	return nil
}

func (c *Config) validateIngest() error {
	if c.Ingest.PageSize < 1 || c.Ingest.PageSize > MaxPageSize {
		return fmt.Errorf("PAGE_SIZE must be between 1 and %d, got %d", MaxPageSize, c.Ingest.PageSize)
	}
	if c.Ingest.Debounce < 0 {
		return fmt.Errorf("CITY_DEBOUNCE must not be negative, got %s", c.Ingest.Debounce)
	}
	if c.Ingest.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.Ingest.SessionTTL)
	}
	if c.Ingest.MaxSessions < 1 {
		return fmt.Errorf("MAX_SESSIONS must be at least 1, got %d", c.Ingest.MaxSessions)
	}
	if c.Ingest.ReloadSchedule != "" {
		if _, err := ParseSchedule(c.Ingest.ReloadSchedule); err != nil {
			return fmt.Errorf("RELOAD_SCHEDULE is invalid: %w", err)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, got %q", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// ParseSchedule parses a standard five-field cron expression or a
// descriptor such as "@daily".
func ParseSchedule(spec string) (cron.Schedule, error) {
	return cron.ParseStandard(spec)
}

// LoggingSettings converts the logging section for logging.Init.
func (c *Config) LoggingSettings() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Logging.Level
	cfg.Format = c.Logging.Format
	cfg.Caller = c.Logging.Caller
	return cfg
}
