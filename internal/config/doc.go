// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

/*
Package config provides centralized configuration management for Company Finder.

# Configuration Sources

Configuration is layered with koanf, later layers overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: $CONFIG_PATH, config.yaml, config.yml,
    /etc/company-finder/config.yaml
 3. Environment variables (explicitly mapped, see envTransformFunc)

A .env file in the working directory is loaded into the process environment
first (joho/godotenv); variables already set are never overwritten.

# Configuration Structure

  - ServerConfig: HTTP listener, CORS, rate limiting
  - SourceConfig: where the snapshot comes from (GitHub or a local directory)
  - CacheConfig: BadgerDB part cache
  - IngestConfig: page size, city filter debounce, reload schedule, sessions
  - LoggingConfig: zerolog level and format

# Environment Variables

Server:
  - HTTP_HOST, HTTP_PORT, SERVER_TIMEOUT, SHUTDOWN_TIMEOUT
  - CORS_ORIGINS (comma separated), RATE_LIMIT_REQS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Source:
  - SOURCE_KIND (github|dir), SNAPSHOT_DIR
  - GITHUB_OWNER, GITHUB_REPO, GITHUB_BRANCH, GITHUB_API_URL, GITHUB_TOKEN
  - SNAPSHOT_BASE_URL: static site serving snapshots/ (optional)
  - SOURCE_TIMEOUT, SOURCE_REQUESTS_PER_SECOND, SOURCE_BURST,
    SOURCE_MAX_RETRIES, SOURCE_RETRY_BASE_DELAY

Part cache:
  - PART_CACHE_ENABLED, PART_CACHE_PATH, PART_CACHE_IN_MEMORY, PART_CACHE_TTL

Ingestion and sessions:
  - PAGE_SIZE, CITY_DEBOUNCE, INGEST_AUTO_START, RELOAD_SCHEDULE (cron)
  - SESSION_TTL, MAX_SESSIONS, NORMALIZE_CACHE_SIZE

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Usage

	cfg, err := config.Load()
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
*/
package config
