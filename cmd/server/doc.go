// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

/*
Package main is the entry point for the Company Finder server.

The server streams the published business register snapshot (gzip CSV parts)
into memory, classifies every subject by register, and serves filtered,
paginated views to browser sessions while ingestion is still running.

# Application Architecture

	company-finder
	├── data-layer
	│   ├── ingest-controller   (snapshot download, parse, classify)
	│   ├── reload-scheduler    (RELOAD_SCHEDULE, optional)
	│   └── session-manager     (viewer sessions, expiry)
	├── messaging-layer
	│   └── websocket-hub       (progress and session updates)
	└── api-layer
	    └── http-server         (chi router, /api/v1)

Startup order:

 1. Configuration: .env, config.yaml, environment (koanf v2)
 2. Logging: zerolog, bridged to slog for the supervisor
 3. Snapshot source: GitHub or a local directory, with a BadgerDB part cache
 4. Ingestion controller, city index and session manager
 5. WebSocket hub subscribed to ingestion events
 6. HTTP server and supervisor tree

# Configuration

Common environment variables:

	HTTP_PORT=8080
	SOURCE_KIND=github            # or "dir" with SNAPSHOT_DIR
	GITHUB_OWNER=sprowk GITHUB_REPO=company-finder GITHUB_BRANCH=main
	GITHUB_TOKEN=...              # optional, raises API limits
	PART_CACHE_ENABLED=true PART_CACHE_PATH=./data/partcache
	PAGE_SIZE=100 CITY_DEBOUNCE=500ms
	RELOAD_SCHEDULE="0 7 * * *"
	LOG_LEVEL=info LOG_FORMAT=json

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains within
SHUTDOWN_TIMEOUT, an active ingestion run is cancelled and WebSocket
clients receive a close frame.
*/
package main
