// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

/*
Package metrics provides Prometheus metrics collection and export for observability.

# Overview

The package provides metrics for:
  - Snapshot ingestion: parts, rows per category, stage latency, run state
  - Upstream requests, HTTP 429 responses and part cache efficiency
  - Filter recomputation latency and coalesced city edits
  - HTTP request latency and throughput
  - WebSocket connection counts
  - Circuit breaker state transitions

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8080/metrics

# Usage

Collectors are registered with the default registry through promauto, so
importing the package is enough. Helpers such as RecordPartStage and
RecordIngestError keep label values consistent across call sites.
*/
package metrics
