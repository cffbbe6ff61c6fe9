// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sprowk/company-finder/internal/models"
)

// Prometheus instrumentation for:
// - Snapshot ingestion (parts, rows, duration, state)
// - Part fetching (latency, errors, part cache)
// - Filter recomputation and sessions
// - API endpoint latency and throughput
// - WebSocket connections
// - Circuit breaker state

var (
	// Ingestion Metrics
	IngestPartsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_parts_total",
			Help: "Total number of snapshot parts processed",
		},
		[]string{"result"}, // "committed", "failed"
	)

	IngestRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_rows_total",
			Help: "Total number of rows committed to the data store",
		},
		[]string{"category"},
	)

	IngestPartDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ingest_part_duration_seconds",
			Help:    "Time spent on one part, by stage",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"stage"}, // "fetch", "decode", "parse", "commit"
	)

	IngestRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ingest_run_duration_seconds",
			Help:    "Duration of a full ingestion run",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	IngestState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ingest_state",
			Help: "Ingestion state (0=idle, 1=loading_first, 2=loading_rest, 3=complete, 4=failed)",
		},
	)

	IngestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_errors_total",
			Help: "Total number of ingestion errors by kind",
		},
		[]string{"kind"}, // "discovery", "fetch", "decode", "parse", "empty", "other"
	)

	IngestLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ingest_last_success_timestamp",
			Help: "Unix timestamp of the last completed ingestion",
		},
	)

	// Source Metrics
	SourceRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_requests_total",
			Help: "Total number of upstream requests",
		},
		[]string{"operation", "status_code"},
	)

	SourceRateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "source_rate_limited_total",
			Help: "Total number of upstream HTTP 429 responses",
		},
	)

	PartCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "part_cache_hits_total",
			Help: "Total number of part cache hits",
		},
	)

	PartCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "part_cache_misses_total",
			Help: "Total number of part cache misses",
		},
	)

	// Session Metrics
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sessions_active",
			Help: "Current number of viewer sessions",
		},
	)

	FilterRecomputeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filter_recompute_duration_seconds",
			Help:    "Duration of filtered count recomputation",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"trigger"}, // "intent", "batch", "debounce"
	)

	FilterCoalescedEdits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "filter_coalesced_edits_total",
			Help: "City filter edits superseded within the debounce window",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordSourceRequest records one upstream call and its HTTP status (0 for transport errors).
func RecordSourceRequest(operation string, status int) {
	SourceRequests.WithLabelValues(operation, strconv.Itoa(status)).Inc()
}

// RecordPartStage observes the time one ingestion stage took for a part.
func RecordPartStage(stage string, duration time.Duration) {
	IngestPartDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordCommittedRows adds a committed batch to the per-category row counters.
func RecordCommittedRows(delta map[models.Category]int) {
	for c, n := range delta {
		if n > 0 {
			IngestRowsTotal.WithLabelValues(string(c)).Add(float64(n))
		}
	}
}

// RecordIngestError categorizes an ingestion error by its taxonomy type.
func RecordIngestError(err error) {
	IngestErrors.WithLabelValues(ErrorKind(err)).Inc()
}

// ErrorKind maps an error to the label used by IngestErrors.
func ErrorKind(err error) string {
	var (
		discovery *models.DiscoveryError
		fetch     *models.FetchError
		decode    *models.DecodeError
		parse     *models.ParseError
		empty     *models.EmptyDatasetError
	)
	switch {
	case errors.As(err, &discovery):
		return "discovery"
	case errors.As(err, &fetch):
		return "fetch"
	case errors.As(err, &decode):
		return "decode"
	case errors.As(err, &parse):
		return "parse"
	case errors.As(err, &empty):
		return "empty"
	default:
		return "other"
	}
}

// RecordRunFinished records a completed or failed ingestion run.
func RecordRunFinished(duration time.Duration, err error) {
	IngestRunDuration.Observe(duration.Seconds())
	if err == nil {
		IngestLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// RecordFilterRecompute observes one filtered-count recomputation.
func RecordFilterRecompute(trigger string, duration time.Duration) {
	FilterRecomputeDuration.WithLabelValues(trigger).Observe(duration.Seconds())
}
