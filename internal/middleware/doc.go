// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

/*
Package middleware provides HTTP middleware for the API router.

Key Components:

  - RequestID: UUID request IDs in the X-Request-ID header and the logging context
  - PrometheusMetrics: request count, duration and in-flight gauge, labelled by route pattern
  - Compression: gzip for clients that accept it (klauspost/compress)
  - PerformanceMonitor: in-memory latency percentiles per route

All middleware has the chi signature func(http.Handler) http.Handler:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(perf.Middleware)
	r.With(middleware.Compression).Get("/api/v1/sessions/{id}", h.GetSession)

Route patterns ("/api/v1/sessions/{id}") rather than raw paths are used as
metric labels so that session IDs do not explode label cardinality.
*/
package middleware
