// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

/*
Package api is the HTTP presenter boundary of the explorer.

It exposes viewer sessions, dataset metadata and ingestion control as a
JSON API under /api/v1, plus /metrics and the /ws push channel. Routing and
middleware come from the chi ecosystem (chi, chi/middleware, cors,
httprate).

Endpoints:

	POST   /api/v1/sessions                   create a session (201)
	GET    /api/v1/sessions/{id}              full snapshot
	DELETE /api/v1/sessions/{id}              close a session (204)
	POST   /api/v1/sessions/{id}/category     {"category": "orsr"}
	POST   /api/v1/sessions/{id}/city         {"fragment": "koš"} (202, debounced)
	POST   /api/v1/sessions/{id}/region       {"region": "Košický kraj"}
	POST   /api/v1/sessions/{id}/page         {"page": 3}
	GET    /api/v1/sessions/{id}/export.csv   matching records as CSV
	GET    /api/v1/regions                    region options
	GET    /api/v1/stats                      per-category counts
	GET    /api/v1/progress                   ingestion progress
	GET    /api/v1/cities?prefix=ko           city autocomplete
	GET    /api/v1/performance                request latency percentiles
	POST   /api/v1/ingest/reload              restart ingestion (202)
	POST   /api/v1/ingest/stop                halt ingestion
	GET    /api/v1/health/live                liveness
	GET    /api/v1/health/ready               503 until the first batch is committed

Every JSON response uses the APIResponse envelope:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "..."}}
	{"success": false, "error": {"code": "NOT_FOUND", "message": "..."}, "meta": {...}}

Request bodies are decoded with goccy/go-json and validated with
go-playground/validator through the validation package. Session errors map
to NOT_FOUND (unknown or expired session), VALIDATION_ERROR (bad intent),
CONFLICT (session limit, nothing to stop) and SERVICE_UNAVAILABLE (no data
yet).
*/
package api
