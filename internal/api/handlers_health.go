// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

package api

import (
	"net/http"
	"time"
)

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style)
// Ready means the first batch is committed and the dataset can be browsed,
// even if later parts are still loading or the run halted partway.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	progress := h.ingest.Progress()
	if !h.ingest.Ready() {
		NewResponseWriter(w, r).ServiceUnavailableWithDetails("Dataset not loaded", progress)
		return
	}

	var clients int
	if h.wsHub != nil {
		clients = h.wsHub.GetClientCount()
	}
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"ready":             true,
		"state":             progress.State,
		"partial":           progress.Partial,
		"rows":              progress.Rows,
		"sessions":          h.sessions.Len(),
		"websocket_clients": clients,
		"uptime":            time.Since(h.startTime).Seconds(),
	})
}
