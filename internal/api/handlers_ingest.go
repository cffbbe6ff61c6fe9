// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

package api

import (
	"errors"
	"net/http"

	"github.com/sprowk/company-finder/internal/ingest"
	"github.com/sprowk/company-finder/internal/logging"
)

// ReloadIngest handles POST /ingest/reload. Any active run is cancelled and
// a fresh run starts from an empty dataset; progress arrives over /ws.
func (h *Handler) ReloadIngest(w http.ResponseWriter, r *http.Request) {
	wasRunning := h.ingest.IsRunning()
	h.ingest.RequestReload()

	logging.Ctx(r.Context()).Info().Bool("cancelled_active_run", wasRunning).Msg("Ingestion reload requested")
	NewResponseWriter(w, r).Accepted(map[string]interface{}{
		"reload_requested":     true,
		"cancelled_active_run": wasRunning,
	})
}

// StopIngest handles POST /ingest/stop. Rows committed before the stop stay
// browsable.
func (h *Handler) StopIngest(w http.ResponseWriter, r *http.Request) {
	err := h.ingest.Stop()
	if errors.Is(err, ingest.ErrNotRunning) {
		NewResponseWriter(w, r).Conflict("Ingestion is not running")
		return
	}
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Stopping ingestion failed")
		NewResponseWriter(w, r).InternalError("Failed to stop ingestion")
		return
	}

	logging.Ctx(r.Context()).Info().Msg("Ingestion stopped on request")
	NewResponseWriter(w, r).Success(h.ingest.Progress())
}
