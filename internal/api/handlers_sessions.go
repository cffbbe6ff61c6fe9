// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sprowk/company-finder/internal/logging"
	"github.com/sprowk/company-finder/internal/models"
	"github.com/sprowk/company-finder/internal/session"
)

// lookupSession resolves {id}, writing a NOT_FOUND response on failure.
func (h *Handler) lookupSession(w http.ResponseWriter, r *http.Request) (*session.Session, *http.Request, bool) {
	s, err := h.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		respondSessionError(w, r, err)
		return nil, r, false
	}
	ctx := logging.ContextWithSessionID(r.Context(), s.ID)
	return s, r.WithContext(ctx), true
}

// respondSnapshot writes the full snapshot with pagination in meta.
func respondSnapshot(rw *ResponseWriter, snap *session.Snapshot) {
	rw.SuccessWithPagination(snap, &PaginationMeta{
		Page:       snap.Pagination.CurrentPage,
		PageSize:   snap.Pagination.PageSize,
		Total:      snap.Pagination.Total,
		TotalPages: snap.Pagination.TotalPages,
	})
}

// CreateSession handles POST /sessions.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessions.Create()
	if err != nil {
		respondSessionError(w, r, err)
		return
	}
	logging.Ctx(r.Context()).Debug().Str("session_id", s.ID).Msg("Session created")
	NewResponseWriter(w, r).Created(s.Snapshot())
}

// GetSession handles GET /sessions/{id}.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, r, ok := h.lookupSession(w, r)
	if !ok {
		return
	}
	respondSnapshot(NewResponseWriter(w, r), s.Snapshot())
}

// DeleteSession handles DELETE /sessions/{id}.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(chi.URLParam(r, "id")); err != nil {
		respondSessionError(w, r, err)
		return
	}
	NewResponseWriter(w, r).NoContent()
}

// SelectCategory handles POST /sessions/{id}/category.
func (h *Handler) SelectCategory(w http.ResponseWriter, r *http.Request) {
	s, r, ok := h.lookupSession(w, r)
	if !ok {
		return
	}
	var req SelectCategoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	category, err := models.ParseCategory(req.Category)
	if err == nil {
		err = s.SelectCategory(category)
	}
	if err != nil {
		respondSessionError(w, r, err)
		return
	}
	respondSnapshot(NewResponseWriter(w, r), s.Snapshot())
}

// SetCity handles POST /sessions/{id}/city. The edit is debounced: while it
// is still pending the response is 202 with a summary carrying pending_city,
// and the recomputed snapshot is pushed over the WebSocket once the window
// elapses. When nothing is left pending ("flush": true, or debouncing is
// disabled) the full snapshot is returned.
func (h *Handler) SetCity(w http.ResponseWriter, r *http.Request) {
	s, r, ok := h.lookupSession(w, r)
	if !ok {
		return
	}
	var req CityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	s.SetCityFragment(req.Fragment)
	if req.Flush {
		s.FlushCity()
	}
	if s.CityPending() {
		NewResponseWriter(w, r).Accepted(s.Summary())
		return
	}
	respondSnapshot(NewResponseWriter(w, r), s.Snapshot())
}

// SetRegion handles POST /sessions/{id}/region.
func (h *Handler) SetRegion(w http.ResponseWriter, r *http.Request) {
	s, r, ok := h.lookupSession(w, r)
	if !ok {
		return
	}
	var req RegionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	s.SetRegion(req.Region)
	respondSnapshot(NewResponseWriter(w, r), s.Snapshot())
}

// GotoPage handles POST /sessions/{id}/page. Pages past the end clamp to
// the last page.
func (h *Handler) GotoPage(w http.ResponseWriter, r *http.Request) {
	s, r, ok := h.lookupSession(w, r)
	if !ok {
		return
	}
	var req PageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if err := s.GotoPage(req.Page); err != nil {
		respondSessionError(w, r, err)
		return
	}
	respondSnapshot(NewResponseWriter(w, r), s.Snapshot())
}

// ExportCSV handles GET /sessions/{id}/export.csv.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	s, r, ok := h.lookupSession(w, r)
	if !ok {
		return
	}
	if !h.ingest.Ready() {
		NewResponseWriter(w, r).ServiceUnavailableWithDetails("No data loaded yet", h.ingest.Progress())
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="subjekty-`+s.ID+`.csv"`)

	n, err := s.ExportCSV(w)
	logger := logging.Ctx(r.Context())
	if err != nil {
		// Headers are already sent; the client sees a truncated file.
		logger.Error().Err(err).Int("rows", n).Msg("CSV export failed")
		return
	}
	logger.Info().Int("rows", n).Msg("CSV export completed")
}
