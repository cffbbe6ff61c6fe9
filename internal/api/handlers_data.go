// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

package api

import (
	"net/http"
	"strings"

	"github.com/sprowk/company-finder/internal/cache"
	"github.com/sprowk/company-finder/internal/ingest"
	"github.com/sprowk/company-finder/internal/locale"
	"github.com/sprowk/company-finder/internal/models"
	"github.com/sprowk/company-finder/internal/session"
)

// StatsResponse is the data of GET /stats.
type StatsResponse struct {
	Counts        []session.CategoryCount `json:"counts"`
	Total         int                     `json:"total"`
	TotalDisplay  string                  `json:"total_display"`
	State         ingest.State            `json:"state"`
	Complete      bool                    `json:"complete"`
	ReferenceDate string                  `json:"reference_date"`
}

// Regions handles GET /regions. Options are sorted once ingestion
// completes; while loading they are in first-seen order.
func (h *Handler) Regions(w http.ResponseWriter, r *http.Request) {
	store := h.ingest.Store()
	regions := store.RegionOptions()
	if regions == nil {
		regions = []string{}
	}
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"regions":  regions,
		"complete": store.Complete(),
	})
}

// Stats handles GET /stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	store := h.ingest.Store()
	counts := session.Counts(store)
	total := store.Count(models.CategoryAll)

	NewResponseWriter(w, r).Success(StatsResponse{
		Counts:        counts,
		Total:         total,
		TotalDisplay:  locale.FormatNumber(total),
		State:         h.ingest.Progress().State,
		Complete:      store.Complete(),
		ReferenceDate: h.ingest.ReferenceDate().Format("2006-01-02"),
	})
}

// Progress handles GET /progress.
func (h *Handler) Progress(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.ingest.Progress())
}

// Cities handles GET /cities?prefix=&limit=. Matching ignores case and
// diacritics; results rank by number of registered subjects.
func (h *Handler) Cities(w http.ResponseWriter, r *http.Request) {
	req := CitiesRequest{
		Prefix: strings.TrimSpace(r.URL.Query().Get("prefix")),
		Limit:  getIntParam(r, "limit", 10),
	}
	if !validateRequest(w, r, &req) {
		return
	}

	results := []cache.TrieResult{}
	if h.cities != nil && req.Prefix != "" {
		if found := h.cities.Autocomplete(req.Prefix, req.Limit); found != nil {
			results = found
		}
	}
	NewResponseWriter(w, r).Success(results)
}

// Performance handles GET /performance.
func (h *Handler) Performance(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"endpoints": h.perfMon.GetStats(),
		"recent":    h.perfMon.GetRecentMetrics(20),
	})
}
