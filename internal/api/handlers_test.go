// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

package api

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/sprowk/company-finder/internal/cache"
	"github.com/sprowk/company-finder/internal/models"
)

func TestSessionLifecycle(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, true, 0)

	rec, resp := env.do(t, http.MethodPost, "/api/v1/sessions", "")
	if rec.Code != http.StatusCreated || !resp.Success {
		t.Fatalf("create: status %d: %s", rec.Code, rec.Body.String())
	}
	snap := decodeSnapshot(t, resp)
	if snap.SessionID == "" || !snap.Full {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.Total != 3 || snap.Pagination.TotalPages != 2 || len(snap.Rows) != 2 {
		t.Errorf("total/pages/rows = %d/%d/%d, want 3/2/2", snap.Total, snap.Pagination.TotalPages, len(snap.Rows))
	}
	if snap.Filter.Category != models.CategoryAll {
		t.Errorf("default category = %q", snap.Filter.Category)
	}
	if snap.State != "complete" {
		t.Errorf("state = %q", snap.State)
	}

	path := "/api/v1/sessions/" + snap.SessionID
	rec, resp = env.do(t, http.MethodGet, path, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status %d", rec.Code)
	}
	if resp.Meta == nil || resp.Meta.Pagination == nil || resp.Meta.Pagination.Total != 3 {
		t.Errorf("meta = %+v", resp.Meta)
	}

	rec, _ = env.do(t, http.MethodDelete, path, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: status %d", rec.Code)
	}
	rec, resp = env.do(t, http.MethodGet, path, "")
	if rec.Code != http.StatusNotFound || resp.Error == nil || resp.Error.Code != ErrCodeNotFound {
		t.Errorf("get after delete: status %d error %+v", rec.Code, resp.Error)
	}
}

func TestSessionIntents(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		path      string
		body      string
		wantTotal int
		wantPage  int
		check     func(t *testing.T, snap snapshotView)
	}{
		{
			name:      "category narrows to companies",
			path:      "category",
			body:      `{"category":"orsr"}`,
			wantTotal: 2,
			wantPage:  1,
		},
		{
			name:      "category is case-insensitive",
			path:      "category",
			body:      `{"category":"ZRSR"}`,
			wantTotal: 1,
			wantPage:  1,
		},
		{
			name:      "region",
			path:      "region",
			body:      `{"region":"Žilinský"}`,
			wantTotal: 1,
			wantPage:  1,
			check: func(t *testing.T, snap snapshotView) {
				if snap.Filter.Region != "Žilinský" {
					t.Errorf("region = %q", snap.Filter.Region)
				}
			},
		},
		{
			name:      "page past the end clamps",
			path:      "page",
			body:      `{"page":5}`,
			wantTotal: 3,
			wantPage:  2,
			check: func(t *testing.T, snap snapshotView) {
				if len(snap.Rows) != 1 {
					t.Fatalf("rows = %d, want 1", len(snap.Rows))
				}
				// Gama a.s. was established one day before the snapshot date.
				if b := snap.Rows[0].RecentBucket; b == nil || *b != 1 {
					t.Errorf("recent_bucket = %v, want 1", b)
				}
			},
		},
		{
			name:      "city applies immediately without debounce",
			path:      "city",
			body:      `{"fragment":"KOS"}`,
			wantTotal: 2,
			wantPage:  1,
			check: func(t *testing.T, snap snapshotView) {
				if !snap.Full || len(snap.Rows) != 2 || snap.PendingCity != nil {
					t.Errorf("full %v rows %d pending %v, want the applied snapshot", snap.Full, len(snap.Rows), snap.PendingCity)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t, true, 0)
			id := env.createSession(t)

			rec, resp := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/"+tt.path, tt.body)
			if rec.Code != http.StatusOK {
				t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
			}
			snap := decodeSnapshot(t, resp)
			if snap.Total != tt.wantTotal {
				t.Errorf("total = %d, want %d", snap.Total, tt.wantTotal)
			}
			if snap.Pagination.CurrentPage != tt.wantPage {
				t.Errorf("page = %d, want %d", snap.Pagination.CurrentPage, tt.wantPage)
			}
			if tt.check != nil {
				tt.check(t, snap)
			}
		})
	}
}

func TestSessionIntentErrors(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, true, 0)
	id := env.createSession(t)

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"unknown category", "/api/v1/sessions/" + id + "/category", `{"category":"ngo"}`, http.StatusBadRequest, ErrCodeValidationFailed},
		{"missing category", "/api/v1/sessions/" + id + "/category", `{}`, http.StatusBadRequest, ErrCodeValidationFailed},
		{"empty body", "/api/v1/sessions/" + id + "/category", ``, http.StatusBadRequest, ErrCodeBadRequest},
		{"malformed json", "/api/v1/sessions/" + id + "/region", `{"region":`, http.StatusBadRequest, ErrCodeBadRequest},
		{"page zero", "/api/v1/sessions/" + id + "/page", `{"page":0}`, http.StatusBadRequest, ErrCodeValidationFailed},
		{"city too long", "/api/v1/sessions/" + id + "/city", `{"fragment":"` + strings.Repeat("a", 101) + `"}`, http.StatusBadRequest, ErrCodeValidationFailed},
		{"unknown session", "/api/v1/sessions/01ARZ3NDEKTSV4RRFFQ69G5FAV/page", `{"page":1}`, http.StatusNotFound, ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec, resp := env.do(t, http.MethodPost, tt.path, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if resp.Success || resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want code %s", resp.Error, tt.wantCode)
			}
		})
	}
}

func TestSetCityDebounced(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, true, time.Hour)
	id := env.createSession(t)
	path := "/api/v1/sessions/" + id + "/city"

	rec, resp := env.do(t, http.MethodPost, path, `{"fragment":"ko"}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}
	snap := decodeSnapshot(t, resp)
	if snap.Full || len(snap.Rows) != 0 {
		t.Error("debounced response should be a summary without rows")
	}
	if snap.PendingCity == nil || *snap.PendingCity != "ko" {
		t.Errorf("pending_city = %v, want ko", snap.PendingCity)
	}
	if snap.Total != 3 || snap.Filter.CityFragment != "" {
		t.Errorf("filter applied before debounce: total %d city %q", snap.Total, snap.Filter.CityFragment)
	}

	rec, resp = env.do(t, http.MethodPost, path, `{"fragment":"koš","flush":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("flush status = %d", rec.Code)
	}
	snap = decodeSnapshot(t, resp)
	if snap.Filter.CityFragment != "koš" || snap.Total != 2 || snap.PendingCity != nil {
		t.Errorf("after flush: city %q total %d pending %v", snap.Filter.CityFragment, snap.Total, snap.PendingCity)
	}
}

func TestDataEndpoints(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, true, 0)

	t.Run("regions", func(t *testing.T) {
		rec, resp := env.do(t, http.MethodGet, "/api/v1/regions", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status %d", rec.Code)
		}
		var data struct {
			Regions  []string `json:"regions"`
			Complete bool     `json:"complete"`
		}
		if err := json.Unmarshal(resp.Data, &data); err != nil {
			t.Fatal(err)
		}
		if strings.Join(data.Regions, "|") != "Košický|Žilinský" || !data.Complete {
			t.Errorf("regions = %v complete = %v", data.Regions, data.Complete)
		}
	})

	t.Run("stats", func(t *testing.T) {
		_, resp := env.do(t, http.MethodGet, "/api/v1/stats", "")
		var data StatsResponse
		if err := json.Unmarshal(resp.Data, &data); err != nil {
			t.Fatal(err)
		}
		if data.Total != 3 || data.ReferenceDate != "2025-03-15" || !data.Complete {
			t.Errorf("stats = %+v", data)
		}
		got := map[models.Category]int{}
		for _, c := range data.Counts {
			got[c.Category] = c.Count
		}
		if got[models.CategoryORSR] != 2 || got[models.CategoryZRSR] != 1 || got[models.CategoryOther] != 0 {
			t.Errorf("counts = %v", got)
		}
	})

	t.Run("progress", func(t *testing.T) {
		_, resp := env.do(t, http.MethodGet, "/api/v1/progress", "")
		var data struct {
			State          string `json:"state"`
			PartsCommitted int    `json:"parts_committed"`
			Rows           int64  `json:"rows"`
		}
		if err := json.Unmarshal(resp.Data, &data); err != nil {
			t.Fatal(err)
		}
		if data.State != "complete" || data.PartsCommitted != 2 || data.Rows != 3 {
			t.Errorf("progress = %+v", data)
		}
	})

	t.Run("cities fold diacritics", func(t *testing.T) {
		_, resp := env.do(t, http.MethodGet, "/api/v1/cities?prefix=KO", "")
		var data []cache.TrieResult
		if err := json.Unmarshal(resp.Data, &data); err != nil {
			t.Fatal(err)
		}
		if len(data) != 1 || data[0].Value != "Košice" || data[0].Count != 2 {
			t.Errorf("cities = %+v", data)
		}
	})

	t.Run("cities empty prefix", func(t *testing.T) {
		_, resp := env.do(t, http.MethodGet, "/api/v1/cities", "")
		if len(resp.Data) > 0 && string(resp.Data) != "[]" {
			t.Errorf("data = %s, want []", resp.Data)
		}
	})

	t.Run("cities invalid limit", func(t *testing.T) {
		rec, resp := env.do(t, http.MethodGet, "/api/v1/cities?prefix=k&limit=0", "")
		if rec.Code != http.StatusBadRequest || resp.Error.Code != ErrCodeValidationFailed {
			t.Errorf("status %d error %+v", rec.Code, resp.Error)
		}
	})
}

func TestExportCSV(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, true, 0)
	id := env.createSession(t)
	env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/category", `{"category":"zrsr"}`)

	rec, _ := env.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/export.csv", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q", ct)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2:\n%s", len(lines), rec.Body.String())
	}
	if !strings.HasPrefix(lines[0], "Názov,IČO,Mesto,Kraj") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "Jozef Beta") {
		t.Errorf("row = %q", lines[1])
	}
}

func TestNotReady(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, false, 0)

	rec, resp := env.do(t, http.MethodGet, "/api/v1/health/ready", "")
	if rec.Code != http.StatusServiceUnavailable || resp.Error.Code != ErrCodeServiceUnavailable {
		t.Errorf("ready: status %d error %+v", rec.Code, resp.Error)
	}

	id := env.createSession(t)
	rec, _ = env.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/export.csv", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("export before data: status %d", rec.Code)
	}

	rec, _ = env.do(t, http.MethodGet, "/api/v1/health/live", "")
	if rec.Code != http.StatusOK {
		t.Errorf("live: status %d", rec.Code)
	}
}

func TestHealthReady(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, true, 0)

	rec, resp := env.do(t, http.MethodGet, "/api/v1/health/ready", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var data map[string]interface{}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatal(err)
	}
	if data["ready"] != true || data["state"] != "complete" {
		t.Errorf("data = %v", data)
	}
}

func TestIngestControl(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, true, 0)

	rec, resp := env.do(t, http.MethodPost, "/api/v1/ingest/stop", "")
	if rec.Code != http.StatusConflict || resp.Error.Code != ErrCodeConflict {
		t.Errorf("stop idle: status %d error %+v", rec.Code, resp.Error)
	}

	rec, _ = env.do(t, http.MethodPost, "/api/v1/ingest/reload", "")
	if rec.Code != http.StatusAccepted {
		t.Errorf("reload: status %d", rec.Code)
	}
}

func TestRouterEnvelopeAndHeaders(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, true, 0)

	rec, resp := env.do(t, http.MethodGet, "/api/v1/nowhere", "")
	if rec.Code != http.StatusNotFound || resp.Error == nil || resp.Error.Code != ErrCodeNotFound {
		t.Errorf("unknown route: status %d error %+v", rec.Code, resp.Error)
	}

	rec, resp = env.do(t, http.MethodGet, "/api/v1/stats", "")
	reqID := rec.Header().Get("X-Request-ID")
	if reqID == "" || resp.Meta == nil || resp.Meta.RequestID != reqID {
		t.Errorf("request id header %q meta %+v", reqID, resp.Meta)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing security headers")
	}
	if rec.Header().Get("Cache-Control") != "no-store" {
		t.Error("snapshots must not be cached")
	}

	rec, _ = env.do(t, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "api_requests_total") {
		t.Errorf("metrics: status %d", rec.Code)
	}

	rec, _ = env.do(t, http.MethodGet, "/api/v1/performance", "")
	if rec.Code != http.StatusOK {
		t.Errorf("performance: status %d", rec.Code)
	}
}
