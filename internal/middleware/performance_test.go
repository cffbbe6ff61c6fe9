// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestPerformanceMonitor_GetStats(t *testing.T) {
	t.Parallel()

	pm := NewPerformanceMonitor(100)
	for _, d := range []int64{10, 20, 30, 40, 100} {
		pm.RecordRequest(&RequestMetrics{Route: "/api/v1/regions", Method: http.MethodGet, DurationMS: d})
	}
	pm.RecordRequest(&RequestMetrics{Route: "/api/v1/sessions", Method: http.MethodPost, DurationMS: 5})

	stats := pm.GetStats()
	if len(stats) != 2 {
		t.Fatalf("len(stats) = %d, want 2", len(stats))
	}
	s := stats[0]
	if s.Endpoint != "GET /api/v1/regions" || s.RequestCount != 5 {
		t.Fatalf("stats[0] = %+v", s)
	}
	if s.MinDuration != 10 || s.MaxDuration != 100 || s.P50Duration != 30 {
		t.Errorf("min/max/p50 = %d/%d/%d", s.MinDuration, s.MaxDuration, s.P50Duration)
	}
	if s.AvgDuration != 40 {
		t.Errorf("avg = %v, want 40", s.AvgDuration)
	}
}

func TestPerformanceMonitor_Window(t *testing.T) {
	t.Parallel()

	pm := NewPerformanceMonitor(3)
	for i := int64(1); i <= 5; i++ {
		pm.RecordRequest(&RequestMetrics{Route: "/r", Method: http.MethodGet, DurationMS: i})
	}

	recent := pm.GetRecentMetrics(10)
	if len(recent) != 3 {
		t.Fatalf("len = %d, want 3", len(recent))
	}
	if recent[0].DurationMS != 3 || recent[2].DurationMS != 5 {
		t.Errorf("window = %+v", recent)
	}
}

func TestPerformanceMonitor_Middleware(t *testing.T) {
	t.Parallel()

	pm := NewPerformanceMonitor(10)
	r := chi.NewRouter()
	r.Use(pm.Middleware)
	r.Get("/api/v1/cities", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/cities?prefix=ko", nil))

	recent := pm.GetRecentMetrics(1)
	if len(recent) != 1 {
		t.Fatal("request not recorded")
	}
	if recent[0].Route != "/api/v1/cities" || recent[0].StatusCode != http.StatusNoContent {
		t.Errorf("metric = %+v", recent[0])
	}
}
