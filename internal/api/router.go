// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sprowk/company-finder/internal/config"
	"github.com/sprowk/company-finder/internal/middleware"
)

// Router wires handlers to routes and middleware.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. cfg supplies CORS and rate limit settings;
// nil uses DefaultChiMiddlewareConfig.
func NewRouter(handler *Handler, cfg *config.ServerConfig) *Router {
	mwConfig := DefaultChiMiddlewareConfig()
	if cfg != nil {
		mwConfig.CORSAllowedOrigins = cfg.CORSOrigins
		mwConfig.RateLimitRequests = cfg.RateLimitReqs
		mwConfig.RateLimitWindow = cfg.RateLimitWindow
		mwConfig.RateLimitDisabled = cfg.RateLimitDisabled
	}
	return &Router{
		handler:       handler,
		chiMiddleware: NewChiMiddleware(mwConfig),
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()
	h := router.handler

	// Global middleware, in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(middleware.PrometheusMetrics)
	r.Use(h.perfMon.Middleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).Error(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed")
	})

	r.Handle("/metrics", promhttp.Handler())

	r.With(router.chiMiddleware.RateLimitWebSocket()).Get("/ws", h.WebSocket)

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(NoCache)

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			r.Use(middleware.Compression)

			r.Get("/regions", h.Regions)
			r.Get("/stats", h.Stats)
			r.Get("/progress", h.Progress)
			r.Get("/cities", h.Cities)
			r.Get("/performance", h.Performance)

			r.Post("/sessions", h.CreateSession)
			r.Get("/sessions/{id}", h.GetSession)
			r.Delete("/sessions/{id}", h.DeleteSession)
		})

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitIntent())
			r.Use(middleware.Compression)
			r.Post("/sessions/{id}/category", h.SelectCategory)
			r.Post("/sessions/{id}/city", h.SetCity)
			r.Post("/sessions/{id}/region", h.SetRegion)
			r.Post("/sessions/{id}/page", h.GotoPage)
		})

		r.With(router.chiMiddleware.RateLimitExport(), middleware.Compression).
			Get("/sessions/{id}/export.csv", h.ExportCSV)

		r.Route("/ingest", func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitIngest())
			r.Post("/reload", h.ReloadIngest)
			r.Post("/stop", h.StopIngest)
		})
	})

	return r
}
