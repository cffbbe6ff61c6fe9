// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

package api

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sprowk/company-finder/internal/cache"
	"github.com/sprowk/company-finder/internal/config"
	"github.com/sprowk/company-finder/internal/ingest"
	"github.com/sprowk/company-finder/internal/logging"
	"github.com/sprowk/company-finder/internal/middleware"
	"github.com/sprowk/company-finder/internal/session"
	ws "github.com/sprowk/company-finder/internal/websocket"
)

// Ingestor is the part of the ingestion controller the API drives.
// *ingest.Controller implements it.
type Ingestor interface {
	session.Dataset
	Stats() ingest.Stats
	Ready() bool
	IsRunning() bool
	RequestReload()
	Stop() error
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers_sessions.go: session lifecycle, intents, CSV export
//   - handlers_data.go: regions, stats, progress, cities, performance
//   - handlers_ingest.go: reload and stop
//   - handlers_health.go: liveness and readiness probes
type Handler struct {
	ingest    Ingestor
	sessions  *session.Manager
	cities    *cache.Trie
	wsHub     *ws.Hub
	config    *config.ServerConfig
	perfMon   *middleware.PerformanceMonitor
	upgrader  *websocket.Upgrader
	startTime time.Time
}

// NewHandler creates a handler. cities and wsHub may be nil, in which case
// /cities answers empty and /ws is not served. cfg may be nil in tests,
// which accepts any WebSocket origin.
func NewHandler(ing Ingestor, sessions *session.Manager, cities *cache.Trie, wsHub *ws.Hub, cfg *config.ServerConfig) *Handler {
	h := &Handler{
		ingest:    ing,
		sessions:  sessions,
		cities:    cities,
		wsHub:     wsHub,
		config:    cfg,
		startTime: time.Now(),
		perfMon:   middleware.NewPerformanceMonitor(1000), // Keep last 1000 requests
	}
	h.upgrader = &websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
	return h
}

// PerformanceMonitor exposes the monitor so the router can install its middleware.
func (h *Handler) PerformanceMonitor() *middleware.PerformanceMonitor {
	return h.perfMon
}

// WebSocket upgrades the connection and hands it to the hub. A session_id
// query parameter subscribes the client to that session's updates.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		NewResponseWriter(w, r).ServiceUnavailable("Push updates are disabled")
		return
	}
	if id := r.URL.Query().Get("session_id"); id != "" {
		if _, err := h.sessions.Get(id); err != nil {
			respondSessionError(w, r, err)
			return
		}
	}
	ws.ServeWS(h.wsHub, h.upgrader, w, r)
}

// checkWebSocketOrigin validates WebSocket connection origins
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// Browsers always send Origin on WebSocket handshakes.
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	if h.config == nil {
		return true
	}

	if u, err := url.Parse(origin); err == nil && strings.EqualFold(u.Host, r.Host) {
		return true
	}

	for _, allowedOrigin := range h.config.CORSOrigins {
		if allowedOrigin == "*" || allowedOrigin == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}

// sanitizeLogValue strips control characters and bounds length so that
// client-supplied values cannot forge log lines.
func sanitizeLogValue(s string) string {
	const maxLen = 200
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
	if len(s) > maxLen {
		s = s[:maxLen] + "..."
	}
	return s
}
