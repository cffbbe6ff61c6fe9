// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"

	"github.com/sprowk/company-finder/internal/cache"
	"github.com/sprowk/company-finder/internal/filter"
	"github.com/sprowk/company-finder/internal/ingest"
	"github.com/sprowk/company-finder/internal/normalize"
	"github.com/sprowk/company-finder/internal/session"
	"github.com/sprowk/company-finder/internal/source"
	ws "github.com/sprowk/company-finder/internal/websocket"
)

const csvHeader = "organization_id,ico,name,city,region,established_on,terminated_on,last_modified,source_register\n"

// testSnapshot is two parts: two companies and one trader in two regions.
var testSnapshot = []string{
	csvHeader +
		"1,11111111,Alfa s.r.o.,Košice,Košický,01-03-2025,,,Obchodný register\n" +
		"2,22222222,Jozef Beta,Žilina,Žilinský,20-01-2020,,,Živnostenský register\n",
	csvHeader +
		"3,33333333,Gama a.s.,Kosice,Košický,14-03-2025,,,Obchodný register\n",
}

type testEnv struct {
	handler  *Handler
	router   http.Handler
	ctrl     *ingest.Controller
	sessions *session.Manager
	hub      *ws.Hub
}

// writeSnapshot writes gzip parts and last_updated.txt into a temp dir.
func writeSnapshot(t *testing.T, parts []string) string {
	t.Helper()
	dir := t.TempDir()
	for i, content := range parts {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
		if err := zw.Close(); err != nil {
			t.Fatal(err)
		}
		name := filepath.Join(dir, "snapshot_part"+string(rune('1'+i))+source.PartSuffix)
		if err := os.WriteFile(name, buf.Bytes(), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, source.LastUpdatedFile), []byte("15-03-2025\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return dir
}

// newTestEnv wires the full stack. With load, ingestion runs to
// completion before returning.
func newTestEnv(t *testing.T, load bool, debounce time.Duration) *testEnv {
	t.Helper()

	cities := cache.NewTrie(normalize.Fold, 10)
	ctrl := ingest.New(source.NewDirSource(writeSnapshot(t, testSnapshot)), ingest.Options{Cities: cities})
	sessions := session.NewManager(ctrl, filter.New(normalize.New(100)), session.Options{
		PageSize:    2,
		Debounce:    debounce,
		TTL:         time.Hour,
		MaxSessions: 10,
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := ws.NewHub()
	go func() { _ = hub.RunWithContext(ctx) }()
	sessions.SetPublisher(hub)

	if load {
		if err := ctrl.Run(ctx); err != nil {
			t.Fatalf("ingest: %v", err)
		}
	}

	h := NewHandler(ctrl, sessions, cities, hub, nil)
	return &testEnv{
		handler:  h,
		router:   NewRouter(h, nil).SetupChi(),
		ctrl:     ctrl,
		sessions: sessions,
		hub:      hub,
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

// do sends a request through the router and decodes the envelope when the
// response is JSON.
func (e *testEnv) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope: %v\n%s", err, rec.Body.String())
		}
	}
	return rec, env
}

// snapshotView is the subset of session.Snapshot the tests inspect.
type snapshotView struct {
	SessionID   string                  `json:"session_id"`
	Full        bool                    `json:"full"`
	Filter      filter.State            `json:"filter"`
	PendingCity *string                 `json:"pending_city"`
	Counts      []session.CategoryCount `json:"counts"`
	Total       int                     `json:"total"`
	Pagination  struct {
		CurrentPage int `json:"current_page"`
		TotalPages  int `json:"total_pages"`
	} `json:"pagination"`
	Rows    []session.Row `json:"rows"`
	Regions []string      `json:"regions"`
	State   string        `json:"state"`
}

func decodeSnapshot(t *testing.T, env envelope) snapshotView {
	t.Helper()
	var snap snapshotView
	if err := json.Unmarshal(env.Data, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	return snap
}

// createSession returns the ID of a new session.
func (e *testEnv) createSession(t *testing.T) string {
	t.Helper()
	rec, env := e.do(t, http.MethodPost, "/api/v1/sessions", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session: status %d: %s", rec.Code, rec.Body.String())
	}
	return decodeSnapshot(t, env).SessionID
}
