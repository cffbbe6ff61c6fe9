// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/sprowk/company-finder/internal/config"
)

type wsMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// readUntil reads messages until one of type want arrives.
func readUntil(t *testing.T, conn *websocket.Conn, want string) wsMessage {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		_ = conn.SetReadDeadline(deadline)
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("waiting for %s: %v", want, err)
		}
		if msg.Type == want {
			return msg
		}
	}
}

func dialWS(t *testing.T, srv *httptest.Server, query string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
	return websocket.DefaultDialer.Dial(u, http.Header{"Origin": {srv.URL}})
}

func TestWebSocketSessionUpdates(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, true, 0)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	id := env.createSession(t)
	conn, _, err := dialWS(t, srv, "?session_id="+id)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// A pong proves the hub has registered the client.
	if err := conn.WriteJSON(map[string]string{"type": "ping"}); err != nil {
		t.Fatal(err)
	}
	readUntil(t, conn, "pong")

	env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/category", `{"category":"orsr"}`)

	msg := readUntil(t, conn, "session_update")
	var snap snapshotView
	if err := json.Unmarshal(msg.Data, &snap); err != nil {
		t.Fatal(err)
	}
	if snap.SessionID != id || snap.Total != 2 || snap.Full {
		t.Errorf("session_update = %+v", snap)
	}
}

func TestWebSocketRejections(t *testing.T) {
	t.Parallel()

	t.Run("unknown session", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t, true, 0)
		srv := httptest.NewServer(env.router)
		defer srv.Close()

		_, resp, err := dialWS(t, srv, "?session_id=01ARZ3NDEKTSV4RRFFQ69G5FAV")
		if err == nil {
			t.Fatal("expected handshake failure")
		}
		if resp == nil || resp.StatusCode != http.StatusNotFound {
			t.Errorf("response = %v", resp)
		}
	})

	t.Run("foreign origin", func(t *testing.T) {
		t.Parallel()
		env := newTestEnv(t, true, 0)
		cfg := &config.ServerConfig{CORSOrigins: []string{"https://firmy.example"}}
		h := NewHandler(env.ctrl, env.sessions, nil, env.hub, cfg)
		srv := httptest.NewServer(NewRouter(h, cfg).SetupChi())
		defer srv.Close()

		u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
		_, resp, err := websocket.DefaultDialer.Dial(u, http.Header{"Origin": {"https://evil.example"}})
		if err == nil {
			t.Fatal("expected handshake failure")
		}
		if resp == nil || resp.StatusCode != http.StatusForbidden {
			t.Errorf("response = %v", resp)
		}
	})
}

func TestCheckWebSocketOrigin(t *testing.T) {
	t.Parallel()

	cfg := &config.ServerConfig{CORSOrigins: []string{"https://firmy.example"}}
	h := NewHandler(nil, nil, nil, nil, cfg)

	tests := []struct {
		name   string
		origin string
		host   string
		want   bool
	}{
		{"missing origin", "", "api.example", false},
		{"configured origin", "https://firmy.example", "api.example", true},
		{"same host", "http://api.example", "api.example", true},
		{"foreign origin", "https://evil.example", "api.example", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodGet, "/ws", nil)
			r.Host = tt.host
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			if got := h.checkWebSocketOrigin(r); got != tt.want {
				t.Errorf("checkWebSocketOrigin = %v, want %v", got, tt.want)
			}
		})
	}
}
