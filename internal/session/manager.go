// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

package session

import (
	"context"
	"sync"
	"time"

	"github.com/sprowk/company-finder/internal/filter"
	"github.com/sprowk/company-finder/internal/ingest"
	"github.com/sprowk/company-finder/internal/logging"
	"github.com/sprowk/company-finder/internal/metrics"
	"github.com/sprowk/company-finder/internal/models"
)

// Publisher receives session summaries after every recomputation.
// The WebSocket hub implements it.
type Publisher interface {
	PublishSessionUpdate(snap *Snapshot)
}

// Options configures a Manager.
type Options struct {
	PageSize    int
	Debounce    time.Duration
	TTL         time.Duration
	MaxSessions int

	// CleanupInterval is how often Serve drops expired sessions.
	CleanupInterval time.Duration

	Now func() time.Time
}

// DefaultOptions returns the defaults used when fields are left zero.
func DefaultOptions() Options {
	return Options{
		PageSize:        100,
		Debounce:        500 * time.Millisecond,
		TTL:             30 * time.Minute,
		MaxSessions:     1000,
		CleanupInterval: time.Minute,
		Now:             time.Now,
	}
}

// Manager holds the live sessions and keeps them in step with ingestion.
type Manager struct {
	data   Dataset
	engine *filter.Engine
	opts   Options

	mu        sync.RWMutex
	sessions  map[string]*Session
	publisher Publisher

	// refresh holds at most one pending ingest signal for Serve.
	refresh chan struct{}
}

// NewManager creates a session manager over data.
func NewManager(data Dataset, engine *filter.Engine, opts Options) *Manager {
	def := DefaultOptions()
	if opts.PageSize <= 0 {
		opts.PageSize = def.PageSize
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = def.CleanupInterval
	}
	if opts.Now == nil {
		opts.Now = def.Now
	}
	return &Manager{
		data:     data,
		engine:   engine,
		opts:     opts,
		sessions: make(map[string]*Session),
		refresh:  make(chan struct{}, 1),
	}
}

// SetPublisher sets where session summaries are pushed.
func (m *Manager) SetPublisher(p Publisher) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publisher = p
}

// PageSize returns the configured rows per page.
func (m *Manager) PageSize() int {
	return m.opts.PageSize
}

// Create starts a new session on page 1 of the all category.
func (m *Manager) Create() (*Session, error) {
	m.mu.Lock()
	if m.opts.MaxSessions > 0 && len(m.sessions) >= m.opts.MaxSessions {
		m.cleanupLocked()
		if len(m.sessions) >= m.opts.MaxSessions {
			m.mu.Unlock()
			return nil, ErrTooManySessions
		}
	}
	s := newSession(models.NewID(), m.data, m.engine, m.opts, m.onChange)
	m.sessions[s.ID] = s
	n := len(m.sessions)
	m.mu.Unlock()

	metrics.ActiveSessions.Set(float64(n))
	logging.Debug().Str("session_id", s.ID).Int("sessions", n).Msg("Session created")
	return s, nil
}

// Get returns a live session and extends its expiry.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if s.IsExpired() {
		_ = m.Delete(id)
		return nil, ErrSessionExpired
	}
	s.touch()
	return s, nil
}

// Delete ends a session. Deleting an unknown ID returns ErrSessionNotFound.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	n := len(m.sessions)
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	s.close()
	metrics.ActiveSessions.Set(float64(n))
	return nil
}

// Len returns the number of sessions held.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// CleanupExpired removes expired sessions and returns how many were removed.
func (m *Manager) CleanupExpired() int {
	m.mu.Lock()
	n := m.cleanupLocked()
	remaining := len(m.sessions)
	m.mu.Unlock()

	metrics.ActiveSessions.Set(float64(remaining))
	return n
}

func (m *Manager) cleanupLocked() int {
	count := 0
	for id, s := range m.sessions {
		if s.IsExpired() {
			s.close()
			delete(m.sessions, id)
			count++
		}
	}
	return count
}

func (m *Manager) list() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

// OnIngestEvent implements ingest.Observer. It only signals Serve, so the
// ingest goroutine never waits on session recomputation. Signals arriving
// while a refresh is queued are coalesced into it.
func (m *Manager) OnIngestEvent(ev ingest.Event) {
	select {
	case m.refresh <- struct{}{}:
	default:
	}
}

// RefreshAll recomputes every session's count, clamps its page against the
// current store state and publishes the result.
func (m *Manager) RefreshAll() {
	sessions := m.list()
	for _, s := range sessions {
		s.Refresh()
		m.publish(s)
	}
	logging.Debug().Int("sessions", len(sessions)).Msg("Sessions refreshed")
}

func (m *Manager) onChange(s *Session, _ string) {
	m.publish(s)
}

func (m *Manager) publish(s *Session) {
	m.mu.RLock()
	p := m.publisher
	m.mu.RUnlock()
	if p != nil {
		p.PublishSessionUpdate(s.Summary())
	}
}

// Serve implements suture.Service. It refreshes sessions after ingestion
// commits and periodically drops expired sessions.
func (m *Manager) Serve(ctx context.Context) error {
	ticker := time.NewTicker(m.opts.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.refresh:
			m.RefreshAll()
		case <-ticker.C:
			if n := m.CleanupExpired(); n > 0 {
				logging.Debug().Int("expired", n).Int("remaining", m.Len()).Msg("Expired sessions removed")
			}
		}
	}
}

// String implements fmt.Stringer for supervisor logs.
func (m *Manager) String() string {
	return "session-manager"
}
