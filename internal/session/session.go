// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

package session

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sprowk/company-finder/internal/datastore"
	"github.com/sprowk/company-finder/internal/filter"
	"github.com/sprowk/company-finder/internal/ingest"
	"github.com/sprowk/company-finder/internal/metrics"
	"github.com/sprowk/company-finder/internal/models"
	"github.com/sprowk/company-finder/internal/pagination"
)

// Recompute triggers, used as metric labels.
const (
	TriggerIntent   = "intent"
	TriggerDebounce = "debounce"
	TriggerBatch    = "batch"
)

var (
	// ErrSessionNotFound is returned when a session ID is unknown.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExpired is returned when a session outlived its TTL.
	ErrSessionExpired = errors.New("session expired")

	// ErrTooManySessions is returned when MaxSessions live sessions exist.
	ErrTooManySessions = errors.New("too many sessions")

	// ErrInvalidPage is returned by GotoPage for pages below 1.
	ErrInvalidPage = errors.New("page must be at least 1")
)

// Dataset is the read side of the ingestion controller a session browses.
// *ingest.Controller implements it.
type Dataset interface {
	Store() *datastore.Store
	Progress() *ingest.ProgressSummary
	ReferenceDate() time.Time
}

// Session is one viewer's filter and page over the shared dataset.
type Session struct {
	ID        string
	CreatedAt time.Time

	data     Dataset
	engine   *filter.Engine
	pageSize int
	city     *Debouncer
	onChange func(*Session, string)
	now      func() time.Time

	mu           sync.Mutex
	filter       filter.State
	page         int
	count        int
	lastAccessed time.Time
	expiresAt    time.Time
	ttl          time.Duration

	recomputes atomic.Int64
}

func newSession(id string, data Dataset, engine *filter.Engine, opts Options, onChange func(*Session, string)) *Session {
	now := opts.Now()
	s := &Session{
		ID:           id,
		CreatedAt:    now,
		data:         data,
		engine:       engine,
		pageSize:     opts.PageSize,
		onChange:     onChange,
		now:          opts.Now,
		filter:       filter.State{Category: models.CategoryAll},
		page:         1,
		lastAccessed: now,
		ttl:          opts.TTL,
	}
	if opts.TTL > 0 {
		s.expiresAt = now.Add(opts.TTL)
	}
	s.city = NewDebouncer(opts.Debounce, s.applyCity)

	s.mu.Lock()
	s.recomputeLocked(TriggerIntent)
	s.mu.Unlock()
	return s
}

// SelectCategory switches the category bucket and resets to page 1.
func (s *Session) SelectCategory(c models.Category) error {
	if !c.Valid() {
		return &ValidationError{Field: "category", Message: "unknown category " + string(c)}
	}
	s.mu.Lock()
	s.filter.Category = c
	s.page = 1
	s.recomputeLocked(TriggerIntent)
	s.mu.Unlock()

	s.changed(TriggerIntent)
	return nil
}

// SetCityFragment schedules a city filter edit. Only the last edit within
// the debounce window is applied.
func (s *Session) SetCityFragment(fragment string) {
	s.city.Trigger(fragment)
}

// FlushCity applies a pending city edit immediately.
func (s *Session) FlushCity() bool {
	return s.city.Flush()
}

// CityPending reports whether a city edit is still waiting on the debounce
// window.
func (s *Session) CityPending() bool {
	_, ok := s.city.Pending()
	return ok
}

func (s *Session) applyCity(fragment string) {
	s.mu.Lock()
	s.filter.CityFragment = fragment
	s.page = 1
	s.recomputeLocked(TriggerDebounce)
	s.mu.Unlock()

	s.changed(TriggerDebounce)
}

// SetRegion selects a region. "" removes the constraint.
func (s *Session) SetRegion(region string) {
	s.mu.Lock()
	s.filter.Region = strings.TrimSpace(region)
	s.page = 1
	s.recomputeLocked(TriggerIntent)
	s.mu.Unlock()

	s.changed(TriggerIntent)
}

// GotoPage moves to page, clamped to the last page.
func (s *Session) GotoPage(page int) error {
	if page < 1 {
		return ErrInvalidPage
	}
	s.mu.Lock()
	s.page = page
	s.recomputeLocked(TriggerIntent)
	s.mu.Unlock()

	s.changed(TriggerIntent)
	return nil
}

// Refresh recomputes against the current store after a batch. When the
// dataset is complete a selected region missing from the options is reset.
func (s *Session) Refresh() {
	store := s.data.Store()

	s.mu.Lock()
	if s.filter.Region != "" && store.Complete() && !store.HasRegion(s.filter.Region) {
		s.filter.Region = ""
		s.page = 1
	}
	s.recomputeLocked(TriggerBatch)
	s.mu.Unlock()
}

// recomputeLocked refreshes the filtered count and clamps the page.
func (s *Session) recomputeLocked(trigger string) {
	start := time.Now()
	s.count = s.engine.CountMatching(s.data.Store(), s.filter)
	s.page = pagination.Clamp(s.page, s.count, s.pageSize)
	s.recomputes.Add(1)
	metrics.RecordFilterRecompute(trigger, time.Since(start))
}

func (s *Session) changed(trigger string) {
	if s.onChange != nil {
		s.onChange(s, trigger)
	}
}

// Filter returns the applied filter state.
func (s *Session) Filter() filter.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// Page returns the current 1-based page.
func (s *Session) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// Count returns the filtered count of the last recomputation.
func (s *Session) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Recomputes returns how many recomputations have run.
func (s *Session) Recomputes() int64 {
	return s.recomputes.Load()
}

func (s *Session) touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAccessed = s.now()
	if s.ttl > 0 {
		s.expiresAt = s.lastAccessed.Add(s.ttl)
	}
}

// IsExpired reports whether the session outlived its TTL.
func (s *Session) IsExpired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.expiresAt.IsZero() && s.now().After(s.expiresAt)
}

func (s *Session) close() {
	s.city.Stop()
}

// ValidationError reports an intent with an invalid argument.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
