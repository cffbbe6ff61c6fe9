// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

package ingest

import (
	"fmt"
	"time"

	"github.com/sprowk/company-finder/internal/datastore"
	"github.com/sprowk/company-finder/internal/locale"
	"github.com/sprowk/company-finder/internal/metrics"
	"github.com/sprowk/company-finder/internal/models"
)

// State is the ingestion lifecycle state.
type State string

const (
	StateIdle         State = "idle"
	StateLoadingFirst State = "loading_first"
	StateLoadingRest  State = "loading_rest"
	StateComplete     State = "complete"
	StateFailed       State = "failed"
)

// gaugeValue is the numeric encoding used by the ingest_state metric.
func (s State) gaugeValue() float64 {
	switch s {
	case StateLoadingFirst:
		return 1
	case StateLoadingRest:
		return 2
	case StateComplete:
		return 3
	case StateFailed:
		return 4
	default:
		return 0
	}
}

// Loading reports whether parts are still being read.
func (s State) Loading() bool {
	return s == StateLoadingFirst || s == StateLoadingRest
}

// EventKind tells observers how much of the view to refresh.
type EventKind string

const (
	// EventStarted is sent when a run begins with a fresh, empty store.
	EventStarted EventKind = "started"
	// EventFirstBatch is sent once the first part is committed (full render).
	EventFirstBatch EventKind = "first_batch"
	// EventBatch is sent after each later part (counts and pagination only).
	EventBatch EventKind = "batch"
	// EventComplete is sent after the last part and the region sort (full render).
	EventComplete EventKind = "complete"
	// EventFailed is sent when a run halts.
	EventFailed EventKind = "failed"
)

// Event is delivered to observers from the ingestion goroutine.
type Event struct {
	Kind     EventKind
	RunID    string
	Store    *datastore.Store
	Result   datastore.AppendResult
	Progress *ProgressSummary
	Err      error
}

// Observer receives ingestion events. Implementations must not block.
type Observer interface {
	OnIngestEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// OnIngestEvent implements Observer.
func (f ObserverFunc) OnIngestEvent(ev Event) { f(ev) }

// Stats holds statistics about one ingestion run.
type Stats struct {
	RunID string
	State State

	// PartTotal is the number of parts discovered.
	PartTotal int

	// PartsCommitted counts fully committed parts.
	PartsCommitted int

	// CurrentPart is the 0-based index of the part being read.
	CurrentPart int

	// Rows is the number of committed records.
	Rows int64

	Counts map[models.Category]int

	// LastUpdated is the raw snapshot date (last_updated.txt).
	LastUpdated string

	// ReferenceDate anchors recency highlighting.
	ReferenceDate time.Time

	StartTime time.Time
	EndTime   time.Time

	// Err is the error that halted the run; FailedPart its part index or -1.
	Err        error
	FailedPart int
}

// Duration returns how long the run has taken so far.
func (s *Stats) Duration() time.Duration {
	if s.StartTime.IsZero() {
		return 0
	}
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}

// Progress returns committed parts as a percentage (0-100).
func (s *Stats) Progress() float64 {
	if s.PartTotal == 0 {
		return 0
	}
	return float64(s.PartsCommitted) / float64(s.PartTotal) * 100
}

// RowsPerSecond returns the ingestion rate.
func (s *Stats) RowsPerSecond() float64 {
	duration := s.Duration().Seconds()
	if duration == 0 {
		return 0
	}
	return float64(s.Rows) / duration
}

// Partial reports a failed run that still left committed rows behind.
func (s *Stats) Partial() bool {
	return s.State == StateFailed && s.Rows > 0
}

// Interactive reports whether the committed data can be browsed.
func (s *Stats) Interactive() bool {
	return s.Rows > 0 && s.PartsCommitted > 0
}

// clone returns a copy that does not share the counts map.
func (s *Stats) clone() Stats {
	out := *s
	out.Counts = make(map[models.Category]int, len(s.Counts))
	for k, v := range s.Counts {
		out.Counts[k] = v
	}
	return out
}

// ProgressSummary is the serializable view of a run.
type ProgressSummary struct {
	RunID              string                  `json:"run_id,omitempty"`
	State              State                   `json:"state"`
	Message            string                  `json:"message,omitempty"`
	Progress           float64                 `json:"progress"`
	PartIndex          int                     `json:"part_index"`
	PartTotal          int                     `json:"part_total"`
	PartsCommitted     int                     `json:"parts_committed"`
	Rows               int64                   `json:"rows"`
	Counts             map[models.Category]int `json:"counts"`
	RowsPerSec         float64                 `json:"rows_per_second"`
	ElapsedSeconds     float64                 `json:"elapsed_seconds"`
	Interactive        bool                    `json:"interactive"`
	Partial            bool                    `json:"partial"`
	Error              string                  `json:"error,omitempty"`
	ErrorKind          string                  `json:"error_kind,omitempty"`
	FailedPart         *int                    `json:"failed_part,omitempty"`
	LastUpdated        string                  `json:"last_updated,omitempty"`
	LastUpdatedDisplay string                  `json:"last_updated_display,omitempty"`
	StartTime          *time.Time              `json:"start_time,omitempty"`
	EndTime            *time.Time              `json:"end_time,omitempty"`
}

// ToSummary converts Stats to a ProgressSummary with calculated fields.
// PartIndex and FailedPart are 1-based, as shown to users.
func (s *Stats) ToSummary() *ProgressSummary {
	summary := &ProgressSummary{
		RunID:              s.RunID,
		State:              s.State,
		Progress:           s.Progress(),
		PartTotal:          s.PartTotal,
		PartsCommitted:     s.PartsCommitted,
		Rows:               s.Rows,
		Counts:             s.clone().Counts,
		RowsPerSec:         s.RowsPerSecond(),
		ElapsedSeconds:     s.Duration().Seconds(),
		Interactive:        s.Interactive(),
		Partial:            s.Partial(),
		LastUpdated:        s.LastUpdated,
		LastUpdatedDisplay: locale.FormatDMY(s.LastUpdated),
	}
	if s.State.Loading() {
		summary.PartIndex = s.CurrentPart + 1
	} else {
		summary.PartIndex = s.PartsCommitted
	}
	if !s.StartTime.IsZero() {
		start := s.StartTime
		summary.StartTime = &start
	}
	if !s.EndTime.IsZero() {
		end := s.EndTime
		summary.EndTime = &end
	}
	if s.Err != nil {
		summary.Error = s.Err.Error()
		summary.ErrorKind = metrics.ErrorKind(s.Err)
		if s.FailedPart >= 0 {
			n := s.FailedPart + 1
			summary.FailedPart = &n
		}
	}
	summary.Message = statusMessage(s)
	return summary
}

// statusMessage renders the Slovak status line shown next to the table.
func statusMessage(s *Stats) string {
	switch s.State {
	case StateLoadingFirst, StateLoadingRest:
		if s.PartTotal == 0 {
			return "Načítavam dostupné snapshoty..."
		}
		return fmt.Sprintf("Načítavam dáta – časť %d z %d...", s.CurrentPart+1, s.PartTotal)
	case StateFailed:
		if s.FailedPart >= 0 {
			return fmt.Sprintf("Chyba pri načítaní časti %d z %d: %v", s.FailedPart+1, s.PartTotal, s.Err)
		}
		return fmt.Sprintf("Chyba pri načítaní: %v", s.Err)
	default:
		return ""
	}
}
