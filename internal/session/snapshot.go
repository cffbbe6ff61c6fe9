// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

package session

import (
	"github.com/sprowk/company-finder/internal/datastore"
	"github.com/sprowk/company-finder/internal/filter"
	"github.com/sprowk/company-finder/internal/ingest"
	"github.com/sprowk/company-finder/internal/locale"
	"github.com/sprowk/company-finder/internal/models"
	"github.com/sprowk/company-finder/internal/pagination"
	"github.com/sprowk/company-finder/internal/recency"
)

// Column is a displayed table column.
type Column struct {
	Field  string `json:"field"`
	Header string `json:"header"`
}

// displayColumns is the table layout in display order.
var displayColumns = []Column{
	{Field: models.FieldName, Header: "Názov"},
	{Field: models.FieldICO, Header: "IČO"},
	{Field: models.FieldCity, Header: "Mesto"},
	{Field: models.FieldRegion, Header: "Kraj"},
	{Field: models.FieldEstablishedOn, Header: "Založené"},
	{Field: models.FieldLastModified, Header: "Posledná zmena"},
	{Field: models.FieldTerminatedOn, Header: "Ukončené"},
}

// Columns returns the display columns present in the store's schema.
func Columns(store *datastore.Store) []Column {
	out := make([]Column, 0, len(displayColumns))
	for _, c := range displayColumns {
		if store.HasField(c.Field) {
			out = append(out, c)
		}
	}
	return out
}

// CategoryCount is one entry of the statistics panel.
type CategoryCount struct {
	Category models.Category `json:"category"`
	Label    string          `json:"label"`
	Count    int             `json:"count"`
	Display  string          `json:"display"`
}

// Row is one table row. RecentBucket is set for records established within
// the last seven days of the reference date.
type Row struct {
	Category     models.Category   `json:"category"`
	Fields       map[string]string `json:"fields"`
	RecentBucket *int              `json:"recent_bucket,omitempty"`
}

// Snapshot is the read-only render model of a session.
type Snapshot struct {
	SessionID   string                  `json:"session_id"`
	Full        bool                    `json:"full"`
	Filter      filter.State            `json:"filter"`
	PendingCity *string                 `json:"pending_city,omitempty"`
	Counts      []CategoryCount         `json:"counts"`
	Total       int                     `json:"total"`
	Pagination  pagination.Model        `json:"pagination"`
	Columns     []Column                `json:"columns,omitempty"`
	Rows        []Row                   `json:"rows,omitempty"`
	Regions     []string                `json:"regions"`
	State       ingest.State            `json:"state"`
	Interactive bool                    `json:"interactive"`
	Progress    *ingest.ProgressSummary `json:"progress"`

	LastUpdated        string `json:"last_updated,omitempty"`
	LastUpdatedDisplay string `json:"last_updated_display,omitempty"`
	ReferenceDate      string `json:"reference_date"`
}

// Snapshot renders the full view including the current page of rows.
func (s *Session) Snapshot() *Snapshot {
	return s.render(true)
}

// Summary renders counts, pagination and progress without rows.
func (s *Session) Summary() *Snapshot {
	return s.render(false)
}

func (s *Session) render(full bool) *Snapshot {
	store := s.data.Store()
	progress := s.data.Progress()
	ref := s.data.ReferenceDate()

	s.mu.Lock()
	fs := s.filter
	count := s.count
	page := s.page
	s.mu.Unlock()

	snap := &Snapshot{
		SessionID:          s.ID,
		Full:               full,
		Filter:             fs,
		Counts:             Counts(store),
		Total:              count,
		Pagination:         pagination.Build(page, s.pageSize, count),
		Regions:            store.RegionOptions(),
		State:              progress.State,
		Interactive:        progress.Interactive,
		Progress:           progress,
		LastUpdated:        progress.LastUpdated,
		LastUpdatedDisplay: progress.LastUpdatedDisplay,
		ReferenceDate:      ref.Format("2006-01-02"),
	}
	if snap.Regions == nil {
		snap.Regions = []string{}
	}
	if pending, ok := s.city.Pending(); ok {
		snap.PendingCity = &pending
	}

	if full {
		snap.Columns = Columns(store)
		records := s.engine.Page(store, fs, snap.Pagination.CurrentPage, s.pageSize)
		snap.Rows = make([]Row, len(records))
		for i, r := range records {
			snap.Rows[i] = Row{Category: r.Category, Fields: r.Fields}
			if b, ok := recency.Bucket(r.Get(models.FieldEstablishedOn), ref); ok {
				snap.Rows[i].RecentBucket = &b
			}
		}
	}
	return snap
}

// Counts returns the statistics panel entries in display order.
func Counts(store *datastore.Store) []CategoryCount {
	counts := store.Counts()
	out := make([]CategoryCount, len(models.Categories))
	for i, c := range models.Categories {
		out[i] = CategoryCount{
			Category: c,
			Label:    c.Label(),
			Count:    counts[c],
			Display:  locale.FormatNumber(counts[c]),
		}
	}
	return out
}
