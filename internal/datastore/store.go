// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

package datastore

import (
	"sync"

	"github.com/sprowk/company-finder/internal/classify"
	"github.com/sprowk/company-finder/internal/locale"
	"github.com/sprowk/company-finder/internal/models"
)

// Reader is the read side of the store used by the filter engine.
type Reader interface {
	// Bucket returns the records of a category in arrival order. The
	// returned slice is a stable view: later appends never modify it.
	Bucket(c models.Category) []models.Record
}

// AppendResult summarizes what a batch changed.
type AppendResult struct {
	Added       int
	NewRegions  int
	Initialized bool
	Counts      map[models.Category]int
}

// Store owns the ingested records partitioned by category.
//
// Every exported method runs under the store mutex, so readers observe
// either the state before a batch or the state after it, never a batch
// half applied. counts[c] == len(buckets[c]) holds at every such point.
type Store struct {
	mu         sync.RWMutex
	classifier *classify.Classifier

	initialized bool
	complete    bool
	schema      []string
	buckets     map[models.Category][]models.Record
	counts      map[models.Category]int

	regionSet     map[string]struct{}
	regionOptions []string
}

// New creates an empty store classifying records with c.
// A nil classifier uses classify.Default().
func New(c *classify.Classifier) *Store {
	if c == nil {
		c = classify.Default()
	}
	return &Store{
		classifier: c,
		buckets:    make(map[models.Category][]models.Record, len(models.Categories)),
		counts:     make(map[models.Category]int, len(models.Categories)),
		regionSet:  make(map[string]struct{}),
	}
}

// Initialize loads the first batch. It sets the schema, builds every bucket
// and sorts the region options once.
func (s *Store) Initialize(schema []string, rows []map[string]string) (AppendResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initializeLocked(schema, rows)
}

func (s *Store) initializeLocked(schema []string, rows []map[string]string) (AppendResult, error) {
	if len(schema) == 0 {
		return AppendResult{}, &models.EmptyDatasetError{Reason: "no header"}
	}
	if len(rows) == 0 {
		return AppendResult{}, &models.EmptyDatasetError{Reason: "no rows"}
	}

	s.schema = append([]string(nil), schema...)
	s.buckets = make(map[models.Category][]models.Record, len(models.Categories))
	s.regionSet = make(map[string]struct{})
	s.regionOptions = nil

	all := make([]models.Record, 0, len(rows))
	for _, fields := range rows {
		rec := s.classifier.Classify(fields)
		all = append(all, rec)
		s.buckets[rec.Category] = append(s.buckets[rec.Category], rec)
		s.addRegionLocked(rec.Region())
	}
	s.buckets[models.CategoryAll] = all

	for _, c := range models.Categories {
		s.counts[c] = len(s.buckets[c])
	}
	locale.SortStrings(s.regionOptions)
	s.initialized = true

	return AppendResult{
		Added:       len(rows),
		NewRegions:  len(s.regionOptions),
		Initialized: true,
		Counts:      s.countsLocked(),
	}, nil
}

// Append adds a later batch. Counts grow by the batch delta and new regions
// join the option set unsorted. Before any Initialize it behaves as
// Initialize. Once the store is complete a new region re-sorts the options
// immediately.
func (s *Store) Append(schema []string, rows []map[string]string) (AppendResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return s.initializeLocked(schema, rows)
	}

	newRegions := 0
	for _, fields := range rows {
		rec := s.classifier.Classify(fields)
		s.buckets[models.CategoryAll] = append(s.buckets[models.CategoryAll], rec)
		s.buckets[rec.Category] = append(s.buckets[rec.Category], rec)
		s.counts[models.CategoryAll]++
		s.counts[rec.Category]++
		if s.addRegionLocked(rec.Region()) {
			newRegions++
		}
	}

	if s.complete && newRegions > 0 {
		locale.SortStrings(s.regionOptions)
	}

	return AppendResult{
		Added:      len(rows),
		NewRegions: newRegions,
		Counts:     s.countsLocked(),
	}, nil
}

// FinalizeRegionOptions sorts the accumulated regions and marks the store
// complete. Calling it again is harmless.
func (s *Store) FinalizeRegionOptions() {
	s.mu.Lock()
	defer s.mu.Unlock()

	locale.SortStrings(s.regionOptions)
	s.complete = true
}

// addRegionLocked records a trimmed, non-empty region. Returns true when new.
func (s *Store) addRegionLocked(region string) bool {
	if region == "" {
		return false
	}
	if _, ok := s.regionSet[region]; ok {
		return false
	}
	s.regionSet[region] = struct{}{}
	s.regionOptions = append(s.regionOptions, region)
	return true
}

func (s *Store) countsLocked() map[models.Category]int {
	out := make(map[models.Category]int, len(models.Categories))
	for _, c := range models.Categories {
		out[c] = s.counts[c]
	}
	return out
}

// Bucket implements Reader. The slice is capped at its length so that an
// append by a caller can never write into the store's backing array.
func (s *Store) Bucket(c models.Category) []models.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b := s.buckets[c]
	return b[:len(b):len(b)]
}

// Count returns the number of records in a category.
func (s *Store) Count(c models.Category) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.counts[c]
}

// Counts returns a copy of the per-category counts.
func (s *Store) Counts() map[models.Category]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countsLocked()
}

// Schema returns the header of the first batch.
func (s *Store) Schema() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.schema...)
}

// HasField reports whether the schema contains field.
func (s *Store) HasField(field string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.schema {
		if f == field {
			return true
		}
	}
	return false
}

// RegionOptions returns a copy of the region option list. The list is
// sorted after Initialize and after FinalizeRegionOptions; regions merged
// in between are appended in arrival order.
func (s *Store) RegionOptions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.regionOptions...)
}

// HasRegion reports whether region is among the options.
func (s *Store) HasRegion(region string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.regionSet[region]
	return ok
}

// Initialized reports whether the first batch has been committed.
func (s *Store) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// Complete reports whether FinalizeRegionOptions has run.
func (s *Store) Complete() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.complete
}
