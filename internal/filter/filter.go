// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

// Package filter selects the records of a category matching a city fragment
// and a region.
//
// A record matches when the city fragment is empty or the folded city
// contains the folded fragment, and the region is empty or equals the
// record's trimmed region exactly. CountMatching and Page share that rule;
// CountMatching exists so that progress redraws during ingestion can update
// counters without materializing rows.
package filter

import (
	"strings"

	"github.com/sprowk/company-finder/internal/datastore"
	"github.com/sprowk/company-finder/internal/models"
	"github.com/sprowk/company-finder/internal/normalize"
)

// State is the user's current filter selection.
type State struct {
	Category     models.Category `json:"category"`
	CityFragment string          `json:"city_fragment"`
	Region       string          `json:"region"`
}

// Engine evaluates filter states against a store.
type Engine struct {
	norm *normalize.Normalizer
}

// New creates an engine folding candidate cities through n.
// A nil normalizer folds without memoization.
func New(n *normalize.Normalizer) *Engine {
	return &Engine{norm: n}
}

// matcher is a filter state prepared for repeated evaluation.
type matcher struct {
	norm   *normalize.Normalizer
	city   string
	region string
}

func (e *Engine) prepare(fs State) matcher {
	return matcher{
		norm:   e.norm,
		city:   normalize.Fold(fs.CityFragment),
		region: strings.TrimSpace(fs.Region),
	}
}

func (m matcher) match(r models.Record) bool {
	if m.region != "" && r.Region() != m.region {
		return false
	}
	if m.city != "" && !m.norm.Contains(r.Get(models.FieldCity), m.city) {
		return false
	}
	return true
}

func (m matcher) unconstrained() bool {
	return m.city == "" && m.region == ""
}

func category(fs State) models.Category {
	if fs.Category == "" {
		return models.CategoryAll
	}
	return fs.Category
}

// CountMatching returns the number of records matching fs.
func (e *Engine) CountMatching(store datastore.Reader, fs State) int {
	bucket := store.Bucket(category(fs))
	m := e.prepare(fs)
	if m.unconstrained() {
		return len(bucket)
	}

	n := 0
	for _, r := range bucket {
		if m.match(r) {
			n++
		}
	}
	return n
}

// Page returns the records of the given 1-based page. A pageSize of zero or
// less returns every match. Pages past the end are empty, not an error.
func (e *Engine) Page(store datastore.Reader, fs State, page, pageSize int) []models.Record {
	bucket := store.Bucket(category(fs))
	m := e.prepare(fs)
	if page < 1 {
		page = 1
	}

	if pageSize <= 0 {
		pageSize = len(bucket)
		page = 1
	}
	skip := (page - 1) * pageSize

	if m.unconstrained() {
		if skip >= len(bucket) {
			return []models.Record{}
		}
		end := skip + pageSize
		if end > len(bucket) {
			end = len(bucket)
		}
		return append([]models.Record(nil), bucket[skip:end]...)
	}

	out := make([]models.Record, 0, min(pageSize, len(bucket)))
	for _, r := range bucket {
		if !m.match(r) {
			continue
		}
		if skip > 0 {
			skip--
			continue
		}
		out = append(out, r)
		if len(out) == pageSize {
			break
		}
	}
	return out
}

// Each calls fn for every matching record in arrival order until fn
// returns false. It backs the CSV export.
func (e *Engine) Each(store datastore.Reader, fs State, fn func(models.Record) bool) {
	m := e.prepare(fs)
	for _, r := range store.Bucket(category(fs)) {
		if m.match(r) && !fn(r) {
			return
		}
	}
}
