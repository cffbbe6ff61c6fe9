// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

// Package classify assigns snapshot records to their register category.
//
// The register a subject comes from is recorded in free text
// ("Obchodný register", "Živnostenský register SR", ...). Classification
// folds that text and checks keywords in priority order; the first hit
// wins and anything unmatched is CategoryOther. Classify is pure and total,
// so the outcome never depends on batch boundaries or call order.
package classify

import (
	"strings"

	"github.com/sprowk/company-finder/internal/models"
	"github.com/sprowk/company-finder/internal/normalize"
)

// Rule maps a folded keyword to the category it implies.
type Rule struct {
	Keyword  string
	Category models.Category
}

// DefaultRules is the register keyword table, checked in order.
var DefaultRules = []Rule{
	{Keyword: "obchodny", Category: models.CategoryORSR},
	{Keyword: "zivnost", Category: models.CategoryZRSR},
}

// Classifier classifies records by the text of a designated field.
type Classifier struct {
	field string
	rules []Rule
}

// New creates a classifier reading field and applying rules in order.
// Rule keywords are folded so callers may pass them with diacritics.
func New(field string, rules []Rule) *Classifier {
	folded := make([]Rule, 0, len(rules))
	for _, r := range rules {
		kw := normalize.Fold(strings.TrimSpace(r.Keyword))
		if kw == "" || !r.Category.Valid() || r.Category == models.CategoryAll {
			continue
		}
		folded = append(folded, Rule{Keyword: kw, Category: r.Category})
	}
	return &Classifier{field: field, rules: folded}
}

// Default returns the classifier for the source_register column.
func Default() *Classifier {
	return New(models.FieldSourceRegister, DefaultRules)
}

// Category returns the category for a raw field map.
func (c *Classifier) Category(fields map[string]string) models.Category {
	value := normalize.Fold(fields[c.field])
	if value == "" {
		return models.CategoryOther
	}
	for _, r := range c.rules {
		if strings.Contains(value, r.Keyword) {
			return r.Category
		}
	}
	return models.CategoryOther
}

// Classify wraps a raw field map into a classified Record.
func (c *Classifier) Classify(fields map[string]string) models.Record {
	return models.Record{Fields: fields, Category: c.Category(fields)}
}
