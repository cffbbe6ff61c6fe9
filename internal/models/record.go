// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

package models

import (
	"fmt"
	"strings"
)

// Designated snapshot columns. The generator writes the header
// organization_id, ico, name, city, region, established_on, terminated_on,
// last_modified, source_register.
const (
	FieldOrganizationID = "organization_id"
	FieldICO            = "ico"
	FieldName           = "name"
	FieldCity           = "city"
	FieldRegion         = "region"
	FieldEstablishedOn  = "established_on"
	FieldTerminatedOn   = "terminated_on"
	FieldLastModified   = "last_modified"
	FieldSourceRegister = "source_register"
)

// Category is the partition a record belongs to.
type Category string

const (
	// CategoryAll is the logical superset of every other category.
	CategoryAll Category = "all"

	// CategoryORSR holds records from the commercial register (companies).
	CategoryORSR Category = "orsr"

	// CategoryZRSR holds records from the trade licensing register (sole traders).
	CategoryZRSR Category = "zrsr"

	// CategoryOther holds everything the classifier could not attribute.
	CategoryOther Category = "other"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryAll, CategoryORSR, CategoryZRSR, CategoryOther}

// SpecificCategories lists the categories a classified record can carry.
var SpecificCategories = []Category{CategoryORSR, CategoryZRSR, CategoryOther}

// Label returns the Slovak display label used by the statistics panel.
func (c Category) Label() string {
	switch c {
	case CategoryAll:
		return "Celkovo subjektov"
	case CategoryORSR:
		return "Firmy"
	case CategoryZRSR:
		return "Živnosti"
	case CategoryOther:
		return "Ostatné"
	default:
		return string(c)
	}
}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryAll, CategoryORSR, CategoryZRSR, CategoryOther:
		return true
	}
	return false
}

// ParseCategory converts a user supplied value into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// Record is one snapshot row keyed by column name plus its derived category.
// A Record is immutable once the classifier has assigned its category.
type Record struct {
	Fields   map[string]string
	Category Category
}

// Get returns the raw value of a column, or "" when the column is absent.
func (r Record) Get(field string) string {
	return r.Fields[field]
}

// Region returns the trimmed region value.
func (r Record) Region() string {
	return strings.TrimSpace(r.Fields[FieldRegion])
}
