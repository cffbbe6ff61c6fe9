// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

/*
Package validation provides struct validation for API request bodies using
go-playground/validator v10.

A single validator instance is shared process-wide; it caches struct
metadata after the first use. Field names in error messages come from the
struct's json tags so that clients see the names they sent.

Custom tags:

  - category: value is one of all, orsr, zrsr, other (case-insensitive)
  - ulid: value is a 26-character Crockford base32 identifier

Usage:

	type SelectCategoryRequest struct {
	    Category string `json:"category" validate:"required,category"`
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
	    apiErr := verr.ToAPIError()
	    // apiErr.Code == "VALIDATION_ERROR"
	}
*/
package validation
