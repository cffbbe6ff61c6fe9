// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/sprowk/company-finder/internal/validation"
)

// maxBodyBytes bounds intent request bodies.
const maxBodyBytes = 16 << 10

// SelectCategoryRequest is the body of POST /sessions/{id}/category.
type SelectCategoryRequest struct {
	Category string `json:"category" validate:"required,category"`
}

// CityRequest is the body of POST /sessions/{id}/city. An empty fragment
// clears the filter. Flush applies the fragment without waiting for the
// debounce window.
type CityRequest struct {
	Fragment string `json:"fragment" validate:"max=100"`
	Flush    bool   `json:"flush"`
}

// RegionRequest is the body of POST /sessions/{id}/region. An empty region
// clears the filter.
type RegionRequest struct {
	Region string `json:"region" validate:"max=200"`
}

// PageRequest is the body of POST /sessions/{id}/page.
type PageRequest struct {
	Page int `json:"page" validate:"min=1"`
}

// CitiesRequest holds the query parameters of GET /cities.
type CitiesRequest struct {
	Prefix string `json:"prefix" validate:"max=100"`
	Limit  int    `json:"limit" validate:"min=1,max=50"`
}

// decodeAndValidate reads a JSON body into v and validates it. On failure
// it writes the error response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			NewResponseWriter(w, r).BadRequest("Request body is required")
		case errors.As(err, &maxErr):
			NewResponseWriter(w, r).BadRequest("Request body too large")
		default:
			NewResponseWriter(w, r).BadRequest("Invalid JSON body")
		}
		return false
	}
	return validateRequest(w, r, v)
}

// validateRequest writes a VALIDATION_ERROR response and returns false when
// v fails its validate tags.
func validateRequest(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	verr := validation.ValidateStruct(v)
	if verr == nil {
		return true
	}
	apiErr := verr.ToAPIError()
	NewResponseWriter(w, r).ValidationError(apiErr.Message, apiErr.Details)
	return false
}

// getIntParam extracts an integer query parameter with a default value
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
