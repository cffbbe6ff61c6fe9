// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

package models

import (
	"errors"
	"fmt"
)

// ErrNoData is wrapped by DiscoveryError when a source lists zero parts.
var ErrNoData = errors.New("no data parts found")

// DiscoveryError reports a failure to enumerate dataset parts.
type DiscoveryError struct {
	Err error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("discover parts: %v", e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

// FetchError reports a transport failure for a single part.
// Status is the HTTP status code, or 0 when the request never completed.
type FetchError struct {
	PartIndex int
	Part      string
	Status    int
	Err       error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch part %d (%s): status %d", e.PartIndex+1, e.Part, e.Status)
	}
	return fmt.Sprintf("fetch part %d (%s): %v", e.PartIndex+1, e.Part, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// DecodeError reports a corrupt compressed payload.
type DecodeError struct {
	PartIndex int
	Part      string
	Err       error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode part %d (%s): %v", e.PartIndex+1, e.Part, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ParseError reports malformed or empty tabular content.
type ParseError struct {
	PartIndex int
	Part      string
	Err       error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse part %d (%s): %v", e.PartIndex+1, e.Part, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// EmptyDatasetError is returned when the first usable batch has no rows or no header.
type EmptyDatasetError struct {
	Reason string
}

func (e *EmptyDatasetError) Error() string {
	if e.Reason == "" {
		return "dataset is empty"
	}
	return "dataset is empty: " + e.Reason
}

// PartIndexOf extracts the failing part index from any error in the
// taxonomy. It returns -1 when err carries no part index.
func PartIndexOf(err error) int {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.PartIndex
	}
	var de *DecodeError
	if errors.As(err, &de) {
		return de.PartIndex
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.PartIndex
	}
	return -1
}
