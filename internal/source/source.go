// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

package source

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/sprowk/company-finder/internal/locale"
)

const (
	// PartSuffix marks a snapshot part file.
	PartSuffix = ".csv.gz"

	// LastUpdatedFile holds the DD-MM-YYYY generation date of the snapshot.
	LastUpdatedFile = "last_updated.txt"
)

var partNumberPattern = regexp.MustCompile(`part(\d+)\.csv\.gz$`)

// PartDescriptor identifies one part of the snapshot.
type PartDescriptor struct {
	// Index is the 0-based position after SortParts.
	Index int    `json:"index"`
	Name  string `json:"name"`
	// URL is the download location; empty for local sources.
	URL  string `json:"url,omitempty"`
	Size int64  `json:"size,omitempty"`
}

// RecordSource lists and fetches snapshot parts.
type RecordSource interface {
	// ListParts returns the parts in ingestion order. An empty listing is
	// reported as *models.DiscoveryError wrapping models.ErrNoData.
	ListParts(ctx context.Context) ([]PartDescriptor, error)

	// FetchPart returns the compressed bytes of one part.
	FetchPart(ctx context.Context, part PartDescriptor) ([]byte, error)

	// LastUpdated returns the trimmed content of last_updated.txt, or ""
	// when the snapshot does not carry one.
	LastUpdated(ctx context.Context) (string, error)
}

// IsPartName reports whether name is a snapshot part file.
func IsPartName(name string) bool {
	return strings.HasSuffix(name, PartSuffix)
}

// partNumber extracts N from "...partN.csv.gz".
func partNumber(name string) (int, bool) {
	m := partNumberPattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// SortParts orders parts in place and assigns Index.
// Numbered parts come first, ordered by number. Names without a number
// follow, ordered under Slovak collation.
func SortParts(parts []PartDescriptor) {
	sort.SliceStable(parts, func(i, j int) bool {
		ni, okI := partNumber(parts[i].Name)
		nj, okJ := partNumber(parts[j].Name)
		switch {
		case okI && okJ:
			return ni < nj
		case okI != okJ:
			return okI
		default:
			return locale.Compare(parts[i].Name, parts[j].Name) < 0
		}
	})
	for i := range parts {
		parts[i].Index = i
	}
}
