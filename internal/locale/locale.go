// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

// Package locale holds the Slovak specific collation and formatting helpers.
package locale

import (
	"regexp"
	"sort"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Tag is the locale every comparison and number format uses.
var Tag = language.Slovak

var (
	// collate.Collator is not safe for concurrent use.
	collatorMu sync.Mutex
	collator   = collate.New(Tag)

	printerMu sync.Mutex
	printer   = message.NewPrinter(Tag)
)

// Compare orders a and b by Slovak collation (c < č < d, h < ch < i).
func Compare(a, b string) int {
	collatorMu.Lock()
	defer collatorMu.Unlock()
	return collator.CompareString(a, b)
}

// SortStrings sorts values in place by Slovak collation.
func SortStrings(values []string) {
	collatorMu.Lock()
	defer collatorMu.Unlock()
	sort.SliceStable(values, func(i, j int) bool {
		return collator.CompareString(values[i], values[j]) < 0
	})
}

// FormatNumber renders n with Slovak digit grouping, e.g. 1 234 567.
func FormatNumber(n int) string {
	printerMu.Lock()
	defer printerMu.Unlock()
	return printer.Sprintf("%d", n)
}

var dmyDash = regexp.MustCompile(`^(\d{2})-(\d{2})-(\d{4})$`)

// FormatDMY turns a DD-MM-YYYY value into DD.MM.YYYY for display.
// Anything else is returned unchanged.
func FormatDMY(dmy string) string {
	m := dmyDash.FindStringSubmatch(dmy)
	if m == nil {
		return dmy
	}
	return m[1] + "." + m[2] + "." + m[3]
}
