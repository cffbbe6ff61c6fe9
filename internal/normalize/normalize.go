// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

// Package normalize folds text for diacritic and case insensitive matching.
//
// Folding decomposes to NFD, drops combining marks and lowercases, so
// "Košice", "KOSICE" and "košice" all fold to "kosice". The classifier and
// the filter engine both go through this package so that the fragment and
// the candidate are always folded the same way.
package normalize

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/sprowk/company-finder/internal/cache"
)

// transform.Chain keeps internal buffers and is not safe for concurrent use.
var foldPool = sync.Pool{
	New: func() interface{} {
		return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	},
}

// Fold returns the diacritic-free lowercase form of s.
func Fold(s string) string {
	if s == "" {
		return ""
	}
	if isASCII(s) {
		return strings.ToLower(s)
	}

	t := foldPool.Get().(transform.Transformer)
	defer foldPool.Put(t)
	t.Reset()

	out, _, err := transform.String(t, s)
	if err != nil {
		// Invalid UTF-8 cannot be decomposed; fall back to a plain case fold.
		return strings.ToLower(s)
	}
	return strings.ToLower(out)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// Normalizer folds strings through an LRU memo. Candidate fields such as
// city names repeat across rows, so the memo turns most folds into a map
// lookup. A zero capacity disables memoization.
type Normalizer struct {
	memo *cache.LRU
}

// New creates a Normalizer memoizing up to capacity distinct inputs.
func New(capacity int) *Normalizer {
	if capacity <= 0 {
		return &Normalizer{}
	}
	return &Normalizer{memo: cache.NewLRU(capacity)}
}

// Fold returns the folded form of s, consulting the memo first.
func (n *Normalizer) Fold(s string) string {
	if n == nil || n.memo == nil {
		return Fold(s)
	}
	return n.memo.GetOrCompute(s, Fold)
}

// Contains reports whether the folded haystack contains foldedNeedle.
// The needle must already be folded; an empty needle always matches.
func (n *Normalizer) Contains(haystack, foldedNeedle string) bool {
	if foldedNeedle == "" {
		return true
	}
	return strings.Contains(n.Fold(haystack), foldedNeedle)
}

// Stats exposes memo counters; all zero when memoization is disabled.
func (n *Normalizer) Stats() (hits, misses int64, size int) {
	if n == nil || n.memo == nil {
		return 0, 0, 0
	}
	return n.memo.Stats()
}
