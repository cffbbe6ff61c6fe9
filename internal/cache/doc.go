// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

/*
Package cache provides the in-memory data structures that keep filtering cheap.

# Components

  - LRU: capacity-bounded string memo. The normalizer caches folded city
    names here so a keystroke re-filter over millions of rows folds each
    distinct municipality once.
  - Trie: prefix tree with a pluggable key function, backing the city
    autocomplete endpoint. Suggestions rank by how many subjects are
    registered in the city.

Both types are safe for concurrent use.

# Usage

	lru := cache.NewLRU(4096)
	folded := lru.GetOrCompute("Košice", fold)

	cities := cache.NewTrie(normalize.Fold, 10)
	cities.Insert("Košice")
	cities.Autocomplete("kos", 5) // [{Value: "Košice", Count: 1}]
*/
package cache
