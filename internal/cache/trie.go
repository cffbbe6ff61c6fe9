// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

package cache

import (
	"sort"
	"strings"
	"sync"
)

// trieNode is a node in the Trie.
type trieNode struct {
	children map[rune]*trieNode
	isEnd    bool
	value    string // original spelling of the first insertion
	count    int    // number of insertions, used for ranking
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[rune]*trieNode)}
}

// KeyFunc folds a value into the key the trie indexes.
type KeyFunc func(string) string

// Trie is a thread-safe prefix tree used for city autocomplete.
// Values are indexed under KeyFunc(value), so with a diacritic folding key
// function "kos" finds "Košice". Results rank by insertion count, which for
// cities is the number of registered subjects.
type Trie struct {
	mu             sync.RWMutex
	root           *trieNode
	size           int
	key            KeyFunc
	maxSuggestions int
}

// TrieResult is one autocomplete suggestion.
type TrieResult struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// NewTrie creates a trie. A nil key func lowercases.
func NewTrie(key KeyFunc, maxSuggestions int) *Trie {
	if key == nil {
		key = strings.ToLower
	}
	if maxSuggestions <= 0 {
		maxSuggestions = 10
	}
	return &Trie{
		root:           newTrieNode(),
		key:            key,
		maxSuggestions: maxSuggestions,
	}
}

// Insert adds value, or increments its count when already present.
// Returns true for a new value.
func (t *Trie) Insert(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	key := t.key(value)

	t.mu.Lock()
	defer t.mu.Unlock()

	node := t.root
	for _, ch := range key {
		next := node.children[ch]
		if next == nil {
			next = newTrieNode()
			node.children[ch] = next
		}
		node = next
	}

	isNew := !node.isEnd
	if isNew {
		node.isEnd = true
		node.value = value
		t.size++
	}
	node.count++
	return isNew
}

// Autocomplete returns values whose key starts with the folded prefix.
// Results are ordered by count descending, then by value.
func (t *Trie) Autocomplete(prefix string, limit int) []TrieResult {
	if limit <= 0 || limit > t.maxSuggestions {
		limit = t.maxSuggestions
	}
	key := t.key(strings.TrimSpace(prefix))

	t.mu.RLock()
	defer t.mu.RUnlock()

	node := t.root
	for _, ch := range key {
		node = node.children[ch]
		if node == nil {
			return nil
		}
	}

	var results []TrieResult
	collect(node, &results)

	sort.Slice(results, func(i, j int) bool {
		if results[i].Count != results[j].Count {
			return results[i].Count > results[j].Count
		}
		return results[i].Value < results[j].Value
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

func collect(node *trieNode, results *[]TrieResult) {
	if node.isEnd {
		*results = append(*results, TrieResult{Value: node.value, Count: node.count})
	}
	for _, child := range node.children {
		collect(child, results)
	}
}

// Size returns the number of distinct values.
func (t *Trie) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.size
}

// Clear removes every value.
func (t *Trie) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.root = newTrieNode()
	t.size = 0
}
