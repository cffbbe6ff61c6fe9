// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

package normalize

import (
	"sync"
	"testing"
)

func TestFold(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"Bratislava", "bratislava"},
		{"Košice", "kosice"},
		{"ŽILINA", "zilina"},
		{"Obchodný register", "obchodny register"},
		{"Živnostenský register", "zivnostensky register"},
		{"Ľubietová", "lubietova"},
		{"Čierna nad Tisou", "cierna nad tisou"},
		{"Dolný Kubín", "dolny kubin"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := Fold(tt.input); got != tt.want {
				t.Errorf("Fold(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFoldIdempotent(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"Košický kraj", "Trenčín", "plain"} {
		once := Fold(s)
		if twice := Fold(once); twice != once {
			t.Errorf("Fold(Fold(%q)) = %q, want %q", s, twice, once)
		}
	}
}

func TestNormalizer_Memo(t *testing.T) {
	t.Parallel()

	n := New(16)
	for i := 0; i < 5; i++ {
		if got := n.Fold("Prešov"); got != "presov" {
			t.Fatalf("Fold() = %q, want presov", got)
		}
	}

	hits, misses, size := n.Stats()
	if hits != 4 || misses != 1 || size != 1 {
		t.Errorf("Stats() = (%d, %d, %d), want (4, 1, 1)", hits, misses, size)
	}
}

func TestNormalizer_Disabled(t *testing.T) {
	t.Parallel()

	n := New(0)
	if got := n.Fold("Nitra"); got != "nitra" {
		t.Errorf("Fold() = %q, want nitra", got)
	}
	if hits, misses, size := n.Stats(); hits != 0 || misses != 0 || size != 0 {
		t.Errorf("Stats() on disabled memo = (%d, %d, %d), want zeros", hits, misses, size)
	}

	var nilNormalizer *Normalizer
	if got := nilNormalizer.Fold("Žilina"); got != "zilina" {
		t.Errorf("nil Normalizer Fold() = %q, want zilina", got)
	}
}

func TestNormalizer_Contains(t *testing.T) {
	t.Parallel()

	n := New(8)
	tests := []struct {
		haystack string
		needle   string
		want     bool
	}{
		{"Košice - Staré Mesto", Fold("košice"), true},
		{"Košice", Fold("KOS"), true},
		{"Bratislava", Fold("Košice"), false},
		{"", "", true},
		{"anything", "", true},
	}

	for _, tt := range tests {
		if got := n.Contains(tt.haystack, tt.needle); got != tt.want {
			t.Errorf("Contains(%q, %q) = %v, want %v", tt.haystack, tt.needle, got, tt.want)
		}
	}
}

func TestFoldConcurrent(t *testing.T) {
	t.Parallel()

	n := New(4)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if got := n.Fold("Banská Bystrica"); got != "banska bystrica" {
					t.Errorf("Fold() = %q", got)
					return
				}
			}
		}()
	}
	wg.Wait()
}
