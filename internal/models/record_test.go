// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

package models

import (
	"errors"
	"fmt"
	"testing"
)

func TestParseCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Category
		wantErr bool
	}{
		{"all", CategoryAll, false},
		{" ORSR ", CategoryORSR, false},
		{"zrsr", CategoryZRSR, false},
		{"other", CategoryOther, false},
		{"", "", true},
		{"firms", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseCategory(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCategory(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseCategory(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCategoryLabel(t *testing.T) {
	t.Parallel()

	want := map[Category]string{
		CategoryAll:   "Celkovo subjektov",
		CategoryORSR:  "Firmy",
		CategoryZRSR:  "Živnosti",
		CategoryOther: "Ostatné",
	}
	for c, label := range want {
		if got := c.Label(); got != label {
			t.Errorf("%s.Label() = %q, want %q", c, got, label)
		}
	}
}

func TestRecordRegionTrimmed(t *testing.T) {
	t.Parallel()

	r := Record{Fields: map[string]string{FieldRegion: "  Košický kraj "}}
	if got := r.Region(); got != "Košický kraj" {
		t.Errorf("Region() = %q, want %q", got, "Košický kraj")
	}
	if got := r.Get("missing"); got != "" {
		t.Errorf("Get(missing) = %q, want empty", got)
	}
}

func TestPartIndexOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"fetch", &FetchError{PartIndex: 3, Status: 404}, 3},
		{"decode wrapped", fmt.Errorf("ingest: %w", &DecodeError{PartIndex: 1}), 1},
		{"parse", &ParseError{PartIndex: 0}, 0},
		{"discovery", &DiscoveryError{Err: ErrNoData}, -1},
		{"plain", errors.New("boom"), -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := PartIndexOf(tt.err); got != tt.want {
				t.Errorf("PartIndexOf() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFetchErrorMessage(t *testing.T) {
	t.Parallel()

	err := &FetchError{PartIndex: 2, Part: "firms_part03.csv.gz", Status: 503}
	want := "fetch part 3 (firms_part03.csv.gz): status 503"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	var de *DiscoveryError
	if !errors.As(&DiscoveryError{Err: ErrNoData}, &de) || !errors.Is(de, ErrNoData) {
		t.Error("DiscoveryError should unwrap to ErrNoData")
	}
}

func TestNewIDSortable(t *testing.T) {
	t.Parallel()

	prev := NewID()
	for i := 0; i < 100; i++ {
		next := NewID()
		if len(next) != 26 {
			t.Fatalf("NewID() length = %d, want 26", len(next))
		}
		if next <= prev {
			t.Fatalf("NewID() not increasing: %s after %s", next, prev)
		}
		prev = next
	}
}
