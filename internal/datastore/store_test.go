// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

package datastore

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/sprowk/company-finder/internal/models"
)

var testSchema = []string{"ico", "name", "city", "region", "source_register"}

func row(ico, city, region, register string) map[string]string {
	return map[string]string{
		"ico":             ico,
		"name":            "Subjekt " + ico,
		"city":            city,
		"region":          region,
		"source_register": register,
	}
}

func sampleRows(n int) []map[string]string {
	registers := []string{"Obchodný register", "Živnostenský register", "Register účtovných závierok"}
	regions := []string{"Košický", "Bratislavský", "Žilinský", "", "  Nitriansky "}
	rows := make([]map[string]string, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, row(fmt.Sprintf("%08d", i), "Mesto", regions[i%len(regions)], registers[i%len(registers)]))
	}
	return rows
}

func assertCountsMatchBuckets(t *testing.T, s *Store) {
	t.Helper()
	for _, c := range models.Categories {
		if got, want := s.Count(c), len(s.Bucket(c)); got != want {
			t.Errorf("Count(%s) = %d, len(Bucket) = %d", c, got, want)
		}
	}
}

func TestInitialize(t *testing.T) {
	t.Parallel()

	s := New(nil)
	res, err := s.Initialize(testSchema, sampleRows(9))
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if !res.Initialized || res.Added != 9 {
		t.Errorf("AppendResult = %+v", res)
	}

	want := map[models.Category]int{
		models.CategoryAll:   9,
		models.CategoryORSR:  3,
		models.CategoryZRSR:  3,
		models.CategoryOther: 3,
	}
	if got := s.Counts(); !reflect.DeepEqual(got, want) {
		t.Errorf("Counts() = %v, want %v", got, want)
	}
	assertCountsMatchBuckets(t, s)

	wantRegions := []string{"Bratislavský", "Košický", "Nitriansky", "Žilinský"}
	if got := s.RegionOptions(); !reflect.DeepEqual(got, wantRegions) {
		t.Errorf("RegionOptions() = %v, want %v", got, wantRegions)
	}
	if !s.HasField("region") || s.HasField("terminated_on") {
		t.Error("HasField() does not reflect the schema")
	}
}

func TestInitializeEmpty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		schema []string
		rows   []map[string]string
	}{
		{"no rows", testSchema, nil},
		{"no schema", nil, sampleRows(2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := New(nil)
			_, err := s.Initialize(tt.schema, tt.rows)
			var empty *models.EmptyDatasetError
			if !errors.As(err, &empty) {
				t.Fatalf("Initialize() error = %v, want EmptyDatasetError", err)
			}
			if s.Initialized() {
				t.Error("store should stay uninitialized after a failed Initialize")
			}
		})
	}
}

func TestAppendBeforeInitialize(t *testing.T) {
	t.Parallel()

	s := New(nil)
	res, err := s.Append(testSchema, sampleRows(3))
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if !res.Initialized {
		t.Error("first Append should initialize the store")
	}
	if got := s.Schema(); !reflect.DeepEqual(got, testSchema) {
		t.Errorf("Schema() = %v, want %v", got, testSchema)
	}
}

func TestAppendIncrementsCounts(t *testing.T) {
	t.Parallel()

	s := New(nil)
	rows := sampleRows(12)
	if _, err := s.Initialize(testSchema, rows[:5]); err != nil {
		t.Fatal(err)
	}
	res, err := s.Append(testSchema, rows[5:])
	if err != nil {
		t.Fatal(err)
	}
	if res.Added != 7 || res.Initialized {
		t.Errorf("AppendResult = %+v", res)
	}
	if s.Count(models.CategoryAll) != 12 {
		t.Errorf("Count(all) = %d, want 12", s.Count(models.CategoryAll))
	}
	assertCountsMatchBuckets(t, s)
}

// Ingesting N rows in one batch or split across several must be
// observationally identical.
func TestSplitEquivalence(t *testing.T) {
	t.Parallel()

	rows := sampleRows(101)

	bulk := New(nil)
	if _, err := bulk.Initialize(testSchema, rows); err != nil {
		t.Fatal(err)
	}
	bulk.FinalizeRegionOptions()

	for _, split := range []int{1, 2, 7, 50, 100} {
		split := split
		t.Run(fmt.Sprintf("split_%d", split), func(t *testing.T) {
			t.Parallel()
			s := New(nil)
			for start := 0; start < len(rows); start += split {
				end := start + split
				if end > len(rows) {
					end = len(rows)
				}
				if _, err := s.Append(testSchema, rows[start:end]); err != nil {
					t.Fatal(err)
				}
				assertCountsMatchBuckets(t, s)
			}
			s.FinalizeRegionOptions()

			for _, c := range models.Categories {
				if !reflect.DeepEqual(s.Bucket(c), bulk.Bucket(c)) {
					t.Errorf("Bucket(%s) differs from bulk ingestion", c)
				}
			}
			if !reflect.DeepEqual(s.Counts(), bulk.Counts()) {
				t.Errorf("Counts() = %v, want %v", s.Counts(), bulk.Counts())
			}
			if !reflect.DeepEqual(s.RegionOptions(), bulk.RegionOptions()) {
				t.Errorf("RegionOptions() = %v, want %v", s.RegionOptions(), bulk.RegionOptions())
			}
		})
	}
}

func TestRegionOptionsDeferredSort(t *testing.T) {
	t.Parallel()

	s := New(nil)
	if _, err := s.Initialize(testSchema, []map[string]string{
		row("1", "Košice", "Košický", "Obchodný register"),
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Append(testSchema, []map[string]string{
		row("2", "Bratislava", "Bratislavský", "Obchodný register"),
		row("3", "Bratislava", "Bratislavský", "Obchodný register"),
	}); err != nil {
		t.Fatal(err)
	}

	// Merged but not yet sorted while ingestion is running.
	if got := s.RegionOptions(); !reflect.DeepEqual(got, []string{"Košický", "Bratislavský"}) {
		t.Errorf("RegionOptions() before finalize = %v", got)
	}

	s.FinalizeRegionOptions()
	want := []string{"Bratislavský", "Košický"}
	if got := s.RegionOptions(); !reflect.DeepEqual(got, want) {
		t.Errorf("RegionOptions() = %v, want %v", got, want)
	}
	if !s.Complete() {
		t.Error("Complete() = false after FinalizeRegionOptions")
	}
}

func TestLateAppendResorts(t *testing.T) {
	t.Parallel()

	s := New(nil)
	if _, err := s.Initialize(testSchema, []map[string]string{
		row("1", "Žilina", "Žilinský", "Obchodný register"),
		row("2", "Košice", "Košický", "Obchodný register"),
	}); err != nil {
		t.Fatal(err)
	}
	s.FinalizeRegionOptions()

	res, err := s.Append(testSchema, []map[string]string{
		row("3", "Bratislava", "Bratislavský", "Živnostenský register"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.NewRegions != 1 {
		t.Errorf("NewRegions = %d, want 1", res.NewRegions)
	}

	want := []string{"Bratislavský", "Košický", "Žilinský"}
	if got := s.RegionOptions(); !reflect.DeepEqual(got, want) {
		t.Errorf("RegionOptions() = %v, want %v", got, want)
	}
}

func TestBucketIsStableView(t *testing.T) {
	t.Parallel()

	s := New(nil)
	if _, err := s.Initialize(testSchema, sampleRows(4)); err != nil {
		t.Fatal(err)
	}
	view := s.Bucket(models.CategoryAll)

	// An append by the caller must not leak into the store.
	_ = append(view, models.Record{})
	if _, err := s.Append(testSchema, sampleRows(4)); err != nil {
		t.Fatal(err)
	}

	if len(view) != 4 {
		t.Errorf("len(view) = %d, want 4", len(view))
	}
	if s.Count(models.CategoryAll) != 8 {
		t.Errorf("Count(all) = %d, want 8", s.Count(models.CategoryAll))
	}
	assertCountsMatchBuckets(t, s)
}

func TestConcurrentReadsDuringAppend(t *testing.T) {
	t.Parallel()

	s := New(nil)
	if _, err := s.Initialize(testSchema, sampleRows(10)); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	done := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			if _, err := s.Append(testSchema, sampleRows(10)); err != nil {
				t.Error(err)
				return
			}
		}
		close(done)
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				all := s.Bucket(models.CategoryAll)
				for _, rec := range all {
					_ = rec.Category
				}
			}
		}()
	}

	wg.Wait()
	if s.Count(models.CategoryAll) != 510 {
		t.Errorf("Count(all) = %d, want 510", s.Count(models.CategoryAll))
	}
	assertCountsMatchBuckets(t, s)
}
