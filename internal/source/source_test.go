// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

package source

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/sprowk/company-finder/internal/models"
)

func gzipBytes(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(s)); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

func TestSortParts(t *testing.T) {
	t.Parallel()

	want := []string{
		"firms_part01.csv.gz",
		"firms_part2.csv.gz",
		"firms_part10.csv.gz",
		"archív.csv.gz",
		"zoznam.csv.gz",
	}
	inputs := [][]string{
		{"firms_part10.csv.gz", "zoznam.csv.gz", "firms_part2.csv.gz", "firms_part01.csv.gz", "archív.csv.gz"},
		{"zoznam.csv.gz", "archív.csv.gz", "firms_part10.csv.gz", "firms_part2.csv.gz", "firms_part01.csv.gz"},
		{"archív.csv.gz", "firms_part2.csv.gz", "zoznam.csv.gz", "firms_part01.csv.gz", "firms_part10.csv.gz"},
	}

	for _, names := range inputs {
		parts := make([]PartDescriptor, len(names))
		for i, n := range names {
			parts[i] = PartDescriptor{Name: n}
		}
		SortParts(parts)

		for i, p := range parts {
			if p.Index != i {
				t.Errorf("parts[%d].Index = %d", i, p.Index)
			}
			if p.Name != want[i] {
				t.Errorf("input %v: parts[%d] = %q, want %q", names, i, p.Name, want[i])
			}
		}
	}
}

func TestPartNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		want   int
		wantOK bool
	}{
		{"firms_part03.csv.gz", 3, true},
		{"part12.csv.gz", 12, true},
		{"firms_part03.csv", 0, false},
		{"firms.csv.gz", 0, false},
	}
	for _, tt := range tests {
		got, ok := partNumber(tt.name)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("partNumber(%q) = %d, %v; want %d, %v", tt.name, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestDirSource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write := func(name string, data []byte) {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	write("firms_part2.csv.gz", []byte("two"))
	write("firms_part1.csv.gz", []byte("one"))
	write("notes.txt", []byte("skip"))
	write(LastUpdatedFile, []byte("12-05-2026\n"))

	src := NewDirSource(dir)
	ctx := context.Background()

	parts, err := src.ListParts(ctx)
	if err != nil {
		t.Fatalf("ListParts() error = %v", err)
	}
	if len(parts) != 2 || parts[0].Name != "firms_part1.csv.gz" || parts[0].Size != 3 {
		t.Fatalf("ListParts() = %+v", parts)
	}

	data, err := src.FetchPart(ctx, parts[1])
	if err != nil || string(data) != "two" {
		t.Fatalf("FetchPart() = %q, %v", data, err)
	}

	if date, err := src.LastUpdated(ctx); err != nil || date != "12-05-2026" {
		t.Errorf("LastUpdated() = %q, %v", date, err)
	}

	_, err = src.FetchPart(ctx, PartDescriptor{Index: 7, Name: "../escape.csv.gz"})
	var fe *models.FetchError
	if !errors.As(err, &fe) || fe.PartIndex != 7 {
		t.Errorf("FetchPart(escape) error = %v, want FetchError for part 7", err)
	}
}

func TestDirSource_Empty(t *testing.T) {
	t.Parallel()

	src := NewDirSource(t.TempDir())
	_, err := src.ListParts(context.Background())
	if !errors.Is(err, models.ErrNoData) {
		t.Errorf("ListParts() error = %v, want ErrNoData", err)
	}
	if date, err := src.LastUpdated(context.Background()); err != nil || date != "" {
		t.Errorf("LastUpdated() = %q, %v; want empty", date, err)
	}
}

func TestGzipDecoder(t *testing.T) {
	t.Parallel()

	part := PartDescriptor{Index: 2, Name: "firms_part03.csv.gz"}
	out, err := GzipDecoder{}.Decode(part, gzipBytes(t, "a,b\n1,2\n"))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if string(out) != "a,b\n1,2\n" {
		t.Errorf("Decode() = %q", out)
	}

	_, err = GzipDecoder{}.Decode(part, []byte("not gzip"))
	var de *models.DecodeError
	if !errors.As(err, &de) || de.PartIndex != 2 {
		t.Errorf("Decode(garbage) error = %v, want DecodeError for part 2", err)
	}

	truncated := gzipBytes(t, "a,b\n1,2\n3,4\n")
	_, err = GzipDecoder{}.Decode(part, truncated[:len(truncated)-6])
	if !errors.As(err, &de) {
		t.Errorf("Decode(truncated) error = %v, want DecodeError", err)
	}
}

func TestCSVParser(t *testing.T) {
	t.Parallel()

	part := PartDescriptor{Index: 1, Name: "firms_part02.csv.gz"}

	tests := []struct {
		name     string
		text     string
		wantRows int
		wantErr  bool
	}{
		{"basic", "name,city\nA,Košice\nB,Prešov\n", 2, false},
		{"bom and blank lines", "\xef\xbb\xbfname,city\n\nA,Košice\n\n", 1, false},
		{"quoted comma", "name,city\n\"Alfa, s.r.o.\",Nitra\n", 1, false},
		{"short row", "name,city,region\nA,Žilina\n", 1, false},
		{"header only", "name,city\n", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			batch, err := CSVParser{}.Parse(part, []byte(tt.text))
			if tt.wantErr {
				var pe *models.ParseError
				if !errors.As(err, &pe) || pe.PartIndex != 1 {
					t.Fatalf("Parse() error = %v, want ParseError for part 1", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if len(batch.Rows) != tt.wantRows {
				t.Errorf("Parse() rows = %d, want %d", len(batch.Rows), tt.wantRows)
			}
			if batch.Schema[0] != "name" {
				t.Errorf("Schema[0] = %q, want name", batch.Schema[0])
			}
		})
	}
}

func TestCSVParser_FieldValues(t *testing.T) {
	t.Parallel()

	batch, err := CSVParser{}.Parse(PartDescriptor{}, []byte("name,city,region\n\"Alfa, s.r.o.\",Nitra\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	row := batch.Rows[0]
	if row["name"] != "Alfa, s.r.o." || row["city"] != "Nitra" {
		t.Errorf("row = %v", row)
	}
	if _, ok := row["region"]; ok {
		t.Error("short row should not carry the missing region field")
	}
}
