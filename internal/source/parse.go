// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

package source

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/sprowk/company-finder/internal/models"
)

var utf8BOM = []byte("\xef\xbb\xbf")

var (
	errNoHeader = errors.New("file has no header row")
	errNoRows   = errors.New("file is empty or invalid")
)

// Batch is the parsed content of one part.
type Batch struct {
	Schema []string
	Rows   []map[string]string
}

// Parser turns decoded text into a Batch.
type Parser interface {
	Parse(part PartDescriptor, text []byte) (Batch, error)
}

// CSVParser reads header-first CSV. Empty lines are skipped, a UTF-8 BOM
// is dropped, and short rows only carry the fields they have.
type CSVParser struct {
	// Comma is the field delimiter; zero means ','.
	Comma rune
}

// Parse implements Parser. A missing header or zero data rows yields
// *models.ParseError.
func (p CSVParser) Parse(part PartDescriptor, text []byte) (Batch, error) {
	text = bytes.TrimPrefix(text, utf8BOM)

	r := csv.NewReader(bytes.NewReader(text))
	if p.Comma != 0 {
		r.Comma = p.Comma
	}
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	fail := func(err error) (Batch, error) {
		return Batch{}, &models.ParseError{PartIndex: part.Index, Part: part.Name, Err: err}
	}

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return fail(errNoHeader)
	}
	if err != nil {
		return fail(err)
	}
	if len(header) == 1 && strings.TrimSpace(header[0]) == "" {
		return fail(errNoHeader)
	}

	var rows []map[string]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fail(err)
		}
		n := min(len(rec), len(header))
		row := make(map[string]string, n)
		for i := 0; i < n; i++ {
			row[header[i]] = rec[i]
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return fail(errNoRows)
	}
	return Batch{Schema: header, Rows: rows}, nil
}
