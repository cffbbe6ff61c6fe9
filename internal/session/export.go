// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

package session

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/sprowk/company-finder/internal/models"
)

// ExportCSV writes every record matching the session's applied filter, with
// the display columns as header. It returns the number of rows written.
func (s *Session) ExportCSV(w io.Writer) (int, error) {
	store := s.data.Store()
	fs := s.Filter()
	columns := Columns(store)

	cw := csv.NewWriter(w)
	header := make([]string, len(columns))
	for i, c := range columns {
		header[i] = c.Header
	}
	if err := cw.Write(header); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	var (
		n      int
		werr   error
		record = make([]string, len(columns))
	)
	s.engine.Each(store, fs, func(r models.Record) bool {
		for i, c := range columns {
			record[i] = r.Get(c.Field)
		}
		if werr = cw.Write(record); werr != nil {
			return false
		}
		n++
		return true
	})
	if werr != nil {
		return n, fmt.Errorf("write row %d: %w", n+1, werr)
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return n, fmt.Errorf("flush export: %w", err)
	}
	return n, nil
}
