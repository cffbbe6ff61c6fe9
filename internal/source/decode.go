// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

package source

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/sprowk/company-finder/internal/models"
)

// Decoder turns the fetched bytes of a part into tabular text.
type Decoder interface {
	Decode(part PartDescriptor, data []byte) ([]byte, error)
}

// GzipDecoder decompresses gzip parts.
type GzipDecoder struct{}

// Decode implements Decoder. Malformed input yields *models.DecodeError.
func (GzipDecoder) Decode(part PartDescriptor, data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, &models.DecodeError{PartIndex: part.Index, Part: part.Name, Err: err}
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, &models.DecodeError{PartIndex: part.Index, Part: part.Name, Err: err}
	}
	return out, nil
}
