// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sprowk/company-finder/internal/models"
)

// DirSource reads a snapshot from a local directory laid out like the
// published snapshots/ folder.
type DirSource struct {
	dir string
}

// NewDirSource creates a source over dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

// ListParts implements RecordSource.
func (s *DirSource) ListParts(ctx context.Context) ([]PartDescriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, &models.DiscoveryError{Err: fmt.Errorf("read snapshot dir: %w", err)}
	}

	var parts []PartDescriptor
	for _, e := range entries {
		if e.IsDir() || !IsPartName(e.Name()) {
			continue
		}
		var size int64
		if info, err := e.Info(); err == nil {
			size = info.Size()
		}
		parts = append(parts, PartDescriptor{Name: e.Name(), Size: size})
	}
	if len(parts) == 0 {
		return nil, &models.DiscoveryError{Err: models.ErrNoData}
	}
	SortParts(parts)
	return parts, nil
}

// FetchPart implements RecordSource.
func (s *DirSource) FetchPart(ctx context.Context, part PartDescriptor) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &models.FetchError{PartIndex: part.Index, Part: part.Name, Err: err}
	}
	// Part names come from ListParts; refuse anything that escapes the directory.
	if part.Name != filepath.Base(part.Name) {
		return nil, &models.FetchError{PartIndex: part.Index, Part: part.Name, Err: errors.New("invalid part name")}
	}
	data, err := os.ReadFile(filepath.Join(s.dir, part.Name))
	if err != nil {
		return nil, &models.FetchError{PartIndex: part.Index, Part: part.Name, Err: err}
	}
	return data, nil
}

// LastUpdated implements RecordSource.
func (s *DirSource) LastUpdated(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(filepath.Join(s.dir, LastUpdatedFile))
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", LastUpdatedFile, err)
	}
	return strings.TrimSpace(string(data)), nil
}
