// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

package main

import (
	"fmt"
	"io"

	"github.com/sprowk/company-finder/internal/config"
	"github.com/sprowk/company-finder/internal/logging"
	"github.com/sprowk/company-finder/internal/source"
)

// initSource builds the configured snapshot source. The returned closer
// releases the part cache and is never nil.
func initSource(cfg *config.Config) (source.RecordSource, io.Closer, error) {
	var src source.RecordSource
	switch cfg.Source.Kind {
	case config.SourceDir:
		src = source.NewDirSource(cfg.Source.Dir)
		logging.Info().Str("dir", cfg.Source.Dir).Msg("Using local snapshot directory")
	default:
		src = source.NewGitHubSource(&cfg.Source)
		logging.Info().
			Str("repo", cfg.Source.Owner+"/"+cfg.Source.Repo).
			Str("branch", cfg.Source.Branch).
			Msg("Using GitHub snapshot source")
	}

	if !cfg.Cache.Enabled {
		return src, nopCloser{}, nil
	}

	partCache, err := source.OpenBadgerPartCache(cfg.Cache.Path, cfg.Cache.InMemory, cfg.Cache.TTL)
	if err != nil {
		return nil, nil, fmt.Errorf("open part cache: %w", err)
	}
	logging.Info().
		Str("path", cfg.Cache.Path).
		Bool("in_memory", cfg.Cache.InMemory).
		Dur("ttl", cfg.Cache.TTL).
		Msg("Part cache enabled")
	return source.NewCachingSource(src, partCache), partCache, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
