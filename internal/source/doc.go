// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

/*
Package source provides access to the published register snapshot.

A snapshot is a directory named snapshots/ holding gzip-compressed CSV parts
(firms_part01.csv.gz, firms_part02.csv.gz, ...) and a last_updated.txt file
with the DD-MM-YYYY date the snapshot was generated.

# Sources

  - GitHubSource lists parts through the GitHub contents API and downloads them
    over HTTP, with request pacing (x/time/rate), HTTP 429 backoff and a
    circuit breaker (sony/gobreaker).
  - DirSource reads a local snapshot directory.
  - CachingSource wraps either one and keeps downloaded part bytes in a
    PartCache (BadgerDB or memory), keyed by snapshot date and part name.

# Pipeline

Each part passes through three stages, each with its own error type from
internal/models:

	data, err := src.FetchPart(ctx, part)     // *models.FetchError
	raw, err := GzipDecoder{}.Decode(part, data) // *models.DecodeError
	batch, err := CSVParser{}.Parse(part, raw)   // *models.ParseError

Parts are ordered by the numeric suffix of part(\d+).csv.gz, falling back to
Slovak collation of the file name (see SortParts).
*/
package source
