// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

/*
Package models defines the data structures shared across Company Finder.

Key Components:

  - Record: one snapshot row keyed by column name, with its derived Category
  - Category: the fixed partition (all, orsr, zrsr, other)
  - Error taxonomy: DiscoveryError, FetchError, DecodeError, ParseError,
    EmptyDatasetError

The error types carry the index of the failing part so that the API can
report "part N failed" verbatim. Use errors.As to inspect them, or
PartIndexOf to pull the index out of any wrapped error.
*/
package models
