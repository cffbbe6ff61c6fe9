// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

/*
Package session owns the per-viewer browsing state: the filter, the current
page, and the snapshots rendered from them.

A Session holds a filter.State and a page number over the dataset of the
ingestion controller. Viewers change them through four intents:

  - SelectCategory switches the category bucket
  - SetCityFragment edits the city filter (coalesced, see below)
  - SetRegion selects a region or clears it with ""
  - GotoPage moves to a page

Every intent that changes the filter resets the page to 1. Every intent is
followed by a recomputation of the filtered count and a clamp of the page
into 1..max(1, ceil(count/pageSize)).

# Coalescing

City edits arrive per keystroke. They go through a Debouncer: only the last
value within the quiescence window (500ms by default) is applied, and it
triggers exactly one recomputation. Category, region and page intents apply
immediately and leave a pending city edit pending.

# Ingestion

The Manager observes the ingestion controller. On every committed batch each
session recomputes its count and clamps its page, so counts and pagination
follow the data while rows are still arriving. When ingestion completes, a
session whose selected region no longer exists resets its region.

# Snapshots

Snapshot returns the full render: counts per category, the current page of
rows with their recency bucket, the pagination model, the region options and
the ingestion progress. Summary returns the same without rows, which is what
gets pushed after a batch.

Sessions live in memory only and expire after the configured TTL.
*/
package session
