// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

/*
Package datastore holds the ingested snapshot partitioned by category.

The store is built for incremental ingestion:

  - Initialize takes the first part, fixes the schema and builds every bucket.
  - Append adds a later part in O(batch): records are pushed onto the "all"
    bucket and their own category bucket, and counts grow by the delta.
  - Region options are deduplicated as they arrive, but only sorted by
    Initialize and FinalizeRegionOptions, so a multi-part load pays for one
    sort instead of one per part. After completion a late append that adds
    a region re-sorts right away.

Buckets preserve arrival order and are never re-sorted. Ingesting the same
rows in one batch or in several yields identical buckets and counts.

The store is safe for concurrent use: ingestion writes while API requests
read, and each method is atomic with respect to the others.
*/
package datastore
