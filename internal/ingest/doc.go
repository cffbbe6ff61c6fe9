// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

/*
Package ingest drives progressive loading of a register snapshot.

A Controller walks the snapshot parts strictly in order:

	idle -> loading_first -> loading_rest -> complete
	                \              \
	                 +-> failed     +-> failed (partial)

The first part initializes a fresh datastore.Store and makes the data
interactive. Every later part is fetched, decoded, parsed and appended as one
batch, followed by a cooperative yield so readers are never starved. Region
options are sorted once, after the last part.

Any failing part stops the run. Nothing of the failing part is committed;
rows of earlier parts stay queryable and the progress summary reports the
run as partial. Retrying means starting a new run (Reload).

Observers receive an Event after every state change and every committed
batch:

	ctrl.Subscribe(ingest.ObserverFunc(func(ev ingest.Event) {
	    if ev.Kind == ingest.EventBatch {
	        // refresh counts and pagination only
	    }
	}))
*/
package ingest
