// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

package session

import (
	"sync"
	"time"

	"github.com/sprowk/company-finder/internal/metrics"
)

// Debouncer delivers only the last value triggered within a quiescence
// window. Each Trigger restarts the window.
type Debouncer struct {
	window time.Duration
	fire   func(string)

	// fireMu serializes deliveries so a late expiry cannot land after a
	// newer Flush. Lock order: fireMu, then mu.
	fireMu sync.Mutex

	mu      sync.Mutex
	timer   *time.Timer
	pending *string
	seq     uint64
}

// NewDebouncer creates a debouncer calling fire with the settled value.
// A window <= 0 fires synchronously on every Trigger.
func NewDebouncer(window time.Duration, fire func(string)) *Debouncer {
	return &Debouncer{window: window, fire: fire}
}

// Trigger records value and (re)starts the window.
func (d *Debouncer) Trigger(value string) {
	if d.window <= 0 {
		d.fireMu.Lock()
		d.fire(value)
		d.fireMu.Unlock()
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending != nil {
		metrics.FilterCoalescedEdits.Inc()
	}
	d.pending = &value
	d.seq++
	seq := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, func() { d.expire(seq) })
}

// expire fires the pending value unless a later Trigger or Flush got there
// first.
func (d *Debouncer) expire(seq uint64) {
	d.fireMu.Lock()
	defer d.fireMu.Unlock()

	d.mu.Lock()
	if seq != d.seq || d.pending == nil {
		d.mu.Unlock()
		return
	}
	value := *d.pending
	d.pending = nil
	d.mu.Unlock()

	d.fire(value)
}

// Flush fires the pending value now. It returns false when nothing was
// pending.
func (d *Debouncer) Flush() bool {
	d.fireMu.Lock()
	defer d.fireMu.Unlock()

	d.mu.Lock()
	if d.pending == nil {
		d.mu.Unlock()
		return false
	}
	value := *d.pending
	d.pending = nil
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()

	d.fire(value)
	return true
}

// Pending returns the value waiting for its window, if any.
func (d *Debouncer) Pending() (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending == nil {
		return "", false
	}
	return *d.pending, true
}

// Stop drops the pending value without firing it.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = nil
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
	}
}
