// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

// Package recency marks subjects established within the last week.
//
// Dates in the snapshot use DD-MM-YYYY (DD.MM.YYYY is accepted too) and
// are compared as UTC midnights, so the result never depends on the
// server's time zone. A record whose establishment date lies 0 to 6 whole
// days before the reference date gets bucket 0..6; everything else,
// including malformed dates, is unmarked.
package recency

import (
	"regexp"
	"strconv"
	"time"
)

// Buckets is the number of distinct recency buckets.
const Buckets = 7

const day = 24 * time.Hour

var dmyPattern = regexp.MustCompile(`^(\d{2})[.-](\d{2})[.-](\d{4})$`)

// ParseDMY parses DD-MM-YYYY or DD.MM.YYYY into a UTC midnight.
// Out of range components are rejected rather than normalized.
func ParseDMY(s string) (time.Time, bool) {
	m := dmyPattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	d, _ := strconv.Atoi(m[1])
	mo, _ := strconv.Atoi(m[2])
	y, _ := strconv.Atoi(m[3])

	t := time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d || int(t.Month()) != mo || t.Year() != y {
		return time.Time{}, false
	}
	return t, true
}

// Midnight truncates t to its UTC calendar date.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DiffDays returns floor((ref - est) / 1 day).
func DiffDays(est, ref time.Time) int {
	diff := ref.Sub(est)
	days := int(diff / day)
	if diff%day != 0 && diff < 0 {
		days--
	}
	return days
}

// Bucket returns the recency bucket of an established date string relative
// to ref. ok is false when the date is malformed or outside the window.
func Bucket(established string, ref time.Time) (bucket int, ok bool) {
	est, parsed := ParseDMY(established)
	if !parsed {
		return 0, false
	}
	diff := DiffDays(est, Midnight(ref))
	if diff < 0 || diff >= Buckets {
		return 0, false
	}
	return diff, true
}

// Reference resolves the as-of date: the snapshot's last_updated value when
// it parses, otherwise now.
func Reference(lastUpdated string, now time.Time) time.Time {
	if t, ok := ParseDMY(lastUpdated); ok {
		return t
	}
	return Midnight(now)
}
