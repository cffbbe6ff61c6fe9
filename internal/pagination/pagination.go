// Company Finder - Progressive Business Register Explorer
// Copyright 2026 sprowk
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/sprowk/company-finder

// Package pagination computes page boundaries and the compact page-number
// model shown under the results table.
package pagination

import (
	"strconv"

	"github.com/goccy/go-json"
)

// Radius is the number of pages shown on each side of the current page.
const Radius = 1

// Item is either a page number or an ellipsis marker.
type Item struct {
	Page     int
	Ellipsis bool
}

// MarshalJSON renders a page as its number and an ellipsis as "...".
func (i Item) MarshalJSON() ([]byte, error) {
	if i.Ellipsis {
		return json.Marshal("...")
	}
	return json.Marshal(i.Page)
}

// String returns the label the item is displayed with.
func (i Item) String() string {
	if i.Ellipsis {
		return "..."
	}
	return strconv.Itoa(i.Page)
}

func page(n int) Item { return Item{Page: n} }

var ellipsis = Item{Ellipsis: true}

// Plan returns the display model for the given page: page 1, a window of
// Radius pages around current, the last page, and a single ellipsis for
// each gap of more than one page. totalPages <= 1 yields an empty plan.
func Plan(current, totalPages int) []Item {
	if totalPages <= 1 {
		return []Item{}
	}
	current = clamp(current, totalPages)

	lo := max(2, current-Radius)
	hi := min(totalPages-1, current+Radius)

	items := make([]Item, 0, hi-lo+5)
	items = append(items, page(1))
	if lo > 2 {
		items = append(items, ellipsis)
	}
	for p := lo; p <= hi; p++ {
		items = append(items, page(p))
	}
	if hi < totalPages-1 {
		items = append(items, ellipsis)
	}
	items = append(items, page(totalPages))
	return items
}

// TotalPages returns ceil(total / pageSize), zero for an empty result.
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Clamp brings current into [1, max(1, TotalPages(total, pageSize))].
func Clamp(current, total, pageSize int) int {
	return clamp(current, TotalPages(total, pageSize))
}

func clamp(current, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if current < 1 {
		return 1
	}
	if current > totalPages {
		return totalPages
	}
	return current
}

// VisibleRange returns the zero-based inclusive index range shown on a page.
// For an empty result end is start-1.
func VisibleRange(current, pageSize, total int) (start, end int) {
	start = (current - 1) * pageSize
	end = min(start+pageSize, total) - 1
	return start, end
}

// Model is everything a presenter needs to draw pagination controls.
type Model struct {
	CurrentPage int    `json:"current_page"`
	TotalPages  int    `json:"total_pages"`
	PageSize    int    `json:"page_size"`
	Total       int    `json:"total"`
	Start       int    `json:"start"`
	End         int    `json:"end"`
	Items       []Item `json:"items"`
	HasPrev     bool   `json:"has_prev"`
	HasNext     bool   `json:"has_next"`
}

// Build assembles the model for a filtered count. current is clamped first.
func Build(current, pageSize, total int) Model {
	totalPages := TotalPages(total, pageSize)
	current = clamp(current, totalPages)
	start, end := VisibleRange(current, pageSize, total)

	return Model{
		CurrentPage: current,
		TotalPages:  totalPages,
		PageSize:    pageSize,
		Total:       total,
		Start:       start,
		End:         end,
		Items:       Plan(current, totalPages),
		HasPrev:     current > 1,
		HasNext:     current < totalPages,
	}
}
