// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package view

import (
	"fmt"
	"sort"
	"strings"

	"thainame-scan/internal/aggregate"

	"golang.org/x/text/cases"
)

// Column identifies a sortable column of the name list.
type Column string

const (
	ColumnName  Column = "name"
	ColumnCount Column = "count"
)

// ParseColumn accepts "name" or "count" in any letter case.
func ParseColumn(s string) (Column, error) {
	switch Column(strings.ToLower(strings.TrimSpace(s))) {
	case ColumnName:
		return ColumnName, nil
	case ColumnCount:
		return ColumnCount, nil
	default:
		return "", fmt.Errorf("unknown sort column %q (want name or count)", s)
	}
}

// State is the presentation state over an aggregated list. It is a value:
// every transition returns a new State.
//
// NameDesc and CountDesc hold the direction the next sort request on that
// column applies. Count starts descending so the first request shows the most
// frequent names first.
type State struct {
	Search    string
	Sorted    bool   // a sort has been applied since the last search change
	Column    Column // last sorted column, meaningful when Sorted
	Desc      bool   // direction applied by the last sort, meaningful when Sorted
	NameDesc  bool
	CountDesc bool
}

// NewState returns the initial view state.
func NewState() State {
	return State{NameDesc: false, CountDesc: true}
}

// Arrow returns the header indicator for col: an arrow on the sorted column,
// a double arrow elsewhere.
func (s State) Arrow(col Column) string {
	if !s.Sorted || s.Column != col {
		return "↕"
	}
	if s.Desc {
		return "↓"
	}
	return "↑"
}

// Filter returns the entries whose name contains term under Unicode case
// folding, in their original order. An empty term keeps every entry.
func Filter(entries []aggregate.NameEntry, term string) []aggregate.NameEntry {
	out := make([]aggregate.NameEntry, 0, len(entries))
	if term == "" {
		return append(out, entries...)
	}
	// A Caser carries transform state, so each call gets its own.
	folder := cases.Fold()
	needle := folder.String(term)
	for _, e := range entries {
		if strings.Contains(folder.String(e.Name), needle) {
			out = append(out, e)
		}
	}
	return out
}

// SortEntries sorts a copy of entries by col. Count ties fall back to name
// ascending so the result is deterministic.
func SortEntries(entries []aggregate.NameEntry, col Column, desc bool) []aggregate.NameEntry {
	out := make([]aggregate.NameEntry, len(entries))
	copy(out, entries)
	switch col {
	case ColumnCount:
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].Count != out[j].Count {
				if desc {
					return out[i].Count > out[j].Count
				}
				return out[i].Count < out[j].Count
			}
			return out[i].Name < out[j].Name
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			if desc {
				return out[i].Name > out[j].Name
			}
			return out[i].Name < out[j].Name
		})
	}
	return out
}

// SetSearch records a new search term. Sort toggles are left alone; the
// filtered list comes back in aggregated order.
func (s State) SetSearch(term string) State {
	s.Search = term
	s.Sorted = false
	return s
}

// RequestSort applies the stored direction of col and flips it for the next
// request. The other column keeps its stored direction.
func (s State) RequestSort(col Column) State {
	s.Sorted = true
	s.Column = col
	switch col {
	case ColumnCount:
		s.Desc = s.CountDesc
		s.CountDesc = !s.CountDesc
	default:
		s.Column = ColumnName
		s.Desc = s.NameDesc
		s.NameDesc = !s.NameDesc
	}
	return s
}

// Apply derives the visible list from the aggregated entries.
func (s State) Apply(entries []aggregate.NameEntry) []aggregate.NameEntry {
	visible := Filter(entries, s.Search)
	if !s.Sorted {
		return visible
	}
	return SortEntries(visible, s.Column, s.Desc)
}
