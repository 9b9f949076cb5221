// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package aggregate

import "sort"

// NameEntry is one distinct name key with the number of times it occurred.
type NameEntry struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// Result is the aggregated list produced by one extraction pass.
type Result struct {
	// Entries is sorted by Name ascending. Never nil.
	Entries []NameEntry
	// Matches is the number of keys fed to Aggregate, discarded ones included.
	Matches int
	// Discarded counts empty keys, which are not names and are dropped.
	Discarded int
}

// Aggregate counts name keys and returns them sorted by key using Go string
// ordering (code point order for UTF-8). Keys are unique after counting so
// the order is total. Empty keys are discarded and tallied in Discarded.
func Aggregate(keys []string) Result {
	counts := make(map[string]int, len(keys))
	res := Result{Matches: len(keys)}
	for _, k := range keys {
		if k == "" {
			res.Discarded++
			continue
		}
		counts[k]++
	}

	res.Entries = make([]NameEntry, 0, len(counts))
	for name, n := range counts {
		res.Entries = append(res.Entries, NameEntry{Name: name, Count: n})
	}
	sort.Slice(res.Entries, func(i, j int) bool {
		return res.Entries[i].Name < res.Entries[j].Name
	})
	return res
}

// Total returns the sum of all entry counts.
func (r Result) Total() int {
	total := 0
	for _, e := range r.Entries {
		total += e.Count
	}
	return total
}

// Empty reports whether no names were found.
func (r Result) Empty() bool {
	return len(r.Entries) == 0
}

// Clone returns a copy of the entries that callers may modify freely.
func (r Result) Clone() []NameEntry {
	out := make([]NameEntry, len(r.Entries))
	copy(out, r.Entries)
	return out
}
