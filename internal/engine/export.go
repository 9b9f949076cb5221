// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"fmt"
	"strings"

	"thainame-scan/internal/aggregate"
)

// ExportOrder selects which list an export writes.
type ExportOrder string

const (
	// OrderAggregated exports every entry in key order, ignoring the view.
	OrderAggregated ExportOrder = "aggregated"
	// OrderView exports the filtered and sorted view.
	OrderView ExportOrder = "view"
)

// ParseExportOrder accepts "aggregated" or "view"; empty means aggregated.
func ParseExportOrder(s string) (ExportOrder, error) {
	switch ExportOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", OrderAggregated:
		return OrderAggregated, nil
	case OrderView:
		return OrderView, nil
	default:
		return "", fmt.Errorf("unknown export order %q (want %q or %q)", s, OrderAggregated, OrderView)
	}
}

// ExportEntries returns the list to export for order.
func (s State) ExportEntries(order ExportOrder) []aggregate.NameEntry {
	if order == OrderView {
		return s.Visible()
	}
	return s.Entries()
}
