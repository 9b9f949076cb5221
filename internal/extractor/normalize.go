// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extractor

import "strings"

// keyTokens is the number of tokens kept in a name key: honorific + first word.
const keyTokens = 2

// Normalize reduces a raw match to its name key. Whitespace runs, including
// newlines, collapse to one space and only the first two tokens are kept, so
// names sharing honorific and given name merge regardless of family name.
// A match with no tokens normalizes to "".
func Normalize(raw string) string {
	parts := strings.Fields(raw)
	if len(parts) > keyTokens {
		parts = parts[:keyTokens]
	}
	return strings.Join(parts, " ")
}

// NormalizeAll normalizes every raw match, keeping order.
func NormalizeAll(raw []string) []string {
	keys := make([]string, len(raw))
	for i, r := range raw {
		keys[i] = Normalize(r)
	}
	return keys
}
