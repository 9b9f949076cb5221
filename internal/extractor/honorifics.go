// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extractor

// Honorific is one recognized name prefix. Pattern is the regular expression
// fragment used inside the matcher alternation; for literal titles it equals
// Label.
type Honorific struct {
	Label   string
	Pattern string
}

// thaiRun matches Thai letters, vowels and tone marks (ก through ์).
const thaiRun = `ก-์`

// space is Unicode whitespace as a character class body. Go's \s alone is
// ASCII-only and would miss the no-break spaces common in Word and PDF output.
const space = `\s\p{Z}`

// honorificTable is tried in order. Order is significant: the matcher accepts
// the first entry that matches at a position, so "นาง" shadows "นางสาว" and the
// open-ended acting-rank entry shadows the two explicit acting ranks after it.
// Normalization splits on whitespace, so the captured text is the same either way.
var honorificTable = []Honorific{
	{Label: "นาย", Pattern: "นาย"},
	{Label: "นาง", Pattern: "นาง"},
	{Label: "นางสาว", Pattern: "นางสาว"},
	{Label: "ว่าที่", Pattern: "ว่าที่[" + thaiRun + space + "]+"},
	{Label: "ว่าที่พันตรี", Pattern: "ว่าที่พันตรี"},
	{Label: "ว่าที่ร้อยตรี", Pattern: "ว่าที่ร้อยตรี"},
}

// Honorifics returns a copy of the honorific table in matching order.
func Honorifics() []Honorific {
	out := make([]Honorific, len(honorificTable))
	copy(out, honorificTable)
	return out
}
