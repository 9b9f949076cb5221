// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extractor

import (
	"regexp"
	"strings"
)

// RawMatch is one name occurrence found by the Matcher.
type RawMatch struct {
	Text      string // captured honorific + name words, whitespace untouched
	Offset    int    // byte offset of Text in the scanned input
	Honorific string // label of the table entry that matched
}

// Matcher locates honorific-prefixed Thai names that follow a numbered list
// marker such as "12)" or "๑๒)". Any Unicode decimal digit counts.
type Matcher struct {
	pattern    *regexp.Regexp
	honorifics []*regexp.Regexp
	labels     []string
}

// NewMatcher compiles the matcher for the built-in honorific table.
//
// Go's regexp alternation is leftmost-first, so the first listed honorific
// that can complete a match wins, as opposed to POSIX leftmost-longest.
func NewMatcher() *Matcher {
	alternatives := make([]string, 0, len(honorificTable))
	m := &Matcher{}
	for _, h := range honorificTable {
		alternatives = append(alternatives, h.Pattern)
		m.honorifics = append(m.honorifics, regexp.MustCompile(`^(?:`+h.Pattern+`)`))
		m.labels = append(m.labels, h.Label)
	}

	expr := `\p{Nd}+\)[` + space + `]*((?:` + strings.Join(alternatives, "|") + `)[` + thaiRun + space + `]+[` + thaiRun + `]+)`
	m.pattern = regexp.MustCompile(expr)
	return m
}

// Match returns the captured names in document order. Text without any
// enumeration marker yields no matches.
func (m *Matcher) Match(text string) []string {
	found := m.pattern.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(found))
	for _, f := range found {
		out = append(out, f[1])
	}
	return out
}

// MatchAll is Match with offsets and the matched honorific label.
func (m *Matcher) MatchAll(text string) []RawMatch {
	found := m.pattern.FindAllStringSubmatchIndex(text, -1)
	out := make([]RawMatch, 0, len(found))
	for _, loc := range found {
		captured := text[loc[2]:loc[3]]
		out = append(out, RawMatch{
			Text:      captured,
			Offset:    loc[2],
			Honorific: m.honorificOf(captured),
		})
	}
	return out
}

// honorificOf reports the first table entry that matches at the start of s.
func (m *Matcher) honorificOf(s string) string {
	for i, re := range m.honorifics {
		if re.MatchString(s) {
			return m.labels[i]
		}
	}
	return ""
}
