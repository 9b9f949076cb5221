// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleList = "1) นาย สมชาย ใจดี\n2) นาง  สมหญิง   รักไทย\n3) นาย สมชาย ใจบุญ"

func TestMatcher_NumberedList(t *testing.T) {
	m := NewMatcher()
	got := m.Match(sampleList)
	assert.Equal(t, []string{"นาย สมชาย ใจดี", "นาง  สมหญิง   รักไทย", "นาย สมชาย ใจบุญ"}, got)
}

func TestMatcher_RequiresEnumerationMarker(t *testing.T) {
	m := NewMatcher()
	cases := []struct {
		name string
		text string
	}{
		{"no marker", "นาย สมชาย ใจดี"},
		{"marker without paren", "1. นาย สมชาย ใจดี"},
		{"unknown honorific", "1) ดร. สมชาย ใจดี"},
		{"latin text", "1) Mr. John Smith"},
		{"empty", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Empty(t, m.Match(tc.text))
		})
	}
}

func TestMatcher_MarkerVariants(t *testing.T) {
	m := NewMatcher()
	assert.Equal(t, []string{"นาย สมชาย"}, m.Match("5)นาย สมชาย"))
	assert.Equal(t, []string{"นาง สมศรี มีสุข"}, m.Match("รายชื่อ 12)   นาง สมศรี มีสุข (ผู้แทน)"))
}

func TestMatcher_ThaiDigitMarkers(t *testing.T) {
	m := NewMatcher()
	got := m.Match("๑) นาย สมชาย ใจดี\n๒) นาง สมหญิง รักไทย\n๑๐)นาย สมศักดิ์ รักดี")
	assert.Equal(t, []string{"นาย สมชาย ใจดี", "นาง สมหญิง รักไทย", "นาย สมศักดิ์ รักดี"}, got)
}

func TestMatcher_NoBreakSpaceSeparators(t *testing.T) {
	m := NewMatcher()

	got := m.Match("1)\u00a0นาย\u00a0สมชาย\u00a0ใจดี")
	require.Equal(t, []string{"นาย\u00a0สมชาย\u00a0ใจดี"}, got)
	assert.Equal(t, "นาย สมชาย", Normalize(got[0]))

	acting := m.MatchAll("2) ว่าที่\u00a0ร้อยตรี สมปอง ดีมาก")
	require.Len(t, acting, 1)
	assert.Equal(t, "ว่าที่", acting[0].Honorific)
	assert.Equal(t, "ว่าที่ ร้อยตรี", Normalize(acting[0].Text))
}

func TestMatcher_FirstListedHonorificWins(t *testing.T) {
	m := NewMatcher()
	got := m.MatchAll("1) นางสาว สมศรี มีสุข")
	require.Len(t, got, 1)
	assert.Equal(t, "นางสาว สมศรี มีสุข", got[0].Text)
	// "นาง" is listed before "นางสาว" and can complete the match.
	assert.Equal(t, "นาง", got[0].Honorific)
	assert.Equal(t, "นางสาว สมศรี", Normalize(got[0].Text))
}

func TestMatcher_ActingRank(t *testing.T) {
	m := NewMatcher()
	got := m.MatchAll("7) ว่าที่ร้อยตรี สมปอง ดีมาก")
	require.Len(t, got, 1)
	assert.Equal(t, "ว่าที่", got[0].Honorific)
	assert.Equal(t, "ว่าที่ร้อยตรี สมปอง", Normalize(got[0].Text))
}

func TestMatcher_MatchAllOffsets(t *testing.T) {
	m := NewMatcher()
	got := m.MatchAll(sampleList)
	require.Len(t, got, 3)
	for _, rm := range got {
		assert.Equal(t, rm.Text, sampleList[rm.Offset:rm.Offset+len(rm.Text)])
	}
	assert.Equal(t, len("1) "), got[0].Offset)
}

func TestMatcher_DoesNotDeduplicate(t *testing.T) {
	m := NewMatcher()
	got := m.Match("1) นาย สมชาย\n2) นาย สมชาย\n")
	assert.Len(t, got, 2)
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"นาย สมชาย ใจดี", "นาย สมชาย"},
		{"นาง  สมหญิง   รักไทย", "นาง สมหญิง"},
		{"  นาย\n\tสมชาย \n ใจดี  ", "นาย สมชาย"},
		{"นาย", "นาย"},
		{"", ""},
		{" \n\t ", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Normalize(tc.raw), "raw %q", tc.raw)
	}
}

func TestNormalize_WhitespaceRunLengthIrrelevant(t *testing.T) {
	a := Normalize("นาย สมชาย ใจดี")
	b := Normalize("นาย     สมชาย\n\n\nใจดี")
	assert.Equal(t, a, b)
}

func TestNormalizeAll_KeepsOrder(t *testing.T) {
	keys := NormalizeAll(NewMatcher().Match(sampleList))
	assert.Equal(t, []string{"นาย สมชาย", "นาง สมหญิง", "นาย สมชาย"}, keys)
}

func TestHonorifics_ReturnsCopy(t *testing.T) {
	h := Honorifics()
	require.NotEmpty(t, h)
	h[0].Label = "changed"
	assert.Equal(t, "นาย", Honorifics()[0].Label)
}
