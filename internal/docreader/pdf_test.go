// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package docreader

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// textRun is one string drawn at an absolute position on a page.
type textRun struct {
	X, Y float64
	S    string
}

// thaiCMap maps single-byte codes to Unicode: printable ASCII to itself and
// 0xA1-0xFB onto the Thai block U+0E01-U+0E5B.
const thaiCMap = `1 begincodespacerange
<00> <FF>
endcodespacerange
2 beginbfrange
<20> <7E> <0020>
<A1> <FB> <0E01>
endbfrange
`

// encodeRun encodes s with the byte codes of thaiCMap as a hex string operand.
func encodeRun(t *testing.T, s string) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("<")
	for _, r := range s {
		switch {
		case r >= 0x20 && r <= 0x7E:
			fmt.Fprintf(&b, "%02X", r)
		case r >= 0x0E01 && r <= 0x0E5B:
			fmt.Fprintf(&b, "%02X", 0xA0+(r-0x0E00))
		default:
			t.Fatalf("rune %q has no code in the test font", r)
		}
	}
	b.WriteString(">")
	return b.String()
}

// writePDF builds a minimal PDF with one page per element of pages. Runs are
// emitted in the order given, so tests can draw rows out of reading order.
func writePDF(t *testing.T, pages [][]textRun) string {
	t.Helper()

	var objects []string
	add := func(body string) int {
		objects = append(objects, body)
		return len(objects)
	}
	stream := func(content string) string {
		return fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content)
	}

	catalog := add("<< /Type /Catalog /Pages 2 0 R >>")
	pagesObj := add("") // filled once the kids are known
	cmap := add(stream(thaiCMap))
	font := add(fmt.Sprintf("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /ToUnicode %d 0 R >>", cmap))

	var kids []string
	for _, runs := range pages {
		var content strings.Builder
		for _, run := range runs {
			fmt.Fprintf(&content, "BT /F1 12 Tf 1 0 0 1 %.0f %.0f Tm %s Tj ET\n", run.X, run.Y, encodeRun(t, run.S))
		}
		contents := add(stream(content.String()))
		page := add(fmt.Sprintf("<< /Type /Page /Parent %d 0 R /MediaBox [0 0 595 842] "+
			"/Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>", pagesObj, font, contents))
		kids = append(kids, fmt.Sprintf("%d 0 R", page))
	}
	objects[pagesObj-1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(kids))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root %d 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, catalog, xref)

	path := filepath.Join(t.TempDir(), "list.pdf")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0600))
	return path
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func TestReadText_PDFReadingOrder(t *testing.T) {
	// The lower row is drawn first and the first row is split into two runs
	// with a wide gap between them.
	path := writePDF(t, [][]textRun{{
		{X: 72, Y: 680, S: "2) นาง สมหญิง รักไทย"},
		{X: 200, Y: 700, S: "ใจดี"},
		{X: 72, Y: 700, S: "1) นาย สมชาย"},
	}})

	doc, err := NewReader(Options{}).ReadText(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "PDF Document", doc.Format)
	assert.Equal(t, 1, doc.PageCount)
	assert.Equal(t, 1, doc.PagesRead)
	assert.False(t, doc.Truncated)
	assert.Empty(t, doc.Notices())
	assert.Equal(t, []string{"1) นาย สมชาย ใจดี", "2) นาง สมหญิง รักไทย"}, nonEmptyLines(doc.Text))
}

func threePagePDF(t *testing.T) string {
	return writePDF(t, [][]textRun{
		{{X: 72, Y: 700, S: "1) นาย สมชาย ใจดี"}},
		{{X: 72, Y: 700, S: "2) นาง สมหญิง รักไทย"}},
		{{X: 72, Y: 700, S: "3) นาย สมศักดิ์ รักดี"}},
	})
}

func TestReadText_PDFReadsEveryPageByDefault(t *testing.T) {
	doc, err := NewReader(Options{}).ReadText(context.Background(), threePagePDF(t))
	require.NoError(t, err)
	assert.Equal(t, 3, doc.PageCount)
	assert.Equal(t, 3, doc.PagesRead)
	assert.False(t, doc.Truncated)
	assert.Equal(t, []string{
		"1) นาย สมชาย ใจดี",
		"2) นาง สมหญิง รักไทย",
		"3) นาย สมศักดิ์ รักดี",
	}, nonEmptyLines(doc.Text))
}

func TestReadText_PDFPageLimit(t *testing.T) {
	doc, err := NewReader(Options{MaxPDFPages: 2}).ReadText(context.Background(), threePagePDF(t))
	require.NoError(t, err)
	assert.Equal(t, 3, doc.PageCount)
	assert.Equal(t, 2, doc.PagesRead)
	assert.True(t, doc.Truncated)
	assert.NotContains(t, doc.Text, "สมศักดิ์")
	assert.Equal(t, []string{"only the first 2 of 3 pages were read"}, doc.Notices())
}

func TestReconstructRowText_GapSpacing(t *testing.T) {
	row := []pdf.Text{
		{S: "ใจดี", X: 160, W: 30, FontSize: 10},
		{S: "นาย", X: 100, W: 20, FontSize: 10},
		{S: "สม", X: 121, W: 15, FontSize: 10}, // 1pt gap: same word
		{S: "ชาย", X: 136, W: 20, FontSize: 10},
	}
	assert.Equal(t, "นายสมชาย ใจดี", reconstructRowText(row))
	assert.Empty(t, reconstructRowText(nil))
}

func TestDocumentNotices(t *testing.T) {
	doc := &Document{PageCount: 10, PagesRead: 6, Truncated: true, SkippedPages: []int{3, 7}}
	assert.Equal(t, []string{
		"only the first 8 of 10 pages were read",
		"2 unreadable page(s) skipped: 3, 7",
	}, doc.Notices())

	assert.Empty(t, (&Document{PageCount: 2, PagesRead: 2}).Notices())
}
