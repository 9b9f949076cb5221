// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package docreader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	// pdfcpu otherwise creates a config directory under the user's home.
	api.DisableConfigDir()
}

// readPDF validates the file structure with pdfcpu, then extracts page text
// row by row with ledongthuc/pdf. Pages are joined with newlines.
func (r *Reader) readPDF(ctx context.Context, path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newReadError(path, ".pdf", ErrorTypeFileAccess, err)
	}
	f.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.ValidateFile(path, conf); err != nil {
		return nil, newReadError(path, ".pdf", ErrorTypeFormatCorrupted, err)
	}

	file, reader, err := openPDF(path)
	if err != nil {
		return nil, newReadError(path, ".pdf", ErrorTypeFormatCorrupted, err)
	}
	defer file.Close()

	doc := &Document{
		Path:      path,
		Format:    "PDF Document",
		PageCount: reader.NumPage(),
	}
	pages := doc.PageCount
	if r.maxPDFPages > 0 && pages > r.maxPDFPages {
		pages = r.maxPDFPages
		doc.Truncated = true
	}

	var buf bytes.Buffer
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, newReadError(path, ".pdf", ErrorTypeCancelled, err)
		}
		p := reader.Page(i)
		if p.V.IsNull() {
			doc.SkippedPages = append(doc.SkippedPages, i)
			continue
		}
		text, err := pageText(p)
		if err != nil {
			// One unreadable page should not discard the rest of the list.
			doc.SkippedPages = append(doc.SkippedPages, i)
			continue
		}
		doc.PagesRead++
		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(text)
	}

	doc.Text = buf.String()
	return doc, nil
}

// openPDF guards against panics inside the PDF parser on malformed input.
func openPDF(path string) (f *os.File, r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if f != nil {
				f.Close()
			}
			f, r, err = nil, nil, fmt.Errorf("pdf parser panic: %v", rec)
		}
	}()
	return pdf.Open(path)
}

// pageText extracts a page using row positions so words keep their spacing,
// falling back to plain text extraction.
func pageText(p pdf.Page) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", errors.New("page content could not be decoded")
		}
	}()

	rows, err := p.GetTextByRow()
	if err != nil {
		return p.GetPlainText(nil)
	}

	sorted := make([]*pdf.Row, 0, len(rows))
	for _, row := range rows {
		if row != nil && len(row.Content) > 0 {
			sorted = append(sorted, row)
		}
	}
	// PDF Y grows upwards; the top row has the largest Y.
	sort.SliceStable(sorted, func(i, j int) bool {
		return averageY(sorted[i].Content) > averageY(sorted[j].Content)
	})

	var buf bytes.Buffer
	for _, row := range sorted {
		line := reconstructRowText(row.Content)
		if strings.TrimSpace(line) != "" {
			buf.WriteString(line)
			buf.WriteString("\n")
		}
	}
	return buf.String(), nil
}

func averageY(elements []pdf.Text) float64 {
	if len(elements) == 0 {
		return 0
	}
	var total float64
	for _, e := range elements {
		total += e.Y
	}
	return total / float64(len(elements))
}

// reconstructRowText joins the text elements of a row left to right and
// inserts a space where the horizontal gap exceeds a fifth of the font size.
func reconstructRowText(elements []pdf.Text) string {
	if len(elements) == 0 {
		return ""
	}

	sorted := make([]pdf.Text, len(elements))
	copy(sorted, elements)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].X < sorted[j].X
	})

	var buf bytes.Buffer
	for i, e := range sorted {
		buf.WriteString(e.S)
		if i == len(sorted)-1 {
			break
		}
		fontSize := e.FontSize
		if fontSize <= 0 {
			fontSize = 12
		}
		gap := sorted[i+1].X - (e.X + e.W)
		if gap > fontSize*0.2 {
			buf.WriteString(" ")
		}
	}
	return buf.String()
}
