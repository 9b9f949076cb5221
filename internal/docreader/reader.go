// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package docreader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"thainame-scan/internal/observability"

	"golang.org/x/text/unicode/norm"
)

// Document is the plain text of one input file.
type Document struct {
	Path      string
	Format    string
	Text      string
	PageCount int
	// PagesRead counts the PDF pages that contributed text.
	PagesRead int
	// Truncated is set when a page limit stopped reading early.
	Truncated bool
	// SkippedPages lists pages, 1-based, whose content could not be decoded.
	SkippedPages []int
}

// Notices describes anything that kept Text from being the whole document.
// Counts drawn from an incomplete text are low, so callers surface these.
func (d *Document) Notices() []string {
	var notices []string
	if d.Truncated {
		attempted := d.PagesRead + len(d.SkippedPages)
		notices = append(notices, fmt.Sprintf("only the first %d of %d pages were read", attempted, d.PageCount))
	}
	if len(d.SkippedPages) > 0 {
		notices = append(notices, fmt.Sprintf("%d unreadable page(s) skipped: %s", len(d.SkippedPages), joinInts(d.SkippedPages)))
	}
	return notices
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}

// Options configures a Reader.
type Options struct {
	// MaxPDFPages limits how many PDF pages are read; zero reads every page.
	MaxPDFPages int
	Observer    *observability.StandardObserver
}

// Reader extracts plain text from .docx, .pdf and .txt files.
type Reader struct {
	maxPDFPages int
	observer    *observability.StandardObserver
}

// NewReader creates a Reader. Zero options read whole documents.
func NewReader(opts Options) *Reader {
	if opts.MaxPDFPages < 0 {
		opts.MaxPDFPages = 0
	}
	return &Reader{
		maxPDFPages: opts.MaxPDFPages,
		observer:    opts.Observer,
	}
}

// SupportedExtensions lists the extensions ReadText accepts.
func SupportedExtensions() []string {
	return []string{".docx", ".pdf", ".txt"}
}

// Supported reports whether path has an extension ReadText accepts.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range SupportedExtensions() {
		if ext == s {
			return true
		}
	}
	return false
}

// ReadText returns the full plain text of the document at path. Failures are
// *ReadError values.
func (r *Reader) ReadText(ctx context.Context, path string) (*Document, error) {
	finish := r.observer.StartTiming("docreader", "read_text", path)

	doc, err := r.readText(ctx, path)
	if err != nil {
		finish(false, map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	// PDF and DOCX producers disagree on composed forms.
	doc.Text = norm.NFC.String(doc.Text)
	finish(true, map[string]interface{}{
		"format":         doc.Format,
		"page_count":     doc.PageCount,
		"pages_read":     doc.PagesRead,
		"truncated":      doc.Truncated,
		"content_length": len(doc.Text),
	})
	return doc, nil
}

func (r *Reader) readText(ctx context.Context, path string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, newReadError(path, "", ErrorTypeCancelled, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !Supported(path) {
		return nil, newReadError(path, ext, ErrorTypeUnsupportedFormat, nil)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, newReadError(path, ext, ErrorTypeFileAccess, err)
	}
	if info.IsDir() {
		return nil, newReadError(path, ext, ErrorTypeFileAccess, errIsDirectory)
	}

	switch ext {
	case ".docx":
		return readDocx(path)
	case ".pdf":
		return r.readPDF(ctx, path)
	default:
		return readPlainText(path)
	}
}
