// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package formatters

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"thainame-scan/internal/aggregate"
	"thainame-scan/internal/view"
)

// Default header labels and sheet title of an exported name table
const (
	DefaultNameHeader  = "ชื่อ"
	DefaultCountHeader = "จำนวน"
	DefaultSheetName   = "Name List"
)

// ErrNothingToExport is returned when the list to export is empty.
var ErrNothingToExport = errors.New("no data to export")

// FormatterOptions defines configuration options for formatters
type FormatterOptions struct {
	NameHeader  string     // Label of the name column
	CountHeader string     // Label of the count column
	SheetName   string     // Worksheet title for spreadsheet formats
	Source      string     // Document the names came from, if known
	NoColor     bool       // Whether to disable colored output
	View        view.State // Sort indicators for table output
}

// withDefaults fills empty labels
func (o FormatterOptions) withDefaults() FormatterOptions {
	if o.NameHeader == "" {
		o.NameHeader = DefaultNameHeader
	}
	if o.CountHeader == "" {
		o.CountHeader = DefaultCountHeader
	}
	if o.SheetName == "" {
		o.SheetName = DefaultSheetName
	}
	return o
}

// Formatter interface defines methods that all output formatters must implement
type Formatter interface {
	// Format renders the entries in the order given
	Format(entries []aggregate.NameEntry, options FormatterOptions) ([]byte, error)

	// Name returns the name of the formatter (e.g., "xlsx", "csv", "json")
	Name() string

	// Description returns a brief description of what this formatter outputs
	Description() string

	// FileExtension returns the recommended file extension for this format (e.g., ".xlsx")
	FileExtension() string
}

// Registry holds all registered formatters
type Registry struct {
	formatters map[string]Formatter
}

// NewRegistry creates a new formatter registry
func NewRegistry() *Registry {
	return &Registry{
		formatters: make(map[string]Formatter),
	}
}

// Register adds a formatter to the registry
func (r *Registry) Register(formatter Formatter) {
	r.formatters[formatter.Name()] = formatter
}

// Get retrieves a formatter by name
func (r *Registry) Get(name string) (Formatter, bool) {
	formatter, exists := r.formatters[name]
	return formatter, exists
}

// List returns all registered formatter names, sorted
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the global formatter registry
var DefaultRegistry = NewRegistry()

// Register is a convenience function to register a formatter with the default registry
func Register(formatter Formatter) {
	DefaultRegistry.Register(formatter)
}

// Get is a convenience function to get a formatter from the default registry
func Get(name string) (Formatter, bool) {
	return DefaultRegistry.Get(name)
}

// List is a convenience function to list all formatters in the default registry
func List() []string {
	return DefaultRegistry.List()
}

// Render formats entries with the named formatter
func Render(format string, entries []aggregate.NameEntry, options FormatterOptions) ([]byte, error) {
	formatter, exists := Get(format)
	if !exists {
		return nil, fmt.Errorf("unsupported format '%s'. Available formats: %s", format, strings.Join(List(), ", "))
	}
	return formatter.Format(entries, options.withDefaults())
}

// ExportError reports a failed export. The in-memory list is never touched
// by an export, so the caller can retry with another destination.
type ExportError struct {
	Path   string
	Format string
	Cause  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export to %s (%s) failed: %v", e.Path, e.Format, e.Cause)
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}

// exportFileMode is the permission of exported files; os.CreateTemp alone
// would leave them owner-only.
const exportFileMode = 0644

// Export renders entries and writes them to dest. The file is written to a
// temporary sibling and renamed into place, so a failed export never leaves a
// partial file behind. Files never carry terminal color codes.
func Export(format string, entries []aggregate.NameEntry, dest string, options FormatterOptions) error {
	if len(entries) == 0 {
		return ErrNothingToExport
	}
	options.NoColor = true

	data, err := Render(format, entries, options)
	if err != nil {
		return &ExportError{Path: dest, Format: format, Cause: err}
	}

	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, ".export-*"+filepath.Ext(dest))
	if err != nil {
		return &ExportError{Path: dest, Format: format, Cause: err}
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &ExportError{Path: dest, Format: format, Cause: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &ExportError{Path: dest, Format: format, Cause: err}
	}
	if err := os.Chmod(tmpPath, exportFileMode); err != nil {
		os.Remove(tmpPath)
		return &ExportError{Path: dest, Format: format, Cause: err}
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return &ExportError{Path: dest, Format: format, Cause: err}
	}
	return nil
}

// DefaultFileName returns the suggested export file name for a timestamp,
// e.g. name_list_20240131_154500.xlsx.
func DefaultFileName(now time.Time, extension string) string {
	return "name_list_" + now.Format("20060102_150405") + extension
}

// FormatForPath picks a registered format from the destination's extension
func FormatForPath(path string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, name := range List() {
		formatter, _ := Get(name)
		if formatter.FileExtension() == ext {
			return name, true
		}
	}
	return "", false
}

// ExportDocument is the structure shared by the JSON and YAML formatters
type ExportDocument struct {
	Source string                `json:"source,omitempty" yaml:"source,omitempty"`
	Total  int                   `json:"total" yaml:"total"`
	Names  []aggregate.NameEntry `json:"names" yaml:"names"`
}

// NewExportDocument builds the JSON/YAML document for entries
func NewExportDocument(entries []aggregate.NameEntry, options FormatterOptions) ExportDocument {
	doc := ExportDocument{
		Source: options.Source,
		Names:  make([]aggregate.NameEntry, len(entries)),
	}
	copy(doc.Names, entries)
	for _, e := range entries {
		doc.Total += e.Count
	}
	return doc
}

// FormatInfo describes how a format is served over HTTP
type FormatInfo struct {
	Name      string
	Extension string
	MimeType  string
}

var mimeTypes = map[string]string{
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".csv":  "text/csv; charset=utf-8",
	".json": "application/json",
	".yaml": "application/x-yaml",
	".txt":  "text/plain; charset=utf-8",
}

// GetFormatInfo returns extension and MIME type of a registered format
func GetFormatInfo(format string) FormatInfo {
	info := FormatInfo{Name: format, Extension: ".txt", MimeType: "application/octet-stream"}
	if formatter, ok := Get(format); ok {
		info.Extension = formatter.FileExtension()
	}
	if mime, ok := mimeTypes[info.Extension]; ok {
		info.MimeType = mime
	}
	return info
}
