// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package csv

import (
	"fmt"
	"strings"

	"thainame-scan/internal/aggregate"
	"thainame-scan/internal/formatters"
)

// utf8BOM lets spreadsheet applications detect UTF-8 so Thai text opens intact
const utf8BOM = "\ufeff"

// Formatter implements CSV output formatting
type Formatter struct{}

// NewFormatter creates a new CSV formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "csv"
}

func (f *Formatter) Description() string {
	return "Comma-separated values for spreadsheet import"
}

func (f *Formatter) FileExtension() string {
	return ".csv"
}

func (f *Formatter) Format(entries []aggregate.NameEntry, options formatters.FormatterOptions) ([]byte, error) {
	rows := make([]string, 0, len(entries)+1)
	rows = append(rows, f.escapeCSVField(options.NameHeader)+","+f.escapeCSVField(options.CountHeader))
	for _, e := range entries {
		rows = append(rows, fmt.Sprintf("%s,%d", f.escapeCSVField(e.Name), e.Count))
	}
	return []byte(utf8BOM + strings.Join(rows, "\r\n") + "\r\n"), nil
}

// escapeCSVField properly escapes a field for CSV format and prevents CSV injection
func (f *Formatter) escapeCSVField(field string) string {
	field = f.sanitizeFormulaInjection(field)

	// If field contains comma, quote, or newline, wrap in quotes and escape internal quotes
	if strings.ContainsAny(field, ",\"\n\r") {
		escaped := strings.ReplaceAll(field, "\"", "\"\"")
		return fmt.Sprintf("\"%s\"", escaped)
	}
	return field
}

// sanitizeFormulaInjection prevents CSV injection attacks by sanitizing formula characters
func (f *Formatter) sanitizeFormulaInjection(field string) string {
	if len(field) == 0 {
		return field
	}

	firstChar := field[0]
	if firstChar == '=' || firstChar == '+' || firstChar == '-' || firstChar == '@' {
		// Prefix with single quote to prevent formula execution
		return "'" + field
	}

	return field
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
