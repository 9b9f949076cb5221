// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"strings"

	"thainame-scan/internal/aggregate"
	"thainame-scan/internal/formatters"
	"thainame-scan/internal/view"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

// Formatter implements text-based output formatting
type Formatter struct {
	styles map[string][]color.Attribute
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		styles: map[string][]color.Attribute{
			"header": {color.FgWhite, color.Bold},
			"name":   {color.FgCyan},
			"count":  {color.FgYellow},
			"total":  {color.FgGreen},
		},
	}
}

// palette builds the colors for one Format call. The registered formatter is
// shared, so color state stays local to the call instead of the package-level
// color.NoColor switch.
func (f *Formatter) palette(noColor bool) map[string]*color.Color {
	colors := make(map[string]*color.Color, len(f.styles))
	for name, attrs := range f.styles {
		c := color.New(attrs...)
		if noColor {
			c.DisableColor()
		}
		colors[name] = c
	}
	return colors
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable table with sort indicators"
}

func (f *Formatter) FileExtension() string {
	return ".txt"
}

func (f *Formatter) Format(entries []aggregate.NameEntry, options formatters.FormatterOptions) ([]byte, error) {
	if len(entries) == 0 {
		return []byte("No names found.\n"), nil
	}
	colors := f.palette(options.NoColor)

	nameHeader := options.NameHeader + " " + options.View.Arrow(view.ColumnName)
	countHeader := options.CountHeader + " " + options.View.Arrow(view.ColumnCount)

	// Display width, not byte or rune length: Thai vowel and tone marks
	// occupy no column of their own.
	nameWidth := runewidth.StringWidth(nameHeader)
	total := 0
	for _, e := range entries {
		if w := runewidth.StringWidth(e.Name); w > nameWidth {
			nameWidth = w
		}
		total += e.Count
	}
	countWidth := runewidth.StringWidth(countHeader)
	if w := len(fmt.Sprint(total)); w > countWidth {
		countWidth = w
	}

	var builder strings.Builder
	if options.Source != "" {
		fmt.Fprintf(&builder, "%s\n\n", options.Source)
	}
	builder.WriteString(colors["header"].Sprint(pad(nameHeader, nameWidth)))
	builder.WriteString("  ")
	builder.WriteString(colors["header"].Sprint(countHeader))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", nameWidth+2+countWidth))
	builder.WriteString("\n")

	for _, e := range entries {
		builder.WriteString(colors["name"].Sprint(pad(e.Name, nameWidth)))
		builder.WriteString("  ")
		builder.WriteString(colors["count"].Sprintf("%*d", countWidth, e.Count))
		builder.WriteString("\n")
	}

	builder.WriteString(strings.Repeat("-", nameWidth+2+countWidth))
	builder.WriteString("\n")
	builder.WriteString(colors["total"].Sprintf("%d names, %d occurrences", len(entries), total))
	builder.WriteString("\n")
	return []byte(builder.String()), nil
}

// pad right-fills s with spaces up to width display columns
func pad(s string, width int) string {
	if gap := width - runewidth.StringWidth(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
