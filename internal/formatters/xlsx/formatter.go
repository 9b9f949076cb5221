// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package xlsx

import (
	"fmt"

	"thainame-scan/internal/aggregate"
	"thainame-scan/internal/formatters"

	"github.com/xuri/excelize/v2"
)

// defaultSheet is the worksheet every new excelize workbook starts with
const defaultSheet = "Sheet1"

// Formatter writes the name table as an Excel workbook
type Formatter struct{}

// NewFormatter creates a new XLSX formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "xlsx"
}

func (f *Formatter) Description() string {
	return "Excel workbook with a name and a count column"
}

func (f *Formatter) FileExtension() string {
	return ".xlsx"
}

func (f *Formatter) Format(entries []aggregate.NameEntry, options formatters.FormatterOptions) ([]byte, error) {
	book := excelize.NewFile()
	defer book.Close()

	sheet := options.SheetName
	if err := book.SetSheetName(defaultSheet, sheet); err != nil {
		return nil, fmt.Errorf("naming worksheet %q: %w", sheet, err)
	}

	if err := book.SetSheetRow(sheet, "A1", &[]interface{}{options.NameHeader, options.CountHeader}); err != nil {
		return nil, fmt.Errorf("writing header row: %w", err)
	}
	for i, e := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := book.SetSheetRow(sheet, cell, &[]interface{}{e.Name, e.Count}); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	if err := book.SetColWidth(sheet, "A", "A", 40); err != nil {
		return nil, err
	}

	buf, err := book.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encoding workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
