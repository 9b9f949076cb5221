// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package formatters_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"thainame-scan/internal/aggregate"
	"thainame-scan/internal/formatters"
	_ "thainame-scan/internal/formatters/csv"
	_ "thainame-scan/internal/formatters/json"
	_ "thainame-scan/internal/formatters/text"
	_ "thainame-scan/internal/formatters/xlsx"
	_ "thainame-scan/internal/formatters/yaml"
	"thainame-scan/internal/view"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var entries = []aggregate.NameEntry{
	{Name: "นาง สมหญิง", Count: 1},
	{Name: "นาย สมชาย", Count: 2},
}

func TestRegistry_ListsAllFormats(t *testing.T) {
	assert.Equal(t, []string{"csv", "json", "text", "xlsx", "yaml"}, formatters.List())
}

func TestExport_XLSX(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "names.xlsx")
	require.NoError(t, formatters.Export("xlsx", entries, dest, formatters.FormatterOptions{}))

	book, err := excelize.OpenFile(dest)
	require.NoError(t, err)
	defer book.Close()

	assert.Equal(t, []string{formatters.DefaultSheetName}, book.GetSheetList())
	rows, err := book.GetRows(formatters.DefaultSheetName)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"ชื่อ", "จำนวน"},
		{"นาง สมหญิง", "1"},
		{"นาย สมชาย", "2"},
	}, rows)
}

func TestExport_XLSXCustomLabels(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "names.xlsx")
	opts := formatters.FormatterOptions{NameHeader: "Name", CountHeader: "Count", SheetName: "Names"}
	require.NoError(t, formatters.Export("xlsx", entries, dest, opts))

	book, err := excelize.OpenFile(dest)
	require.NoError(t, err)
	defer book.Close()
	rows, err := book.GetRows("Names")
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Count"}, rows[0])
}

func TestExport_PreservesGivenOrder(t *testing.T) {
	reversed := []aggregate.NameEntry{entries[1], entries[0]}
	dest := filepath.Join(t.TempDir(), "names.csv")
	require.NoError(t, formatters.Export("csv", reversed, dest, formatters.FormatterOptions{}))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimPrefix(string(data), "\ufeff"), "\r\n")
	assert.Equal(t, []string{"ชื่อ,จำนวน", "นาย สมชาย,2", "นาง สมหญิง,1", ""}, lines)
}

func TestExport_NothingToExport(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "names.xlsx")
	err := formatters.Export("xlsx", nil, dest, formatters.FormatterOptions{})
	assert.ErrorIs(t, err, formatters.ErrNothingToExport)
	assert.NoFileExists(t, dest)
}

func TestExport_WriteFailureLeavesEntriesAndNoFile(t *testing.T) {
	snapshot := append([]aggregate.NameEntry(nil), entries...)
	dest := filepath.Join(t.TempDir(), "missing", "dir", "names.xlsx")

	err := formatters.Export("xlsx", entries, dest, formatters.FormatterOptions{})
	require.Error(t, err)

	var exportErr *formatters.ExportError
	require.True(t, errors.As(err, &exportErr))
	assert.Equal(t, dest, exportErr.Path)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NoFileExists(t, dest)
	assert.Equal(t, snapshot, entries)
}

func TestExport_NoTempFilesLeftBehind(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, formatters.Export("json", entries, filepath.Join(dir, "names.json"), formatters.FormatterOptions{}))
	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "names.json", files[0].Name())
}

// forceColor turns terminal colors on for the test, as on an interactive stdout.
func forceColor(t *testing.T) {
	t.Helper()
	saved := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = saved })
}

func TestExport_TextFileHasNoColorCodes(t *testing.T) {
	forceColor(t)
	dest := filepath.Join(t.TempDir(), "names.txt")
	require.NoError(t, formatters.Export("text", entries, dest, formatters.FormatterOptions{NoColor: false}))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "\x1b[")
	assert.Contains(t, string(data), "นาย สมชาย")
}

func TestExport_FileIsWorldReadable(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "names.xlsx")
	require.NoError(t, formatters.Export("xlsx", entries, dest, formatters.FormatterOptions{}))

	info, err := os.Stat(dest)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())
}

func TestRender_TextColorIsPerCall(t *testing.T) {
	forceColor(t)

	plain, err := formatters.Render("text", entries, formatters.FormatterOptions{NoColor: true})
	require.NoError(t, err)
	assert.NotContains(t, string(plain), "\x1b[")
	assert.False(t, color.NoColor, "rendering without color must not touch the global switch")

	colored, err := formatters.Render("text", entries, formatters.FormatterOptions{})
	require.NoError(t, err)
	assert.Contains(t, string(colored), "\x1b[")
}

func TestRender_UnknownFormat(t *testing.T) {
	_, err := formatters.Render("pdf", entries, formatters.FormatterOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Available formats")
}

func TestRender_JSON(t *testing.T) {
	data, err := formatters.Render("json", entries, formatters.FormatterOptions{Source: "list.docx"})
	require.NoError(t, err)

	var doc formatters.ExportDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "list.docx", doc.Source)
	assert.Equal(t, 3, doc.Total)
	assert.Equal(t, entries, doc.Names)
}

func TestRender_YAML(t *testing.T) {
	data, err := formatters.Render("yaml", entries, formatters.FormatterOptions{})
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "total: 3")
	assert.Contains(t, out, "name: นาย สมชาย")
	assert.Contains(t, out, "count: 2")
}

func TestRender_CSVFormulaInjection(t *testing.T) {
	data, err := formatters.Render("csv", []aggregate.NameEntry{{Name: "=HYPERLINK(\"x\")", Count: 1}}, formatters.FormatterOptions{})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"'=HYPERLINK(""x"")",1`)
}

func TestRender_TextShowsSortIndicators(t *testing.T) {
	st := view.NewState().RequestSort(view.ColumnCount)
	data, err := formatters.Render("text", entries, formatters.FormatterOptions{NoColor: true, View: st})
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "ชื่อ ↕")
	assert.Contains(t, out, "จำนวน ↓")
	assert.Contains(t, out, "2 names, 3 occurrences")
}

func TestRender_TextEmpty(t *testing.T) {
	data, err := formatters.Render("text", nil, formatters.FormatterOptions{NoColor: true})
	require.NoError(t, err)
	assert.Equal(t, "No names found.\n", string(data))
}

func TestDefaultFileName(t *testing.T) {
	ts := time.Date(2024, 1, 31, 15, 45, 0, 0, time.UTC)
	assert.Equal(t, "name_list_20240131_154500.xlsx", formatters.DefaultFileName(ts, ".xlsx"))
}

func TestFormatForPath(t *testing.T) {
	f, ok := formatters.FormatForPath("/tmp/out.XLSX")
	assert.True(t, ok)
	assert.Equal(t, "xlsx", f)

	_, ok = formatters.FormatForPath("out.doc")
	assert.False(t, ok)
}

func TestGetFormatInfo(t *testing.T) {
	info := formatters.GetFormatInfo("xlsx")
	assert.Equal(t, ".xlsx", info.Extension)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", info.MimeType)

	assert.Equal(t, ".txt", formatters.GetFormatInfo("text").Extension)
	assert.Equal(t, "application/octet-stream", formatters.GetFormatInfo("docx").MimeType)
}
