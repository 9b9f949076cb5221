// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package docreader

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
)

var (
	errIsDirectory      = errors.New("path is a directory")
	errNoDocumentPart   = errors.New("word/document.xml not found in the archive")
	docxCellBoundary    = regexp.MustCompile(`</w:tc>\s*<w:tc[^>]*>`)
	docxCellTag         = regexp.MustCompile(`<w:tc[^>]*>|</w:tc>`)
	docxParagraphTag    = regexp.MustCompile(`<w:p(?:\s[^>]*)?/?>|</w:p>|<w:br(?:\s[^>]*)?/?>|<w:cr/>`)
	docxTabTag          = regexp.MustCompile(`<w:tab[^>]*/?>`)
	xmlTag              = regexp.MustCompile(`<[^>]*>`)
	repeatedSpaces      = regexp.MustCompile(`[ ]+`)
	spaceAroundNewlines = regexp.MustCompile(`[ ]*\n[ ]*`)
	excessNewlines      = regexp.MustCompile(`\n{3,}`)
	xmlEntities         = strings.NewReplacer(
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", "\"",
		"&apos;", "'",
		"&#160;", " ",
		"&amp;", "&",
	)
)

// readDocx extracts paragraph text from a Word document, one paragraph per
// line, followed by header and footer parts.
func readDocx(path string) (*Document, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		if errors.Is(err, zip.ErrFormat) || errors.Is(err, zip.ErrAlgorithm) || errors.Is(err, zip.ErrChecksum) {
			return nil, newReadError(path, ".docx", ErrorTypeFormatCorrupted, err)
		}
		if _, statErr := os.Stat(path); statErr != nil || errors.Is(err, os.ErrPermission) {
			return nil, newReadError(path, ".docx", ErrorTypeFileAccess, err)
		}
		return nil, newReadError(path, ".docx", ErrorTypeFormatCorrupted, err)
	}
	defer reader.Close()

	var documentFile *zip.File
	var headerFiles, footerFiles []*zip.File
	for _, file := range reader.File {
		switch {
		case file.Name == "word/document.xml":
			documentFile = file
		case strings.HasPrefix(file.Name, "word/header") && strings.HasSuffix(file.Name, ".xml"):
			headerFiles = append(headerFiles, file)
		case strings.HasPrefix(file.Name, "word/footer") && strings.HasSuffix(file.Name, ".xml"):
			footerFiles = append(footerFiles, file)
		}
	}
	if documentFile == nil {
		return nil, newReadError(path, ".docx", ErrorTypeFormatCorrupted, errNoDocumentPart)
	}
	sortZipFiles(headerFiles)
	sortZipFiles(footerFiles)

	body, err := wordPartText(documentFile)
	if err != nil {
		return nil, newReadError(path, ".docx", ErrorTypeFormatCorrupted, err)
	}

	var allText strings.Builder
	allText.WriteString(body)
	for _, part := range append(headerFiles, footerFiles...) {
		text, err := wordPartText(part)
		if err == nil && text != "" {
			allText.WriteString("\n")
			allText.WriteString(text)
		}
	}

	return &Document{
		Path:   path,
		Format: "Word Document",
		Text:   allText.String(),
	}, nil
}

// wordPartText flattens one WordprocessingML part to text. Table cells become
// tabs, paragraphs and breaks become newlines.
func wordPartText(file *zip.File) (string, error) {
	rc, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", file.Name, err)
	}
	raw, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", file.Name, err)
	}
	return flattenWordXML(string(raw)), nil
}

func flattenWordXML(xml string) string {
	xml = docxCellBoundary.ReplaceAllString(xml, "\t")
	xml = docxCellTag.ReplaceAllString(xml, "")
	xml = docxParagraphTag.ReplaceAllString(xml, "\n")
	xml = docxTabTag.ReplaceAllString(xml, "\t")
	xml = xmlTag.ReplaceAllString(xml, "")
	xml = xmlEntities.Replace(xml)
	xml = strings.ReplaceAll(xml, "\u00a0", " ")
	xml = repeatedSpaces.ReplaceAllString(xml, " ")
	xml = spaceAroundNewlines.ReplaceAllString(xml, "\n")
	xml = excessNewlines.ReplaceAllString(xml, "\n\n")
	return strings.TrimSpace(xml)
}

func sortZipFiles(files []*zip.File) {
	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
}
