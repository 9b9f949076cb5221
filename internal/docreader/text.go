// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package docreader

import (
	"errors"
	"os"
	"strings"
	"unicode/utf8"
)

var errInvalidUTF8 = errors.New("file is not valid UTF-8 text")

// readPlainText reads a UTF-8 text file. A leading byte order mark is dropped.
func readPlainText(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newReadError(path, ".txt", ErrorTypeFileAccess, err)
	}
	if !utf8.Valid(data) {
		return nil, newReadError(path, ".txt", ErrorTypeFormatCorrupted, errInvalidUTF8)
	}
	return &Document{
		Path:      path,
		Format:    "Plain Text",
		Text:      strings.TrimPrefix(string(data), "\ufeff"),
		PageCount: 1,
	}, nil
}
