// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package docreader

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType separates documents that can never be read from read failures
// caused by the environment.
type ErrorType string

const (
	ErrorTypeUnsupportedFormat ErrorType = "unsupported_format"
	ErrorTypeFormatCorrupted   ErrorType = "format_corrupted"
	ErrorTypeFileAccess        ErrorType = "file_access"
	ErrorTypeCancelled         ErrorType = "cancelled"
)

// ReadError reports why a document's text could not be extracted.
type ReadError struct {
	Path   string
	Format string
	Type   ErrorType
	Cause  error
}

func (e *ReadError) Error() string {
	parts := []string{fmt.Sprintf("reading %s failed", e.Path)}
	if e.Format != "" {
		parts = append(parts, fmt.Sprintf("format=%s", e.Format))
	}
	parts = append(parts, fmt.Sprintf("error=%s", e.Type))
	if e.Cause != nil {
		parts = append(parts, fmt.Sprintf("cause=%v", e.Cause))
	}
	return strings.Join(parts, " ")
}

func (e *ReadError) Unwrap() error {
	return e.Cause
}

func newReadError(path, format string, typ ErrorType, cause error) *ReadError {
	return &ReadError{Path: path, Format: format, Type: typ, Cause: cause}
}

func errorTypeOf(err error) (ErrorType, bool) {
	var re *ReadError
	if errors.As(err, &re) {
		return re.Type, true
	}
	return "", false
}

// IsUnsupported reports whether err is a read error for a file type that has
// no extractor.
func IsUnsupported(err error) bool {
	t, ok := errorTypeOf(err)
	return ok && t == ErrorTypeUnsupportedFormat
}

// IsCorrupt reports whether err is a read error for a file whose contents
// could not be parsed.
func IsCorrupt(err error) bool {
	t, ok := errorTypeOf(err)
	return ok && t == ErrorTypeFormatCorrupted
}

// IsIO reports whether err is a read error caused by file system access.
func IsIO(err error) bool {
	t, ok := errorTypeOf(err)
	return ok && t == ErrorTypeFileAccess
}
