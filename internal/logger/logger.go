// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package logger builds the charmbracelet/log loggers used by the CLI, the
// web server and the file watcher.
package logger

import (
	"io"

	"github.com/charmbracelet/log"
)

// NewWithWriter creates a text logger writing to w at level. Commands pass
// stderr so stdout stays free for the name table.
func NewWithWriter(w io.Writer, prefix string, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    false,
		ReportTimestamp: true,
		Formatter:       log.TextFormatter,
	})
}

// LevelFor maps the CLI verbosity flags to a log level.
func LevelFor(verbose, debug bool) log.Level {
	switch {
	case debug:
		return log.DebugLevel
	case verbose:
		return log.InfoLevel
	default:
		return log.WarnLevel
	}
}
