// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package logger

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestLevelFor(t *testing.T) {
	assert.Equal(t, log.WarnLevel, LevelFor(false, false))
	assert.Equal(t, log.InfoLevel, LevelFor(true, false))
	assert.Equal(t, log.DebugLevel, LevelFor(true, true))
	assert.Equal(t, log.DebugLevel, LevelFor(false, true))
}

func TestNewWithWriter_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "watch", log.WarnLevel)

	l.Info("hidden")
	assert.Empty(t, buf.String())

	l.Warn("no names found", "file", "list.docx")
	out := buf.String()
	assert.Contains(t, out, "watch")
	assert.Contains(t, out, "no names found")
	assert.Contains(t, out, "file=list.docx")
}
