// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigDir_EnvOverride(t *testing.T) {
	t.Setenv("THAINAME_CONFIG_DIR", "/tmp/custom-config")
	assert.Equal(t, "/tmp/custom-config", GetConfigDir())
	assert.Equal(t, filepath.Join("/tmp/custom-config", "config.yaml"), GetConfigFile())
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, home, ExpandHome("~"))
	assert.Equal(t, filepath.Join(home, "exports"), ExpandHome("~/exports"))
	assert.Equal(t, "relative/file", ExpandHome("relative/file"))
}

func TestResolveOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "a.xlsx"), ResolveOutputPath("out", "a.xlsx"))
	assert.Equal(t, filepath.Join("other", "a.xlsx"), ResolveOutputPath("out", "other/a.xlsx"))
	assert.Equal(t, "a.xlsx", ResolveOutputPath("", "a.xlsx"))
}
