// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// appDirName is the directory name used under the user config directory
const appDirName = "thainame-scan"

// GetConfigDir returns the thainame-scan configuration directory.
// THAINAME_CONFIG_DIR overrides the platform default.
func GetConfigDir() string {
	if dir := os.Getenv("THAINAME_CONFIG_DIR"); dir != "" {
		return dir
	}
	if base, err := os.UserConfigDir(); err == nil {
		return filepath.Join(base, appDirName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, "."+appDirName)
	}
	return "." + appDirName
}

// GetConfigFile returns the path to the main config file
func GetConfigFile() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}

// ResolveOutputPath joins a bare file name onto dir. Paths that already name a
// directory component are returned cleaned and unchanged otherwise.
func ResolveOutputPath(dir, name string) string {
	name = ExpandHome(name)
	if dir == "" || filepath.IsAbs(name) || filepath.Base(name) != name {
		return filepath.Clean(name)
	}
	return filepath.Join(ExpandHome(dir), name)
}
