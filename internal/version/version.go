// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Product is the name the CLI and the web API report.
const Product = "thainame-scan"

const (
	devVersion = "0.0.0-development"
	unknown    = "unknown"
)

// Set at build time through -ldflags "-X thainame-scan/internal/version.Version=...".
var (
	Version   = devVersion
	GitCommit = unknown
	BuildDate = unknown
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the build details. Fields not stamped through -ldflags fall
// back to the module version and VCS settings the toolchain embeds.
func Get() BuildInfo {
	return fromBuildInfo(debug.ReadBuildInfo())
}

func fromBuildInfo(bi *debug.BuildInfo, ok bool) BuildInfo {
	info := BuildInfo{
		Version:   Version,
		Commit:    GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if !ok || bi == nil {
		return info
	}

	if info.Version == devVersion && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == unknown {
				info.Commit = shortRevision(s.Value)
			}
		case "vcs.time":
			if info.BuildDate == unknown {
				info.BuildDate = s.Value
			}
		}
	}
	return info
}

// shortRevision trims a commit hash to the 12 characters git log shows
// with --abbrev=12.
func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}

// String formats the details for the version command.
func (b BuildInfo) String() string {
	return fmt.Sprintf("%s %s (commit: %s, built: %s, go: %s, platform: %s)",
		Product, b.Version, b.Commit, b.BuildDate, b.GoVersion, b.Platform)
}
