// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"thainame-scan/internal/config"
	"thainame-scan/internal/engine"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

// loadConfiguration loads the configuration file or returns default config
func loadConfiguration(configFile string, stderr io.Writer) *config.Config {
	// If config file is not specified, try to find one in standard locations
	configPath := configFile
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: Error loading config file: %v\n", err)
		fmt.Fprintf(stderr, "Using default configuration\n")
		cfg, _ = config.LoadConfig("")
	}
	return cfg
}

// finalConfiguration holds resolved configuration values
type finalConfiguration struct {
	format      string
	exportOrder engine.ExportOrder
	verbose     bool
	debug       bool
	noColor     bool
	outputDir   string
	nameHeader  string
	countHeader string
	sheetName   string
}

// resolveConfiguration resolves final configuration values from config file,
// profile and command line flags, in increasing precedence.
func resolveConfiguration(cfg *config.Config, activeProfile *config.Profile, c *cli.Context) (*finalConfiguration, error) {
	final := &finalConfiguration{}

	// Format
	final.format = "xlsx" // default fallback
	if cfg != nil && cfg.Defaults.Format != "" {
		final.format = cfg.Defaults.Format
	}
	if activeProfile != nil && activeProfile.Format != "" {
		final.format = activeProfile.Format
	}
	if c.IsSet("format") && c.String("format") != "" {
		final.format = c.String("format")
	}

	// Export order
	order := string(engine.OrderAggregated)
	if cfg != nil && cfg.Defaults.ExportOrder != "" {
		order = cfg.Defaults.ExportOrder
	}
	if activeProfile != nil && activeProfile.ExportOrder != "" {
		order = activeProfile.ExportOrder
	}
	if c.IsSet("export-order") {
		order = c.String("export-order")
	}
	exportOrder, err := engine.ParseExportOrder(order)
	if err != nil {
		return nil, cli.Exit(err.Error(), 2)
	}
	final.exportOrder = exportOrder

	// Verbose
	if cfg != nil {
		final.verbose = cfg.Defaults.Verbose
	}
	if activeProfile != nil && activeProfile.Verbose {
		final.verbose = true
	}
	if c.IsSet("verbose") {
		final.verbose = c.Bool("verbose")
	}

	// Debug
	if cfg != nil {
		final.debug = cfg.Defaults.Debug
	}
	if activeProfile != nil && activeProfile.Debug {
		final.debug = true
	}
	if c.IsSet("debug") {
		final.debug = c.Bool("debug")
	}

	// No color
	if cfg != nil {
		final.noColor = cfg.Defaults.NoColor
	}
	if activeProfile != nil && activeProfile.NoColor {
		final.noColor = true
	}
	if c.IsSet("no-color") {
		final.noColor = c.Bool("no-color")
	}

	// Export table labels and destination
	if cfg != nil {
		final.outputDir = cfg.Export.OutputDir
		final.nameHeader = cfg.Export.NameHeader
		final.countHeader = cfg.Export.CountHeader
		final.sheetName = cfg.Export.SheetName
	}
	if activeProfile != nil {
		final.outputDir = firstNonEmpty(activeProfile.Export.OutputDir, final.outputDir)
		final.nameHeader = firstNonEmpty(activeProfile.Export.NameHeader, final.nameHeader)
		final.countHeader = firstNonEmpty(activeProfile.Export.CountHeader, final.countHeader)
		final.sheetName = firstNonEmpty(activeProfile.Export.SheetName, final.sheetName)
	}
	if c.IsSet("output-dir") {
		final.outputDir = c.String("output-dir")
	}

	return final, nil
}

// selectProfile returns the named profile, or nil when name is empty
func selectProfile(cfg *config.Config, name string) (*config.Profile, error) {
	if name == "" {
		return nil, nil
	}
	profile := cfg.GetProfile(name)
	if profile == nil {
		return nil, cli.Exit(fmt.Sprintf("profile %q not found. Available profiles: %s",
			name, strings.Join(cfg.ListProfiles(), ", ")), 2)
	}
	return profile, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// isTerminal checks if the writer is a terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
