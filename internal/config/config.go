// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"thainame-scan/internal/formatters"
	"thainame-scan/internal/paths"

	"gopkg.in/yaml.v3"
)

// Export order values
const (
	ExportOrderAggregated = "aggregated"
	ExportOrderView       = "view"
)

// Config represents the application configuration
type Config struct {
	// Default settings
	Defaults struct {
		Format      string `yaml:"format"`
		ExportOrder string `yaml:"export_order"`
		Verbose     bool   `yaml:"verbose"`
		Debug       bool   `yaml:"debug"`
		NoColor     bool   `yaml:"no_color"`
	} `yaml:"defaults"`

	// Export table settings
	Export ExportConfig `yaml:"export"`

	// Document reader settings
	Reader struct {
		MaxPDFPages int `yaml:"max_pdf_pages"` // 0 reads every page
	} `yaml:"reader"`

	// Web API settings
	Web struct {
		Port string `yaml:"port"`
	} `yaml:"web"`

	// Profiles for different extraction scenarios
	Profiles map[string]Profile `yaml:"profiles"`
}

// ExportConfig controls labels and destination of exported tables
type ExportConfig struct {
	OutputDir   string `yaml:"output_dir"`
	NameHeader  string `yaml:"name_header"`
	CountHeader string `yaml:"count_header"`
	SheetName   string `yaml:"sheet_name"`
}

// Profile overrides defaults for a named scenario
type Profile struct {
	Format      string       `yaml:"format"`
	ExportOrder string       `yaml:"export_order"`
	Verbose     bool         `yaml:"verbose"`
	Debug       bool         `yaml:"debug"`
	NoColor     bool         `yaml:"no_color"`
	Description string       `yaml:"description"`
	Export      ExportConfig `yaml:"export"`
}

// defaultConfig returns the built-in configuration
func defaultConfig() *Config {
	config := &Config{
		Profiles: make(map[string]Profile),
	}

	config.Defaults.Format = "xlsx"
	config.Defaults.ExportOrder = ExportOrderAggregated
	config.Export.OutputDir = "."
	config.Export.NameHeader = formatters.DefaultNameHeader
	config.Export.CountHeader = formatters.DefaultCountHeader
	config.Export.SheetName = formatters.DefaultSheetName
	config.Web.Port = "8080"

	config.Profiles["english"] = Profile{
		Format:      "xlsx",
		ExportOrder: ExportOrderAggregated,
		Description: "English column headers for shared spreadsheets",
		Export: ExportConfig{
			NameHeader:  "Name",
			CountHeader: "Count",
			SheetName:   formatters.DefaultSheetName,
		},
	}
	return config
}

// LoadConfig loads configuration from the specified file path
func LoadConfig(configPath string) (*Config, error) {
	config := defaultConfig()

	// If no config file specified, return default config
	if configPath == "" {
		return config, nil
	}

	cleanPath := filepath.Clean(configPath)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// LoadConfigOrDefault loads the config file, falling back to defaults on any error
func LoadConfigOrDefault(configFile string) *Config {
	configPath := configFile
	if configPath == "" {
		configPath = FindConfigFile()
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		// Missing or invalid config files fall back to defaults.
		cfg, _ = LoadConfig("")
	}
	return cfg
}

// FindConfigFile looks for a config file in the current directory, then in
// the user configuration directory. Returns "" when none exists.
func FindConfigFile() string {
	for _, name := range []string{"thainame.yaml", "thainame.yml", ".thainame-scan.yaml", ".thainame-scan.yml"} {
		if fileExists(name) {
			return name
		}
	}

	standardConfig := paths.GetConfigFile()
	if fileExists(standardConfig) {
		return standardConfig
	}
	return ""
}

// fileExists checks if a file exists
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ListProfiles returns the profile names, sorted
func (c *Config) ListProfiles() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetProfile returns a profile by name, or nil
func (c *Config) GetProfile(name string) *Profile {
	if profile, ok := c.Profiles[name]; ok {
		return &profile
	}
	return nil
}

// ValidateConfig checks values that would otherwise fail late
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}

	if err := validateExportOrder(config.Defaults.ExportOrder); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	for name, profile := range config.Profiles {
		if profile.ExportOrder == "" {
			continue
		}
		if err := validateExportOrder(profile.ExportOrder); err != nil {
			return fmt.Errorf("profile %s: %w", name, err)
		}
	}

	if config.Reader.MaxPDFPages < 0 {
		return fmt.Errorf("reader.max_pdf_pages must not be negative, got %d", config.Reader.MaxPDFPages)
	}

	if len([]rune(config.Export.SheetName)) > 31 {
		return fmt.Errorf("export.sheet_name %q exceeds the 31 character worksheet limit", config.Export.SheetName)
	}

	return nil
}

func validateExportOrder(order string) error {
	switch order {
	case ExportOrderAggregated, ExportOrderView:
		return nil
	default:
		return fmt.Errorf("export_order must be %q or %q, got %q", ExportOrderAggregated, ExportOrderView, order)
	}
}
