// Package config provides configuration management for the converter.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Built-in defaults for the contact export layout.
const (
	DefaultDelimiter      = ":"
	DefaultPhoneColumn    = 0
	DefaultFirstColumn    = 2
	DefaultLastColumn     = 3
	DefaultCityStart      = 5
	DefaultRowLimit       = 1_000_000
	DefaultBaseName       = "output"
	DefaultOutputExt      = ".xlsx"
	DefaultSheetName      = "Sheet1"
	DefaultInputExt       = ".txt"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultConfigFileName = "txt2xlsx.yaml"

	// MaxRowLimit keeps a full part plus its header within one Excel sheet.
	MaxRowLimit = 1_048_575
)

// DefaultSkipTokens are field values that never count as a location.
var DefaultSkipTokens = []string{
	"male", "female", "single", "married", "widowed",
	"divorced", "engaged", "in a relationship", "it's complicated",
}

// Environment variables that override file settings.
const (
	EnvLogLevel  = "TXT2XLSX_LOG_LEVEL"
	EnvLogFormat = "TXT2XLSX_LOG_FORMAT"
	EnvOutputDir = "TXT2XLSX_OUTPUT_DIR"
)

// Configuration validation errors.
var (
	ErrInvalidDelimiter       = errors.New("input.delimiter must be exactly one character")
	ErrMissingInputExtension  = errors.New("input.extension is required")
	ErrNegativeColumn         = errors.New("column indexes must be non-negative")
	ErrInvalidRowLimit        = errors.New("output.rows_per_file must be between 1 and 1048575")
	ErrMissingBaseName        = errors.New("output.base_name is required")
	ErrInvalidOutputExtension = errors.New("output.extension must be '.xlsx' or '.xlsm'")
	ErrMissingSheetName       = errors.New("output.sheet_name is required")
	ErrInvalidLogLevel        = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat       = errors.New("logging.format must be 'text' or 'json'")
)

// Config represents the complete converter configuration.
type Config struct {
	Input    InputConfig    `yaml:"input"`
	Columns  ColumnsConfig  `yaml:"columns"`
	Location LocationConfig `yaml:"location"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// InputConfig describes the source text file.
type InputConfig struct {
	Delimiter string `yaml:"delimiter"`
	Extension string `yaml:"extension"`
}

// ColumnsConfig holds the zero-based field positions of the kept columns.
type ColumnsConfig struct {
	Phone     int `yaml:"phone"`
	FirstName int `yaml:"first_name"`
	LastName  int `yaml:"last_name"`
	CityStart int `yaml:"city_start"`
}

// LocationConfig controls location extraction.
type LocationConfig struct {
	SkipTokens []string `yaml:"skip_tokens"`
}

// OutputConfig defines where and how workbooks are written.
type OutputConfig struct {
	Dir         string `yaml:"dir"`
	BaseName    string `yaml:"base_name"`
	Extension   string `yaml:"extension"`
	SheetName   string `yaml:"sheet_name"`
	RowsPerFile int    `yaml:"rows_per_file"`
	Manifest    bool   `yaml:"manifest"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Delimiter: DefaultDelimiter,
			Extension: DefaultInputExt,
		},
		Columns: ColumnsConfig{
			Phone:     DefaultPhoneColumn,
			FirstName: DefaultFirstColumn,
			LastName:  DefaultLastColumn,
			CityStart: DefaultCityStart,
		},
		Location: LocationConfig{
			SkipTokens: append([]string(nil), DefaultSkipTokens...),
		},
		Output: OutputConfig{
			Dir:         ".",
			BaseName:    DefaultBaseName,
			Extension:   DefaultOutputExt,
			SheetName:   DefaultSheetName,
			RowsPerFile: DefaultRowLimit,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// LoadConfig loads configuration from a YAML file on top of the defaults.
// Keys missing from the file keep their default values.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides settings from environment variables.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Logging.Level = strings.ToLower(v)
	}

	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		c.Logging.Format = strings.ToLower(v)
	}

	if v, ok := lookup(EnvOutputDir); ok && v != "" {
		c.Output.Dir = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if utf8.RuneCountInString(c.Input.Delimiter) != 1 {
		return ErrInvalidDelimiter
	}

	if c.Input.Extension == "" {
		return ErrMissingInputExtension
	}

	cols := map[string]int{
		"phone":      c.Columns.Phone,
		"first_name": c.Columns.FirstName,
		"last_name":  c.Columns.LastName,
		"city_start": c.Columns.CityStart,
	}

	for name, idx := range cols {
		if idx < 0 {
			return fmt.Errorf("%w: columns.%s=%d", ErrNegativeColumn, name, idx)
		}
	}

	if c.Output.RowsPerFile < 1 || c.Output.RowsPerFile > MaxRowLimit {
		return ErrInvalidRowLimit
	}

	if strings.TrimSpace(c.Output.BaseName) == "" {
		return ErrMissingBaseName
	}

	switch strings.ToLower(c.Output.Extension) {
	case ".xlsx", ".xlsm":
	default:
		return ErrInvalidOutputExtension
	}

	if strings.TrimSpace(c.Output.SheetName) == "" {
		return ErrMissingSheetName
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}

	return nil
}

// MaxColumn returns the highest field index a line must reach to be usable.
func (c ColumnsConfig) MaxColumn() int {
	return max(c.Phone, c.FirstName, c.LastName, c.CityStart)
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Delimiter: %q, Columns: %d/%d/%d/%d, RowsPerFile: %d, Output: %s/%s_N%s}",
		c.Input.Delimiter,
		c.Columns.Phone,
		c.Columns.FirstName,
		c.Columns.LastName,
		c.Columns.CityStart,
		c.Output.RowsPerFile,
		c.Output.Dir,
		c.Output.BaseName,
		c.Output.Extension,
	)
}
