// =============================================================================
// Seller Order Reconciler - Configuration Module
// =============================================================================
//
// This module is responsible for loading the reconciler configuration.
//
// CONFIGURATION FILE:
//   config.yaml (optional): every key has a default, so the binary can be
//   dropped next to the marketplace exports and run without any setup.
//
// OVERRIDES:
//   Command-line flags and RECON_* environment variables are merged on top
//   of the file by the cmd package (see cmd/root.go).
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	// OnMalformedFail aborts the run on the first malformed record.
	OnMalformedFail = "fail"

	// OnMalformedSkip drops malformed records and reports them.
	OnMalformedSkip = "skip"
)

// DefaultShippingKeywords select orders shipped outside the platform's own
// logistics.
var DefaultShippingKeywords = []string{"others", "seller", "non-shopee"}

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the reconciler configuration.
type Config struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// WorkDir is the directory the marketplace exports are dropped into.
	// Empty means "resolve at startup" (see ResolveWorkDir).
	WorkDir string `yaml:"work_dir"`

	// ResultsDir is the subdirectory of WorkDir receiving the output file.
	// Default: "Results"
	ResultsDir string `yaml:"results_dir"`

	// =========================================================================
	// INPUT SETTINGS
	// =========================================================================

	// InputPatterns are glob patterns matched against file names in WorkDir.
	// Default: ["*.xlsx"]
	InputPatterns []string `yaml:"input_patterns"`

	// SheetName is the worksheet read from each workbook.
	// Empty means the first sheet.
	SheetName string `yaml:"sheet_name"`

	// HeaderRow is the 1-based row holding the column headers. Rows above it
	// are banner rows and are discarded.
	// Default: 2
	HeaderRow int `yaml:"header_row"`

	// AddressColumn is the header name of the unlabeled address column.
	// Unlabeled headers are named "Unnamed: <index>" (0-based).
	// Default: "Unnamed: 17" (column R)
	AddressColumn string `yaml:"address_column"`

	// CSVEncoding is the character encoding of CSV exports.
	// Valid values: "UTF-8", "UTF-16", "Windows-1252", "ISO-8859-1"
	// Default: "UTF-8"
	CSVEncoding string `yaml:"csv_encoding"`

	// DeleteInputs removes the ingested exports once the output is written.
	// Default: true
	DeleteInputs *bool `yaml:"delete_inputs"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// ShippingKeywords are matched case-insensitively against the Shipping
	// Information column.
	// Default: ["others", "seller", "non-shopee"]
	ShippingKeywords []string `yaml:"shipping_keywords"`

	// OnMalformed decides what happens to a record whose SKU and Quantity
	// lists cannot be consolidated.
	// Valid values: "fail", "skip"
	// Default: "fail"
	OnMalformed string `yaml:"on_malformed"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputExtension is the extension of the reconciliation file.
	// Default: "csv"
	OutputExtension string `yaml:"output_extension"`

	// TimestampLayout is the Go time layout of the output file name.
	// Default: "060102_1504" (YYMMDD_HHMM)
	TimestampLayout string `yaml:"timestamp_layout"`

	// WriteSummary writes a processing summary next to the output file.
	// Default: false
	WriteSummary bool `yaml:"write_summary"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Load reads the configuration from a YAML file. A missing file is not an
// error: the defaults are returned instead.
func Load(configPath string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// Run on defaults.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults sets default values for any unset configuration options.
func ApplyDefaults(cfg *Config) {
	if cfg.ResultsDir == "" {
		cfg.ResultsDir = "Results"
	}
	if len(cfg.InputPatterns) == 0 {
		cfg.InputPatterns = []string{"*.xlsx"}
	}
	if cfg.HeaderRow == 0 {
		cfg.HeaderRow = 2
	}
	if cfg.AddressColumn == "" {
		cfg.AddressColumn = "Unnamed: 17"
	}
	if cfg.CSVEncoding == "" {
		cfg.CSVEncoding = "UTF-8"
	}
	if cfg.DeleteInputs == nil {
		enabled := true
		cfg.DeleteInputs = &enabled
	}
	if len(cfg.ShippingKeywords) == 0 {
		cfg.ShippingKeywords = append([]string(nil), DefaultShippingKeywords...)
	}
	if cfg.OnMalformed == "" {
		cfg.OnMalformed = OnMalformedFail
	}
	if cfg.OutputExtension == "" {
		cfg.OutputExtension = "csv"
	}
	cfg.OutputExtension = strings.TrimPrefix(cfg.OutputExtension, ".")
	if cfg.TimestampLayout == "" {
		cfg.TimestampLayout = "060102_1504"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// Validate checks the configuration for values the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.HeaderRow < 1 {
		return fmt.Errorf("header_row must be at least 1, got %d", c.HeaderRow)
	}

	switch c.OnMalformed {
	case OnMalformedFail, OnMalformedSkip:
	default:
		return fmt.Errorf("on_malformed must be %q or %q, got %q", OnMalformedFail, OnMalformedSkip, c.OnMalformed)
	}

	for _, pattern := range c.InputPatterns {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("invalid input pattern %q: %w", pattern, err)
		}
	}

	for _, kw := range c.ShippingKeywords {
		if strings.TrimSpace(kw) == "" {
			return fmt.Errorf("shipping_keywords must not contain empty entries")
		}
	}

	if strings.ContainsAny(c.ResultsDir, `/\`) || c.ResultsDir == ".." {
		return fmt.Errorf("results_dir must be a single directory name, got %q", c.ResultsDir)
	}

	return nil
}

// ShouldDeleteInputs reports whether ingested exports are removed after a
// successful run.
func (c *Config) ShouldDeleteInputs() bool {
	return c.DeleteInputs == nil || *c.DeleteInputs
}

// =============================================================================
// WORKING DIRECTORY RESOLUTION
// =============================================================================

// ResolveWorkDir returns the absolute working directory. An explicit WorkDir
// wins; otherwise the directory containing the running executable is used,
// so a binary copied into the drop folder processes that folder.
func (c *Config) ResolveWorkDir() (string, error) {
	dir := c.WorkDir
	if dir == "" {
		exe, err := os.Executable()
		if err != nil {
			return "", fmt.Errorf("failed to locate executable: %w", err)
		}
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		dir = filepath.Dir(exe)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve working directory: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("working directory %s: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("working directory %s is not a directory", abs)
	}

	return abs, nil
}
