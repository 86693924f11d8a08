// Package config loads the compiler's tunable options from a YAML
// file: the frame word size, whether certain diagnostics are warnings
// or hard errors, and the CLI's default report format.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/compiscript-lang/compiscript/internal/reporter"
)

// Severity selects whether a configurable diagnostic is reported as a
// warning or an error.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// AsReporterSeverity converts to the reporter package's Severity,
// defaulting to error for anything unrecognized (an empty or invalid
// config value should fail loud, not silently downgrade a diagnostic).
func (s Severity) AsReporterSeverity() reporter.Severity {
	if s == SeverityWarning {
		return reporter.SeverityWarning
	}
	return reporter.SeverityError
}

// OutputFormat selects how `compiscript check`/`compiscript ir` render
// their report.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// Options is the full set of tunables. The zero value is not valid
// (its word size is 0); start from Default().
type Options struct {
	WordSize int `yaml:"word_size"`

	MissingReturn Severity `yaml:"missing_return"`
	DeadCode      Severity `yaml:"dead_code"`

	Output OutputFormat `yaml:"output"`
}

// Default returns the option set used when no config file is given:
// an 8-byte word, missing-return and dead-code both as errors, and
// text output.
func Default() Options {
	return Options{
		WordSize:      8,
		MissingReturn: SeverityError,
		DeadCode:      SeverityError,
		Output:        FormatText,
	}
}

// Load reads and parses a YAML config file, starting from Default()
// so a file that sets only one field leaves the rest at their
// defaults.
func Load(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("config: %w", err)
	}
	opts := Default()
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Validate rejects a non-positive word size and an unrecognized
// severity or output format (almost always a config typo).
func (o Options) Validate() error {
	if o.WordSize <= 0 {
		return fmt.Errorf("config: word_size must be positive, got %d", o.WordSize)
	}
	switch o.MissingReturn {
	case SeverityError, SeverityWarning:
	default:
		return fmt.Errorf("config: missing_return: unknown severity %q", o.MissingReturn)
	}
	switch o.DeadCode {
	case SeverityError, SeverityWarning:
	default:
		return fmt.Errorf("config: dead_code: unknown severity %q", o.DeadCode)
	}
	switch o.Output {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("config: output: unknown format %q", o.Output)
	}
	return nil
}
