// Package config loads and validates the generator configuration.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/docgen/internal/errors"
)

// DefaultPath is where the CLI looks for a config when -c is not given.
const DefaultPath = ".docgen.yaml"

// Config is the top-level configuration.
type Config struct {
	// Roots are the directories scanned for documented units.
	Roots []string `yaml:"roots"`
	// Template is the path of a YAML template definition; empty selects the
	// built-in template.
	Template string `yaml:"template"`
	// Concurrency bounds the number of units processed in parallel.
	// Zero means NumCPU capped at 8.
	Concurrency int `yaml:"concurrency"`

	Output  OutputConfig  `yaml:"output"`
	Scanner ScannerConfig `yaml:"scanner"`
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
}

// OutputConfig controls what gets written where.
type OutputConfig struct {
	// DocFileName is the per-unit document name.
	DocFileName string `yaml:"doc_file_name"`
	// SummaryPath, when set, receives the batch summary as JSON.
	SummaryPath string `yaml:"summary_path"`
}

// ScannerConfig tunes unit discovery.
type ScannerConfig struct {
	Extensions  []string `yaml:"extensions"`
	ExcludeDirs []string `yaml:"exclude_dirs"`
}

// MetricsConfig enables the Prometheus endpoint in watch mode.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// LoggingConfig selects the log level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads, defaults and validates a config file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "read config").
			Fatal().WithContext("path", path).Build()
	}

	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryConfig, "parse config").
			Fatal().WithContext("path", path).Build()
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Output.DocFileName == "" {
		c.Output.DocFileName = "REFERENCE.md"
	}
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		c.Metrics.Addr = ":9090"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate rejects configs the pipeline cannot run with.
func (c *Config) Validate() error {
	if len(c.Roots) == 0 {
		return derrors.ConfigError("config names no roots").Build()
	}
	if c.Concurrency < 0 {
		return derrors.ConfigError("concurrency must not be negative").
			WithContext("concurrency", c.Concurrency).Build()
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return derrors.ConfigError("unknown log level").
			WithContext("level", c.Logging.Level).Build()
	}
	return nil
}

const starterConfig = `# docgen configuration
roots:
  - ./src

# template: docgen-template.yaml   # omit for the built-in template
# concurrency: 4

output:
  doc_file_name: REFERENCE.md
  # summary_path: docgen-summary.json

logging:
  level: info
`

// Init writes a starter config to path. It refuses to overwrite.
func Init(path string) error {
	if _, err := os.Stat(path); err == nil {
		return derrors.ConfigError("config already exists").
			WithContext("path", path).Build()
	} else if !os.IsNotExist(err) {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "stat config").
			WithContext("path", path).Build()
	}
	if err := os.WriteFile(path, []byte(starterConfig), 0o644); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "write config").
			WithContext("path", path).Build()
	}
	return nil
}

// String renders the effective config for debug logging.
func (c *Config) String() string {
	return fmt.Sprintf("roots=%v template=%q concurrency=%d doc=%s", c.Roots, c.Template, c.Concurrency, c.Output.DocFileName)
}
