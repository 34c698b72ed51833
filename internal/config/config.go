// Package config loads the optional viable.yml project file used by
// the CLI. The file maps DSL sources to output targets and may pin the
// minimum tool version with a semver constraint. The compiler core
// never reads configuration; this package exists purely for the
// command-line surface.
package config

import (
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// DefaultFilename is the conventional project config name.
const DefaultFilename = "viable.yml"

// Pattern maps one DSL source file to its compiled output file. An
// empty Output writes the result to stdout.
type Pattern struct {
	Source string `yaml:"source"`
	Output string `yaml:"output,omitempty"`
}

// Config is the project configuration.
type Config struct {
	// Requires is an optional semver constraint on the tool version,
	// e.g. ">=0.2.0". Compilation refuses to run under a tool outside
	// the constraint.
	Requires string    `yaml:"requires,omitempty"`
	Patterns []Pattern `yaml:"patterns,omitempty"`
}

// Load reads and parses a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse parses config bytes.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	for i, p := range cfg.Patterns {
		if p.Source == "" {
			return nil, fmt.Errorf("invalid config: patterns[%d] is missing a source", i)
		}
	}
	return &cfg, nil
}

// CheckVersion validates the running tool version against the Requires
// constraint. An empty constraint always passes.
func (c *Config) CheckVersion(toolVersion string) error {
	if c.Requires == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(c.Requires)
	if err != nil {
		return fmt.Errorf("invalid requires constraint %q: %w", c.Requires, err)
	}
	version, err := semver.NewVersion(toolVersion)
	if err != nil {
		return fmt.Errorf("invalid tool version %q: %w", toolVersion, err)
	}
	if !constraint.Check(version) {
		return fmt.Errorf("viable %s does not satisfy the project constraint %q", toolVersion, c.Requires)
	}
	return nil
}
