package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
requires: ">=0.1.0"
patterns:
  - source: patterns/url.vbl
    output: build/url.txt
  - source: patterns/email.vbl
`))
	require.NoError(t, err)

	assert.Equal(t, ">=0.1.0", cfg.Requires)
	require.Len(t, cfg.Patterns, 2)
	assert.Equal(t, "patterns/url.vbl", cfg.Patterns[0].Source)
	assert.Equal(t, "build/url.txt", cfg.Patterns[0].Output)
	assert.Empty(t, cfg.Patterns[1].Output)
}

func TestParseRejectsMissingSource(t *testing.T) {
	_, err := Parse([]byte("patterns:\n  - output: out.txt\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing a source")
}

func TestParseRejectsBadYAML(t *testing.T) {
	_, err := Parse([]byte("patterns: ["))
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFilename)
	require.NoError(t, os.WriteFile(path, []byte("requires: \">=0.1.0\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ">=0.1.0", cfg.Requires)
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		name     string
		requires string
		version  string
		ok       bool
	}{
		{"no constraint", "", "0.1.0", true},
		{"satisfied", ">=0.1.0", "0.2.3", true},
		{"exact", "=0.1.0", "0.1.0", true},
		{"too old", ">=0.2.0", "0.1.0", false},
		{"upper bound", ">=0.1.0, <0.2.0", "0.2.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Requires: tt.requires}
			err := cfg.CheckVersion(tt.version)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestCheckVersionRejectsBadInput(t *testing.T) {
	cfg := &Config{Requires: "not-a-constraint"}
	assert.Error(t, cfg.CheckVersion("0.1.0"))

	cfg = &Config{Requires: ">=0.1.0"}
	assert.Error(t, cfg.CheckVersion("not-a-version"))
}
