package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrConfigExists is returned by WriteDefaultConfig when it would replace a
// settings file without force.
var ErrConfigExists = errors.New("settings file already exists")

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# docs-builder configuration

# Links
owner: elastic                        # GitHub organization for PR and issue links
repo: ""                              # Default repo label (empty = discover from git)

# Output
output_format: markdown               # markdown | asciidoc
output_dir: release-notes             # Where rendered release notes are written
subsections: false                    # Group entries by area within sections
hide_links: false                     # Comment out PR and issue links
merge: false                          # Merge bundles that share a target

# Performance
max_parallel: 4                       # Bundles rendered concurrently (1-64)

# Changelog config (empty = discover changelog.yml, then docs/changelog.yml)
config: ""
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]any {
	return map[string]any{
		"owner":         "elastic",
		"repo":          "",
		"output_format": "markdown",
		"output_dir":    "release-notes",
		"subsections":   false,
		"hide_links":    false,
		"merge":         false,
		"max_parallel":  4,
		"config":        "",
	}
}

// WriteDefaultConfig writes the commented settings template to path,
// creating its directory. An existing file is only replaced when force is set.
func WriteDefaultConfig(path string, force bool) error {
	if !force && fileExists(path) {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GetDefaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}
