// Package config provides configuration loading for docs-builder using koanf.
//
// Two independent surfaces live here. Tool settings (Configuration) control
// how a render runs and are layered: environment variables > project config
// (.docs-builder/config.yml) > user config (~/.config/docs-builder/config.yml)
// > defaults. The changelog config (ChangelogConfig) and the docset (Docset)
// describe the documentation set itself: taxonomy, lifecycles, publish rules,
// active products and render blockers.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix is the prefix of environment variables that override settings.
const envPrefix = "DOCS_BUILDER_"

// Configuration represents the docs-builder tool settings.
type Configuration struct {
	// Owner is the GitHub organization used to build PR and issue links.
	Owner string `koanf:"owner" validate:"required"`
	// Repo is the default repository label for bundles that do not name one.
	Repo string `koanf:"repo"`
	// OutputFormat selects the output syntax: "markdown" or "asciidoc".
	OutputFormat string `koanf:"output_format" validate:"oneof=markdown asciidoc"`
	OutputDir    string `koanf:"output_dir" validate:"required"`
	Subsections  bool   `koanf:"subsections"`
	HideLinks    bool   `koanf:"hide_links"`
	Merge        bool   `koanf:"merge"`
	// MaxParallel bounds how many bundles are classified and rendered at once.
	MaxParallel int `koanf:"max_parallel" validate:"min=1,max=64"`
	// ChangelogConfig is an explicit changelog config path. Empty means discover.
	ChangelogConfig string `koanf:"config"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path (default: .docs-builder/config.yml)
	ProjectConfigPath string
	// UserConfigPath overrides the user config path (default: XDG config dir)
	UserConfigPath string
	// SkipUserConfig ignores the user config entirely
	SkipUserConfig bool
	// WarningWriter receives warnings (default: os.Stderr)
	WarningWriter io.Writer
}

// LoadWithOptions loads settings from user, project, and environment sources.
// Priority: Environment variables > Project config > User config > Defaults
//
// A user config that fails to load is reported to WarningWriter and skipped.
// A project config that fails to load is an error.
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")

	loadDefaults(k)

	if !opts.SkipUserConfig {
		userPath := opts.UserConfigPath
		if userPath == "" {
			userPath, _ = UserConfigPath()
		}
		if err := loadConfigFile(k, userPath, "user"); err != nil {
			w := opts.WarningWriter
			if w == nil {
				w = os.Stderr
			}
			fmt.Fprintf(w, "Warning: ignoring user config %s: %v\n", userPath, err)
		}
	}

	projectPath := opts.ProjectConfigPath
	if projectPath == "" {
		projectPath = ProjectConfigPath()
	}
	if err := loadConfigFile(k, projectPath, "project"); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	return finalizeConfig(k)
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadConfigFile validates and loads a YAML or JSON config file if it exists.
func loadConfigFile(k *koanf.Koanf, path, configType string) error {
	if !fileExists(path) {
		return nil
	}
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating %s config: %w", configType, err)
	}
	if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

// parserFor picks the koanf parser from the file extension.
func parserFor(path string) koanf.Parser {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return json.Parser()
	}
	return yaml.Parser()
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals, validates, and applies final transformations
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.OutputFormat = strings.ToLower(strings.TrimSpace(cfg.OutputFormat))
	cfg.OutputDir = expandHomePath(cfg.OutputDir)
	cfg.ChangelogConfig = expandHomePath(cfg.ChangelogConfig)

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// envTransform converts environment variable names to config keys
// Example: DOCS_BUILDER_OUTPUT_FORMAT -> output_format
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, envPrefix))
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
