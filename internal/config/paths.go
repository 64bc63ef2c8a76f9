package config

import (
	"os"
	"path/filepath"
)

// changelogConfigNames are the accepted changelog config file names.
var changelogConfigNames = []string{"changelog.yml", "changelog.yaml"}

// docsetNames are the accepted docset file names.
var docsetNames = []string{"docset.yml", "docset.yaml", "_docset.yml"}

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification (os.UserConfigDir).
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "docs-builder", "config.yml"), nil
}

// ProjectConfigPath returns the path to the project-level config file.
// This is always .docs-builder/config.yml relative to the current directory.
func ProjectConfigPath() string {
	return filepath.Join(".docs-builder", "config.yml")
}

// DiscoverChangelogConfig returns the changelog config under root, or "".
// The root location takes priority over the nested docs/ fallback.
func DiscoverChangelogConfig(root string) string {
	return discover(root, changelogConfigNames)
}

// DiscoverDocset returns the docset file under root, or "".
// The root location takes priority over the nested docs/ fallback.
func DiscoverDocset(root string) string {
	return discover(root, docsetNames)
}

func discover(root string, names []string) string {
	for _, dir := range []string{root, filepath.Join(root, "docs")} {
		for _, name := range names {
			candidate := filepath.Join(dir, name)
			if fileExists(candidate) {
				return candidate
			}
		}
	}
	return ""
}
