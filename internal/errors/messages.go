package errors

import (
	"fmt"
	"strings"
)

// Common error messages for the docs-builder CLI.
// These templates keep argument and input failures consistent and actionable.

// MissingBundleInput creates an error for a render without any bundle.
func MissingBundleInput() *CLIError {
	return NewArgumentErrorWithUsage(
		"at least one bundle input is required",
		"docs-builder changelog render --input <bundle.yaml>[|<entries-dir>[|<repo>]]",
		"Pass one --input per bundle descriptor",
		"Example: docs-builder changelog render --input docs/changelog/bundles/9.3.0.yaml",
	)
}

// InvalidBundleInput creates an error for a malformed --input value.
func InvalidBundleInput(value string, cause error) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid bundle input %q: %v", value, cause),
		"--input <bundle.yaml>[|<entries-dir>[|<repo>]]",
		"Separate the optional entries directory and repo label with '|'",
	)
}

// BundleNotFound creates an error for a bundle descriptor that does not exist.
func BundleNotFound(path string) *CLIError {
	return NewInputError("bundle file", path,
		"Check the path passed to --input",
		"Create a bundle with: docs-builder changelog bundle --directory <entries-dir> --all",
	)
}

// InvalidTypeFilter creates an error for an unknown --type value.
func InvalidTypeFilter(value string, valid []string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid type filter: %s", value),
		"Use 'default', 'all' or one of: "+strings.Join(valid, ", "),
	)
}

// InvalidOutputFormat creates an error for an unknown output format.
func InvalidOutputFormat(value string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid output format: %s", value),
		"Use --format markdown or --format asciidoc",
		"Or set output_format in .docs-builder/config.yml",
	)
}

// MissingSelectionFilter creates an error for `changelog bundle` without a filter.
func MissingSelectionFilter() *CLIError {
	return NewArgumentErrorWithUsage(
		"no entries selected",
		"docs-builder changelog bundle --directory <dir> (--all | --prs <refs> | --input-products \"<id> <target> [lifecycle]\")",
		"Pass exactly one of --all, --prs or --input-products",
	)
}

// EntriesDirNotFound creates an error for a missing entries directory.
func EntriesDirNotFound(dir string) *CLIError {
	return NewInputError("entries directory", dir,
		"Check the path passed to --directory",
	)
}

// BuildFailed creates an error for a render that collected Error diagnostics.
func BuildFailed(summary string) *CLIError {
	return NewBuildError(summary, "Fix the errors listed above and run the command again")
}

// ConfigLoadFailed creates an error for tool settings that failed to load.
func ConfigLoadFailed(cause error) *CLIError {
	return WrapWithMessage(cause, Configuration, "loading settings",
		"Check .docs-builder/config.yml and ~/.config/docs-builder/config.yml",
		"Environment overrides use the DOCS_BUILDER_ prefix",
	)
}

// SettingsExist creates an error for `init` refusing to replace a settings file.
func SettingsExist(path string) *CLIError {
	return &CLIError{
		Category:    Configuration,
		Message:     fmt.Sprintf("settings file already exists: %s", path),
		Path:        path,
		Remediation: []string{"Pass --force to replace it with the defaults", "Or edit the existing file"},
	}
}
