package cli

import clierrors "github.com/elastic/docs-builder-sub007/internal/errors"

// Exit codes for the docs-builder CLI
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitBuildFailed indicates the build collected Error diagnostics
	ExitBuildFailed = 1

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 3

	// ExitMissingInput indicates an input file or directory does not exist
	ExitMissingInput = 4
)

// ExitCode maps an error to the process exit code by its category.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	switch cliErr := clierrors.AsCLIError(err); {
	case cliErr == nil:
		return ExitBuildFailed
	case cliErr.Category == clierrors.Argument:
		return ExitInvalidArguments
	case cliErr.Category == clierrors.Input:
		return ExitMissingInput
	default:
		return ExitBuildFailed
	}
}
