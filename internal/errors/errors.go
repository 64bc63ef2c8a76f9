// Package errors reports docs-builder failures to the person running the
// command: what went wrong with the bundle inputs or the build, and what to
// change before running it again. Build diagnostics are printed by the same
// package so both kinds of output share one look.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory groups failures by what the user has to fix. The CLI derives
// its exit code from it.
type ErrorCategory int

const (
	// Argument is a flag or --input value that cannot be used as given.
	Argument ErrorCategory = iota
	// Configuration is a settings file or environment override that failed
	// to load or validate.
	Configuration
	// Input is a bundle descriptor or entries directory that does not exist.
	Input
	// Build is a render or bundle run that collected Error diagnostics.
	Build
	// Runtime is anything else, typically I/O while writing output.
	Runtime
)

func (c ErrorCategory) String() string {
	switch c {
	case Argument:
		return "Argument Error"
	case Configuration:
		return "Configuration Error"
	case Input:
		return "Input Error"
	case Build:
		return "Build Error"
	case Runtime:
		return "Runtime Error"
	default:
		return "Error"
	}
}

// CLIError is a failure printed as a headline, an optional usage line and a
// list of fixes.
type CLIError struct {
	Category ErrorCategory
	Message  string
	// Path is the bundle, entries directory or settings file involved, if any.
	Path string
	// Usage is the command line that would have worked.
	Usage       string
	Remediation []string
	// Err is the underlying cause, kept so errors.Is still sees through.
	Err error
}

func (e *CLIError) Error() string {
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewArgumentError reports a flag value that cannot be used.
func NewArgumentError(message string, remediation ...string) *CLIError {
	return &CLIError{Category: Argument, Message: message, Remediation: remediation}
}

// NewArgumentErrorWithUsage is NewArgumentError plus the command line that
// would have been accepted.
func NewArgumentErrorWithUsage(message, usage string, remediation ...string) *CLIError {
	return &CLIError{Category: Argument, Message: message, Usage: usage, Remediation: remediation}
}

// NewInputError reports a bundle input that is not on disk. what names the
// kind of input, e.g. "bundle file" or "entries directory".
func NewInputError(what, path string, remediation ...string) *CLIError {
	return &CLIError{
		Category:    Input,
		Message:     fmt.Sprintf("%s does not exist: %s", what, path),
		Path:        path,
		Remediation: remediation,
	}
}

// NewBuildError reports a run that stopped because of Error diagnostics.
// summary is the diagnostic count, e.g. "2 errors, 1 warning"; the
// diagnostics themselves have already been printed.
func NewBuildError(summary string, remediation ...string) *CLIError {
	return &CLIError{
		Category:    Build,
		Message:     fmt.Sprintf("changelog build failed (%s)", summary),
		Remediation: remediation,
	}
}

// Wrap turns err into a CLIError of the given category with err's message.
func Wrap(err error, category ErrorCategory, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{Category: category, Message: err.Error(), Remediation: remediation, Err: err}
}

// WrapWithMessage is Wrap with message prepended to err's text.
func WrapWithMessage(err error, category ErrorCategory, message string, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{
		Category:    category,
		Message:     fmt.Sprintf("%s: %v", message, err),
		Remediation: remediation,
		Err:         err,
	}
}

// AsCLIError returns the CLIError in err's chain, or nil.
func AsCLIError(err error) *CLIError {
	var cliErr *CLIError
	if stderrors.As(err, &cliErr) {
		return cliErr
	}
	return nil
}
