package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/elastic/docs-builder-sub007/internal/diag"
)

var (
	// Color functions with auto-detection for terminal support.
	// These fall back gracefully when colors are unavailable.
	errorLabel  = color.New(color.FgRed, color.Bold).SprintFunc()
	errorMsg    = color.New(color.FgRed).SprintFunc()
	fixLabel    = color.New(color.FgGreen, color.Bold).SprintFunc()
	usageLabel  = color.New(color.FgCyan, color.Bold).SprintFunc()
	usageText   = color.New(color.FgCyan).SprintFunc()
	bullet      = color.New(color.FgGreen).SprintFunc()
	categoryFmt = color.New(color.FgYellow).SprintFunc()
)

// FormatError renders err as a headline, an optional usage line and the
// steps that fix it. Colors are only used when useColors is set.
func FormatError(err *CLIError, useColors bool) string {
	if err == nil {
		return ""
	}
	return formatError(err, useColors)
}

func formatError(err *CLIError, useColors bool) string {
	var sb strings.Builder

	// Error category and message
	if useColors {
		sb.WriteString(errorLabel("Error"))
		sb.WriteString(" [")
		sb.WriteString(categoryFmt(err.Category.String()))
		sb.WriteString("]: ")
		sb.WriteString(errorMsg(err.Message))
	} else {
		sb.WriteString("Error [")
		sb.WriteString(err.Category.String())
		sb.WriteString("]: ")
		sb.WriteString(err.Message)
	}
	sb.WriteString("\n")

	// Correct usage (for argument errors)
	if err.Usage != "" {
		sb.WriteString("\n")
		if useColors {
			sb.WriteString(usageLabel("Usage: "))
			sb.WriteString(usageText(err.Usage))
		} else {
			sb.WriteString("Usage: ")
			sb.WriteString(err.Usage)
		}
		sb.WriteString("\n")
	}

	// Remediation steps
	if len(err.Remediation) > 0 {
		sb.WriteString("\n")
		if useColors {
			sb.WriteString(fixLabel("To fix this:"))
		} else {
			sb.WriteString("To fix this:")
		}
		sb.WriteString("\n")
		for _, step := range err.Remediation {
			if useColors {
				sb.WriteString("  ")
				sb.WriteString(bullet("•"))
				sb.WriteString(" ")
			} else {
				sb.WriteString("  • ")
			}
			sb.WriteString(step)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// FprintError prints err to w.
func FprintError(w io.Writer, err *CLIError, useColors bool) {
	fmt.Fprint(w, FormatError(err, useColors))
}

var (
	warningLabel = color.New(color.FgYellow, color.Bold).SprintFunc()
	fileFmt      = color.New(color.Faint).SprintFunc()
)

// FormatDiagnostics formats build diagnostics one per line, in emission
// order: "Error: file: message" or "Warning: message".
func FormatDiagnostics(diags []diag.Diagnostic, useColors bool) string {
	var sb strings.Builder
	for _, d := range diags {
		label := "Warning"
		if d.Severity == diag.Error {
			label = "Error"
		}
		if useColors {
			if d.Severity == diag.Error {
				label = errorLabel(label)
			} else {
				label = warningLabel(label)
			}
		}
		sb.WriteString(label)
		sb.WriteString(": ")
		if d.File != "" {
			if useColors {
				sb.WriteString(fileFmt(d.File))
			} else {
				sb.WriteString(d.File)
			}
			sb.WriteString(": ")
		}
		sb.WriteString(d.Message)
		sb.WriteString("\n")
	}
	return sb.String()
}

// FprintDiagnostics prints diagnostics to w.
func FprintDiagnostics(w io.Writer, diags []diag.Diagnostic, useColors bool) {
	fmt.Fprint(w, FormatDiagnostics(diags, useColors))
}
