// Package output provides terminal output formatting utilities for the
// docs-builder CLI.
// This package is designed to have minimal dependencies to avoid import cycles.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// GetTerminalWidth returns the terminal width, defaulting to 80 if unavailable.
func GetTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// PrintHeader prints a colored header (e.g., "Rendering 3 bundles").
func PrintHeader(out io.Writer, text string) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Fprintln(out, cyan(text))
}

// PrintWritten lists written files under a green checkmark summary.
func PrintWritten(out io.Writer, paths []string) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	fmt.Fprintf(out, "%s wrote %d file(s)\n", green("✓"), len(paths))
	for _, p := range paths {
		fmt.Fprintf(out, "  %s\n", dim(p))
	}
}

// PrintWatching prints the watch banner.
func PrintWatching(out io.Writer, count int) {
	magenta := color.New(color.FgMagenta).SprintFunc()
	fmt.Fprintf(out, "\n%s %d path(s); press Ctrl+C to stop\n", magenta("→ Watching"), count)
}
