package changelog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// TypeStyle defines the color and icon for an entry type.
type TypeStyle struct {
	Color *color.Color
	Icon  string
}

// typeStyles maps entry types to their terminal styling.
var typeStyles = map[EntryType]TypeStyle{
	Feature:        {Color: color.New(color.FgGreen), Icon: "✓"},
	Enhancement:    {Color: color.New(color.FgBlue), Icon: "~"},
	BugFix:         {Color: color.New(color.FgYellow), Icon: "⚡"},
	BreakingChange: {Color: color.New(color.FgRed, color.Bold), Icon: "✗"},
	Deprecation:    {Color: color.New(color.FgRed), Icon: "⚠"},
	KnownIssue:     {Color: color.New(color.FgMagenta), Icon: "!"},
	Security:       {Color: color.New(color.FgMagenta, color.Bold), Icon: "🔒"},
	Docs:           {Color: color.New(color.FgCyan), Icon: "≡"},
	Other:          {Color: color.New(color.FgWhite), Icon: "·"},
	Invalid:        {Color: color.New(color.FgRed, color.Underline), Icon: "?"},
}

// FormatOptions controls the terminal output formatting.
type FormatOptions struct {
	Plain    bool // Disable colors and icons
	MaxWidth int  // Maximum line width (0 = auto-detect)
	// Reasons returns why an entry is hidden from the published output, if it
	// is. Nil means every entry is shown as visible.
	Reasons func(b *Bundle, e *Entry) []string
}

// FormatTerminal writes bundles to w with terminal styling, one block per
// bundle with entries grouped by type in canonical order.
func FormatTerminal(bundles []Bundle, w io.Writer, opts FormatOptions) error {
	width := resolveWidth(opts.MaxWidth)

	for i := range bundles {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := formatBundle(&bundles[i], w, opts, width); err != nil {
			return fmt.Errorf("formatting bundle %s: %w", bundles[i].Target, err)
		}
	}
	return nil
}

func formatBundle(b *Bundle, w io.Writer, opts FormatOptions, width int) error {
	if err := writeBundleHeader(b, w, opts); err != nil {
		return err
	}

	types := append(ValidEntryTypes(), Invalid)
	for _, t := range types {
		entries := b.EntriesOfType(t)
		if len(entries) == 0 {
			continue
		}
		if err := writeTypeSection(b, t, entries, w, opts, width); err != nil {
			return err
		}
	}
	return nil
}

// writeBundleHeader writes "## <target> (<repo>)".
func writeBundleHeader(b *Bundle, w io.Writer, opts FormatOptions) error {
	header := b.Target
	if b.RepoLabel != "" {
		header = fmt.Sprintf("%s (%s)", b.Target, b.RepoLabel)
	}

	if opts.Plain {
		_, err := fmt.Fprintf(w, "## %s\n", header)
		return err
	}

	bold := color.New(color.Bold).SprintFunc()
	_, err := fmt.Fprintf(w, "## %s\n", bold(header))
	return err
}

func writeTypeSection(b *Bundle, t EntryType, entries []Entry, w io.Writer, opts FormatOptions, width int) error {
	style := typeStyles[t]
	name := capitalizeFirst(t.Label())

	if opts.Plain {
		if _, err := fmt.Fprintf(w, "\n### %s\n", name); err != nil {
			return err
		}
	} else {
		colored := style.Color.SprintFunc()
		if _, err := fmt.Fprintf(w, "\n%s %s\n", colored(style.Icon), colored(name)); err != nil {
			return err
		}
	}

	for i := range entries {
		var reasons []string
		if opts.Reasons != nil {
			reasons = opts.Reasons(b, &entries[i])
		}
		if err := writeEntry(&entries[i], reasons, style, w, opts, width); err != nil {
			return err
		}
	}
	return nil
}

// writeEntry writes a single entry with optional wrapping. Hidden entries are
// dimmed and followed by their reasons.
func writeEntry(e *Entry, reasons []string, style TypeStyle, w io.Writer, opts FormatOptions, width int) error {
	prefix := "  - "
	text := e.Title
	if pr := e.PR(); pr != "" {
		text = fmt.Sprintf("%s (%s)", text, pr)
	}

	if opts.Plain {
		marker := ""
		if len(reasons) > 0 {
			marker = "[hidden] "
		}
		if _, err := fmt.Fprintf(w, "%s%s%s\n", prefix, marker, text); err != nil {
			return err
		}
		return writeReasons(reasons, w, nil)
	}

	wrapped := wrapText(text, width-len(prefix), "    ")
	paint := style.Color.SprintFunc()
	if len(reasons) > 0 {
		paint = color.New(color.Faint).SprintFunc()
	}
	if _, err := fmt.Fprintf(w, "%s%s\n", prefix, paint(wrapped)); err != nil {
		return err
	}
	return writeReasons(reasons, w, color.New(color.FgYellow, color.Faint).SprintFunc())
}

func writeReasons(reasons []string, w io.Writer, paint func(a ...any) string) error {
	for _, r := range reasons {
		line := "hidden: " + r
		if paint != nil {
			line = paint(line)
		}
		if _, err := fmt.Fprintf(w, "      %s\n", line); err != nil {
			return err
		}
	}
	return nil
}

// resolveWidth determines the terminal width to use.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// wrapText wraps text to fit within maxWidth, using indent for continuation lines.
func wrapText(text string, maxWidth int, indent string) string {
	if maxWidth <= 0 || len(text) <= maxWidth {
		return text
	}

	var lines []string
	remaining := text

	for len(remaining) > maxWidth {
		breakPoint := maxWidth
		for i := maxWidth - 1; i > 0; i-- {
			if remaining[i] == ' ' {
				breakPoint = i
				break
			}
		}

		lines = append(lines, remaining[:breakPoint])
		remaining = strings.TrimLeft(remaining[breakPoint:], " ")
	}

	if len(remaining) > 0 {
		lines = append(lines, remaining)
	}

	return strings.Join(lines, "\n"+indent)
}

// capitalizeFirst capitalizes the first letter of a string.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
