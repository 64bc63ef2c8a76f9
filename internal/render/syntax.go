package render

import (
	"strings"

	"github.com/elastic/docs-builder-sub007/internal/blocking"
)

// syntax renders the pieces of a document in one output format.
type syntax interface {
	heading(level int, title, anchor string) string
	// entry renders a list item. Blocked entries are commented line by line.
	entry(a blocking.Annotated, links []link, hideLinks bool) string
	// detailed renders an expanded entry. Blocked entries are wrapped in a
	// block comment.
	detailed(a blocking.Annotated, links []link, hideLinks bool) string
	groupLabel(area string, visible bool) string
	title(text string) string
}

// prefixLines prefixes every line of text with prefix.
func prefixLines(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// blockComment wraps text between open and end lines. When escapes reports
// that text would end the comment early, every line is prefixed with
// linePrefix instead, so the text stays hidden and removing the markers still
// restores it.
func blockComment(text, open, end, linePrefix string, escapes func(string) bool) string {
	if escapes(text) {
		return prefixLines(text, linePrefix)
	}
	return open + "\n" + text + "\n" + end
}

// indent indents every non-empty line of text.
func indent(text, by string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = by + l
		}
	}
	return strings.Join(lines, "\n")
}

func withPeriod(title string) string {
	title = strings.TrimSpace(title)
	if title == "" || strings.HasSuffix(title, ".") || strings.HasSuffix(title, "?") || strings.HasSuffix(title, "!") {
		return title
	}
	return title + "."
}
