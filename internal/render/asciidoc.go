package render

import (
	"fmt"
	"strings"

	"github.com/elastic/docs-builder-sub007/internal/blocking"
)

const (
	asciidocComment      = "// "
	asciidocBlockComment = "////"
)

type asciidoc struct{}

func (asciidoc) title(text string) string {
	return "[[" + Slug(text) + "]]\n= " + text
}

func (asciidoc) heading(level int, title, anchor string) string {
	return fmt.Sprintf("[[%s]]\n%s %s", anchor, strings.Repeat("=", level), title)
}

func (asciidoc) link(l link) string {
	if l.URL == "" {
		return l.Text
	}
	return fmt.Sprintf("%s[%s]", l.URL, l.Text)
}

func (ad asciidoc) entry(a blocking.Annotated, links []link, hideLinks bool) string {
	var b strings.Builder
	b.WriteString("* ")
	b.WriteString(withPeriod(a.Entry.Title))
	if hideLinks {
		for _, l := range links {
			b.WriteString("\n" + asciidocComment + ad.link(l))
		}
	} else {
		for _, l := range links {
			b.WriteString(" " + ad.link(l))
		}
	}
	if d := strings.TrimSpace(a.Entry.Description); d != "" {
		b.WriteString("\n+\n" + d)
	}
	return comment(a, b.String(), asciidocComment)
}

func (ad asciidoc) detailed(a blocking.Annotated, links []link, hideLinks bool) string {
	var parts []string
	if d := strings.TrimSpace(a.Entry.Description); d != "" {
		parts = append(parts, d)
	}
	if len(links) > 0 {
		rendered := make([]string, len(links))
		for i, l := range links {
			rendered[i] = ad.link(l)
		}
		if hideLinks {
			parts = append(parts, prefixLines(strings.Join(rendered, "\n"), asciidocComment))
		} else {
			parts = append(parts, "For more information, check "+strings.Join(rendered, ", ")+".")
		}
	}
	if impact := strings.TrimSpace(a.Entry.Impact); impact != "" {
		parts = append(parts, "*Impact* +\n"+impact)
	}
	if action := strings.TrimSpace(a.Entry.Action); action != "" {
		parts = append(parts, "*Action* +\n"+action)
	}

	block := "." + strings.TrimSpace(a.Entry.Title) + "\n[%collapsible]\n====\n" + strings.Join(parts, "\n\n") + "\n===="
	if a.Decision.Blocked() {
		return blockComment(block, asciidocBlockComment, asciidocBlockComment, asciidocComment, hasCommentDelimiter)
	}
	return block
}

// hasCommentDelimiter reports whether a line of text is a comment block
// delimiter: four or more slashes and nothing else.
func hasCommentDelimiter(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t")
		if len(line) >= 4 && strings.Trim(line, "/") == "" {
			return true
		}
	}
	return false
}

func (asciidoc) groupLabel(area string, visible bool) string {
	label := "*" + area + "*:"
	if !visible {
		return asciidocComment + label
	}
	return label
}
