package render

import (
	"fmt"
	"strings"

	"github.com/elastic/docs-builder-sub007/internal/blocking"
)

// markdownComment hides a line in rendered markdown.
const markdownComment = "% "

type markdown struct{}

func (markdown) title(text string) string {
	return "# " + text
}

func (markdown) heading(level int, title, anchor string) string {
	return fmt.Sprintf("%s %s [%s]", strings.Repeat("#", level), title, anchor)
}

func (markdown) link(l link) string {
	if l.URL == "" {
		return l.Text
	}
	return fmt.Sprintf("[%s](%s)", l.Text, l.URL)
}

func (m markdown) entry(a blocking.Annotated, links []link, hideLinks bool) string {
	var b strings.Builder
	b.WriteString("* ")
	b.WriteString(withPeriod(a.Entry.Title))
	if hideLinks {
		for _, l := range links {
			b.WriteString("\n" + markdownComment + m.link(l))
		}
	} else {
		for _, l := range links {
			b.WriteString(" " + m.link(l))
		}
	}
	if d := strings.TrimSpace(a.Entry.Description); d != "" {
		b.WriteString("\n" + indent(d, "  "))
	}
	return comment(a, b.String(), markdownComment)
}

func (m markdown) detailed(a blocking.Annotated, links []link, hideLinks bool) string {
	var parts []string
	if d := strings.TrimSpace(a.Entry.Description); d != "" {
		parts = append(parts, d)
	}
	if len(links) > 0 {
		rendered := make([]string, len(links))
		for i, l := range links {
			rendered[i] = m.link(l)
		}
		if hideLinks {
			parts = append(parts, prefixLines(strings.Join(rendered, "\n"), markdownComment))
		} else {
			parts = append(parts, "For more information, check "+strings.Join(rendered, ", ")+".")
		}
	}
	if impact := strings.TrimSpace(a.Entry.Impact); impact != "" {
		parts = append(parts, "**Impact**<br>"+impact)
	}
	if action := strings.TrimSpace(a.Entry.Action); action != "" {
		parts = append(parts, "**Action**<br>"+action)
	}

	block := "::::{dropdown} " + strings.TrimSpace(a.Entry.Title) + "\n" + strings.Join(parts, "\n\n") + "\n::::"
	if a.Decision.Blocked() {
		return blockComment(block, "<!--", "-->", markdownComment, closesHTMLComment)
	}
	return block
}

// closesHTMLComment reports whether text contains a sequence that ends an
// HTML comment.
func closesHTMLComment(text string) bool {
	return strings.Contains(text, "-->") || strings.Contains(text, "--!>")
}

func (markdown) groupLabel(area string, visible bool) string {
	label := "**" + area + "**:"
	if !visible {
		return markdownComment + label
	}
	return label
}

// comment prefixes every line of a blocked entry so removing one prefix per
// line restores it.
func comment(a blocking.Annotated, text, prefix string) string {
	if a.Decision.Blocked() {
		return prefixLines(text, prefix)
	}
	return text
}
