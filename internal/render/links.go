package render

import (
	"fmt"
	"strings"

	"github.com/elastic/docs-builder-sub007/internal/changelog"
)

// link is one PR or issue reference. URL is empty when no repository is known.
type link struct {
	Text string
	URL  string
}

type linker struct {
	owner string
}

// links returns the PR links then the issue links of e. repo is the fallback
// repository when the entry does not carry one.
func (l linker) links(e *changelog.Entry, repo string) []link {
	if e.Repo != "" {
		repo = e.Repo
	}
	if strings.Contains(repo, "+") {
		repo = ""
	}
	var out []link
	for _, pr := range e.PRs {
		out = append(out, l.resolve(pr, repo, "pull"))
	}
	for _, issue := range e.Issues {
		out = append(out, l.resolve(issue, repo, "issues"))
	}
	return out
}

func (l linker) resolve(ref, repo, kind string) link {
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		text := ref
		if n := trailingNumber(ref); n != "" {
			text = "#" + n
		}
		return link{Text: text, URL: ref}
	}
	if i := strings.Index(ref, "#"); i > 0 && strings.Contains(ref[:i], "/") {
		return link{Text: ref, URL: fmt.Sprintf("https://github.com/%s/%s/%s", ref[:i], kind, ref[i+1:])}
	}
	n := strings.TrimPrefix(ref, "#")
	if l.owner == "" || repo == "" {
		return link{Text: "#" + n}
	}
	return link{Text: "#" + n, URL: fmt.Sprintf("https://github.com/%s/%s/%s/%s", l.owner, repo, kind, n)}
}

func trailingNumber(ref string) string {
	ref = strings.TrimSuffix(ref, "/")
	i := strings.LastIndex(ref, "/")
	n := ref[i+1:]
	for _, r := range n {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return n
}
