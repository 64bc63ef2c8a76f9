package render

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elastic/docs-builder-sub007/internal/blocking"
	"github.com/elastic/docs-builder-sub007/internal/changelog"
	"github.com/elastic/docs-builder-sub007/internal/config"
	"github.com/elastic/docs-builder-sub007/internal/diag"
	"github.com/elastic/docs-builder-sub007/internal/sections"
)

func makeBundle(target, product string, entries ...changelog.Entry) changelog.Bundle {
	for i := range entries {
		entries[i].Repo = product
	}
	return changelog.Bundle{
		Target:     target,
		Products:   []changelog.ProductTarget{{Product: product, Target: target}},
		RepoLabel:  product,
		Entries:    entries,
		OriginPath: "bundles/" + target + ".yaml",
	}
}

func build(t *testing.T, bundles []changelog.Bundle, engine *blocking.Engine, opts Options) (*Output, *diag.Collector) {
	t.Helper()
	if engine == nil {
		engine = blocking.New(blocking.Options{})
	}
	if opts.Owner == "" {
		opts.Owner = "elastic"
	}
	c := diag.NewCollector()
	out, err := Build(context.Background(), bundles, engine, opts, c)
	require.NoError(t, err)
	return out, c
}

func content(t *testing.T, out *Output, path string) string {
	t.Helper()
	d, ok := out.Document(path)
	require.True(t, ok, "document %s not rendered; have %v", path, out.Documents)
	return d.Content
}

func TestBuild_BlockedByProductRule(t *testing.T) {
	bundles := []changelog.Bundle{makeBundle("9.3.0", "cloud-serverless",
		changelog.Entry{Title: "Smarter allocation", Type: changelog.Feature, Areas: []string{"Allocation"}},
	)}
	cfg := &config.ChangelogConfig{Block: config.RuleSet{Product: map[string]config.ProductRules{
		"cloud-serverless": {Publish: config.PublishRule{Areas: []string{"Allocation"}}},
	}}}

	t.Run("blocked", func(t *testing.T) {
		engine := blocking.New(blocking.Options{Config: cfg, ActiveProducts: []string{"cloud-serverless"}})
		out, c := build(t, bundles, engine, Options{})
		index := content(t, out, "9.3.0/index.md")
		assert.Contains(t, index, "% * Smarter allocation.")
		assert.True(t, c.Contains(diag.Warning, "Changelog entry 'Smarter allocation' will be commented out"))
	})

	t.Run("no config", func(t *testing.T) {
		out, c := build(t, bundles, nil, Options{})
		index := content(t, out, "9.3.0/index.md")
		assert.Contains(t, index, "\n* Smarter allocation.")
		assert.NotContains(t, index, "% * Smarter allocation.")
		assert.Zero(t, c.Len())
	})
}

func TestBuild_HiddenDeprecation(t *testing.T) {
	bundles := []changelog.Bundle{makeBundle("9.3.0", "elasticsearch",
		changelog.Entry{Title: "New query", Type: changelog.Feature},
		changelog.Entry{Title: "Old query syntax", Type: changelog.Deprecation, FeatureID: "old-query",
			Impact: "Queries keep working.", Action: "Switch to the new syntax."},
	)}
	engine := blocking.New(blocking.Options{Hide: blocking.NewHideList("OLD-QUERY")})

	out, _ := build(t, bundles, engine, Options{})
	deprecations := content(t, out, "9.3.0/deprecations.md")
	assert.Contains(t, deprecations, "_No deprecations._")
	assert.Contains(t, deprecations, "<!--\n::::{dropdown} Old query syntax")
	assert.Contains(t, deprecations, "**Action**<br>Switch to the new syntax.\n::::\n-->")

	index := content(t, out, "9.3.0/index.md")
	assert.NotContains(t, index, sections.DefaultPlaceholder)
	assert.NotContains(t, index, "Old query syntax")
}

func TestBuild_KnownIssueFilterPlaceholder(t *testing.T) {
	bundles := []changelog.Bundle{makeBundle("9.3.0", "elasticsearch",
		changelog.Entry{Title: "A feature", Type: changelog.Feature},
	)}

	out, _ := build(t, bundles, nil, Options{Filter: sections.Filter{Mode: sections.Single, Type: changelog.KnownIssue}})
	index := content(t, out, "9.3.0/index.md")
	assert.Contains(t, index, "_No known issues._")
	assert.NotContains(t, index, sections.DefaultPlaceholder)
	assert.NotContains(t, index, "A feature")
	_, ok := out.Document("9.3.0/known-issues.md")
	assert.False(t, ok)
}

func TestBuild_IndexLayout(t *testing.T) {
	bundles := []changelog.Bundle{makeBundle("9.3.0", "elasticsearch",
		changelog.Entry{Title: "Faster search", Type: changelog.Feature, PRs: []string{"1234"}, Issues: []string{"99"}},
		changelog.Entry{Title: "Fix restore", Type: changelog.BugFix, Description: "Restores no longer hang.\nEven big ones."},
		changelog.Entry{Title: "CVE fix", Type: changelog.Security},
	)}

	out, _ := build(t, bundles, nil, Options{})
	want := `## 9.3.0 [elasticsearch-release-notes-9.3.0]

### Security [elasticsearch-9.3.0-security]

* CVE fix.

### Features and enhancements [elasticsearch-9.3.0-features-enhancements]

* Faster search. [#1234](https://github.com/elastic/elasticsearch/pull/1234) [#99](https://github.com/elastic/elasticsearch/issues/99)

### Fixes [elasticsearch-9.3.0-fixes]

* Fix restore.
  Restores no longer hang.
  Even big ones.
`
	assert.Equal(t, want, content(t, out, "9.3.0/index.md"))
	assert.Equal(t, []string{
		"elasticsearch-release-notes-9.3.0",
		"elasticsearch-9.3.0-security",
		"elasticsearch-9.3.0-features-enhancements",
		"elasticsearch-9.3.0-fixes",
	}, out.Anchors)
	assert.Equal(t, TOCEntry{Document: "9.3.0/index.md", Title: "9.3.0", Level: 2, Anchor: "elasticsearch-release-notes-9.3.0"}, out.TOC[0])
}

func TestBuild_HideLinks(t *testing.T) {
	bundles := []changelog.Bundle{makeBundle("9.3.0", "elasticsearch",
		changelog.Entry{Title: "Shown", Type: changelog.Feature, PRs: []string{"1"}},
		changelog.Entry{Title: "Hidden", Type: changelog.Feature, PRs: []string{"2"}, FeatureID: "h"},
	)}
	engine := blocking.New(blocking.Options{Hide: blocking.NewHideList("h")})

	out, _ := build(t, bundles, engine, Options{HideLinks: true})
	index := content(t, out, "9.3.0/index.md")
	assert.Contains(t, index, "* Shown.\n% [#1](https://github.com/elastic/elasticsearch/pull/1)")
	assert.Contains(t, index, "% * Hidden.\n% % [#2](https://github.com/elastic/elasticsearch/pull/2)")
}

func TestBuild_Subsections(t *testing.T) {
	bundles := []changelog.Bundle{makeBundle("9.3.0", "elasticsearch",
		changelog.Entry{Title: "Search thing", Type: changelog.Feature, Areas: []string{"Search"}},
		changelog.Entry{Title: "Alloc thing", Type: changelog.Feature, Areas: []string{"Allocation"}, FeatureID: "alloc"},
		changelog.Entry{Title: "Loose thing", Type: changelog.Feature},
	)}
	engine := blocking.New(blocking.Options{Hide: blocking.NewHideList("alloc")})

	out, _ := build(t, bundles, engine, Options{Subsections: true})
	index := content(t, out, "9.3.0/index.md")
	assert.Contains(t, index, "% **Allocation**:\n% * Alloc thing.")
	assert.Contains(t, index, "**Search**:\n* Search thing.")
	assert.Contains(t, index, "**Other**:\n* Loose thing.")
	assert.Less(t, strings.Index(index, "Allocation"), strings.Index(index, "**Search**"))
	assert.Less(t, strings.Index(index, "**Search**"), strings.Index(index, "**Other**"))
}

func TestBuild_Asciidoc(t *testing.T) {
	bundles := []changelog.Bundle{
		makeBundle("9.3.0", "elasticsearch",
			changelog.Entry{Title: "Feature one", Type: changelog.Feature, PRs: []string{"5"}},
			changelog.Entry{Title: "Gone", Type: changelog.Feature, FeatureID: "gone"},
			changelog.Entry{Title: "Old API", Type: changelog.BreakingChange, FeatureID: "gone", Impact: "It breaks."},
		),
		makeBundle("9.2.0", "elasticsearch", changelog.Entry{Title: "Earlier", Type: changelog.BugFix}),
	}
	engine := blocking.New(blocking.Options{Hide: blocking.NewHideList("gone")})

	out, _ := build(t, bundles, engine, Options{Format: Asciidoc})
	require.Len(t, out.Documents, 1)
	doc := content(t, out, AsciidocDocument)

	assert.True(t, strings.HasPrefix(doc, "[[release-notes]]\n= Release notes\n"))
	assert.Contains(t, doc, "[[elasticsearch-release-notes-9.3.0]]\n== 9.3.0")
	assert.Contains(t, doc, "[[elasticsearch-9.3.0-breaking-changes]]\n=== Breaking changes")
	assert.Contains(t, doc, "_No breaking changes._")
	assert.Contains(t, doc, "////\n.Old API\n[%collapsible]\n====\n*Impact* +\nIt breaks.\n====\n////")
	assert.Contains(t, doc, "* Feature one. https://github.com/elastic/elasticsearch/pull/5[#5]")
	assert.Contains(t, doc, "// * Gone.")
	assert.Less(t, strings.Index(doc, "== 9.3.0"), strings.Index(doc, "== 9.2.0"))
}

func TestBuild_Highlights(t *testing.T) {
	plain := []changelog.Bundle{makeBundle("9.3.0", "elasticsearch", changelog.Entry{Title: "F", Type: changelog.Feature})}
	out, _ := build(t, plain, nil, Options{})
	_, ok := out.Document(MarkdownHighlight)
	assert.False(t, ok)

	highlighted := []changelog.Bundle{
		makeBundle("9.3.0", "elasticsearch", changelog.Entry{Title: "Big news", Type: changelog.Feature, Highlight: true, Areas: []string{"Search"}}),
		makeBundle("9.2.0", "elasticsearch", changelog.Entry{Title: "Quiet", Type: changelog.BugFix}),
	}
	out, _ = build(t, highlighted, nil, Options{Subsections: true})
	h := content(t, out, MarkdownHighlight)
	assert.Equal(t, "# Highlights\n\n## 9.3.0 [elasticsearch-9.3.0-highlights]\n\n**Search**:\n* Big news.\n", h)
	assert.Contains(t, out.Anchors, "elasticsearch-9.3.0-highlights")
}

func TestBuild_SameTargetWithoutMerge(t *testing.T) {
	bundles := []changelog.Bundle{
		makeBundle("9.0.0", "kibana", changelog.Entry{Title: "K", Type: changelog.Feature}),
		makeBundle("9.0.0", "beats", changelog.Entry{Title: "B", Type: changelog.Feature}),
	}
	out, _ := build(t, bundles, nil, Options{})
	require.Len(t, out.Documents, 1)
	index := content(t, out, "9.0.0/index.md")
	assert.Contains(t, index, "[kibana-release-notes-9.0.0]")
	assert.Contains(t, index, "[beats-release-notes-9.0.0]")
	assert.Less(t, strings.Index(index, "kibana"), strings.Index(index, "beats"))
}

func TestBuild_SameTargetAndRepoWithoutMerge(t *testing.T) {
	first := makeBundle("9.3.0", "elasticsearch", changelog.Entry{Title: "First", Type: changelog.Feature, Highlight: true})
	second := makeBundle("9.3.0", "elasticsearch", changelog.Entry{Title: "Second", Type: changelog.Feature, Highlight: true})
	second.OriginPath = "bundles/9.3.0-more.yaml"

	for _, format := range []Format{Markdown, Asciidoc} {
		t.Run(string(format), func(t *testing.T) {
			out, c := build(t, []changelog.Bundle{first, second}, nil, Options{Format: format})

			assert.Equal(t, []string{
				"elasticsearch-release-notes-9.3.0",
				"elasticsearch-9.3.0-features-enhancements",
				"elasticsearch-release-notes-9.3.0-2",
				"elasticsearch-9.3.0-features-enhancements-2",
				"elasticsearch-9.3.0-highlights",
				"elasticsearch-9.3.0-highlights-2",
			}, out.Anchors)
			assert.Equal(t, out.Anchors, renderedAnchors(out))
			assert.True(t, c.Contains(diag.Warning, "bundle shares target '9.3.0' and repo label 'elasticsearch' with an earlier bundle; its anchors get the suffix '-2'"))
			assert.Equal(t, "bundles/9.3.0-more.yaml", c.Warnings()[0].File)
		})
	}
}

func TestBuild_InvalidEntry(t *testing.T) {
	bundles := []changelog.Bundle{makeBundle("9.3.0", "elasticsearch",
		changelog.Entry{Title: "Bad", Type: changelog.Invalid, RawType: "oops"},
	)}
	c := diag.NewCollector()
	_, err := Build(context.Background(), bundles, blocking.New(blocking.Options{}), Options{}, c)
	assert.ErrorIs(t, err, sections.ErrInvalidEntries)
	assert.True(t, c.HasErrors())
}

func mixedBundles() []changelog.Bundle {
	var bundles []changelog.Bundle
	for _, target := range []string{"9.3.0", "9.2.0", "2025-08-05", "release-alpha"} {
		bundles = append(bundles, makeBundle(target, "elasticsearch",
			changelog.Entry{Title: "Feature " + target, Type: changelog.Feature, Areas: []string{"Search"}, PRs: []string{"1"}},
			changelog.Entry{Title: "Hidden " + target, Type: changelog.Enhancement, FeatureID: "hide", Areas: []string{"Ingest"}},
			changelog.Entry{Title: "Breaking " + target, Type: changelog.BreakingChange, Impact: "i", Action: "a"},
			changelog.Entry{Title: "Known " + target, Type: changelog.KnownIssue, FeatureID: "hide"},
			changelog.Entry{Title: "Docs " + target, Type: changelog.Docs, Highlight: true},
		))
	}
	return bundles
}

func TestBuild_IdempotentAndParallelSafe(t *testing.T) {
	engine := blocking.New(blocking.Options{Hide: blocking.NewHideList("hide")})
	for _, format := range []Format{Markdown, Asciidoc} {
		t.Run(string(format), func(t *testing.T) {
			first, c1 := build(t, mixedBundles(), engine, Options{Format: format, MaxParallel: 1, Subsections: true})
			second, c2 := build(t, mixedBundles(), engine, Options{Format: format, MaxParallel: 4, Subsections: true})
			assert.Equal(t, first, second)
			assert.Equal(t, c1.Diagnostics(), c2.Diagnostics())
		})
	}
}

var headingAnchor = regexp.MustCompile(`(?m)^(?:#+ .* \[([^\]]+)\]|\[\[([^\]]+)\]\])$`)

func renderedAnchors(out *Output) []string {
	var anchors []string
	for _, d := range out.Documents {
		for _, m := range headingAnchor.FindAllStringSubmatch(d.Content, -1) {
			a := m[1] + m[2]
			// document titles are not part of the TOC
			if a == "release-notes" || a == "highlights" {
				continue
			}
			anchors = append(anchors, a)
		}
	}
	return anchors
}

func TestBuild_SectionsMatchTOC(t *testing.T) {
	engine := blocking.New(blocking.Options{Hide: blocking.NewHideList("hide")})
	filters := []string{"default", "all", "feature", "enhancement", "bug-fix", "breaking-change",
		"deprecation", "known-issue", "security", "docs", "other"}

	for _, format := range []Format{Markdown, Asciidoc} {
		for _, name := range filters {
			t.Run(string(format)+"/"+name, func(t *testing.T) {
				filter, err := sections.ParseFilter(name)
				require.NoError(t, err)
				out, _ := build(t, mixedBundles(), engine, Options{Format: format, Filter: filter, Subsections: true})
				assert.Equal(t, out.Anchors, renderedAnchors(out))
				for _, entry := range out.TOC {
					assert.Contains(t, content(t, out, entry.Document), entry.Anchor)
				}
			})
		}
	}
}

func TestBlockedEntriesAreReversible(t *testing.T) {
	e := changelog.Entry{
		Title: "Reversible", Type: changelog.Deprecation, Description: "Some text.\n\nMore.",
		Impact: "Impact.", Action: "Action.", PRs: []string{"7"},
	}
	links := linker{owner: "elastic"}.links(&e, "elasticsearch")
	shown := blocking.Annotated{Entry: e}
	hidden := blocking.Annotated{Entry: e, Decision: blocking.Decision{Reasons: []string{"r"}}}

	tests := map[string]struct {
		render func(a blocking.Annotated) string
		strip  func(s string) string
	}{
		"markdown entry": {
			render: func(a blocking.Annotated) string { return markdown{}.entry(a, links, true) },
			strip:  func(s string) string { return stripPrefix(s, markdownComment) },
		},
		"asciidoc entry": {
			render: func(a blocking.Annotated) string { return asciidoc{}.entry(a, links, false) },
			strip:  func(s string) string { return stripPrefix(s, asciidocComment) },
		},
		"markdown detailed": {
			render: func(a blocking.Annotated) string { return markdown{}.detailed(a, links, false) },
			strip: func(s string) string {
				return strings.TrimSuffix(strings.TrimPrefix(s, "<!--\n"), "\n-->")
			},
		},
		"asciidoc detailed": {
			render: func(a blocking.Annotated) string { return asciidoc{}.detailed(a, links, true) },
			strip: func(s string) string {
				return strings.TrimSuffix(strings.TrimPrefix(s, "////\n"), "\n////")
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			blocked := tt.render(hidden)
			assert.Contains(t, blocked, "Reversible")
			assert.NotEqual(t, tt.render(shown), blocked)
			assert.Equal(t, tt.render(shown), tt.strip(blocked))
		})
	}
}

func TestBlockedDetailedEntries_TextContainingCommentEnd(t *testing.T) {
	tests := map[string]struct {
		format      Format
		description string
		doc         string
		prefix      string
		strip       func(s string) string
	}{
		"markdown html comment end": {
			format:      Markdown,
			description: "Rewrite a --> b as a => b.",
			doc:         "9.3.0/deprecations.md",
			prefix:      markdownComment,
		},
		"markdown bang comment end": {
			format:      Markdown,
			description: "Odd --!> arrow.",
			doc:         "9.3.0/deprecations.md",
			prefix:      markdownComment,
		},
		"asciidoc block delimiter": {
			format:      Asciidoc,
			description: "Before\n//////\nAfter",
			doc:         AsciidocDocument,
			prefix:      asciidocComment,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			e := changelog.Entry{
				Title: "Rewritten arrows", Type: changelog.Deprecation, FeatureID: "arrows",
				Description: tt.description, Impact: "SECRET impact text", Action: "Update scripts.",
			}
			bundles := []changelog.Bundle{makeBundle("9.3.0", "elasticsearch", e)}
			engine := blocking.New(blocking.Options{Hide: blocking.NewHideList("arrows")})

			out, _ := build(t, bundles, engine, Options{Format: tt.format})
			doc := content(t, out, tt.doc)
			require.Contains(t, doc, "SECRET impact text")
			for _, line := range strings.Split(doc, "\n") {
				if strings.Contains(line, "SECRET") || strings.Contains(line, "Rewritten arrows") {
					assert.True(t, strings.HasPrefix(line, tt.prefix), "line %q is not commented", line)
				}
			}

			var render func(a blocking.Annotated) string
			if tt.format == Asciidoc {
				render = func(a blocking.Annotated) string { return asciidoc{}.detailed(a, nil, false) }
			} else {
				render = func(a blocking.Annotated) string { return markdown{}.detailed(a, nil, false) }
			}
			hidden := render(blocking.Annotated{Entry: e, Decision: blocking.Decision{Reasons: []string{"r"}}})
			assert.Equal(t, render(blocking.Annotated{Entry: e}), stripPrefix(hidden, tt.prefix))
		})
	}
}

func stripPrefix(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimPrefix(l, prefix)
	}
	return strings.Join(lines, "\n")
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("AsciiDoc")
	require.NoError(t, err)
	assert.Equal(t, Asciidoc, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, Markdown, f)

	_, err = ParseFormat("html")
	assert.Error(t, err)
}
