// Package render turns classified releases into release-note documents.
//
// Markdown output is one directory per release holding index.md plus a
// document for each detailed section (breaking changes, deprecations, known
// issues). Asciidoc output is one combined document. Both formats write every
// heading through the same document builder, which records the table of
// contents and anchor list as it goes, so the TOC can never disagree with
// the rendered text.
package render

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/elastic/docs-builder-sub007/internal/blocking"
	"github.com/elastic/docs-builder-sub007/internal/changelog"
	"github.com/elastic/docs-builder-sub007/internal/config"
	"github.com/elastic/docs-builder-sub007/internal/diag"
	"github.com/elastic/docs-builder-sub007/internal/sections"
)

// Format is an output syntax.
type Format string

const (
	Markdown Format = "markdown"
	Asciidoc Format = "asciidoc"
)

// ParseFormat parses an output format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", Markdown:
		return Markdown, nil
	case Asciidoc:
		return Asciidoc, nil
	default:
		return "", fmt.Errorf("unsupported output format %q: expected markdown or asciidoc", s)
	}
}

func (f Format) syntax() syntax {
	if f == Asciidoc {
		return asciidoc{}
	}
	return markdown{}
}

// Options controls rendering.
type Options struct {
	Format Format
	// Owner is the GitHub organization PR and issue links point at.
	Owner       string
	HideLinks   bool
	Subsections bool
	Filter      sections.Filter
	// Publish is the effective publish rule, used to pick subgroup areas.
	Publish config.PublishRule
	// MaxParallel bounds concurrent per-release work. Zero means one.
	MaxParallel int
}

// Document is one output file, relative to the output directory.
type Document struct {
	Path    string
	Content string
}

// TOCEntry is one rendered heading.
type TOCEntry struct {
	Document string
	Title    string
	Level    int
	Anchor   string
}

// Output is everything a render produced.
type Output struct {
	Documents []Document
	TOC       []TOCEntry
	// Anchors lists every heading anchor in TOC order.
	Anchors []string
}

// Document returns the document at path.
func (o *Output) Document(path string) (Document, bool) {
	for _, d := range o.Documents {
		if d.Path == path {
			return d, true
		}
	}
	return Document{}, false
}

// docBuilder accumulates the blocks of one document and the headings it holds.
type docBuilder struct {
	path   string
	blocks []string
	toc    []TOCEntry
}

func (d *docBuilder) add(block string) {
	if block != "" {
		d.blocks = append(d.blocks, block)
	}
}

func (d *docBuilder) heading(s syntax, level int, title, anchor string) {
	d.add(s.heading(level, title, anchor))
	d.toc = append(d.toc, TOCEntry{Document: d.path, Title: title, Level: level, Anchor: anchor})
}

// fragment is the part of the output contributed by one release.
type fragment struct {
	docs []*docBuilder
}

// Build annotates, classifies and renders each bundle. Bundles are processed
// concurrently; results and diagnostics are assembled in bundle order so the
// output does not depend on scheduling.
func Build(ctx context.Context, bundles []changelog.Bundle, engine *blocking.Engine, opts Options, c *diag.Collector) (*Output, error) {
	opts.Publish = engine.PublishRule()

	limit := opts.MaxParallel
	if limit < 1 {
		limit = 1
	}

	occurrence := occurrences(len(bundles), func(i int) string {
		return VersionAnchor(bundles[i].RepoLabel, bundles[i].Target)
	})
	for i, n := range occurrence {
		if n > 1 {
			c.Warnf(bundles[i].OriginPath, "bundle shares target '%s' and repo label '%s' with an earlier bundle; its anchors get the suffix '%s'",
				bundles[i].Target, bundles[i].RepoLabel, anchorSuffix(n))
		}
	}

	releases := make([]*sections.Release, len(bundles))
	fragments := make([]fragment, len(bundles))
	collectors := make([]*diag.Collector, len(bundles))
	errs := make([]error, len(bundles))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := range bundles {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			col := diag.NewCollector()
			collectors[i] = col

			annotated := engine.Annotate(&bundles[i], col)
			r, err := sections.Classify(&bundles[i], annotated, sections.Options{
				Filter:      opts.Filter,
				Subsections: opts.Subsections,
				Publish:     opts.Publish,
			})
			if err != nil {
				col.Errorf(bundles[i].OriginPath, "%v", err)
				errs[i] = err
				return nil
			}
			releases[i] = r
			fragments[i] = renderRelease(r, opts, occurrence[i])
			return nil
		})
	}
	waitErr := g.Wait()

	for _, col := range collectors {
		if col != nil {
			c.Append(col)
		}
	}
	if waitErr != nil {
		return nil, waitErr
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return assemble(releases, fragments, occurrence, opts), nil
}

// renderRelease renders one release. occurrence numbers releases that share
// a target and repo label so their anchors stay unique.
func renderRelease(r *sections.Release, opts Options, occurrence int) fragment {
	s := opts.Format.syntax()
	lk := linker{owner: opts.Owner}
	target := r.Target
	suffix := anchorSuffix(occurrence)
	versionAnchor := VersionAnchor(r.RepoLabel, target) + suffix

	if opts.Format == Asciidoc {
		doc := &docBuilder{path: AsciidocDocument}
		doc.heading(s, 2, target, versionAnchor)
		doc.add(r.Placeholder)
		for _, sec := range r.Sections {
			doc.heading(s, 3, sec.Heading, SectionAnchor(r.RepoLabel, target, sec.ID)+suffix)
			writeSection(doc, s, lk, r, sec, opts)
		}
		return fragment{docs: []*docBuilder{doc}}
	}

	dir := pathSegment(target)
	index := &docBuilder{path: dir + "/index.md"}
	index.heading(s, 2, target, versionAnchor)
	index.add(r.Placeholder)
	docs := []*docBuilder{index}
	for _, sec := range r.Sections {
		anchor := SectionAnchor(r.RepoLabel, target, sec.ID) + suffix
		if !sec.Detailed() {
			index.heading(s, 3, sec.Heading, anchor)
			writeSection(index, s, lk, r, sec, opts)
			continue
		}
		doc := &docBuilder{path: dir + "/" + sec.ID + ".md"}
		doc.heading(s, 2, target, anchor)
		writeSection(doc, s, lk, r, sec, opts)
		docs = append(docs, doc)
	}
	return fragment{docs: docs}
}

func writeSection(doc *docBuilder, s syntax, lk linker, r *sections.Release, sec sections.Section, opts Options) {
	if sec.Detailed() {
		if !sec.Visible() {
			doc.add(sections.TypePlaceholder(sec.Types[0]))
		}
		for _, a := range sec.Entries {
			doc.add(s.detailed(a, lk.links(&a.Entry, r.RepoLabel), opts.HideLinks))
		}
		return
	}

	if opts.Subsections && len(sec.Groups) > 0 {
		for _, g := range sec.Groups {
			doc.add(s.groupLabel(g.Area, g.Visible()) + "\n" + entryList(s, lk, r.RepoLabel, g.Entries, opts.HideLinks))
		}
		return
	}
	doc.add(entryList(s, lk, r.RepoLabel, sec.Entries, opts.HideLinks))
}

func entryList(s syntax, lk linker, repo string, entries []blocking.Annotated, hideLinks bool) string {
	items := make([]string, len(entries))
	for i, a := range entries {
		items[i] = s.entry(a, lk.links(&a.Entry, repo), hideLinks)
	}
	return strings.Join(items, "\n")
}

// Output document names.
const (
	AsciidocDocument  = "release-notes.asciidoc"
	MarkdownHighlight = "highlights.md"
	AsciidocHighlight = "highlights.asciidoc"
)

// assemble merges fragments in release order. Fragments writing the same
// document (same-target releases that were not merged) are concatenated.
func assemble(releases []*sections.Release, fragments []fragment, occurrence []int, opts Options) *Output {
	s := opts.Format.syntax()
	var order []string
	docs := make(map[string]*docBuilder)
	get := func(path string) *docBuilder {
		d, ok := docs[path]
		if !ok {
			d = &docBuilder{path: path}
			docs[path] = d
			order = append(order, path)
		}
		return d
	}

	if opts.Format == Asciidoc {
		get(AsciidocDocument).add(s.title("Release notes"))
	}
	for _, f := range fragments {
		for _, fd := range f.docs {
			d := get(fd.path)
			d.blocks = append(d.blocks, fd.blocks...)
			d.toc = append(d.toc, fd.toc...)
		}
	}
	if h := renderHighlights(releases, occurrence, opts); h != nil {
		d := get(h.path)
		d.blocks = append(d.blocks, h.blocks...)
		d.toc = append(d.toc, h.toc...)
	}

	out := &Output{}
	for _, path := range order {
		d := docs[path]
		out.Documents = append(out.Documents, Document{Path: path, Content: strings.Join(d.blocks, "\n\n") + "\n"})
		for _, t := range d.toc {
			out.TOC = append(out.TOC, t)
			out.Anchors = append(out.Anchors, t.Anchor)
		}
	}
	return out
}

// renderHighlights collects highlighted entries of every release into one
// document. It returns nil when nothing is highlighted.
func renderHighlights(releases []*sections.Release, occurrence []int, opts Options) *docBuilder {
	found := false
	for _, r := range releases {
		if r != nil && len(r.Highlights) > 0 {
			found = true
			break
		}
	}
	if !found {
		return nil
	}

	s := opts.Format.syntax()
	lk := linker{owner: opts.Owner}
	path := MarkdownHighlight
	if opts.Format == Asciidoc {
		path = AsciidocHighlight
	}
	doc := &docBuilder{path: path}
	doc.add(s.title("Highlights"))
	for i, r := range releases {
		if r == nil || len(r.Highlights) == 0 {
			continue
		}
		doc.heading(s, 2, r.Target, SectionAnchor(r.RepoLabel, r.Target, "highlights")+anchorSuffix(occurrence[i]))
		if !opts.Subsections {
			doc.add(entryList(s, lk, r.RepoLabel, r.Highlights, opts.HideLinks))
			continue
		}
		for _, g := range sections.GroupByArea(r.Highlights, opts.Publish) {
			doc.add(s.groupLabel(g.Area, g.Visible()) + "\n" + entryList(s, lk, r.RepoLabel, g.Entries, opts.HideLinks))
		}
	}
	return doc
}
