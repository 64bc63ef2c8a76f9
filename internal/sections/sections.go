// Package sections partitions a bundle's annotated entries into ordered
// sections for rendering.
//
// Critical sections (breaking changes, security, known issues, deprecations)
// are built whenever they have entries and always come first. Normal sections
// follow according to the type filter. A section exists when it has entries,
// visible or not; the renderer and the table of contents both rely on that.
package sections

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/elastic/docs-builder-sub007/internal/blocking"
	"github.com/elastic/docs-builder-sub007/internal/changelog"
	"github.com/elastic/docs-builder-sub007/internal/config"
)

// ErrInvalidEntries is returned when a bundle holds an entry whose type could
// not be parsed. Such a bundle is never rendered.
var ErrInvalidEntries = errors.New("changelog contains entries with an invalid type")

// OtherArea names the trailing subgroup for entries without a usable area.
const OtherArea = "Other"

// Kind describes one section: the types it holds and its heading.
type Kind struct {
	ID       string
	Heading  string
	Types    []changelog.EntryType
	Critical bool
}

// Detailed reports whether the section renders expanded entries in its own
// document.
func (k Kind) Detailed() bool {
	return len(k.Types) == 1 && k.Types[0].IsDetailed()
}

func (k Kind) holds(t changelog.EntryType) bool {
	for _, kt := range k.Types {
		if kt == t {
			return true
		}
	}
	return false
}

var (
	BreakingChanges = Kind{ID: "breaking-changes", Heading: "Breaking changes", Types: []changelog.EntryType{changelog.BreakingChange}, Critical: true}
	SecurityUpdates = Kind{ID: "security", Heading: "Security", Types: []changelog.EntryType{changelog.Security}, Critical: true}
	KnownIssues     = Kind{ID: "known-issues", Heading: "Known issues", Types: []changelog.EntryType{changelog.KnownIssue}, Critical: true}
	Deprecations    = Kind{ID: "deprecations", Heading: "Deprecations", Types: []changelog.EntryType{changelog.Deprecation}, Critical: true}

	FeaturesAndEnhancements = Kind{ID: "features-enhancements", Heading: "Features and enhancements", Types: []changelog.EntryType{changelog.Feature, changelog.Enhancement}}
	Features                = Kind{ID: "features", Heading: "Features", Types: []changelog.EntryType{changelog.Feature}}
	Enhancements            = Kind{ID: "enhancements", Heading: "Enhancements", Types: []changelog.EntryType{changelog.Enhancement}}
	Fixes                   = Kind{ID: "fixes", Heading: "Fixes", Types: []changelog.EntryType{changelog.BugFix}}
	Documentation           = Kind{ID: "documentation", Heading: "Documentation", Types: []changelog.EntryType{changelog.Docs}}
	OtherChanges            = Kind{ID: "other-changes", Heading: "Other changes", Types: []changelog.EntryType{changelog.Other}}
)

var (
	criticalKinds = []Kind{BreakingChanges, SecurityUpdates, KnownIssues, Deprecations}
	defaultKinds  = []Kind{FeaturesAndEnhancements, Fixes, Documentation, OtherChanges}
	allKinds      = []Kind{Features, Enhancements, Fixes, Documentation, OtherChanges}
)

// Subgroup is the entries of a section that share an area.
type Subgroup struct {
	Area    string
	Entries []blocking.Annotated
}

// Visible reports whether any entry of the subgroup is visible.
func (g Subgroup) Visible() bool {
	return anyVisible(g.Entries)
}

// Section is one constructed section. It always has at least one entry.
type Section struct {
	Kind
	Entries []blocking.Annotated
	// Groups is set when area sub-grouping is enabled.
	Groups []Subgroup
}

// Visible reports whether any entry of the section is visible.
func (s Section) Visible() bool {
	return anyVisible(s.Entries)
}

// Options controls classification.
type Options struct {
	Filter      Filter
	Subsections bool
	// Publish is the effective publish rule; its include_areas and
	// exclude_areas decide which area an entry is grouped under.
	Publish config.PublishRule
}

// Release is one bundle classified into sections.
type Release struct {
	Target    string
	RepoLabel string
	Sections  []Section
	// Placeholder is set when no entry of the kind the filter asks for is
	// visible. It is rendered in place of the missing sections.
	Placeholder string
	// Highlights are the highlighted entries, in section order.
	Highlights []blocking.Annotated
}

// Section returns the section with the given id.
func (r *Release) Section(id string) (Section, bool) {
	for _, s := range r.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// Classify builds the sections of one bundle.
func Classify(b *changelog.Bundle, entries []blocking.Annotated, opts Options) (*Release, error) {
	var invalid []string
	for _, a := range entries {
		if a.Entry.Type == changelog.Invalid {
			invalid = append(invalid, fmt.Sprintf("'%s'", a.Entry.Title))
		}
	}
	if len(invalid) > 0 {
		return nil, fmt.Errorf("%w: %s (release %s)", ErrInvalidEntries, strings.Join(invalid, ", "), b.Target)
	}

	r := &Release{Target: b.Target, RepoLabel: b.RepoLabel}
	for _, kind := range kindsFor(opts.Filter) {
		var members []blocking.Annotated
		for _, a := range entries {
			if kind.holds(a.Entry.Type) {
				members = append(members, a)
			}
		}
		if len(members) == 0 {
			continue
		}
		s := Section{Kind: kind, Entries: members}
		if opts.Subsections {
			s.Groups = GroupByArea(members, opts.Publish)
		}
		r.Sections = append(r.Sections, s)
		for _, a := range members {
			if a.Entry.Highlight {
				r.Highlights = append(r.Highlights, a)
			}
		}
	}

	if !hasVisiblePrimary(r.Sections, opts.Filter) {
		r.Placeholder = opts.Filter.Placeholder()
	}
	return r, nil
}

func kindsFor(f Filter) []Kind {
	switch f.Mode {
	case All:
		return append(append([]Kind{}, criticalKinds...), allKinds...)
	case Single:
		for _, k := range append(append([]Kind{}, criticalKinds...), allKinds...) {
			if k.holds(f.Type) {
				return []Kind{k}
			}
		}
		return nil
	default:
		return append(append([]Kind{}, criticalKinds...), defaultKinds...)
	}
}

// hasVisiblePrimary reports whether the filter's placeholder is unnecessary:
// for Default and All that means a visible feature, enhancement or fix; for a
// single type, any visible entry of that type.
func hasVisiblePrimary(sections []Section, f Filter) bool {
	for _, s := range sections {
		for _, a := range s.Entries {
			if !a.Visible() {
				continue
			}
			if f.Mode == Single && a.Entry.Type == f.Type {
				return true
			}
			if f.Mode != Single && a.Entry.Type.IsPrimary() {
				return true
			}
		}
	}
	return false
}

// GroupArea returns the area an entry is grouped under, or OtherArea.
func GroupArea(e *changelog.Entry, rule config.PublishRule) string {
	switch {
	case len(rule.IncludeAreas) > 0:
		for _, a := range e.Areas {
			if containsFold(rule.IncludeAreas, a) {
				return a
			}
		}
	case len(rule.ExcludeAreas) > 0:
		for _, a := range e.Areas {
			if !containsFold(rule.ExcludeAreas, a) {
				return a
			}
		}
	default:
		for _, a := range e.Areas {
			if strings.TrimSpace(a) != "" {
				return a
			}
		}
	}
	return OtherArea
}

// GroupByArea groups entries alphabetically by area, with the Other group
// last. Entry order within a group is preserved.
func GroupByArea(entries []blocking.Annotated, rule config.PublishRule) []Subgroup {
	index := make(map[string]int)
	var groups []Subgroup
	for _, a := range entries {
		area := GroupArea(&a.Entry, rule)
		i, ok := index[strings.ToLower(area)]
		if !ok {
			i = len(groups)
			index[strings.ToLower(area)] = i
			groups = append(groups, Subgroup{Area: area})
		}
		groups[i].Entries = append(groups[i].Entries, a)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		oi, oj := groups[i].Area == OtherArea, groups[j].Area == OtherArea
		if oi != oj {
			return oj
		}
		return strings.ToLower(groups[i].Area) < strings.ToLower(groups[j].Area)
	})
	return groups
}

func anyVisible(entries []blocking.Annotated) bool {
	for _, a := range entries {
		if a.Visible() {
			return true
		}
	}
	return false
}

func containsFold(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(strings.TrimSpace(s), v) {
			return true
		}
	}
	return false
}
