package sections

import (
	"fmt"
	"strings"

	"github.com/elastic/docs-builder-sub007/internal/changelog"
)

// Mode selects which normal sections are built.
type Mode int

const (
	// Default builds features and enhancements together, then fixes, docs
	// and other changes.
	Default Mode = iota
	// All gives every type its own section.
	All
	// Single builds only the section of one type.
	Single
)

// Filter is a type filter mode.
type Filter struct {
	Mode Mode
	// Type is set for Single.
	Type changelog.EntryType
}

// ParseFilter parses "default", "all" or an entry type string. Empty is Default.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return Filter{Mode: Default}, nil
	case "all":
		return Filter{Mode: All}, nil
	}
	t := changelog.ParseEntryType(s)
	if t == changelog.Invalid {
		return Filter{}, fmt.Errorf("invalid type filter %q: expected default, all or one of %s", s, typeList())
	}
	return Filter{Mode: Single, Type: t}, nil
}

func (f Filter) String() string {
	switch f.Mode {
	case All:
		return "all"
	case Single:
		return string(f.Type)
	default:
		return "default"
	}
}

var placeholders = map[changelog.EntryType]string{
	changelog.Feature:        "_No new features._",
	changelog.Enhancement:    "_No new enhancements._",
	changelog.BugFix:         "_No new fixes._",
	changelog.BreakingChange: "_No breaking changes._",
	changelog.Deprecation:    "_No deprecations._",
	changelog.KnownIssue:     "_No known issues._",
	changelog.Security:       "_No security updates._",
	changelog.Docs:           "_No documentation changes._",
	changelog.Other:          "_No other changes._",
}

// DefaultPlaceholder is shown when a release has no visible feature,
// enhancement or fix.
const DefaultPlaceholder = "_No new features, enhancements, or fixes._"

// Placeholder returns the empty-state sentence for the filter.
func (f Filter) Placeholder() string {
	if f.Mode == Single {
		return TypePlaceholder(f.Type)
	}
	return DefaultPlaceholder
}

// TypePlaceholder returns the empty-state sentence for one type.
func TypePlaceholder(t changelog.EntryType) string {
	if p, ok := placeholders[t]; ok {
		return p
	}
	return DefaultPlaceholder
}

func typeList() string {
	types := changelog.ValidEntryTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
