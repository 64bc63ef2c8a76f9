// Package release orders changelog bundles by their release target and
// optionally merges bundles that share one.
//
// Targets are compared in three strata: semantic versions first, then ISO
// dates, then anything else. Within a stratum the newest (or greatest) target
// comes first.
package release

import (
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/elastic/docs-builder-sub007/internal/changelog"
)

// Kind is the stratum a target parses into. Lower kinds sort first.
type Kind int

const (
	SemverKind Kind = iota
	DateKind
	TextKind
)

const dateLayout = "2006-01-02"

// Key is a parsed target.
type Key struct {
	Raw     string
	Kind    Kind
	version *semver.Version
	date    time.Time
}

// ParseKey classifies a target string. A leading "v" is accepted on versions.
func ParseKey(target string) Key {
	k := Key{Raw: target, Kind: TextKind}
	trimmed := strings.TrimSpace(target)
	if v, err := semver.StrictNewVersion(strings.TrimPrefix(trimmed, "v")); err == nil {
		k.Kind = SemverKind
		k.version = v
		return k
	}
	if d, err := time.Parse(dateLayout, trimmed); err == nil {
		k.Kind = DateKind
		k.date = d
	}
	return k
}

// Newer reports whether k sorts before other in release order.
func (k Key) Newer(other Key) bool {
	if k.Kind != other.Kind {
		return k.Kind < other.Kind
	}
	switch k.Kind {
	case SemverKind:
		if c := k.version.Compare(other.version); c != 0 {
			return c > 0
		}
	case DateKind:
		if !k.date.Equal(other.date) {
			return k.date.After(other.date)
		}
	}
	return k.Raw > other.Raw
}

// Group is the bundles sharing one target, in discovery order.
type Group struct {
	Target  string
	Bundles []changelog.Bundle
}

// GroupByTarget groups bundles by their exact target string and returns the
// groups newest first. Bundle order inside a group is preserved.
func GroupByTarget(bundles []changelog.Bundle) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, b := range bundles {
		i, ok := index[b.Target]
		if !ok {
			i = len(groups)
			index[b.Target] = i
			groups = append(groups, Group{Target: b.Target})
		}
		groups[i].Bundles = append(groups[i].Bundles, b)
	}

	keys := make(map[string]Key, len(groups))
	for _, g := range groups {
		keys[g.Target] = ParseKey(g.Target)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return keys[groups[i].Target].Newer(keys[groups[j].Target])
	})
	return groups
}

// Merge combines the bundles of one group into a synthetic bundle. The
// sources are not modified. A single-bundle group is returned as is.
func Merge(g Group) changelog.Bundle {
	if len(g.Bundles) == 1 {
		return g.Bundles[0]
	}

	merged := changelog.Bundle{Target: g.Target}
	labels := make(map[string]bool)
	seenProducts := make(map[string]bool)
	for i, b := range g.Bundles {
		if i == 0 {
			merged.OriginPath = b.OriginPath
		}
		merged.Entries = append(merged.Entries, b.Entries...)
		merged.MergedFrom = append(merged.MergedFrom, b.OriginPath)
		if b.RepoLabel != "" {
			labels[b.RepoLabel] = true
		}
		for _, p := range b.Products {
			key := p.Product + "@" + p.Target
			if !seenProducts[key] {
				seenProducts[key] = true
				merged.Products = append(merged.Products, p)
			}
		}
	}

	sorted := make([]string, 0, len(labels))
	for l := range labels {
		sorted = append(sorted, l)
	}
	sort.Strings(sorted)
	merged.RepoLabel = strings.Join(sorted, "+")
	return merged
}

// Resolve orders bundles newest first. With merge, each group collapses into
// one bundle; without it, same-target bundles stay separate and adjacent.
func Resolve(bundles []changelog.Bundle, merge bool) []changelog.Bundle {
	groups := GroupByTarget(bundles)
	out := make([]changelog.Bundle, 0, len(bundles))
	for _, g := range groups {
		if merge {
			out = append(out, Merge(g))
			continue
		}
		out = append(out, g.Bundles...)
	}
	return out
}
