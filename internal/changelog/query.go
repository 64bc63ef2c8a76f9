package changelog

import "strings"

// ProductIDs returns the distinct product ids of the bundle, in order.
func (b *Bundle) ProductIDs() []string {
	seen := make(map[string]bool, len(b.Products))
	ids := make([]string, 0, len(b.Products))
	for _, p := range b.Products {
		id := strings.TrimSpace(p.Product)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// EntriesOfType returns the entries of the given type, in bundle order.
func (b *Bundle) EntriesOfType(t EntryType) []Entry {
	var out []Entry
	for _, e := range b.Entries {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// InvalidEntries returns the entries whose type failed to parse.
func (b *Bundle) InvalidEntries() []Entry {
	return b.EntriesOfType(Invalid)
}

// HasHighlights reports whether any entry is marked highlight.
func (b *Bundle) HasHighlights() bool {
	for _, e := range b.Entries {
		if e.Highlight {
			return true
		}
	}
	return false
}

// CountByType returns how many entries each type has.
func (b *Bundle) CountByType() map[EntryType]int {
	counts := make(map[EntryType]int)
	for _, e := range b.Entries {
		counts[e.Type]++
	}
	return counts
}

// HasArea reports whether the entry lists area (case-insensitive).
func (e *Entry) HasArea(area string) bool {
	for _, a := range e.Areas {
		if strings.EqualFold(a, area) {
			return true
		}
	}
	return false
}

// ProductIDs returns the product ids the entry itself declares.
func (e *Entry) ProductIDs() []string {
	ids := make([]string, 0, len(e.Products))
	for _, p := range e.Products {
		ids = append(ids, p.Product)
	}
	return ids
}
