package config

import (
	"fmt"
	"sort"
	"strings"
)

// DocsetProduct is one product a docset declares.
type DocsetProduct struct {
	ID string `koanf:"id"`
}

// RenderBlockRule suppresses areas and types at render time.
type RenderBlockRule struct {
	Areas []string `koanf:"areas"`
	Types []string `koanf:"types"`
}

// Docset is the part of the docset document the changelog engine reads.
type Docset struct {
	Products []DocsetProduct `koanf:"products"`
	// RenderBlockers is keyed by one or more comma-separated product ids.
	RenderBlockers map[string]RenderBlockRule `koanf:"render_blockers"`

	Path string `koanf:"-"`
}

// ProductIDs returns the declared product ids, in order.
func (d *Docset) ProductIDs() []string {
	if d == nil {
		return nil
	}
	ids := make([]string, 0, len(d.Products))
	for _, p := range d.Products {
		if id := strings.TrimSpace(p.ID); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// RenderBlockerKeys returns the render blocker keys sorted, so callers that
// iterate them produce deterministic output.
func (d *Docset) RenderBlockerKeys() []string {
	if d == nil {
		return nil
	}
	keys := make([]string, 0, len(d.RenderBlockers))
	for k := range d.RenderBlockers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LoadDocset loads the docset at explicitPath, or discovers one under root.
// A docset is optional: finding none returns an empty Docset.
func LoadDocset(root, explicitPath string) (*Docset, error) {
	path := explicitPath
	if path == "" {
		path = DiscoverDocset(root)
	}
	if path == "" || !fileExists(path) {
		return &Docset{}, nil
	}

	k, err := loadDocument(path)
	if err != nil {
		return nil, err
	}

	var d Docset
	if err := k.Unmarshal("", &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal docset %s: %w", path, err)
	}
	d.Path = path
	return &d, nil
}
