package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/elastic/docs-builder-sub007/internal/diag"
)

// PublishRule excludes entry types and areas from published output.
// Both the short form (types, areas) and the explicit form (exclude_types,
// exclude_areas) are accepted; they are unioned. IncludeAreas, when set, also
// drives which area an entry is sub-grouped under.
type PublishRule struct {
	Types        []string `koanf:"types"`
	Areas        []string `koanf:"areas"`
	ExcludeTypes []string `koanf:"exclude_types"`
	ExcludeAreas []string `koanf:"exclude_areas"`
	IncludeAreas []string `koanf:"include_areas"`
}

// BlockedTypes returns the union of the excluded types.
func (r PublishRule) BlockedTypes() []string {
	return union(r.Types, r.ExcludeTypes)
}

// BlockedAreas returns the union of the excluded areas.
func (r PublishRule) BlockedAreas() []string {
	return union(r.Areas, r.ExcludeAreas)
}

// IsZero reports whether the rule declares nothing.
func (r PublishRule) IsZero() bool {
	return len(r.Types) == 0 && len(r.Areas) == 0 && len(r.ExcludeTypes) == 0 &&
		len(r.ExcludeAreas) == 0 && len(r.IncludeAreas) == 0
}

// ProductRules holds the rules scoped to one product.
type ProductRules struct {
	Publish PublishRule `koanf:"publish"`
}

// RuleSet is the shape shared by the `block` and `rules` sections.
type RuleSet struct {
	Publish PublishRule             `koanf:"publish"`
	Product map[string]ProductRules `koanf:"product"`
}

// Pivot declares the recognized taxonomy.
type Pivot struct {
	Types []string `koanf:"types"`
	Areas []string `koanf:"areas"`
}

// ChangelogConfig is the changelog.yml document.
type ChangelogConfig struct {
	Pivot      Pivot    `koanf:"pivot"`
	Lifecycles []string `koanf:"lifecycles"`
	Block      RuleSet  `koanf:"block"`
	Rules      RuleSet  `koanf:"rules"`

	// Path is where the config was loaded from; empty when none was found.
	Path string `koanf:"-"`
}

// GlobalPublish returns the global publish rule. `rules.publish` wins over
// `block.publish` when both are declared.
func (c *ChangelogConfig) GlobalPublish() (PublishRule, bool) {
	if c == nil {
		return PublishRule{}, false
	}
	if !c.Rules.Publish.IsZero() {
		return c.Rules.Publish, true
	}
	if !c.Block.Publish.IsZero() {
		return c.Block.Publish, true
	}
	return PublishRule{}, false
}

// ProductPublish returns the publish rule scoped to product, if one exists.
// Product ids compare case-insensitively.
func (c *ChangelogConfig) ProductPublish(product string) (PublishRule, bool) {
	if c == nil || product == "" {
		return PublishRule{}, false
	}
	for _, set := range []RuleSet{c.Rules, c.Block} {
		for id, rules := range set.Product {
			if strings.EqualFold(strings.TrimSpace(id), product) && !rules.Publish.IsZero() {
				return rules.Publish, true
			}
		}
	}
	return PublishRule{}, false
}

// LoadChangelogConfig loads the changelog config. An explicit path wins; when
// it does not exist a Warning is collected and an empty config is returned so
// the build runs without blockers. Without an explicit path the config is
// discovered under root; finding none is not a diagnostic.
func LoadChangelogConfig(root, explicitPath string, c *diag.Collector) (*ChangelogConfig, error) {
	path := explicitPath
	if path != "" {
		if !fileExists(path) {
			c.Warnf(path, "changelog config file %s does not exist; no publish blockers will be applied", path)
			return &ChangelogConfig{}, nil
		}
	} else {
		path = DiscoverChangelogConfig(root)
		if path == "" {
			return &ChangelogConfig{}, nil
		}
	}

	k, err := loadDocument(path)
	if err != nil {
		return nil, err
	}

	var cfg ChangelogConfig
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal changelog config %s: %w", path, err)
	}
	cfg.Path = path
	return &cfg, nil
}

// loadDocument validates and loads one YAML or JSON document into a fresh koanf.
func loadDocument(path string) (*koanf.Koanf, error) {
	if err := ValidateYAMLSyntax(path); err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	k := koanf.New(".")
	if info.Size() == 0 {
		return k, nil
	}
	if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return k, nil
}

// union returns the distinct non-empty values of a then b, in order.
func union(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, list := range [][]string{a, b} {
		for _, v := range list {
			v = strings.TrimSpace(v)
			if v == "" || seen[strings.ToLower(v)] {
				continue
			}
			seen[strings.ToLower(v)] = true
			out = append(out, v)
		}
	}
	return out
}
