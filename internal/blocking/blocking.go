// Package blocking decides whether changelog entries are published.
//
// Three independent rule sources are evaluated for every entry, in order:
// the publish rules of the changelog config, the render blockers of the
// docset and the hide list of feature ids. Every rule that matches adds a
// reason; a Decision with any reason is blocked. Blocked entries are not
// dropped. Renderers emit them inside comments so the output stays auditable.
package blocking

import (
	"strings"

	"github.com/elastic/docs-builder-sub007/internal/changelog"
	"github.com/elastic/docs-builder-sub007/internal/config"
	"github.com/elastic/docs-builder-sub007/internal/diag"
)

// Decision is the visibility of one entry.
type Decision struct {
	Reasons []string
}

// Blocked reports whether any rule matched.
func (d Decision) Blocked() bool {
	return len(d.Reasons) > 0
}

// Reason joins every reason into one sentence fragment.
func (d Decision) Reason() string {
	return strings.Join(d.Reasons, "; ")
}

// Annotated pairs an entry with its decision. The entry is never modified.
type Annotated struct {
	Entry    changelog.Entry
	Decision Decision
}

// Visible reports whether the entry is shown.
func (a Annotated) Visible() bool {
	return !a.Decision.Blocked()
}

// Rule is one independent predicate. It returns a reason and true when it
// blocks the entry. bundleProducts are the product ids of the bundle the entry
// was loaded from.
type Rule func(e *changelog.Entry, bundleProducts []string) (string, bool)

// Options gathers the rule sources in scope for one render.
type Options struct {
	// Config supplies the publish rules. May be nil.
	Config *config.ChangelogConfig
	// Docset supplies the render blockers. May be nil.
	Docset *config.Docset
	// ActiveProducts are the products of the docset being built.
	ActiveProducts []string
	// ProductOverride, when set, replaces ActiveProducts for rule selection.
	ProductOverride string
	// Hide is the merged hide list. May be nil.
	Hide *HideList
}

// Engine evaluates the ordered rule list.
type Engine struct {
	rules   []Rule
	publish config.PublishRule
	scope   string
}

// New builds an Engine from opts.
func New(opts Options) *Engine {
	e := &Engine{}
	e.publish, e.scope = effectivePublish(opts)

	if !e.publish.IsZero() {
		e.rules = append(e.rules, publishRule(e.publish, e.scope))
	}
	if opts.Docset != nil && len(opts.Docset.RenderBlockers) > 0 {
		e.rules = append(e.rules, renderBlockerRule(opts.Docset))
	}
	if opts.Hide.Len() > 0 {
		e.rules = append(e.rules, hideRule(opts.Hide))
	}
	return e
}

// PublishRule returns the effective publish rule, which also decides the
// area an entry is sub-grouped under.
func (e *Engine) PublishRule() config.PublishRule {
	return e.publish
}

// Decide evaluates every rule and collects all matching reasons.
func (e *Engine) Decide(entry *changelog.Entry, bundleProducts []string) Decision {
	var d Decision
	for _, rule := range e.rules {
		if reason, ok := rule(entry, bundleProducts); ok {
			d.Reasons = append(d.Reasons, reason)
		}
	}
	return d
}

// Annotate decides every entry of b, in order, and warns about each blocked one.
func (e *Engine) Annotate(b *changelog.Bundle, c *diag.Collector) []Annotated {
	products := b.ProductIDs()
	out := make([]Annotated, 0, len(b.Entries))
	for i := range b.Entries {
		entry := b.Entries[i]
		d := e.Decide(&entry, products)
		if d.Blocked() {
			c.Warnf(b.OriginPath, "Changelog entry '%s' will be commented out: %s", entry.Title, d.Reason())
		}
		out = append(out, Annotated{Entry: entry, Decision: d})
	}
	return out
}

// effectivePublish picks the publish rule in force. A product rule is used
// when exactly one product is active (or overridden) and has one; otherwise
// the global rule applies. Product and global rules never combine.
func effectivePublish(opts Options) (config.PublishRule, string) {
	product := strings.TrimSpace(opts.ProductOverride)
	if product == "" && len(opts.ActiveProducts) == 1 {
		product = strings.TrimSpace(opts.ActiveProducts[0])
	}
	if product != "" {
		if rule, ok := opts.Config.ProductPublish(product); ok {
			return rule, "product '" + product + "'"
		}
	}
	if rule, ok := opts.Config.GlobalPublish(); ok {
		return rule, "global"
	}
	return config.PublishRule{}, ""
}
