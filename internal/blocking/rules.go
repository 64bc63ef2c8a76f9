package blocking

import (
	"fmt"
	"strings"

	"github.com/elastic/docs-builder-sub007/internal/changelog"
	"github.com/elastic/docs-builder-sub007/internal/config"
)

func publishRule(rule config.PublishRule, scope string) Rule {
	types := rule.BlockedTypes()
	areas := rule.BlockedAreas()
	include := rule.IncludeAreas

	return func(e *changelog.Entry, _ []string) (string, bool) {
		var parts []string
		if matchesType(types, e) {
			parts = append(parts, fmt.Sprintf("type '%s'", e.Type))
		}
		if hit := matchingAreas(areas, e.Areas); len(hit) > 0 {
			parts = append(parts, describeAreas(hit))
		}
		if len(include) > 0 && len(e.Areas) > 0 && len(matchingAreas(include, e.Areas)) == 0 {
			parts = append(parts, describeAreas(e.Areas)+" not in include_areas")
		}
		if len(parts) == 0 {
			return "", false
		}
		return fmt.Sprintf("%s publish rules block %s", scope, strings.Join(parts, " and ")), true
	}
}

func renderBlockerRule(d *config.Docset) Rule {
	type keyed struct {
		products []string
		rule     config.RenderBlockRule
	}
	var blockers []keyed
	for _, key := range d.RenderBlockerKeys() {
		blockers = append(blockers, keyed{products: splitKey(key), rule: d.RenderBlockers[key]})
	}

	return func(e *changelog.Entry, bundleProducts []string) (string, bool) {
		var reasons []string
		for _, b := range blockers {
			product, ok := firstShared(bundleProducts, b.products)
			if !ok {
				continue
			}
			var parts []string
			if hit := matchingAreas(b.rule.Areas, e.Areas); len(hit) > 0 {
				parts = append(parts, describeAreas(hit))
			}
			if matchesType(b.rule.Types, e) {
				parts = append(parts, fmt.Sprintf("type '%s'", e.Type))
			}
			if len(parts) > 0 {
				reasons = append(reasons, fmt.Sprintf("render blockers for product '%s' block %s", product, strings.Join(parts, " and ")))
			}
		}
		if len(reasons) == 0 {
			return "", false
		}
		return strings.Join(reasons, "; "), true
	}
}

func hideRule(h *HideList) Rule {
	return func(e *changelog.Entry, _ []string) (string, bool) {
		if e.FeatureID == "" || !h.Contains(e.FeatureID) {
			return "", false
		}
		return fmt.Sprintf("feature-id '%s' is hidden", e.FeatureID), true
	}
}

// splitKey normalizes a comma-separated render blocker key into product ids.
func splitKey(key string) []string {
	var ids []string
	for _, id := range strings.Split(key, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func firstShared(bundleProducts, keyProducts []string) (string, bool) {
	for _, bp := range bundleProducts {
		for _, kp := range keyProducts {
			if strings.EqualFold(bp, kp) {
				return bp, true
			}
		}
	}
	return "", false
}

// matchesType compares configured type strings with the entry type using the
// same normalization as entry parsing.
func matchesType(types []string, e *changelog.Entry) bool {
	for _, t := range types {
		if parsed := changelog.ParseEntryType(t); parsed != changelog.Invalid && parsed == e.Type {
			return true
		}
	}
	return false
}

// matchingAreas returns the entry areas present in list, in entry order.
func matchingAreas(list, areas []string) []string {
	var hit []string
	for _, a := range areas {
		for _, l := range list {
			if strings.EqualFold(strings.TrimSpace(l), a) {
				hit = append(hit, a)
				break
			}
		}
	}
	return hit
}

func describeAreas(areas []string) string {
	if len(areas) == 1 {
		return fmt.Sprintf("area '%s'", areas[0])
	}
	return fmt.Sprintf("areas '%s'", strings.Join(areas, "', '"))
}
