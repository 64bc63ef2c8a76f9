package render

import (
	"strconv"
	"strings"
)

// Slug lowercases s and turns every run of characters outside [a-z0-9.] into
// a single '-'. Leading and trailing dashes are dropped.
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// VersionAnchor is the anchor of a release heading.
func VersionAnchor(repo, version string) string {
	return Slug(repo + "-release-notes-" + version)
}

// SectionAnchor is the anchor of a section of a release.
func SectionAnchor(repo, version, sectionID string) string {
	return Slug(repo + "-" + version + "-" + sectionID)
}

// pathSegment makes a target usable as a directory name.
func pathSegment(target string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ', ':':
			return '-'
		}
		return r
	}, target)
}

// occurrences numbers each of n items among those sharing its key, starting
// at 1.
func occurrences(n int, key func(i int) string) []int {
	seen := make(map[string]int)
	out := make([]int, n)
	for i := range out {
		k := key(i)
		seen[k]++
		out[i] = seen[k]
	}
	return out
}

// anchorSuffix is appended to the anchors of a release that repeats an
// earlier release's target and repo label.
func anchorSuffix(occurrence int) string {
	if occurrence <= 1 {
		return ""
	}
	return "-" + strconv.Itoa(occurrence)
}
