package release

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elastic/docs-builder-sub007/internal/changelog"
)

func bundle(target, repo string, titles ...string) changelog.Bundle {
	b := changelog.Bundle{Target: target, RepoLabel: repo, OriginPath: repo + "/" + target + ".yaml"}
	for _, title := range titles {
		b.Entries = append(b.Entries, changelog.Entry{Title: title, Type: changelog.Feature, Repo: repo})
	}
	return b
}

func targets(bundles []changelog.Bundle) []string {
	var out []string
	for _, b := range bundles {
		out = append(out, b.Target)
	}
	return out
}

func TestParseKey(t *testing.T) {
	tests := map[string]struct {
		target string
		want   Kind
	}{
		"semver":          {target: "9.3.0", want: SemverKind},
		"semver with v":   {target: "v9.3.0", want: SemverKind},
		"prerelease":      {target: "9.3.0-beta1", want: SemverKind},
		"date":            {target: "2025-08-05", want: DateKind},
		"partial version": {target: "9.3", want: TextKind},
		"text":            {target: "release-alpha", want: TextKind},
		"invalid date":    {target: "2025-13-40", want: TextKind},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseKey(tt.target).Kind)
		})
	}
}

func TestResolve_Stratification(t *testing.T) {
	orders := map[string][]string{
		"date first": {"2025-08-05", "release-alpha", "9.3.0"},
		"text first": {"release-alpha", "9.3.0", "2025-08-05"},
		"sorted":     {"9.3.0", "2025-08-05", "release-alpha"},
	}

	for name, input := range orders {
		t.Run(name, func(t *testing.T) {
			var bundles []changelog.Bundle
			for _, target := range input {
				bundles = append(bundles, bundle(target, "es", "entry"))
			}
			assert.Equal(t, []string{"9.3.0", "2025-08-05", "release-alpha"}, targets(Resolve(bundles, false)))
		})
	}
}

func TestResolve_DescendingWithinStratum(t *testing.T) {
	bundles := []changelog.Bundle{
		bundle("9.2.0", "es"),
		bundle("9.10.0", "es"),
		bundle("9.3.0-beta1", "es"),
		bundle("9.3.0", "es"),
		bundle("2024-12-31", "es"),
		bundle("2025-01-15", "es"),
		bundle("alpha", "es"),
		bundle("beta", "es"),
	}

	got := targets(Resolve(bundles, false))
	assert.Equal(t, []string{
		"9.10.0", "9.3.0", "9.3.0-beta1", "9.2.0",
		"2025-01-15", "2024-12-31",
		"beta", "alpha",
	}, got)
}

func TestResolve_Merge(t *testing.T) {
	bundles := []changelog.Bundle{
		bundle("2025-08-05", "kibana", "k1"),
		bundle("2025-08-05", "elasticsearch", "e1", "e2"),
		bundle("9.1.0", "apm", "a1"),
		bundle("2025-08-05", "beats", "b1"),
	}

	merged := Resolve(bundles, true)
	require.Len(t, merged, 2)
	assert.Equal(t, "9.1.0", merged[0].Target)
	assert.Equal(t, "apm", merged[0].RepoLabel)

	m := merged[1]
	assert.Equal(t, "2025-08-05", m.Target)
	assert.Equal(t, "beats+elasticsearch+kibana", m.RepoLabel)
	require.Len(t, m.Entries, 4)
	assert.Equal(t, []string{"k1", "e1", "e2", "b1"}, []string{m.Entries[0].Title, m.Entries[1].Title, m.Entries[2].Title, m.Entries[3].Title})
	assert.Equal(t, "elasticsearch", m.Entries[1].Repo)
	assert.True(t, m.IsMerged())
	assert.Len(t, m.MergedFrom, 3)

	// sources untouched
	assert.Len(t, bundles[1].Entries, 2)
	assert.Equal(t, "kibana", bundles[0].RepoLabel)
}

func TestResolve_NoMergeKeepsBundlesApart(t *testing.T) {
	bundles := []changelog.Bundle{
		bundle("9.0.0", "kibana", "k1"),
		bundle("9.1.0", "es", "e1"),
		bundle("9.0.0", "beats", "b1"),
	}

	got := Resolve(bundles, false)
	require.Len(t, got, 3)
	assert.Equal(t, "9.1.0", got[0].Target)
	assert.Equal(t, "kibana", got[1].RepoLabel)
	assert.Equal(t, "beats", got[2].RepoLabel)
}

func TestMerge_DeduplicatesLabels(t *testing.T) {
	g := Group{Target: "1.0.0", Bundles: []changelog.Bundle{
		bundle("1.0.0", "es", "a"),
		bundle("1.0.0", "es", "b"),
	}}
	assert.Equal(t, "es", Merge(g).RepoLabel)
}

func TestMerge_DistinctTargetsNeverMerge(t *testing.T) {
	got := Resolve([]changelog.Bundle{bundle("9.0.0", "a", "x"), bundle("v9.0.0", "b", "y")}, true)
	assert.Len(t, got, 2)
}
