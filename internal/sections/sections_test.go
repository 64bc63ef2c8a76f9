package sections

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elastic/docs-builder-sub007/internal/blocking"
	"github.com/elastic/docs-builder-sub007/internal/changelog"
	"github.com/elastic/docs-builder-sub007/internal/config"
)

func visible(title string, typ changelog.EntryType, areas ...string) blocking.Annotated {
	return blocking.Annotated{Entry: changelog.Entry{Title: title, Type: typ, Areas: areas}}
}

func blocked(title string, typ changelog.EntryType, areas ...string) blocking.Annotated {
	a := visible(title, typ, areas...)
	a.Decision = blocking.Decision{Reasons: []string{"hidden"}}
	return a
}

func ids(r *Release) []string {
	var out []string
	for _, s := range r.Sections {
		out = append(out, s.ID)
	}
	return out
}

var testBundle = &changelog.Bundle{Target: "9.3.0", RepoLabel: "elasticsearch"}

func TestParseFilter(t *testing.T) {
	tests := map[string]struct {
		input   string
		want    Filter
		wantErr bool
	}{
		"empty":       {input: "", want: Filter{Mode: Default}},
		"default":     {input: "Default", want: Filter{Mode: Default}},
		"all":         {input: "all", want: Filter{Mode: All}},
		"single":      {input: "known-issue", want: Filter{Mode: Single, Type: changelog.KnownIssue}},
		"underscores": {input: "breaking_change", want: Filter{Mode: Single, Type: changelog.BreakingChange}},
		"unknown":     {input: "improvement", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseFilter(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_SectionOrder(t *testing.T) {
	entries := []blocking.Annotated{
		visible("Fix", changelog.BugFix),
		visible("Other", changelog.Other),
		visible("Feature", changelog.Feature),
		visible("Deprecated", changelog.Deprecation),
		visible("Enhancement", changelog.Enhancement),
		visible("Breaking", changelog.BreakingChange),
		visible("CVE", changelog.Security),
		visible("Docs", changelog.Docs),
	}

	tests := map[string]struct {
		filter Filter
		want   []string
	}{
		"default": {
			filter: Filter{Mode: Default},
			want:   []string{"breaking-changes", "security", "deprecations", "features-enhancements", "fixes", "documentation", "other-changes"},
		},
		"all": {
			filter: Filter{Mode: All},
			want:   []string{"breaking-changes", "security", "deprecations", "features", "enhancements", "fixes", "documentation", "other-changes"},
		},
		"single critical": {
			filter: Filter{Mode: Single, Type: changelog.Deprecation},
			want:   []string{"deprecations"},
		},
		"single normal": {
			filter: Filter{Mode: Single, Type: changelog.Enhancement},
			want:   []string{"enhancements"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r, err := Classify(testBundle, entries, Options{Filter: tt.filter})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(r))
			assert.Empty(t, r.Placeholder)
		})
	}
}

func TestClassify_EmptySectionsAreNotBuilt(t *testing.T) {
	r, err := Classify(testBundle, []blocking.Annotated{visible("Fix", changelog.BugFix)}, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"fixes"}, ids(r))
	_, ok := r.Section("breaking-changes")
	assert.False(t, ok)
}

func TestClassify_BlockedSectionStillExists(t *testing.T) {
	r, err := Classify(testBundle, []blocking.Annotated{
		visible("Fix", changelog.BugFix),
		blocked("Old API", changelog.Deprecation),
	}, Options{})
	require.NoError(t, err)

	s, ok := r.Section("deprecations")
	require.True(t, ok)
	assert.False(t, s.Visible())
	assert.True(t, s.Detailed())
	assert.Empty(t, r.Placeholder)
}

func TestClassify_Placeholder(t *testing.T) {
	tests := map[string]struct {
		entries []blocking.Annotated
		filter  Filter
		want    string
	}{
		"no primary entries": {
			entries: []blocking.Annotated{visible("Docs", changelog.Docs)},
			want:    DefaultPlaceholder,
		},
		"primary entries all blocked": {
			entries: []blocking.Annotated{blocked("Feature", changelog.Feature), visible("Breaking", changelog.BreakingChange)},
			want:    "_No new features, enhancements, or fixes._",
		},
		"known-issue filter with only features": {
			entries: []blocking.Annotated{visible("Feature", changelog.Feature)},
			filter:  Filter{Mode: Single, Type: changelog.KnownIssue},
			want:    "_No known issues._",
		},
		"empty bundle": {
			want: DefaultPlaceholder,
		},
		"visible fix": {
			entries: []blocking.Annotated{visible("Fix", changelog.BugFix)},
			want:    "",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r, err := Classify(testBundle, tt.entries, Options{Filter: tt.filter})
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Placeholder)
		})
	}
}

func TestClassify_InvalidEntries(t *testing.T) {
	_, err := Classify(testBundle, []blocking.Annotated{
		visible("Fine", changelog.Feature),
		visible("Broken", changelog.Invalid),
	}, Options{})
	assert.ErrorIs(t, err, ErrInvalidEntries)
	assert.Contains(t, err.Error(), "'Broken'")

	_, err = Classify(testBundle, []blocking.Annotated{visible("Only", changelog.Invalid)}, Options{})
	assert.ErrorIs(t, err, ErrInvalidEntries)
}

func TestClassify_Subgroups(t *testing.T) {
	entries := []blocking.Annotated{
		visible("Search one", changelog.Feature, "Search"),
		visible("No area", changelog.Feature),
		blocked("Alloc hidden", changelog.Feature, "Allocation"),
		visible("Search two", changelog.Enhancement, "search"),
		blocked("Ingest hidden", changelog.Feature, "Ingest"),
		visible("Ingest shown", changelog.Feature, "Ingest"),
	}

	r, err := Classify(testBundle, entries, Options{Subsections: true})
	require.NoError(t, err)
	require.Len(t, r.Sections, 1)

	groups := r.Sections[0].Groups
	require.Len(t, groups, 4)
	assert.Equal(t, "Allocation", groups[0].Area)
	assert.False(t, groups[0].Visible())
	assert.Equal(t, "Ingest", groups[1].Area)
	assert.True(t, groups[1].Visible())
	assert.Equal(t, "Search", groups[2].Area)
	assert.Len(t, groups[2].Entries, 2)
	assert.Equal(t, OtherArea, groups[3].Area)
}

func TestGroupArea(t *testing.T) {
	e := &changelog.Entry{Areas: []string{"Allocation", "Search", "Ingest"}}

	tests := map[string]struct {
		rule config.PublishRule
		want string
	}{
		"first area":       {want: "Allocation"},
		"include list":     {rule: config.PublishRule{IncludeAreas: []string{"ingest", "search"}}, want: "Search"},
		"exclude list":     {rule: config.PublishRule{ExcludeAreas: []string{"Allocation"}}, want: "Search"},
		"nothing included": {rule: config.PublishRule{IncludeAreas: []string{"ML"}}, want: OtherArea},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, GroupArea(e, tt.rule))
		})
	}
}

func TestClassify_Highlights(t *testing.T) {
	h := visible("Big one", changelog.Feature)
	h.Entry.Highlight = true
	r, err := Classify(testBundle, []blocking.Annotated{visible("Small", changelog.BugFix), h}, Options{})
	require.NoError(t, err)
	require.Len(t, r.Highlights, 1)
	assert.Equal(t, "Big one", r.Highlights[0].Entry.Title)
}
