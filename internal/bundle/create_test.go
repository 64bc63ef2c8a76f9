package bundle

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elastic/docs-builder-sub007/internal/changelog"
	"github.com/elastic/docs-builder-sub007/internal/diag"
)

const kibanaEntry = `title: Dashboard export
type: feature
products:
  - product: kibana
    target: 9.3.0
pr: "https://github.com/elastic/kibana/pull/777"
`

func TestCreate_RoundTripsThroughLoader(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "feature.yaml", featureEntry)
	writeFile(t, dir, "fix.yaml", fixEntry)
	writeFile(t, dir, "notes.txt", "ignored")

	c := diag.NewCollector()
	res, err := Create(CreateOptions{EntriesDir: dir, All: true}, c)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "bundles", "9.3.0.yaml"), res.Path)
	assert.Equal(t, "9.3.0", res.Target)
	assert.Equal(t, 2, res.Entries)

	bundles, err := newTestLoader(Options{}).Load([]Descriptor{{Path: res.Path, BaseDir: dir}}, c)
	require.NoError(t, err)
	assert.False(t, c.HasErrors(), c.Diagnostics())
	require.Len(t, bundles[0].Entries, 2)
	assert.Equal(t, "Faster shard allocation", bundles[0].Entries[0].Title)
	assert.True(t, bundles[0].Entries[0].Source.IsFile())
}

func TestCreate_Filters(t *testing.T) {
	tests := map[string]struct {
		opts        CreateOptions
		wantTitles  []string
		wantWarning string
	}{
		"prs bare number": {
			opts:       CreateOptions{PRs: []string{"2345"}},
			wantTitles: []string{"Fix snapshot restore"},
		},
		"prs against url": {
			opts:       CreateOptions{PRs: []string{"777"}},
			wantTitles: []string{"Dashboard export"},
		},
		"unmatched pr": {
			opts:        CreateOptions{PRs: []string{"1234", "4242"}},
			wantTitles:  []string{"Faster shard allocation"},
			wantWarning: "no changelog entry found for PR '4242'",
		},
		"input products": {
			opts:       CreateOptions{InputProducts: []changelog.ProductTarget{{Product: "kibana", Target: "*"}}},
			wantTitles: []string{"Dashboard export"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "a-feature.yaml", featureEntry)
			writeFile(t, dir, "b-fix.yaml", fixEntry)
			writeFile(t, dir, "c-kibana.yaml", kibanaEntry)

			opts := tt.opts
			opts.EntriesDir = dir
			opts.Resolve = true
			opts.Output = filepath.Join(dir, "out", "bundle.yaml")

			c := diag.NewCollector()
			res, err := Create(opts, c)
			require.NoError(t, err)
			if tt.wantWarning != "" {
				assert.True(t, c.Contains(diag.Warning, tt.wantWarning))
			}

			bundles, err := newTestLoader(Options{}).Load([]Descriptor{{Path: res.Path}}, diag.NewCollector())
			require.NoError(t, err)
			var titles []string
			for _, e := range bundles[0].Entries {
				titles = append(titles, e.Title)
				assert.False(t, e.Source.IsFile())
			}
			assert.Equal(t, tt.wantTitles, titles)
		})
	}
}

func TestCreate_NoFilter(t *testing.T) {
	_, err := Create(CreateOptions{EntriesDir: t.TempDir()}, diag.NewCollector())
	assert.ErrorIs(t, err, ErrNoFilter)
}

func TestCreate_BadEntryFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.yaml", "title: [unclosed")

	c := diag.NewCollector()
	_, err := Create(CreateOptions{EntriesDir: dir, All: true}, c)
	assert.ErrorIs(t, err, ErrInvalidBundles)
	assert.True(t, c.Contains(diag.Error, "failed to deserialize entry file 'bad.yaml'"))
}

func TestSamePR(t *testing.T) {
	tests := map[string]struct {
		a, b string
		want bool
	}{
		"identical":        {a: "123", b: "123", want: true},
		"number vs url":    {a: "https://github.com/elastic/es/pull/123", b: "123", want: true},
		"number vs short":  {a: "elastic/es#123", b: "123", want: true},
		"different repos":  {a: "elastic/es#123", b: "elastic/kibana#123", want: false},
		"different number": {a: "123", b: "124", want: false},
		"empty":            {a: "", b: "123", want: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, SamePR(tt.a, tt.b))
		})
	}
}

func TestParseInputProducts(t *testing.T) {
	got, err := ParseInputProducts("elasticsearch 9.3.0 ga, kibana 9.3.0, cloud-serverless")
	require.NoError(t, err)
	assert.Equal(t, []changelog.ProductTarget{
		{Product: "elasticsearch", Target: "9.3.0", Lifecycle: "ga"},
		{Product: "kibana", Target: "9.3.0"},
		{Product: "cloud-serverless", Target: "*"},
	}, got)

	_, err = ParseInputProducts("a b c d")
	assert.Error(t, err)
}

func TestReadList(t *testing.T) {
	dir := t.TempDir()
	listFile := filepath.Join(dir, "prs.txt")
	require.NoError(t, os.WriteFile(listFile, []byte("# comment\n101\n\n102\n"), 0o644))

	got, err := ReadList([]string{"1, 2", listFile, " "})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "101", "102"}, got)
}
