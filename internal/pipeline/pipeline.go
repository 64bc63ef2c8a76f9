// Package pipeline runs a changelog render end to end: load the config and
// docset, resolve bundles, order and merge them, decide visibility, classify,
// render and write the documents.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/elastic/docs-builder-sub007/internal/blocking"
	"github.com/elastic/docs-builder-sub007/internal/bundle"
	"github.com/elastic/docs-builder-sub007/internal/changelog"
	"github.com/elastic/docs-builder-sub007/internal/config"
	"github.com/elastic/docs-builder-sub007/internal/diag"
	"github.com/elastic/docs-builder-sub007/internal/release"
	"github.com/elastic/docs-builder-sub007/internal/render"
	"github.com/elastic/docs-builder-sub007/internal/sections"
)

// ErrNoBundles is returned when no bundle descriptor was given.
var ErrNoBundles = errors.New("at least one bundle input is required")

// Options are the inputs of one render.
type Options struct {
	// Root is where the changelog config and docset are discovered.
	Root    string
	Bundles []bundle.Descriptor
	// OutputDir receives the documents.
	OutputDir string
	// Title overrides every bundle's target.
	Title string
	// ConfigPath is an explicit changelog config path.
	ConfigPath string
	// DocsetPath is an explicit docset path.
	DocsetPath string
	// Product overrides the docset's active products for publish rules.
	Product string
	// HideFeatures holds feature ids and files listing feature ids.
	HideFeatures []string
	Subsections  bool
	Merge        bool
	HideLinks    bool
	// Filter is "default", "all" or an entry type.
	Filter string
	// Format is "markdown" or "asciidoc".
	Format      string
	Owner       string
	Repo        string
	MaxParallel int
}

// Prepared is the state shared by render and preview: resolved bundles in
// release order and the blocking engine that applies to them.
type Prepared struct {
	Bundles []changelog.Bundle
	Engine  *blocking.Engine
	Config  *config.ChangelogConfig
	Docset  *config.Docset
}

// Result describes a finished render.
type Result struct {
	Output  *render.Output
	Written []string
	Bundles int
}

// Prepare loads configuration and bundles. Diagnostics go to c; the returned
// error is bundle.ErrInvalidBundles when any bundle failed to load.
func Prepare(opts Options, c *diag.Collector) (*Prepared, error) {
	if len(opts.Bundles) == 0 {
		return nil, ErrNoBundles
	}
	root := opts.Root
	if root == "" {
		root = "."
	}

	cfg, err := config.LoadChangelogConfig(root, opts.ConfigPath, c)
	if err != nil {
		return nil, fmt.Errorf("loading changelog config: %w", err)
	}
	docset, err := config.LoadDocset(root, opts.DocsetPath)
	if err != nil {
		return nil, fmt.Errorf("loading docset: %w", err)
	}

	hidden, err := bundle.ReadList(opts.HideFeatures)
	if err != nil {
		return nil, fmt.Errorf("reading hide-features: %w", err)
	}

	loader := bundle.NewLoader(bundle.Options{
		Title:       opts.Title,
		DefaultRepo: opts.Repo,
		Config:      cfg,
	})
	bundles, err := loader.Load(opts.Bundles, c)
	if err != nil {
		return nil, err
	}

	engine := blocking.New(blocking.Options{
		Config:          cfg,
		Docset:          docset,
		ActiveProducts:  docset.ProductIDs(),
		ProductOverride: opts.Product,
		Hide:            blocking.NewHideList(hidden...),
	})

	return &Prepared{
		Bundles: release.Resolve(bundles, opts.Merge),
		Engine:  engine,
		Config:  cfg,
		Docset:  docset,
	}, nil
}

// Run renders and writes every document. A render that collected Error
// diagnostics writes nothing.
func Run(ctx context.Context, opts Options, c *diag.Collector) (*Result, error) {
	filter, err := sections.ParseFilter(opts.Filter)
	if err != nil {
		return nil, err
	}
	format, err := render.ParseFormat(opts.Format)
	if err != nil {
		return nil, err
	}
	if opts.OutputDir == "" {
		return nil, errors.New("output directory is required")
	}

	prepared, err := Prepare(opts, c)
	if err != nil {
		return nil, err
	}

	out, err := render.Build(ctx, prepared.Bundles, prepared.Engine, render.Options{
		Format:      format,
		Owner:       opts.Owner,
		HideLinks:   opts.HideLinks,
		Subsections: opts.Subsections,
		Filter:      filter,
		MaxParallel: opts.MaxParallel,
	}, c)
	if err != nil {
		return nil, err
	}

	written, err := write(opts.OutputDir, out.Documents)
	if err != nil {
		return nil, err
	}
	return &Result{Output: out, Written: written, Bundles: len(prepared.Bundles)}, nil
}

func write(dir string, docs []render.Document) ([]string, error) {
	written := make([]string, 0, len(docs))
	for _, d := range docs {
		path := filepath.Join(dir, filepath.FromSlash(d.Path))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return written, fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(d.Content), 0o644); err != nil {
			return written, fmt.Errorf("writing %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

// Inputs lists the files a render reads, for watching.
func Inputs(opts Options) []string {
	root := opts.Root
	if root == "" {
		root = "."
	}
	var paths []string
	for _, d := range opts.Bundles {
		paths = append(paths, d.Path)
		if d.BaseDir != "" {
			paths = append(paths, d.BaseDir)
		} else {
			paths = append(paths, filepath.Dir(d.Path))
		}
	}
	if opts.ConfigPath != "" {
		paths = append(paths, opts.ConfigPath)
	} else if p := config.DiscoverChangelogConfig(root); p != "" {
		paths = append(paths, p)
	}
	if opts.DocsetPath != "" {
		paths = append(paths, opts.DocsetPath)
	} else if p := config.DiscoverDocset(root); p != "" {
		paths = append(paths, p)
	}
	return paths
}
