package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/elastic/docs-builder-sub007/internal/bundle"
	"github.com/elastic/docs-builder-sub007/internal/changelog"
	"github.com/elastic/docs-builder-sub007/internal/config"
	clierrors "github.com/elastic/docs-builder-sub007/internal/errors"
	"github.com/elastic/docs-builder-sub007/internal/git"
	"github.com/elastic/docs-builder-sub007/internal/pipeline"
)

// bundleFlags are shared by render and show.
type bundleFlags struct {
	inputs       []string
	root         string
	title        string
	changelogCfg string
	docset       string
	product      string
	hideFeatures []string
	merge        bool
}

func (f *bundleFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.inputs, "input", "i", nil, "Bundle descriptor as path[|entries-dir[|repo]] (repeatable)")
	cmd.Flags().StringVar(&f.root, "root", "", "Directory where changelog.yml and docset.yml are discovered (default: working directory, then repository root)")
	cmd.Flags().StringVar(&f.title, "title", "", "Version title used for every bundle instead of its target")
	cmd.Flags().StringVar(&f.changelogCfg, "changelog-config", "", "Explicit changelog config file")
	cmd.Flags().StringVar(&f.docset, "docset", "", "Explicit docset file")
	cmd.Flags().StringVar(&f.product, "product", "", "Product whose publish rules apply")
	cmd.Flags().StringSliceVar(&f.hideFeatures, "hide-features", nil, "Feature ids to hide, or files listing them")
	cmd.Flags().BoolVar(&f.merge, "merge", false, "Merge bundles that share a target")
}

// descriptors parses --input values and checks that each bundle file exists.
func (f *bundleFlags) descriptors() ([]bundle.Descriptor, error) {
	if len(f.inputs) == 0 {
		return nil, clierrors.MissingBundleInput()
	}
	descs := make([]bundle.Descriptor, 0, len(f.inputs))
	for _, in := range f.inputs {
		d, err := bundle.ParseDescriptor(in)
		if err != nil {
			return nil, clierrors.InvalidBundleInput(in, err)
		}
		if _, err := os.Stat(d.Path); err != nil {
			return nil, clierrors.BundleNotFound(d.Path)
		}
		descs = append(descs, d)
	}
	return descs, nil
}

// discoveryRoot is --root when set. Otherwise it is the working directory,
// or the root of its git repository when the working directory holds neither
// a changelog config nor a docset.
func (f *bundleFlags) discoveryRoot() string {
	if f.root != "" {
		return f.root
	}
	if config.DiscoverChangelogConfig(".") != "" || config.DiscoverDocset(".") != "" {
		return "."
	}
	if root, err := git.RepositoryRoot("."); err == nil {
		return root
	}
	return "."
}

// loadSettings loads the tool settings named by the persistent --config flag.
func loadSettings(cmd *cobra.Command) (*config.Configuration, error) {
	path, _ := cmd.Flags().GetString("config")
	settings, err := config.LoadWithOptions(config.LoadOptions{
		ProjectConfigPath: path,
		WarningWriter:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, clierrors.ConfigLoadFailed(err)
	}
	return settings, nil
}

// pipelineOptions merges settings and flags. Flags that were set win.
func (f *bundleFlags) pipelineOptions(cmd *cobra.Command, settings *config.Configuration) (pipeline.Options, error) {
	descs, err := f.descriptors()
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.Options{
		Root:         f.discoveryRoot(),
		Bundles:      descs,
		Title:        f.title,
		ConfigPath:   settings.ChangelogConfig,
		DocsetPath:   f.docset,
		Product:      f.product,
		HideFeatures: f.hideFeatures,
		Merge:        settings.Merge,
		Owner:        settings.Owner,
		Repo:         settings.Repo,
		MaxParallel:  settings.MaxParallel,
	}
	if f.changelogCfg != "" {
		opts.ConfigPath = f.changelogCfg
	}
	if cmd.Flags().Changed("merge") {
		opts.Merge = f.merge
	}
	return opts, nil
}

func validTypeNames() []string {
	types := changelog.ValidEntryTypes()
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, string(t))
	}
	return names
}
