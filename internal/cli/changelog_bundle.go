package cli

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/elastic/docs-builder-sub007/internal/bundle"
	"github.com/elastic/docs-builder-sub007/internal/changelog"
	"github.com/elastic/docs-builder-sub007/internal/diag"
	clierrors "github.com/elastic/docs-builder-sub007/internal/errors"
)

type bundleCreateFlags struct {
	directory     string
	all           bool
	prs           []string
	inputProducts string
	resolve       bool
	output        string
}

func newChangelogBundleCmd() *cobra.Command {
	f := &bundleCreateFlags{}
	cmd := &cobra.Command{
		Use:   "bundle",
		Short: "Collect changelog entry files into a bundle",
		Long: `Collect changelog entry files into a bundle descriptor.

Select entries with exactly one filter: --all, --prs or --input-products.
The descriptor lists each selected file with its checksum, or embeds the
entries when --resolve is set. By default it is written to
<directory>/bundles/<target>.yaml.`,
		Example: `  # Every entry in the directory
  docs-builder changelog bundle --directory docs/changelog --all

  # Entries for specific PRs, from a list or a file of refs
  docs-builder changelog bundle --directory docs/changelog --prs 1234,elastic/kibana#99
  docs-builder changelog bundle --directory docs/changelog --prs prs.txt

  # Entries targeting a product release, inlined
  docs-builder changelog bundle --directory docs/changelog \
    --input-products "elasticsearch 9.3.0 ga" --resolve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChangelogBundle(cmd, f)
		},
	}

	cmd.Flags().StringVarP(&f.directory, "directory", "d", "", "Directory of changelog entry files")
	cmd.Flags().BoolVar(&f.all, "all", false, "Select every entry")
	cmd.Flags().StringSliceVar(&f.prs, "prs", nil, "PR references, or files listing them")
	cmd.Flags().StringVar(&f.inputProducts, "input-products", "", `Products as "<id> <target> [lifecycle], ..."`)
	cmd.Flags().BoolVar(&f.resolve, "resolve", false, "Embed entries instead of referencing files")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Descriptor path (default: <directory>/bundles/<target>.yaml)")
	_ = cmd.MarkFlagRequired("directory")

	return cmd
}

func runChangelogBundle(cmd *cobra.Command, f *bundleCreateFlags) error {
	if info, err := os.Stat(f.directory); err != nil || !info.IsDir() {
		return clierrors.EntriesDirNotFound(f.directory)
	}

	prs, err := bundle.ReadList(f.prs)
	if err != nil {
		return clierrors.Wrap(err, clierrors.Argument)
	}
	var products []changelog.ProductTarget
	if f.inputProducts != "" {
		products, err = bundle.ParseInputProducts(f.inputProducts)
		if err != nil {
			return clierrors.Wrap(err, clierrors.Argument)
		}
	}

	c := diag.NewCollector()
	result, err := bundle.Create(bundle.CreateOptions{
		EntriesDir:    f.directory,
		All:           f.all,
		PRs:           prs,
		InputProducts: products,
		Resolve:       f.resolve,
		Output:        f.output,
	}, c)
	clierrors.FprintDiagnostics(cmd.ErrOrStderr(), c.Diagnostics(), useColors())

	switch {
	case stderrors.Is(err, bundle.ErrNoFilter):
		return clierrors.MissingSelectionFilter()
	case stderrors.Is(err, bundle.ErrInvalidBundles):
		return clierrors.BuildFailed(c.Summary())
	case err != nil:
		return clierrors.Wrap(err, clierrors.Runtime)
	}

	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	fmt.Fprintf(cmd.OutOrStdout(), "%s wrote %s (target %s, %d entries)\n",
		green("✓"), result.Path, result.Target, result.Entries)
	return nil
}
