package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/elastic/docs-builder-sub007/internal/changelog"
	"github.com/elastic/docs-builder-sub007/internal/diag"
	clierrors "github.com/elastic/docs-builder-sub007/internal/errors"
	"github.com/elastic/docs-builder-sub007/internal/pipeline"
)

func newChangelogShowCmd() *cobra.Command {
	f := &bundleFlags{}
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Preview changelog bundles in the terminal",
		Long: `Preview changelog bundles in the terminal, newest release first.

Entries are grouped by type. Entries that the publish rules, render blockers
or the hide list would comment out are dimmed and list every reason.`,
		Example: `  docs-builder changelog show --input bundles/9.3.0.yaml
  docs-builder changelog show -i bundles/9.3.0.yaml -i bundles/9.2.1.yaml --merge
  docs-builder changelog show -i bundles/9.3.0.yaml --product kibana --plain`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChangelogShow(cmd, f)
		},
	}
	f.register(cmd)
	return cmd
}

func runChangelogShow(cmd *cobra.Command, f *bundleFlags) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	opts, err := f.pipelineOptions(cmd, settings)
	if err != nil {
		return err
	}

	c := diag.NewCollector()
	prepared, err := pipeline.Prepare(opts, c)
	clierrors.FprintDiagnostics(cmd.ErrOrStderr(), c.Diagnostics(), useColors())
	if err != nil {
		return buildError(err, c)
	}

	if len(prepared.Bundles) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No changelog bundles found.")
		return nil
	}

	engine := prepared.Engine
	formatOpts := changelog.FormatOptions{
		Plain: color.NoColor,
		Reasons: func(b *changelog.Bundle, e *changelog.Entry) []string {
			return engine.Decide(e, b.ProductIDs()).Reasons
		},
	}
	if err := changelog.FormatTerminal(prepared.Bundles, cmd.OutOrStdout(), formatOpts); err != nil {
		return fmt.Errorf("formatting bundles: %w", err)
	}
	return nil
}
