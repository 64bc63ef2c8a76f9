package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/elastic/docs-builder-sub007/internal/bundle"
	"github.com/elastic/docs-builder-sub007/internal/diag"
	clierrors "github.com/elastic/docs-builder-sub007/internal/errors"
	"github.com/elastic/docs-builder-sub007/internal/lifecycle"
	"github.com/elastic/docs-builder-sub007/internal/output"
	"github.com/elastic/docs-builder-sub007/internal/pipeline"
	"github.com/elastic/docs-builder-sub007/internal/progress"
	"github.com/elastic/docs-builder-sub007/internal/render"
	"github.com/elastic/docs-builder-sub007/internal/sections"
	"github.com/elastic/docs-builder-sub007/internal/watch"
)

type renderFlags struct {
	bundleFlags
	output      string
	subsections bool
	hideLinks   bool
	typeFilter  string
	format      string
	owner       string
	repo        string
	maxParallel int
	watch       bool
}

func newChangelogRenderCmd() *cobra.Command {
	f := &renderFlags{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render release notes from changelog bundles",
		Long: `Render release notes documents from one or more changelog bundles.

Bundles are grouped by target and ordered newest first: semantic versions,
then dates, then other text. Entries blocked by publish rules, render blockers
or the hide list are kept in the output as comments so the document can be
re-enabled without losing content.

Settings come from .docs-builder/config.yml, the user config and DOCS_BUILDER_*
environment variables. Flags override them.`,
		Example: `  # Markdown release notes under ./release-notes
  docs-builder changelog render --input bundles/9.3.0.yaml

  # Asciidoc, one section per type, grouped by area
  docs-builder changelog render -i bundles/9.3.0.yaml --format asciidoc --type all --subsections

  # Entries resolved from another directory and labelled with a repo
  docs-builder changelog render -i "bundles/9.3.0.yaml|changelog|kibana"

  # Re-render whenever a bundle, entry or config file changes
  docs-builder changelog render -i bundles/9.3.0.yaml --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChangelogRender(cmd, f)
		},
	}

	f.register(cmd)
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output directory (default: output_dir setting)")
	cmd.Flags().BoolVar(&f.subsections, "subsections", false, "Group entries by area within sections")
	cmd.Flags().BoolVar(&f.hideLinks, "hide-links", false, "Comment out PR and issue links")
	cmd.Flags().StringVar(&f.typeFilter, "type", "default", "Section filter: default, all or an entry type")
	cmd.Flags().StringVar(&f.format, "format", "", "Output format: markdown or asciidoc (default: output_format setting)")
	cmd.Flags().StringVar(&f.owner, "owner", "", "GitHub organization for links (default: owner setting)")
	cmd.Flags().StringVar(&f.repo, "repo", "", "Repo label for bundles that do not name one")
	cmd.Flags().IntVar(&f.maxParallel, "max-parallel", 0, "Bundles rendered concurrently (default: max_parallel setting)")
	cmd.Flags().BoolVarP(&f.watch, "watch", "w", false, "Re-render when inputs change")

	return cmd
}

func runChangelogRender(cmd *cobra.Command, f *renderFlags) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	opts, err := f.pipelineOptions(cmd, settings)
	if err != nil {
		return err
	}

	opts.OutputDir = firstNonEmpty(f.output, settings.OutputDir)
	opts.Format = firstNonEmpty(f.format, settings.OutputFormat)
	opts.Owner = firstNonEmpty(f.owner, opts.Owner)
	opts.Repo = firstNonEmpty(f.repo, opts.Repo)
	opts.Filter = f.typeFilter
	opts.Subsections = settings.Subsections
	if cmd.Flags().Changed("subsections") {
		opts.Subsections = f.subsections
	}
	opts.HideLinks = settings.HideLinks
	if cmd.Flags().Changed("hide-links") {
		opts.HideLinks = f.hideLinks
	}
	if f.maxParallel > 0 {
		opts.MaxParallel = f.maxParallel
	}

	if _, err := sections.ParseFilter(opts.Filter); err != nil {
		return clierrors.InvalidTypeFilter(opts.Filter, validTypeNames())
	}
	if _, err := render.ParseFormat(opts.Format); err != nil {
		return clierrors.InvalidOutputFormat(opts.Format)
	}

	if !f.watch {
		return renderOnce(cmd, opts)
	}

	if err := renderOnce(cmd, opts); err != nil {
		report(cmd.ErrOrStderr(), err)
	}
	return watchAndRender(cmd, opts)
}

// renderOnce runs one render and reports its diagnostics.
func renderOnce(cmd *cobra.Command, opts pipeline.Options) error {
	caps := progress.DetectTerminalCapabilities()
	if !useColors() {
		caps.SupportsColor = false
	}
	spin := progress.NewSpinner(cmd.OutOrStdout(), caps, fmt.Sprintf("Rendering %d bundle(s)", len(opts.Bundles)))
	spin.Start()

	c := diag.NewCollector()
	var result *pipeline.Result
	done := spinnerDone(spin, func(d time.Duration) string {
		return fmt.Sprintf("Rendered %d release(s) in %s", result.Bundles, d.Round(time.Millisecond))
	}, "Render failed")
	_, err := lifecycle.Run(done, "render", func() error {
		var runErr error
		result, runErr = pipeline.Run(cmd.Context(), opts, c)
		return runErr
	})

	clierrors.FprintDiagnostics(cmd.ErrOrStderr(), c.Diagnostics(), useColors())

	if err != nil {
		return buildError(err, c)
	}
	output.PrintWritten(cmd.OutOrStdout(), result.Written)
	return nil
}

// spinnerDone stops spin when a command completes, with the message from
// success or with failure.
func spinnerDone(spin *progress.Spinner, success func(time.Duration) string, failure string) lifecycle.Handler {
	return lifecycle.HandlerFunc(func(_ string, ok bool, d time.Duration) {
		if !ok {
			spin.Fail(failure)
			return
		}
		spin.Success(success(d))
	})
}

// buildError maps a pipeline failure to a CLI error.
func buildError(err error, c *diag.Collector) error {
	switch {
	case stderrors.Is(err, bundle.ErrInvalidBundles), stderrors.Is(err, sections.ErrInvalidEntries):
		return clierrors.BuildFailed(c.Summary())
	case stderrors.Is(err, pipeline.ErrNoBundles):
		return clierrors.MissingBundleInput()
	default:
		return clierrors.Wrap(err, clierrors.Runtime)
	}
}

func watchAndRender(cmd *cobra.Command, opts pipeline.Options) error {
	paths := pipeline.Inputs(opts)
	w, err := watch.New(paths, watch.DefaultDebounce)
	if err != nil {
		return clierrors.Wrap(err, clierrors.Runtime)
	}
	defer w.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	output.PrintWatching(cmd.OutOrStdout(), w.Len())
	return w.Run(ctx, func() error {
		return renderOnce(cmd, opts)
	}, func(err error) {
		report(cmd.ErrOrStderr(), err)
	})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
