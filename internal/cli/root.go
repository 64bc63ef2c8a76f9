// Package cli implements the docs-builder command tree.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	clierrors "github.com/elastic/docs-builder-sub007/internal/errors"
	"github.com/elastic/docs-builder-sub007/internal/git"
)

// Command groups shown in help output.
const (
	GroupChangelog      = "changelog"
	GroupGettingStarted = "getting-started"
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs-builder",
		Short: "Build release notes from changelog bundles",
		Long: `docs-builder turns changelog bundles into release notes.

A bundle is a YAML descriptor that lists changelog entries for one release
target. Bundles are ordered newest first, optionally merged by target,
filtered through the publish, render-blocker and hide rules, and rendered to
markdown or asciidoc documents with stable anchors.`,
		Example: `  # Render release notes for two bundles
  docs-builder changelog render --input bundles/9.3.0.yaml --input bundles/9.2.1.yaml

  # Create a bundle from every entry in a directory
  docs-builder changelog bundle --directory docs/changelog --all

  # Preview bundles in the terminal
  docs-builder changelog show --input bundles/9.3.0.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if plain, _ := cmd.Flags().GetBool("plain"); plain {
				color.NoColor = true
			}
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				stderr := cmd.ErrOrStderr()
				git.SetDebugLogger(func(format string, args ...any) {
					fmt.Fprintf(stderr, "[debug] "+format+"\n", args...)
				})
			}
		},
	}

	cmd.AddGroup(
		&cobra.Group{ID: GroupChangelog, Title: "Changelog Commands:"},
		&cobra.Group{ID: GroupGettingStarted, Title: "Getting Started:"},
	)

	cmd.PersistentFlags().StringP("config", "c", "", "Path to tool settings file (default: .docs-builder/config.yml)")
	cmd.PersistentFlags().Bool("debug", false, "Print debug logging to stderr")
	cmd.PersistentFlags().Bool("plain", false, "Plain output without colors or animation")

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), c.UseLine())
	})

	cmd.AddCommand(newChangelogCmd(), newInitCmd(), newVersionCmd())
	return cmd
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	return execute(rootCmd, os.Args[1:])
}

func execute(cmd *cobra.Command, args []string) int {
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err != nil {
		report(cmd.ErrOrStderr(), err)
	}
	return ExitCode(err)
}

// report prints err with its category and remediation.
func report(w io.Writer, err error) {
	cliErr := clierrors.AsCLIError(err)
	if cliErr == nil {
		cliErr = clierrors.Wrap(err, clierrors.Runtime)
	}
	clierrors.FprintError(w, cliErr, useColors())
}

func useColors() bool {
	return !color.NoColor
}
