package cli

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/elastic/docs-builder-sub007/internal/version"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Display version information (v)",
		Long:    "Display version, commit, build date, and Go version information for docs-builder",
		Example: `  # Show version info
  docs-builder version

  # Plain output (for scripts)
  docs-builder version --plain`,
		GroupID: GroupGettingStarted,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if color.NoColor {
				fmt.Fprintf(out, "docs-builder %s\n", version.Version)
				fmt.Fprintf(out, "commit: %s\n", version.Commit)
				fmt.Fprintf(out, "built: %s\n", version.BuildDate)
				fmt.Fprintf(out, "go: %s\n", runtime.Version())
				fmt.Fprintf(out, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
				return
			}
			cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
			fmt.Fprintln(out, cyan(version.String()))
			if version.IsDevBuild() {
				fmt.Fprintln(out, color.New(color.Faint).Sprint("development build"))
			}
		},
	}
	return cmd
}
