package cli

import (
	"github.com/spf13/cobra"
)

func newChangelogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "changelog",
		Short: "Create, preview and render changelog bundles",
		Long: `Work with changelog bundles.

  bundle   collect entry files into a bundle descriptor
  show     preview bundles in the terminal with their visibility
  render   write release notes documents`,
		GroupID: GroupChangelog,
	}
	cmd.AddCommand(newChangelogBundleCmd(), newChangelogShowCmd(), newChangelogRenderCmd())
	return cmd
}
