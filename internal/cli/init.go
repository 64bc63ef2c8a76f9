package cli

import (
	stderrors "errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/elastic/docs-builder-sub007/internal/config"
	clierrors "github.com/elastic/docs-builder-sub007/internal/errors"
)

func newInitCmd() *cobra.Command {
	var global, force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented settings file",
		Long: `Write .docs-builder/config.yml with every tool setting, its default value
and a short explanation. With --global the file goes to the user config
directory instead and applies to every project.`,
		Example: `  # Create project settings
  docs-builder init

  # Create user settings, replacing an existing file
  docs-builder init --global --force`,
		GroupID: GroupGettingStarted,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.ProjectConfigPath()
			if global {
				userPath, err := config.UserConfigPath()
				if err != nil {
					return clierrors.Wrap(err, clierrors.Configuration)
				}
				path = userPath
			}

			err := config.WriteDefaultConfig(path, force)
			switch {
			case stderrors.Is(err, config.ErrConfigExists):
				return clierrors.SettingsExist(path)
			case err != nil:
				return clierrors.Wrap(err, clierrors.Runtime)
			}

			green := color.New(color.FgGreen, color.Bold).SprintFunc()
			fmt.Fprintf(cmd.OutOrStdout(), "%s wrote %s\n", green("✓"), path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&global, "global", "g", false, "Write the user settings file instead of the project one")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Replace an existing settings file")
	return cmd
}
