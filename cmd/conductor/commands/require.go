package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/conductor/internal/app"
)

func (c *CLI) newRequireCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "require <package[:constraint]>...",
		Short: "Add packages to the current monorepo package and update",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dev, _ := cmd.Flags().GetBool("dev")
			noUpdate, _ := cmd.Flags().GetBool("no-update")
			noDev, _ := cmd.Flags().GetBool("no-dev")

			return c.app.Require(cmd.Context(), args, app.RequireOptions{
				Dev:      dev,
				NoUpdate: noUpdate,
				NoDev:    noDev,
			})
		},
	}
	cmd.Flags().Bool("dev", false, "Add the packages to require-dev")
	cmd.Flags().Bool("no-update", false, "Only edit the manifests")
	cmd.Flags().Bool("no-dev", false, "Skip require-dev packages when installing")
	return cmd
}
