package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/conductor/internal/app"
)

func (c *CLI) newInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install the locked dependencies of every monorepo package",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Install(cmd.Context(), installOptions(cmd))
		},
	}
	addInstallFlags(cmd)
	return cmd
}

func (c *CLI) newUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Resolve all manifests anew, then rewrite the lock file and install",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Update(cmd.Context(), installOptions(cmd))
		},
	}
	addInstallFlags(cmd)
	return cmd
}

func addInstallFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("no-dev", false, "Skip require-dev packages")
	cmd.Flags().Bool("no-autoloader", false, "Skip autoload generation")
}

func installOptions(cmd *cobra.Command) app.InstallOptions {
	noDev, _ := cmd.Flags().GetBool("no-dev")
	noAutoloader, _ := cmd.Flags().GetBool("no-autoloader")
	return app.InstallOptions{NoDev: noDev, NoAutoloader: noAutoloader}
}
