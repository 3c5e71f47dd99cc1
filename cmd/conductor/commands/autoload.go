package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/conductor/internal/app"
)

func (c *CLI) newDumpAutoloadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dump-autoload",
		Aliases: []string{"dump", "dumpautoload"},
		Short:   "Regenerate the autoloader of every monorepo package",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noDev, _ := cmd.Flags().GetBool("no-dev")
			watch, _ := cmd.Flags().GetBool("watch")
			return c.app.DumpAutoload(cmd.Context(), app.DumpAutoloadOptions{NoDev: noDev, Watch: watch})
		},
	}
	cmd.Flags().Bool("no-dev", false, "Skip autoload-dev rules and require-dev packages")
	cmd.Flags().BoolP("watch", "w", false, "Regenerate whenever sources change")
	return cmd
}
