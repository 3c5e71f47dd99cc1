package commands

import "github.com/spf13/cobra"

func (c *CLI) newCreateMonorepoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create-monorepo",
		Short: "Create a monorepo.json in the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.CreateMonorepo(cmd.Context())
		},
	}
}
