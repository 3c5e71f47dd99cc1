package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/conductor/internal/app"
)

func (c *CLI) newGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the dependency graph between monorepo packages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, _ := cmd.Flags().GetString("format")
			outputFile, _ := cmd.Flags().GetString("output-file")
			return c.app.Graph(cmd.Context(), cmd.OutOrStdout(), app.GraphOptions{
				Format:     format,
				OutputFile: outputFile,
			})
		},
	}
	cmd.Flags().StringP("format", "f", "dot", "Output format: dot or svg")
	cmd.Flags().String("output-file", "", "Write the graph to a file instead of stdout")
	return cmd
}
