// Package commands implements the CLI commands for conductor.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/conductor/internal/app"
	"go.trai.ch/conductor/internal/build"
)

// CLI represents the command line interface for conductor.
type CLI struct {
	app      Application
	rootCmd  *cobra.Command
	shutdown func(context.Context) error
}

// Application represents the application logic interface.
type Application interface {
	Configure(opts app.GlobalOptions) (func(context.Context) error, error)
	Install(ctx context.Context, opts app.InstallOptions) error
	Update(ctx context.Context, opts app.InstallOptions) error
	Require(ctx context.Context, args []string, opts app.RequireOptions) error
	DumpAutoload(ctx context.Context, opts app.DumpAutoloadOptions) error
	CreateMonorepo(ctx context.Context) error
	Graph(ctx context.Context, w io.Writer, opts app.GraphOptions) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "conductor",
		Short:         "Dependency resolution and autoloading for PHP monorepos",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP("output", "o", "auto", "Output format: auto, pretty, plain or json")
	flags.BoolP("verbose", "v", false, "Show debug output")
	flags.Bool("profile", false, "Report the duration of every phase")
	flags.StringP("working-dir", "d", "", "Use the given directory as working directory")

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}
	rootCmd.PersistentPreRunE = c.configure

	rootCmd.AddCommand(c.newInstallCmd())
	rootCmd.AddCommand(c.newUpdateCmd())
	rootCmd.AddCommand(c.newRequireCmd())
	rootCmd.AddCommand(c.newDumpAutoloadCmd())
	rootCmd.AddCommand(c.newCreateMonorepoCmd())
	rootCmd.AddCommand(c.newGraphCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

func (c *CLI) configure(cmd *cobra.Command, _ []string) error {
	output, _ := cmd.Flags().GetString("output")
	verbose, _ := cmd.Flags().GetBool("verbose")
	profile, _ := cmd.Flags().GetBool("profile")
	workingDir, _ := cmd.Flags().GetString("working-dir")

	shutdown, err := c.app.Configure(app.GlobalOptions{
		Output:     output,
		Verbose:    verbose,
		Profile:    profile,
		WorkingDir: workingDir,
	})
	if err != nil {
		return err
	}
	c.shutdown = shutdown
	return nil
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	err := c.rootCmd.Execute()
	if c.shutdown != nil {
		err = errors.Join(err, c.shutdown(context.WithoutCancel(ctx)))
	}
	return err
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
