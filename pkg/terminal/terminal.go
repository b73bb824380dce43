// Package terminal wires the compgrid command-line interface.
package terminal

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Ro-Data/compgrid/pkg/terminal/commands"
)

// CLI represents the command-line interface
type CLI struct {
	rootCmd *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
	Logger zerolog.Logger
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{}
	cli.rootCmd = cli.newRootCmd(opts)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd(opts Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compgrid",
		Short: "Metric comparison grid reports",
	}

	cmd.AddCommand(commands.NewRenderCmd(opts.Logger, opts.Output))
	cmd.AddCommand(commands.NewEmailCmd(opts.Logger))
	cmd.AddCommand(commands.NewSlackCmd(opts.Logger))
	cmd.AddCommand(commands.NewServeCmd(opts.Logger))

	return cmd
}
