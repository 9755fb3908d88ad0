package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/smake/internal/app"
)

func (c *CLI) newMakeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "make [targets...]",
		Short: "Make each target with one sisho invocation",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTargets(cmd, args, false)
		},
	}
	addInputFlags(cmd)
	return cmd
}

func (c *CLI) newChainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chain [targets...]",
		Short: "Refresh the dependency graph, then chain make each target",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTargets(cmd, args, true)
		},
	}
	addInputFlags(cmd)
	return cmd
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("message", "m", "", "Instructions passed to sisho (skips the prompt)")
	cmd.Flags().StringP("input-file", "F", "", "Read instructions from a file, - for stdin")
	cmd.Flags().Bool("no-input", false, "Run sisho with stdin closed and skip the prompt")
	cmd.Flags().Bool("auto-exit", false, "Close the TUI when the run finishes")
	cmd.MarkFlagsMutuallyExclusive("message", "input-file", "no-input")
}

func (c *CLI) runTargets(cmd *cobra.Command, args []string, chain bool) error {
	if len(args) == 0 {
		// Display command usage help without returning an error
		_ = cmd.Help()
		return nil
	}

	flags := cmd.Flags()
	opts := app.RunOptions{Chain: chain}

	if flags.Changed("message") {
		message, _ := flags.GetString("message")
		opts.Message = &message
	}
	opts.InputFile, _ = flags.GetString("input-file")
	opts.NoInput, _ = flags.GetBool("no-input")
	opts.AutoExit, _ = flags.GetBool("auto-exit")

	opts.Root, _ = flags.GetString("root")
	opts.Tool, _ = flags.GetString("tool")
	opts.OutputMode, _ = flags.GetString("output")
	opts.JSONLogs, _ = flags.GetBool("json-logs")
	opts.Verbose, _ = flags.GetBool("verbose")
	opts.Trace, _ = flags.GetString("trace")

	return c.app.Run(cmd.Context(), args, opts)
}
