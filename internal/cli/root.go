// Package cli is the command-line surface: it binds flags, loads the config
// file, and either runs the interpreter check or the fragment tree.
package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/backmassage/shellwrapper/internal/config"
)

// MissingDirMessage is printed to stdout when the fragment directory
// argument is absent.
const MissingDirMessage = "The first argument is mandatory: the directory to run fragments from."

// NewRootCommand builds the shellwrapper command. Output goes to stdout and
// stderr instead of the process streams so tests can capture it.
func NewRootCommand(version string, stdout, stderr io.Writer) *cobra.Command {
	cfg := config.DefaultConfig()
	var negated *config.NegatedFlags

	cmd := &cobra.Command{
		Use:   "shellwrapper [flags] <fragment-dir> [tags]",
		Short: "Run a directory of shell fragments in order",
		Long: `shellwrapper walks <fragment-dir> (relative to the program's own directory)
and runs every fragment named stem.[tag.]ext in lexicographic order.

  *.sh       run in an isolated "bash -e" child
  *.export   sourced by a host shell; its exports reach later fragments

Tagged fragments run only when their tag is listed in the comma-separated
[tags] argument; untagged fragments always run.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, &cfg, negated, args, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	negated = config.BindFlags(cmd.Flags(), &cfg)
	return cmd
}

// Execute runs the root command with args and returns the process exit code.
func Execute(ctx context.Context, version string, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand(version, stdout, stderr)
	cmd.SetArgs(args)
	return exitCode(cmd.ExecuteContext(ctx), stderr)
}
