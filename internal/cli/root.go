// Package cli implements the cobra-based command-line surface for sos.
//
// The root command carries the shared persistent flags and one subcommand
// per registered component. Subcommand bodies are thin: cobra parses the
// arguments and resolves the component, then hands the run to the
// component lifecycle, which owns everything from option resolution to
// teardown.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sosreport/sos/internal/clean"
	"github.com/sosreport/sos/internal/component"
	"github.com/sosreport/sos/internal/model"
	"github.com/sosreport/sos/internal/report"
)

// version, commit, and date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "4.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// defaultRegistry assembles the component table. Names registered here are
// the only valid subcommands; registration order is the order they appear
// in the top-level help. A duplicate name is a programmer error in this
// table, so it panics at startup rather than surfacing at dispatch time.
func defaultRegistry() *component.Registry {
	reg := component.NewRegistry()
	if err := reg.Register("report", report.Description, report.Factory{}); err != nil {
		panic(err)
	}
	if err := reg.Register("clean", clean.Description, clean.Factory{}); err != nil {
		panic(err)
	}
	return reg
}

// NewRootCommand creates and configures the root cobra command with the
// default component registry. This is the entry point for the CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(defaultRegistry())
}

// newRootCommand builds the command tree for an explicit registry, which
// tests use to dispatch against stub components.
func newRootCommand(reg *component.Registry) *cobra.Command {
	// Help lists components in registration order, not alphabetically.
	cobra.EnableCommandSorting = false

	rootCmd := &cobra.Command{
		Use:   "sos",
		Short: "A unified tool for collecting system diagnostic data",
		Long: `sos collects diagnostic, configuration, and troubleshooting data from
a host and packages it for transfer to a support case.

Each capability is a subcommand with its own options; shared options such
as --tmp-dir and -v apply to every subcommand.`,

		// SilenceUsage prevents cobra from printing usage on every error.
		// We handle error output ourselves for cleaner UX.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// Execute formats errors itself and maps them to exit codes.
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		// ArbitraryArgs routes unrecognized first arguments into RunE below
		// instead of cobra's built-in unknown-command error.
		Args: cobra.ArbitraryArgs,

		// With no subcommand print the usage; with an unrecognized one,
		// fail with a single line naming it. Cobra falls through to this
		// handler whenever the first argument matches no subcommand.
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			if _, err := reg.Resolve(args[0]); err != nil {
				return model.WrapCLIError(model.ExitError, err.Error(), err)
			}
			return nil
		},
	}

	// PersistentFlags are inherited by all subcommands. Every component
	// accepts the shared set without re-declaring it.
	component.AddSharedFlags(rootCmd.PersistentFlags())

	for _, desc := range reg.Descriptors() {
		rootCmd.AddCommand(newComponentCommand(desc))
	}

	return rootCmd
}

// newComponentCommand builds the cobra command for one registered
// component. Flag registration is delegated to the component's factory;
// the run itself is delegated to a fresh lifecycle.
func newComponentCommand(desc component.Descriptor) *cobra.Command {
	cmd := &cobra.Command{
		Use:   desc.Name,
		Short: desc.Description,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lc := component.NewLifecycle(desc, cmd.OutOrStdout(), cmd.ErrOrStderr())
			return lc.Run(cmd.Context(), cmd.Flags())
		},
	}
	desc.Factory.AddFlags(cmd.Flags())
	return cmd
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
//
// It inspects errors returned by cobra commands and translates them into
// OS exit codes. CLIError types carry their own exit codes; other errors
// (cobra's own flag and argument failures) default to exit code 1.
func Execute(rootCmd *cobra.Command) {
	if err := rootCmd.Execute(); err != nil {
		var cliErr *model.CLIError
		if errors.As(err, &cliErr) {
			printError(cliErr)
			os.Exit(int(cliErr.Code))
		}

		fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
		os.Exit(int(model.ExitError))
	}
}

// printError writes one line to stderr for a failed run. An interrupted
// run already carries a user-facing message; other failures get the
// "Error:" prefix plus the underlying cause when one exists.
func printError(cliErr *model.CLIError) {
	if cliErr.Code == model.ExitInterrupted {
		fmt.Fprintln(os.Stderr, cliErr.Message)
		return
	}
	if cliErr.Err != nil && cliErr.Err.Error() != cliErr.Message {
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", cliErr.Message, cliErr.Err)
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", cliErr.Message)
}
