// component.go defines the contract every sos subcommand implements and
// the runtime context handed to a constructed instance.
package component

import (
	"context"
	"io"

	"github.com/spf13/pflag"

	"github.com/sosreport/sos/internal/logging"
	"github.com/sosreport/sos/internal/option"
	"github.com/sosreport/sos/internal/workspace"
)

// Factory is the registered, class-level side of a component: everything
// the dispatcher needs before an instance exists. AddFlags runs while the
// argument parser tree is being built, so `sos <component> --help` shows
// the component's own flags; DeclareOptions runs at the start of option
// resolution; New runs once the runtime is provisioned.
type Factory interface {
	// AddFlags contributes the component's flags to its command's flag
	// set before the top-level parse runs.
	AddFlags(fs *pflag.FlagSet)

	// DeclareOptions declares the component's options and defaults on the
	// set, after the shared options are already present. A component may
	// override a shared default via set.OverrideDefault; its declaration
	// wins.
	DeclareOptions(set *option.Set) error

	// New constructs the component instance for one run. Any error is a
	// construction failure: reported as a single user-facing line, exit 1.
	New(rc *RunContext) (Component, error)
}

// Component is a constructed subcommand instance. Execute is invoked
// exactly once per process; its error becomes the process exit status.
// Implementations must honor ctx cancellation, which is how externally
// requested termination reaches the run.
type Component interface {
	Execute(ctx context.Context) error
}

// RunContext is the provisioned runtime a component executes against:
// resolved options, the private run workspace, and the two log channels.
// All fields are ready before New is called and stay valid until the
// process exits.
type RunContext struct {
	// Opts is the sealed, read-only option set for this run.
	Opts *option.Set

	// Workspace is the per-run temp directory manager.
	Workspace *workspace.Manager

	// Log holds the tool and UI channels.
	Log *logging.Channels

	// Stdout is where user-visible non-log output goes. Components write
	// through the UI channel for progress; Stdout exists for final
	// summaries and tests.
	Stdout io.Writer
}
