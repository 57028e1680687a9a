// lifecycle.go drives one sos invocation from resolved subcommand to
// process exit status: option resolution, runtime provisioning, signal
// handling, execution, teardown.
package component

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/sosreport/sos/internal/config"
	"github.com/sosreport/sos/internal/logging"
	"github.com/sosreport/sos/internal/model"
	"github.com/sosreport/sos/internal/option"
	"github.com/sosreport/sos/internal/workspace"
)

// State is the lifecycle position of a run.
type State int

const (
	StateUninitialized State = iota
	StateParsingArgs
	StateResolvingComponent
	StateBuildingOptions
	StateProvisioningRuntime
	StateReady
	StateExecuting
	StateCompleted
	StateTerminated
)

// String returns the state name for diagnostics and tests.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateParsingArgs:
		return "parsing-args"
	case StateResolvingComponent:
		return "resolving-component"
	case StateBuildingOptions:
		return "building-options"
	case StateProvisioningRuntime:
		return "provisioning-runtime"
	case StateReady:
		return "ready"
	case StateExecuting:
		return "executing"
	case StateCompleted:
		return "completed"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// sharedFlagNames maps shared option names to flags named differently on
// the CLI surface. Only verbosity differs: the option is fed by the
// -v/--verbose count flag.
var sharedFlagNames = map[string]string{"verbosity": "verbose"}

// DeclareSharedOptions declares the options every component supports. It
// runs before the component's own declarations, so a component default of
// the same name overrides these via OverrideDefault.
func DeclareSharedOptions(set *option.Set) error {
	if err := set.DeclareString("config-file", "/etc/sos.conf"); err != nil {
		return err
	}
	if err := set.DeclareBool("quiet", false); err != nil {
		return err
	}
	if err := set.DeclareString("sysroot", ""); err != nil {
		return err
	}
	if err := set.DeclareString("tmp-dir", ""); err != nil {
		return err
	}
	return set.DeclareCount("verbosity")
}

// AddSharedFlags registers the shared CLI flags on a flag set. The cli
// layer attaches these as persistent flags so every component command
// accepts them.
func AddSharedFlags(fs *pflag.FlagSet) {
	fs.String("config-file", "/etc/sos.conf", "specify alternate configuration file")
	fs.BoolP("quiet", "q", false, "only print fatal errors")
	fs.StringP("sysroot", "s", "", "system root directory path (default '/')")
	fs.String("tmp-dir", "", "specify alternate temporary directory")
	fs.CountP("verbose", "v", "increase verbosity")
}

// Lifecycle orchestrates one run of a resolved component. Argument parsing
// and component resolution happen in the cobra layer before a Lifecycle
// exists; Run picks up at option building and carries the run to a
// terminal state.
type Lifecycle struct {
	desc   Descriptor
	stdout io.Writer
	stderr io.Writer

	state State

	// terminated records that termination was requested externally. It is
	// set from the signal goroutine, which must assume nothing about the
	// run's current state; the flag plus context cancellation are its only
	// effects, and the ordinary teardown path does the rest.
	terminated atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewLifecycle creates a lifecycle for the resolved component descriptor.
func NewLifecycle(desc Descriptor, stdout, stderr io.Writer) *Lifecycle {
	return &Lifecycle{desc: desc, stdout: stdout, stderr: stderr, state: StateResolvingComponent}
}

// State returns the current lifecycle state.
func (l *Lifecycle) State() State {
	return l.state
}

// TerminationRequested reports whether an external termination signal was
// recorded during the run.
func (l *Lifecycle) TerminationRequested() bool {
	return l.terminated.Load()
}

// RequestTermination records an externally requested termination and
// cancels the execution context. Safe to call from any goroutine at any
// point after Run has started; the run then exits through the normal
// teardown path with ExitInterrupted.
func (l *Lifecycle) RequestTermination() {
	l.terminated.Store(true)
	l.mu.Lock()
	cancel := l.cancel
	l.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Run executes the component end to end and returns nil on success or a
// *model.CLIError carrying the exit code. fs is the component command's
// parsed flag set (component flags plus inherited shared flags).
func (l *Lifecycle) Run(ctx context.Context, fs *pflag.FlagSet) error {
	// Stage 1: build the option set. Defaults first, then the command
	// line, then the configuration file into whatever is still unset.
	l.state = StateBuildingOptions

	opts := option.NewSet()
	if err := DeclareSharedOptions(opts); err != nil {
		return model.WrapCLIError(model.ExitError, "could not initialize '"+l.desc.Name+"'", err)
	}
	if err := l.desc.Factory.DeclareOptions(opts); err != nil {
		return model.WrapCLIError(model.ExitError, "could not initialize '"+l.desc.Name+"'", err)
	}
	if err := opts.MergeCommandLine(fs, sharedFlagNames); err != nil {
		return model.WrapCLIError(model.ExitError, "could not initialize '"+l.desc.Name+"'", err)
	}

	// A malformed config file is not fatal: remember the failure, skip
	// the merge, and log it once the tool channel exists.
	var configErr error
	var unknownKeys []string
	configPath := opts.String("config-file")
	if values, err := config.Load(configPath); err != nil {
		configErr = err
	} else if len(values) > 0 {
		unknown, err := opts.MergeConfig(values)
		if err != nil {
			configErr = &model.ConfigParseError{Path: configPath, Err: err}
		}
		unknownKeys = unknown
	}
	opts.Seal()

	// Stage 2: provision the runtime. No workspace means nowhere to put
	// logs or data, so any failure here ends the run.
	l.state = StateProvisioningRuntime

	ws, err := workspace.Create(opts.String("tmp-dir"))
	if err != nil {
		return model.WrapCLIError(model.ExitError, "could not initialize '"+l.desc.Name+"'", err)
	}
	defer func() {
		// Teardown failures cannot change the exit status, but a report
		// whose files did not reach disk must not fail silently.
		if cerr := ws.Close(); cerr != nil {
			fmt.Fprintf(l.stderr, "Error: could not finalize workspace files: %v\n", cerr)
		}
	}()

	channels, err := logging.Setup(ws, logging.Options{
		Verbosity: opts.Int("verbosity"),
		Quiet:     opts.Bool("quiet"),
		RunID:     ws.RunID(),
	}, l.stdout, l.stderr)
	if err != nil {
		return model.WrapCLIError(model.ExitError, "could not initialize '"+l.desc.Name+"'", err)
	}
	defer func() {
		if ferr := channels.Flush(); ferr != nil {
			fmt.Fprintf(l.stderr, "Error: could not flush logs: %v\n", ferr)
		}
	}()

	if configErr != nil {
		channels.Tool.Warn("config file merge skipped", "error", configErr.Error())
	}
	for _, key := range unknownKeys {
		channels.Tool.Debug("ignoring unknown config file key", "key", key)
	}

	instance, err := l.desc.Factory.New(&RunContext{
		Opts:      opts,
		Workspace: ws,
		Log:       channels,
		Stdout:    l.stdout,
	})
	if err != nil {
		return model.WrapCLIError(model.ExitError, "could not initialize '"+l.desc.Name+"'", err)
	}

	// Stage 3: ready. From here a termination signal is recorded and
	// turned into context cancellation; the run still leaves through the
	// deferred teardown above, never an abrupt kill.
	l.state = StateReady

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	l.mu.Lock()
	l.cancel = cancel
	l.mu.Unlock()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-sigCh:
			l.RequestTermination()
		case <-done:
		}
	}()

	// Stage 4: execute exactly once.
	l.state = StateExecuting
	execErr := instance.Execute(runCtx)

	if l.terminated.Load() {
		l.state = StateTerminated
		channels.Tool.Warn("run terminated by signal")
		return model.NewCLIError(model.ExitInterrupted, "sos: terminated by signal")
	}

	l.state = StateCompleted
	if execErr != nil {
		channels.Tool.Error("component failed", "component", l.desc.Name, "error", execErr.Error())
		return model.WrapCLIError(model.ExitError, l.desc.Name+" failed", execErr)
	}
	return nil
}
