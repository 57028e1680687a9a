package component

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sosreport/sos/internal/logging"
	"github.com/sosreport/sos/internal/model"
	"github.com/sosreport/sos/internal/option"
)

// stubFactory builds a component whose behavior the test controls.
type stubFactory struct {
	declareErr error
	newErr     error
	execute    func(ctx context.Context, rc *RunContext) error

	// rc captures the RunContext handed to New, so tests can inspect the
	// provisioned runtime after the run.
	rc *RunContext
}

func (f *stubFactory) AddFlags(fs *pflag.FlagSet) {
	fs.String("label", "", "label the run")
}

func (f *stubFactory) DeclareOptions(set *option.Set) error {
	if f.declareErr != nil {
		return f.declareErr
	}
	return set.DeclareString("label", "")
}

func (f *stubFactory) New(rc *RunContext) (Component, error) {
	if f.newErr != nil {
		return nil, f.newErr
	}
	f.rc = rc
	return &stubComponent{factory: f}, nil
}

type stubComponent struct {
	factory *stubFactory
}

func (c *stubComponent) Execute(ctx context.Context) error {
	if c.factory.execute != nil {
		return c.factory.execute(ctx, c.factory.rc)
	}
	return nil
}

// runLifecycle parses args against shared + component flags and runs the
// lifecycle to a terminal state.
func runLifecycle(t *testing.T, f *stubFactory, args ...string) (*Lifecycle, error) {
	t.Helper()

	fs := pflag.NewFlagSet("sos report", pflag.ContinueOnError)
	AddSharedFlags(fs)
	f.AddFlags(fs)
	require.NoError(t, fs.Parse(args))

	lc := NewLifecycle(Descriptor{Name: "report", Description: "stub", Factory: f},
		&bytes.Buffer{}, &bytes.Buffer{})
	return lc, lc.Run(context.Background(), fs)
}

// TestRun_NormalPath verifies the straight-line run: options resolved,
// workspace and both log files provisioned, component executed once,
// state Completed, nil error.
func TestRun_NormalPath(t *testing.T) {
	tmp := t.TempDir()
	executions := 0
	f := &stubFactory{execute: func(ctx context.Context, rc *RunContext) error {
		executions++
		rc.Log.UI.Info("collecting")
		return nil
	}}

	lc, err := runLifecycle(t, f, "--tmp-dir", tmp)
	require.NoError(t, err)

	assert.Equal(t, 1, executions)
	assert.Equal(t, StateCompleted, lc.State())
	assert.False(t, lc.TerminationRequested())

	require.NotNil(t, f.rc)
	assert.FileExists(t, filepath.Join(f.rc.Workspace.Dir(), logging.ToolLogName))
	assert.FileExists(t, filepath.Join(f.rc.Workspace.Dir(), logging.UILogName))
}

// TestRun_OptionsResolvedBeforeExecute verifies the component sees the
// fully merged, sealed option set: CLI over file over default.
func TestRun_OptionsResolvedBeforeExecute(t *testing.T) {
	tmp := t.TempDir()
	conf := filepath.Join(tmp, "sos.conf")
	require.NoError(t, os.WriteFile(conf, []byte("label: from-file\nverbosity: 2\n"), 0o644))

	var seenLabel string
	var seenVerbosity int
	f := &stubFactory{execute: func(ctx context.Context, rc *RunContext) error {
		seenLabel = rc.Opts.String("label")
		seenVerbosity = rc.Opts.Int("verbosity")
		return nil
	}}

	_, err := runLifecycle(t, f,
		"--tmp-dir", tmp, "--config-file", conf, "--label", "from-cli")
	require.NoError(t, err)

	assert.Equal(t, "from-cli", seenLabel, "CLI value must win over the file")
	assert.Equal(t, 2, seenVerbosity, "file value must win over the default")
}

// TestRun_ConstructionFailure verifies a failing component constructor is
// reduced to a one-line CLIError with exit code 1.
func TestRun_ConstructionFailure(t *testing.T) {
	f := &stubFactory{newErr: fmt.Errorf("policy not loadable")}

	_, err := runLifecycle(t, f, "--tmp-dir", t.TempDir())
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitError, cliErr.Code)
	assert.Contains(t, cliErr.Message, "could not initialize 'report'")
}

// TestRun_ComponentFailure verifies an error from Execute becomes exit
// code 1 while the run still reaches a terminal state.
func TestRun_ComponentFailure(t *testing.T) {
	f := &stubFactory{execute: func(context.Context, *RunContext) error {
		return fmt.Errorf("collection failed")
	}}

	lc, err := runLifecycle(t, f, "--tmp-dir", t.TempDir())
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitError, cliErr.Code)
	assert.Equal(t, StateCompleted, lc.State())
}

// TestRun_MalformedConfigIsNotFatal verifies the ConfigParseError policy:
// the file merge is skipped, a warning lands in the tool log, and the run
// completes normally.
func TestRun_MalformedConfigIsNotFatal(t *testing.T) {
	tmp := t.TempDir()
	conf := filepath.Join(tmp, "sos.conf")
	require.NoError(t, os.WriteFile(conf, []byte("tmp-dir: [broken\n  x: {"), 0o644))

	f := &stubFactory{}
	_, err := runLifecycle(t, f, "--tmp-dir", tmp, "--config-file", conf)
	require.NoError(t, err)

	data, rerr := os.ReadFile(filepath.Join(f.rc.Workspace.Dir(), logging.ToolLogName))
	require.NoError(t, rerr)
	assert.Contains(t, string(data), "config file merge skipped")
}

// TestRun_UnwritableTmpDirIsFatal verifies a provisioning failure ends the
// run with a single CLIError instead of propagating a raw trace.
func TestRun_UnwritableTmpDirIsFatal(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	base := filepath.Join(t.TempDir(), "ro")
	require.NoError(t, os.Mkdir(base, 0o500))

	f := &stubFactory{}
	_, err := runLifecycle(t, f, "--tmp-dir", filepath.Join(base, "nested"))
	require.Error(t, err)

	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitError, cliErr.Code)
}

// TestRun_TeardownFlushFailureReported verifies a failing final log flush
// is written to stderr instead of being silently dropped.
func TestRun_TeardownFlushFailureReported(t *testing.T) {
	f := &stubFactory{execute: func(ctx context.Context, rc *RunContext) error {
		// Closing the workspace under the logger makes the deferred
		// flush hit already-closed files.
		return rc.Workspace.Close()
	}}

	fs := pflag.NewFlagSet("sos report", pflag.ContinueOnError)
	AddSharedFlags(fs)
	f.AddFlags(fs)
	require.NoError(t, fs.Parse([]string{"--tmp-dir", t.TempDir()}))

	var stderr bytes.Buffer
	lc := NewLifecycle(Descriptor{Name: "report", Factory: f}, &bytes.Buffer{}, &stderr)
	require.NoError(t, lc.Run(context.Background(), fs))

	assert.Contains(t, stderr.String(), "could not flush logs")
}

// TestRun_TerminationMidExecute verifies externally requested termination:
// the run leaves through the ordinary teardown path, the state machine
// lands in Terminated, the exit code is the reserved signal code, and the
// log files are flushed rather than abandoned mid-write.
func TestRun_TerminationMidExecute(t *testing.T) {
	tmp := t.TempDir()
	started := make(chan struct{})
	f := &stubFactory{execute: func(ctx context.Context, rc *RunContext) error {
		rc.Log.Tool.Info("long collection started")
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}}

	fs := pflag.NewFlagSet("sos report", pflag.ContinueOnError)
	AddSharedFlags(fs)
	f.AddFlags(fs)
	require.NoError(t, fs.Parse([]string{"--tmp-dir", tmp}))

	lc := NewLifecycle(Descriptor{Name: "report", Factory: f}, &bytes.Buffer{}, &bytes.Buffer{})

	errCh := make(chan error, 1)
	go func() { errCh <- lc.Run(context.Background(), fs) }()

	<-started
	lc.RequestTermination()

	var err error
	select {
	case err = <-errCh:
	case <-time.After(5 * time.Second):
		t.Fatal("run did not exit after termination request")
	}

	require.Error(t, err)
	var cliErr *model.CLIError
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, model.ExitInterrupted, cliErr.Code)
	assert.Equal(t, StateTerminated, lc.State())
	assert.True(t, lc.TerminationRequested())

	// Teardown must have flushed the tool log, including the record
	// written before the signal arrived.
	data, rerr := os.ReadFile(filepath.Join(f.rc.Workspace.Dir(), logging.ToolLogName))
	require.NoError(t, rerr)
	assert.Contains(t, string(data), "long collection started")
	assert.Contains(t, string(data), "terminated by signal")
}
