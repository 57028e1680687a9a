// logging.go builds the two channels from the resolved run options.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/sosreport/sos/internal/workspace"
)

// Tool-channel file and UI-channel file names inside the run directory.
const (
	ToolLogName = "sos.log"
	UILogName   = "ui.log"
)

// Options carries the slice of the resolved option set that logging needs.
type Options struct {
	// Verbosity is the resolved -v count.
	Verbosity int

	// Quiet suppresses all console sinks; file sinks stay.
	Quiet bool

	// RunID is stamped on every file-sink record.
	RunID string
}

// Channels holds the two independent loggers for one run. Construct with
// Setup during provisioning; pass by reference into the component.
type Channels struct {
	// Tool is the internal diagnostic channel.
	Tool *slog.Logger

	// UI is the user-facing progress channel.
	UI *slog.Logger

	toolFile *os.File
	uiFile   *os.File
}

// Setup creates the log files inside the workspace and assembles both
// channels. It must complete before the component's execution entrypoint is
// invoked so no diagnostic output is ever lost to an unconfigured sink.
//
// The returned files are registered with the workspace manager, which
// closes them during teardown; Flush only needs to force buffers out.
func Setup(ws *workspace.Manager, opts Options, stdout, stderr io.Writer) (*Channels, error) {
	toolFile, err := ws.CreateFile(ToolLogName)
	if err != nil {
		return nil, err
	}
	uiFile, err := ws.CreateFile(UILogName)
	if err != nil {
		return nil, err
	}

	// The file sink records everything informational; once the user asks
	// for any verbosity it records full detail regardless of what the
	// console shows.
	toolFileLevel := slog.LevelInfo
	if opts.Verbosity >= 1 {
		toolFileLevel = slog.LevelDebug
	}

	toolSinks := []slog.Handler{
		slog.NewTextHandler(toolFile, &slog.HandlerOptions{Level: toolFileLevel}),
	}
	uiSinks := []slog.Handler{
		slog.NewTextHandler(uiFile, &slog.HandlerOptions{Level: slog.LevelInfo}),
	}

	if !opts.Quiet {
		var consoleLevel slog.Level
		switch {
		case opts.Verbosity >= 2:
			consoleLevel = slog.LevelDebug
		case opts.Verbosity == 1:
			consoleLevel = slog.LevelInfo
		default:
			consoleLevel = slog.LevelWarn
		}
		toolSinks = append(toolSinks,
			newConsoleHandler(stdout, consoleLevel),
			// Errors go to stderr as well, so they survive stdout
			// redirection.
			newConsoleHandler(stderr, slog.LevelError),
		)
		uiSinks = append(uiSinks, newConsoleHandler(stdout, slog.LevelInfo))
	}

	runAttr := slog.String("run_id", opts.RunID)
	return &Channels{
		Tool:     slog.New(newFanout(toolSinks...).WithAttrs([]slog.Attr{runAttr})),
		UI:       slog.New(newFanout(uiSinks...).WithAttrs([]slog.Attr{runAttr})),
		toolFile: toolFile,
		uiFile:   uiFile,
	}, nil
}

// Flush forces both file sinks to stable storage. Runs on the orderly exit
// path; closing is the workspace manager's job.
func (c *Channels) Flush() error {
	var firstErr error
	for _, f := range []*os.File{c.toolFile, c.uiFile} {
		if f == nil {
			continue
		}
		if err := f.Sync(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
