// report.go defines the report component: its flags, options, and the
// collection run itself.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/sosreport/sos/internal/component"
	"github.com/sosreport/sos/internal/docker"
	"github.com/sosreport/sos/internal/option"
)

// Description is the one-line help text shown by the top-level usage.
const Description = "Collect diagnostic and configuration data from the host"

// Artifact file names inside the run workspace.
const (
	hostFileName       = "report-host.txt"
	metadataFileName   = "report-metadata.txt"
	containersFileName = "report-containers.txt"
)

// Plugin names accepted by --enable-plugins.
const (
	hostPlugin       = "host"
	containersPlugin = "containers"
)

// pluginEnabled reports whether a plugin runs under the given selection.
// An empty selection enables every plugin.
func pluginEnabled(selection []string, name string) bool {
	if len(selection) == 0 {
		return true
	}
	for _, s := range selection {
		if s == name {
			return true
		}
	}
	return false
}

// Factory builds report instances and carries the component's class-level
// capabilities: flag contribution and option declaration.
type Factory struct{}

// AddFlags contributes the report-specific flags, so
// "sos report --help" shows them alongside the shared set.
func (Factory) AddFlags(fs *pflag.FlagSet) {
	fs.String("label", "", "specify an additional report label")
	fs.String("case-id", "", "specify case identifier")
	fs.Bool("skip-containers", false, "do not collect container metadata")
	fs.Int("plugin-timeout", 300, "set a timeout in seconds for collection steps")
	fs.StringArray("enable-plugins", nil, "collect only the named plugins (repeatable)")
}

// DeclareOptions declares the report options. Names match the flags, so
// the config file can set any of them under the same keys.
func (Factory) DeclareOptions(set *option.Set) error {
	if err := set.DeclareString("label", ""); err != nil {
		return err
	}
	if err := set.DeclareString("case-id", ""); err != nil {
		return err
	}
	if err := set.DeclareBool("skip-containers", false); err != nil {
		return err
	}
	if err := set.DeclareInt("plugin-timeout", 300); err != nil {
		return err
	}
	return set.DeclareList("enable-plugins", nil)
}

// New constructs a report instance against the provisioned runtime.
func (Factory) New(rc *component.RunContext) (component.Component, error) {
	return &Report{rc: rc}, nil
}

// Report is one collection run.
type Report struct {
	rc *component.RunContext
}

// Execute runs the collection. Each collection area is attempted in order
// and honors ctx between areas; a failing area is logged and skipped, only
// a failure to write the workspace itself aborts the run.
func (r *Report) Execute(ctx context.Context) error {
	ui := r.rc.Log.UI
	tool := r.rc.Log.Tool

	ui.Info("sos report started")
	tool.Debug("collection starting",
		"workspace", r.rc.Workspace.Dir(),
		"label", r.rc.Opts.String("label"),
	)

	// --enable-plugins narrows the run to the named plugins; an empty
	// selection runs everything. Names matching no plugin are reported
	// once, then ignored.
	selection := r.rc.Opts.List("enable-plugins")
	for _, name := range selection {
		if name != hostPlugin && name != containersPlugin {
			tool.Warn("ignoring unknown plugin name", "plugin", name)
		}
	}

	if err := r.writeMetadata(); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if !pluginEnabled(selection, hostPlugin) {
		tool.Debug("host collection not in plugin selection")
	} else {
		ui.Info("Collecting host information...")
		if err := r.collectHost(); err != nil {
			return err
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	switch {
	case r.rc.Opts.Bool("skip-containers"):
		tool.Debug("container collection disabled by option")
	case !pluginEnabled(selection, containersPlugin):
		tool.Debug("container collection not in plugin selection")
	default:
		ui.Info("Collecting container metadata...")
		r.collectContainers(ctx)
	}

	ui.Info("Your report has been generated and saved in:")
	ui.Info("  " + r.rc.Workspace.Dir())
	return nil
}

// writeMetadata records the run's identifying options so a support case
// can be matched to the archive later.
func (r *Report) writeMetadata() error {
	f, err := r.rc.Workspace.CreateFile(metadataFileName)
	if err != nil {
		return err
	}

	fmt.Fprintf(f, "run-id: %s\n", r.rc.Workspace.RunID())
	fmt.Fprintf(f, "generated: %s\n", time.Now().UTC().Format(time.RFC3339))
	if label := r.rc.Opts.String("label"); label != "" {
		fmt.Fprintf(f, "label: %s\n", label)
	}
	if caseID := r.rc.Opts.String("case-id"); caseID != "" {
		fmt.Fprintf(f, "case-id: %s\n", caseID)
	}
	return nil
}

// collectHost gathers the host facts into one artifact file.
func (r *Report) collectHost() error {
	f, err := r.rc.Workspace.CreateFile(hostFileName)
	if err != nil {
		return err
	}

	skipped := writeHostFacts(f, r.rc.Opts.String("sysroot"))
	for _, s := range skipped {
		r.rc.Log.Tool.Debug("host fact unavailable", "source", s)
	}
	return nil
}

// collectContainers writes container metadata if a Docker daemon is
// reachable. Most hosts sos runs on have none, so every failure in this
// area is a logged warning, never a run failure.
func (r *Report) collectContainers(ctx context.Context) {
	tool := r.rc.Log.Tool

	timeout := time.Duration(r.rc.Opts.Int("plugin-timeout")) * time.Second
	stepCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cli, err := docker.NewClient()
	if err != nil {
		tool.Warn("skipping container collection", "error", err.Error())
		return
	}
	defer cli.Close()

	if err := cli.Ping(stepCtx); err != nil {
		tool.Warn("skipping container collection", "error", err.Error())
		return
	}

	records, err := cli.ListContainers(stepCtx)
	if err != nil {
		tool.Warn("container enumeration failed", "error", err.Error())
		return
	}

	f, err := r.rc.Workspace.CreateFile(containersFileName)
	if err != nil {
		tool.Warn("cannot write container artifact", "error", err.Error())
		return
	}

	for _, rec := range records {
		fmt.Fprintf(f, "%s\t%s\t%s\t%s\t%s\n", rec.ID, rec.Name, rec.Image, rec.State, rec.Status)
	}
	tool.Info("container metadata collected", "count", len(records))
}
