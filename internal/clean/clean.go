// clean.go defines the clean component: its flags, options, and the
// removal pass over stale run directories.
package clean

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/sosreport/sos/internal/component"
	"github.com/sosreport/sos/internal/model"
	"github.com/sosreport/sos/internal/option"
	"github.com/sosreport/sos/internal/workspace"
)

// Description is the one-line help text shown by the top-level usage.
const Description = "Remove leftover run directories from the temp root"

// Factory builds clean instances.
type Factory struct{}

// AddFlags contributes the clean-specific flags.
func (Factory) AddFlags(fs *pflag.FlagSet) {
	fs.String("age", "72h", "only remove run directories older than this duration")
	fs.Bool("dry-run", false, "list removal candidates without deleting anything")
}

// DeclareOptions declares the clean options under the same keys as the
// flags. Age stays a string here and is parsed at execution time, so a
// config file can supply it in the same form as the command line.
func (Factory) DeclareOptions(set *option.Set) error {
	if err := set.DeclareString("age", "72h"); err != nil {
		return err
	}
	return set.DeclareBool("dry-run", false)
}

// New constructs a clean instance against the provisioned runtime.
func (Factory) New(rc *component.RunContext) (component.Component, error) {
	return &Clean{rc: rc}, nil
}

// Clean is one cleanup run.
type Clean struct {
	rc *component.RunContext
}

// Execute removes stale run directories under the temp root. The run's own
// workspace is naturally excluded by the age filter, since it was created
// moments ago. Individual removal failures are logged and counted, not
// fatal: a directory held open by another process should not stop the rest
// of the sweep.
func (c *Clean) Execute(ctx context.Context) error {
	ui := c.rc.Log.UI
	tool := c.rc.Log.Tool

	age, err := time.ParseDuration(c.rc.Opts.String("age"))
	if err != nil {
		return &model.ArgumentError{Option: "age", Err: err}
	}
	if age <= 0 {
		return &model.ArgumentError{Option: "age", Err: fmt.Errorf("must be positive, got %v", age)}
	}

	baseDir := c.rc.Opts.String("tmp-dir")
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	dryRun := c.rc.Opts.Bool("dry-run")

	tool.Debug("cleanup starting", "base", baseDir, "age", age, "dry_run", dryRun)

	stale, err := workspace.FindStale(baseDir, age, time.Now())
	if err != nil {
		return err
	}
	if len(stale) == 0 {
		ui.Info("No leftover run directories found.")
		return nil
	}

	removed := 0
	for _, dir := range stale {
		if err := ctx.Err(); err != nil {
			return err
		}
		if dryRun {
			ui.Info(fmt.Sprintf("Would remove %s (age %s)", dir.Path, dir.Age.Round(time.Minute)))
			continue
		}
		if err := workspace.Remove(dir.Path); err != nil {
			tool.Warn("could not remove run directory", "path", dir.Path, "error", err)
			continue
		}
		tool.Debug("removed run directory", "path", dir.Path)
		removed++
	}

	if dryRun {
		ui.Info(fmt.Sprintf("%d run directories would be removed.", len(stale)))
	} else {
		ui.Info(fmt.Sprintf("Removed %d of %d run directories.", removed, len(stale)))
	}
	return nil
}
