// Package main is the entry point for the sos CLI.
//
// This binary collects diagnostic data from a host. It delegates all
// functionality to the internal/cli package, which defines the cobra
// commands; each subcommand hands its run to the component lifecycle.
//
// Build-time variables (version, commit, date) are injected via ldflags
// by the release process. During development, they default to "dev",
// "none", and "unknown" respectively.
package main

import (
	"github.com/sosreport/sos/internal/cli"
)

// version, commit, and date are set at build time via ldflags. They
// provide binary identification for the --version flag output.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Inject build-time version info into the CLI package. This keeps
	// main.go free of any knowledge beyond wiring.
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	// Create the root command with all components registered, then
	// execute it. Execute handles error formatting and exit codes.
	rootCmd := cli.NewRootCommand()
	cli.Execute(rootCmd)
}
