// Package model defines the shared domain types for the sos CLI.
//
// This package contains pure data structures with no external dependencies:
// the error taxonomy raised by the dispatch core (unknown component,
// duplicate registration, config parse failure, workspace failure), the
// process exit codes, and the CLIError type that carries an exit code from
// the point of failure up to the process boundary.
package model
