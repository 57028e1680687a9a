// types.go defines exit codes and the exit-code-carrying error type used
// throughout the sos CLI. Every error that escapes a component or the
// dispatch core is eventually translated into one of these codes.
package model

import "fmt"

// ExitCode defines the process exit codes for the sos binary. Scripts and
// support tooling depend on these values to distinguish outcomes, so they
// are part of the CLI contract.
type ExitCode int

const (
	// ExitSuccess indicates the component ran to completion.
	ExitSuccess ExitCode = 0

	// ExitError indicates a failure on the normal path: an unknown
	// component, a construction or provisioning failure, or an error
	// returned by the component's execution entrypoint.
	ExitError ExitCode = 1

	// ExitInterrupted indicates the run was terminated by an external
	// signal (SIGINT/SIGTERM). It is reserved for signal termination so
	// callers can tell an interrupted run from an ordinary failure.
	// 130 follows the shell convention of 128 + signal number.
	ExitInterrupted ExitCode = 130
)

// CLIError is an error that carries an exit code. The cli layer unwraps it
// at the process boundary to pick the exit status; everything below the
// boundary just returns errors.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the one-line, user-facing description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. The underlying error is appended
// when present so diagnostic logs keep the full chain.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
