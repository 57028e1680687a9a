// errors.go defines the error taxonomy of the dispatch core. Each type maps
// to one failure class from the component lifecycle; the cli layer matches
// on them with errors.As to choose the user-facing message and exit code.
package model

import "fmt"

// UnknownComponentError reports a subcommand name that does not match any
// registered component. The dispatcher surfaces it as a one-line message
// and exit code 1, never as a raw trace.
type UnknownComponentError struct {
	// Name is the subcommand the user asked for.
	Name string
}

func (e *UnknownComponentError) Error() string {
	return fmt.Sprintf("unknown subcommand %q specified", e.Name)
}

// DuplicateComponentError reports a second registration under an existing
// component name. This is a programmer error in registry assembly and is
// fatal at startup.
type DuplicateComponentError struct {
	Name string
}

func (e *DuplicateComponentError) Error() string {
	return fmt.Sprintf("component %q is already registered", e.Name)
}

// ConfigParseError reports malformed configuration-file content. It is not
// fatal: the file merge is skipped and a diagnostic is logged, but the run
// continues with CLI values and defaults.
type ConfigParseError struct {
	// Path is the configuration file that failed to parse.
	Path string

	// Err is the underlying parse or read error.
	Err error
}

func (e *ConfigParseError) Error() string {
	return fmt.Sprintf("cannot parse config file %s: %v", e.Path, e.Err)
}

func (e *ConfigParseError) Unwrap() error {
	return e.Err
}

// WorkspaceError reports a failure to create or write the per-run temp
// directory. It is always fatal: without a workspace there is nowhere to
// put logs or collected data.
type WorkspaceError struct {
	// Path is the directory that could not be created or written.
	Path string

	Err error
}

func (e *WorkspaceError) Error() string {
	return fmt.Sprintf("cannot provision workspace at %s: %v", e.Path, e.Err)
}

func (e *WorkspaceError) Unwrap() error {
	return e.Err
}

// ArgumentError reports malformed command-line input that survived flag
// parsing, such as a value that fails type coercion during option merge.
// pflag reports most of these itself at parse time; this type covers the
// remainder raised inside the option layer.
type ArgumentError struct {
	// Option is the option name the bad value was supplied for.
	Option string

	Err error
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid value for option %q: %v", e.Option, e.Err)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}
