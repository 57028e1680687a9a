// Package logging wires the two log channels of a sos run.
//
// The tool channel carries internal diagnostics; the UI channel carries
// progress messages meant for the end user. Each channel owns a file sink
// inside the run workspace (always present) and console sinks that exist
// only when quiet mode is off. Sink severity is fixed at setup time from
// the resolved verbosity:
//
//	verbosity 0: console warnings and above, file informational
//	verbosity 1: console informational, file full detail
//	verbosity 2+: console and file full detail
//
// Errors are additionally duplicated to stderr so operators see failures
// even when stdout is redirected.
//
// Both channels are plain *slog.Logger values built over a fan-out handler;
// they are constructed once during runtime provisioning, handed to the
// component by reference, and flushed on the orderly exit path. There is no
// global named-logger namespace.
package logging
