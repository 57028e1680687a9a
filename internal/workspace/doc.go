// Package workspace manages the per-run temp directory for the sos CLI.
//
// Every invocation gets one private directory named sos-<runID> under the
// temp root (the OS default, or --tmp-dir). The run ID is a UUID, so two
// invocations can never collide. All log files and temp files a component
// requests live inside this directory and are owned exclusively by the
// running process.
//
// The package also provides the stale-run enumeration used by the clean
// component: finding and removing sos-* directories left behind by earlier
// runs.
package workspace
