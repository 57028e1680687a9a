// Package report implements the "sos report" component: collection of
// host-level diagnostic data into the run workspace.
//
// The component is intentionally shallow — it gathers basic host facts and
// container metadata, writing one artifact file per collection area. Its
// job in this codebase is to exercise the dispatch core end to end:
// component-specific flags, option defaults, workspace files, both log
// channels, and cooperative cancellation.
package report
