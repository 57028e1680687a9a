// Package component implements subcommand dispatch for the sos CLI: the
// static registry mapping subcommand names to implementations, and the
// per-invocation lifecycle that resolves options, provisions the run
// workspace and log channels, and invokes the chosen component.
//
// Discovery is deliberately static: each component is registered through an
// explicit name-to-factory table assembled at process start (see
// internal/cli), never by scanning or reflection. The registry keeps
// registration order so the top-level help text enumerates components
// deterministically.
//
// The lifecycle is a straight-line state machine:
//
//	Uninitialized → ParsingArgs → ResolvingComponent → BuildingOptions →
//	ProvisioningRuntime → Ready → Executing → {Completed | Terminated}
//
// ParsingArgs and ResolvingComponent are carried out by the cobra layer;
// the Lifecycle type drives everything from BuildingOptions on. A
// termination signal at any point after Ready moves the run to Terminated
// through the same teardown path as normal completion, so log sinks and
// temp files always observe a defined shutdown.
package component
