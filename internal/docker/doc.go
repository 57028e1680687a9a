// Package docker wraps the Docker Engine SDK client for the report
// component's container collection.
//
// The wrapper handles automatic socket detection across platforms and
// exposes the one query sos needs: enumerate every container on the host,
// running or not, as plain records for the report. Absence of a Docker
// daemon is an ordinary condition on most hosts sos runs on; callers treat
// connection failures as "nothing to collect", not as run failures.
package docker
