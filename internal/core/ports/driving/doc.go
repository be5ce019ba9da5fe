// Package driving provides interfaces for entry-point adapters
// (primary/inbound ports): the run surface exposed to the CLI and the
// scheduler.
package driving
