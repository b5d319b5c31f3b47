// Package workflow drives the archive steps and reports their state.
//
// The Manager owns the synchronized status store, the bounded update queue
// the observer drains, and the per-step workers. Starting a step runs its
// preflight checks synchronously (source marker, destination access, disk
// space for the copy step), then executes the step handler on a background
// goroutine that coalesces progress callbacks and converts every failure
// into a Failed status plus an error event. RunAll sequences the full step
// list on a coordinator goroutine with fail-fast semantics: the first
// failure stops the run and later steps stay NotStarted.
//
// Steps never run concurrently with each other; the store rejects a second
// Begin while one is in progress. Cancellation of a started worker is
// deliberately unsupported — workers run to their terminal state.
package workflow
