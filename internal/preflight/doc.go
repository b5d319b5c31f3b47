// Package preflight validates the archive environment before a step runs.
//
// It owns source-installation validation (marker file under the source root),
// destination access checks, and the disk-space math: estimating the bytes a
// copy will need, querying the free space on the destination volume, and the
// pure sufficient/insufficient comparison. Everything here is side-effect
// free and safe to call from any goroutine; the workflow engine runs these
// checks synchronously before it spawns a worker.
package preflight
