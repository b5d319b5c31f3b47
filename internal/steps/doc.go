// Package steps implements the four archive step handlers the workflow
// engine runs: copying the game tree, installing the Steam-emulator shim,
// installing the launcher companion, and installing the launcher itself.
//
// Each handler is an opaque long-running operation from the engine's point
// of view: it receives the source/destination env plus a progress callback
// and returns a descriptive error on failure. The install steps read their
// payloads from local directories configured in [payloads]; keeping the
// payloads local makes runs reproducible and keeps the engine offline.
package steps
