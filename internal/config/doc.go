// Package config loads, normalizes, and validates packrat configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and ensures the working directories exist.
// The Config type centralizes every knob the CLI and workflow engine need:
// archive source/destination, payload directories for the install steps,
// preflight thresholds, and logging options.
//
// The package also owns the small last-used-paths record persisted between
// sessions; see LoadLastPaths and SaveLastPaths. That record is deliberately
// forgiving: missing or corrupt content degrades to an empty value so a bad
// state file can never block startup.
package config
