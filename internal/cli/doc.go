// Package cli wires together the Cobra command tree for the vigil binary.
//
// It defines the root command and all subcommands (scan, chunk, rules,
// config, hook, version), binds flags, reads configuration, invokes the
// scan engine, and returns deterministic exit codes for CI gating.
package cli
