// Package config loads and merges vigil configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (VIGIL_FORMAT, VIGIL_FAIL_ON, VIGIL_TOOLS, etc.)
//  3. Config file ($XDG_CONFIG_HOME/vigil/config.json)
//  4. Built-in defaults
//
// Use [Load] to obtain a merged [Config], [Save] to write the config file,
// and [SetField] to update a single key.
//
// Per-repository settings (ignore patterns, disabled rules, severity
// overrides and custom rules) live in a .vigil.toml file at the scan root
// and are read with [LoadProject].
package config
