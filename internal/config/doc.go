// Package config loads, validates, and normalizes crate configuration.
//
// Configuration is TOML, located at ~/.config/crate/config.toml or a
// crate.toml in the working directory, with an embedded sample for
// `crate config init`. Paths are tilde-expanded and made absolute during
// load; Validate rejects out-of-range thresholds and intervals before any
// subsystem starts.
package config
