// Package config loads, normalizes, and validates the TOML configuration.
// Defaults apply first, then the config file, then environment fallbacks for
// credentials. Validation is fail-fast: no analysis starts against an
// inconsistent configuration.
package config
