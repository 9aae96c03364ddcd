// Package logging constructs the application's slog logger. Console output
// is a compact single-line format; JSON output suits log collectors. Both
// honor the configured level, and debug level adds source locations.
package logging
