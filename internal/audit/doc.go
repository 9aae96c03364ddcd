// Package audit persists completed analysis runs to a SQLite database so past
// verdicts can be listed and compared. One row per run: identity, inputs,
// aggregate counts, and the rendered report's location.
package audit
