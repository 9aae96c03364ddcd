// Package services defines shared utilities consumed by the audit pipeline
// stages and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers, stage names, and source
//     labels for logging and tracing.
//   - Structured error markers plus the Wrap helper that classify failures
//     into consistent categories (bad input vs bad configuration vs external
//     tool trouble).
//
// Use these helpers when wiring new stage logic so operational behaviour
// (error handling, observability, retries) stays uniform across the pipeline.
package services
