// Package pipeline drives one full analysis run: parse the planned steps,
// sample and describe recording frames, build the observation timeline, match
// every step, render the deviation report, and persist the run to history.
// Stages run sequentially; only per-frame description failures are tolerated.
package pipeline
