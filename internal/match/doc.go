// Package match decides, per planned step, whether the observation timeline
// confirms the plan, and classifies the deviation when it does not.
//
// The Scorer computes a weighted lexical overlap between a planned step's
// comparison text and one observed phrase. The Matcher scans the full
// timeline for the best-scoring phrase, keeping the earliest candidate on
// ties. The Classifier maps an unconfirmed step's best score into a deviation
// category by score band. The Engine drives both across all steps and
// aggregates counts.
//
// Everything here is pure and deterministic: identical inputs produce
// identical results on every run. Thresholds and band boundaries are
// validated once at construction, never per call.
package match
