// Package plan models the execution plan of an automated UI-test run and
// reads it from the agent's inner log file.
//
// A Step is one planned instruction. Its comparison text, the short summary
// when present or the full description otherwise, is what the matching engine
// scores against video evidence. Assertion steps carry the expected result so
// the report can cross-reference them against the test output.
package plan
