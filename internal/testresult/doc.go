// Package testresult parses automated test run artifacts so audit reports can
// cross-reference the harness's own verdict. It reads JUnit-style XML and
// pytest-html reports, extracting the outcome, failure messages, recorded
// properties, and any plan or assertion text the harness embedded.
package testresult
