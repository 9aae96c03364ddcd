// Command attest audits automated UI-test runs: it compares the steps the
// test planned against evidence extracted from screen recordings and reports
// every deviation.
package main
