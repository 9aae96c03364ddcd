// Package report renders match results into Markdown or HTML deviation
// reports. Rendering is pure string assembly; callers decide where the
// output goes.
package report
