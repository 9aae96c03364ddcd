package report

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"time"

	"attest/internal/match"
	"attest/internal/services"
	"attest/internal/testresult"
)

// Format selects the report output format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

const maxStepDescription = 60

// Render produces a deviation report in the requested format. The test
// summary is optional; when present its outcome is cross-referenced.
func Render(report match.Report, tests *testresult.Summary, format Format) (string, error) {
	switch format {
	case FormatHTML:
		return renderHTML(report, tests, time.Now()), nil
	case FormatMarkdown, "":
		return renderMarkdown(report, tests, time.Now()), nil
	default:
		return "", services.Wrap(services.ErrConfiguration, "report", "render",
			fmt.Sprintf("unsupported format %q", format), nil)
	}
}

// Save writes report content to path, creating parent directories.
func Save(content, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return services.Wrap(services.ErrInput, "report", "save", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return services.Wrap(services.ErrInput, "report", "save", path, err)
	}
	return nil
}

// Extension returns the file extension for a format, without the dot.
func Extension(format Format) string {
	if format == FormatHTML {
		return "html"
	}
	return "md"
}

func renderMarkdown(report match.Report, tests *testresult.Summary, now time.Time) string {
	var b strings.Builder
	b.WriteString("# Deviation Report\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", now.Format("2006-01-02 15:04:05"))

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- **Total Steps:** %d\n", report.Totals.Total)
	fmt.Fprintf(&b, "- **Observed:** %d\n", report.Totals.Observed)
	fmt.Fprintf(&b, "- **Deviations:** %d\n\n", report.Totals.Deviations)

	if tests != nil {
		b.WriteString("## Test Output Cross-Reference\n\n")
		fmt.Fprintf(&b, "- **Test Outcome:** %s\n", tests.Outcome)
		if len(tests.Failures) > 0 {
			fmt.Fprintf(&b, "- **Failures:** %d\n", len(tests.Failures))
			for _, failure := range tests.Failures {
				fmt.Fprintf(&b, "  - %s\n", truncate(failure.Message, 100))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("## Detailed Results\n\n")
	b.WriteString("| Step Description | Result | Notes |\n")
	b.WriteString("|------------------|--------|-------|\n")
	for _, result := range report.Results {
		fmt.Fprintf(&b, "| %s | %s | %s |\n",
			truncate(result.Step.ComparisonText(), maxStepDescription),
			resultLabel(result), resultNotes(result))
	}
	b.WriteString("\n")

	deviations := deviatingResults(report)
	if len(deviations) > 0 {
		b.WriteString("## Deviations Detail\n\n")
		for i, result := range deviations {
			fmt.Fprintf(&b, "### Deviation %d: %s\n\n", i+1, deviationCategory(result))
			fmt.Fprintf(&b, "**Planned Action:** %s\n\n", result.Step.ComparisonText())
			if result.BestCandidate != nil {
				fmt.Fprintf(&b, "**Closest Match:** %s\n", result.BestCandidate.Phrase)
				fmt.Fprintf(&b, "**Similarity Score:** %.2f\n", result.BestCandidate.Score)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderHTML(report match.Report, tests *testresult.Summary, now time.Time) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Deviation Report</title>
<style>
body { font-family: Arial, sans-serif; margin: 20px; }
table { border-collapse: collapse; width: 100%; margin: 20px 0; }
th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
th { background-color: #f2f2f2; }
.observed { color: green; }
.deviation { color: red; }
</style>
</head>
<body>
<h1>Deviation Report</h1>
`)
	fmt.Fprintf(&b, "<p>Generated: %s</p>\n", now.Format("2006-01-02 15:04:05"))

	b.WriteString("<h2>Summary</h2>\n<ul>\n")
	fmt.Fprintf(&b, "<li><strong>Total Steps:</strong> %d</li>\n", report.Totals.Total)
	fmt.Fprintf(&b, "<li><strong>Observed:</strong> %d</li>\n", report.Totals.Observed)
	fmt.Fprintf(&b, "<li><strong>Deviations:</strong> %d</li>\n", report.Totals.Deviations)
	b.WriteString("</ul>\n")

	if tests != nil {
		b.WriteString("<h2>Test Output Cross-Reference</h2>\n<ul>\n")
		fmt.Fprintf(&b, "<li><strong>Test Outcome:</strong> %s</li>\n", html.EscapeString(string(tests.Outcome)))
		for _, failure := range tests.Failures {
			fmt.Fprintf(&b, "<li>%s</li>\n", html.EscapeString(truncate(failure.Message, 100)))
		}
		b.WriteString("</ul>\n")
	}

	b.WriteString("<h2>Detailed Results</h2>\n<table>\n")
	b.WriteString("<tr><th>Step Description</th><th>Result</th><th>Notes</th></tr>\n")
	for _, result := range report.Results {
		class := "observed"
		if result.Verdict != match.VerdictObserved {
			class = "deviation"
		}
		fmt.Fprintf(&b, "<tr class='%s'><td>%s</td><td>%s</td><td>%s</td></tr>\n",
			class,
			html.EscapeString(truncate(result.Step.ComparisonText(), maxStepDescription)),
			resultLabel(result),
			html.EscapeString(resultNotes(result)))
	}
	b.WriteString("</table>\n</body>\n</html>\n")
	return b.String()
}

func resultLabel(result match.Result) string {
	if result.Verdict == match.VerdictObserved {
		return "☑ Observed"
	}
	return "✗ Deviation"
}

// resultNotes explains the verdict: where an observed step was seen, or how
// close the evidence came for a deviating one.
func resultNotes(result match.Result) string {
	if result.Verdict == match.VerdictObserved {
		if result.BestCandidate != nil && result.BestCandidate.Event != nil {
			return "Observed at " + result.BestCandidate.Event.FormattedTime
		}
		return "-"
	}
	if result.BestCandidate != nil {
		return fmt.Sprintf("Partial match (score: %.2f)", result.BestCandidate.Score)
	}
	return fmt.Sprintf("Step %s in video", deviationCategory(result))
}

func deviationCategory(result match.Result) string {
	if result.Deviation != nil {
		return string(result.Deviation.Category)
	}
	return string(match.CategorySkipped)
}

func deviatingResults(report match.Report) []match.Result {
	var deviations []match.Result
	for _, result := range report.Results {
		if result.Verdict != match.VerdictObserved {
			deviations = append(deviations, result)
		}
	}
	return deviations
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-3]) + "..."
}
