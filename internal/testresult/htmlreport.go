package testresult

import (
	"os"
	"strings"

	"golang.org/x/net/html"

	"attest/internal/services"
)

// ParseHTML reads a pytest-html test_result.html and summarizes the outcome,
// failure row, and embedded property tables.
func ParseHTML(path string) (*Summary, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrInput, "testresult", "parse-html", path, err)
	}
	defer file.Close()

	root, err := html.Parse(file)
	if err != nil {
		return nil, services.Wrap(services.ErrInput, "testresult", "parse-html", path, err)
	}

	summary := &Summary{Outcome: OutcomeUnknown, Properties: make(map[string]string)}
	if hasClass(root, "outcome-failed") {
		summary.Outcome = OutcomeFailed
	} else if hasClass(root, "outcome-passed") {
		summary.Outcome = OutcomePassed
	}

	if message := failureMessage(root); message != "" {
		summary.Failures = append(summary.Failures, Failure{Message: message})
	}
	for _, table := range findAllByClass(root, "table", "proplist") {
		for _, row := range tableRows(table) {
			summary.recordProperty(row.name, row.value)
		}
	}
	return summary, nil
}

// hasClass reports whether any element under node carries the class.
func hasClass(node *html.Node, class string) bool {
	if node.Type == html.ElementNode && nodeHasClass(node, class) {
		return true
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if hasClass(child, class) {
			return true
		}
	}
	return false
}

func nodeHasClass(node *html.Node, class string) bool {
	for _, attr := range node.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, candidate := range strings.Fields(attr.Val) {
			if candidate == class {
				return true
			}
		}
	}
	return false
}

func findAllByClass(node *html.Node, tag, class string) []*html.Node {
	var matches []*html.Node
	if node.Type == html.ElementNode && node.Data == tag && nodeHasClass(node, class) {
		matches = append(matches, node)
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		matches = append(matches, findAllByClass(child, tag, class)...)
	}
	return matches
}

func findAllByTag(node *html.Node, tag string) []*html.Node {
	var matches []*html.Node
	if node.Type == html.ElementNode && node.Data == tag {
		matches = append(matches, node)
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		matches = append(matches, findAllByTag(child, tag)...)
	}
	return matches
}

// failureMessage finds the td following a th labeled "Failed".
func failureMessage(root *html.Node) string {
	for _, th := range findAllByTag(root, "th") {
		if strings.TrimSpace(nodeText(th)) != "Failed" {
			continue
		}
		for sibling := th.NextSibling; sibling != nil; sibling = sibling.NextSibling {
			if sibling.Type == html.ElementNode && sibling.Data == "td" {
				return strings.TrimSpace(nodeText(sibling))
			}
		}
	}
	return ""
}

type propertyRow struct {
	name  string
	value string
}

// tableRows extracts th/td name-value pairs from a property table, in
// document order.
func tableRows(table *html.Node) []propertyRow {
	var rows []propertyRow
	for _, tr := range findAllByTag(table, "tr") {
		var name, value string
		if ths := findAllByTag(tr, "th"); len(ths) > 0 {
			name = strings.TrimSpace(nodeText(ths[0]))
		}
		if tds := findAllByTag(tr, "td"); len(tds) > 0 {
			value = strings.TrimSpace(nodeText(tds[0]))
		}
		if name != "" {
			rows = append(rows, propertyRow{name: name, value: value})
		}
	}
	return rows
}

func nodeText(node *html.Node) string {
	var builder strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			builder.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(node)
	return builder.String()
}
