package testresult

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"attest/internal/services"
)

type junitDocument struct {
	XMLName    xml.Name     `xml:"testsuites"`
	Testsuites []junitSuite `xml:"testsuite"`
}

type junitSuite struct {
	Tests    int         `xml:"tests,attr"`
	Failures int         `xml:"failures,attr"`
	Cases    []junitCase `xml:"testcase"`
}

type junitCase struct {
	Name       string          `xml:"name,attr"`
	Failure    *junitFailure   `xml:"failure"`
	Properties []junitProperty `xml:"properties>property"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
	Text    string `xml:",chardata"`
}

type junitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// ParseJUnit reads a JUnit-style test_result.xml and summarizes its first
// testsuite.
func ParseJUnit(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrInput, "testresult", "parse-xml", path, err)
	}

	summary := &Summary{Outcome: OutcomeUnknown, Properties: make(map[string]string)}

	var document junitDocument
	if err := xml.Unmarshal(data, &document); err != nil {
		// Some emitters write a bare <testsuite> root.
		var suite junitSuite
		if suiteErr := xml.Unmarshal(data, &suite); suiteErr != nil {
			return nil, services.Wrap(services.ErrInput, "testresult", "parse-xml",
				fmt.Sprintf("malformed junit xml %s", path), err)
		}
		document.Testsuites = []junitSuite{suite}
	}
	if len(document.Testsuites) == 0 {
		return summary, nil
	}

	suite := document.Testsuites[0]
	summary.TotalTests = suite.Tests
	summary.FailCount = suite.Failures
	if suite.Failures > 0 {
		summary.Outcome = OutcomeFailed
	} else {
		summary.Outcome = OutcomePassed
	}

	if len(suite.Cases) == 0 {
		return summary, nil
	}
	testcase := suite.Cases[0]
	if testcase.Failure != nil {
		summary.Failures = append(summary.Failures, Failure{
			Message: testcase.Failure.Message,
			Text:    strings.TrimSpace(testcase.Failure.Text),
		})
	}
	for _, prop := range testcase.Properties {
		summary.recordProperty(prop.Name, prop.Value)
	}
	return summary, nil
}

// Parse dispatches on the artifact's extension. A missing file is reported as
// ErrNotFound so callers treating the artifact as optional can skip it, while
// a present-but-unreadable one stays an input error.
func Parse(path string) (*Summary, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, services.Wrap(services.ErrNotFound, "testresult", "parse", path, err)
		}
		return nil, services.Wrap(services.ErrInput, "testresult", "parse", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return ParseJUnit(path)
	case ".html", ".htm":
		return ParseHTML(path)
	default:
		return nil, services.Wrap(services.ErrInput, "testresult", "parse",
			fmt.Sprintf("unsupported test result format %q", filepath.Ext(path)), nil)
	}
}
