package plugin

import (
	"encoding/xml"
)

// TestReport is the root element of a JUnit-style test report. Only the
// aggregate attributes matter here; they stay string-typed so a missing
// attribute is distinguishable from a zero count.
type TestReport struct {
	XMLName  xml.Name
	Errors   string `xml:"errors,attr"`
	Failures string `xml:"failures,attr"`
	Tests    string `xml:"tests,attr"`
}

// Summary holds the counts derived from a test report.
type Summary struct {
	Errors   int
	Failures int
	Tests    int
	Success  int
}

// ResultDocument is a result file: a root element wrapping status records.
// The root name is captured on decode so a rewrite keeps it.
type ResultDocument struct {
	XMLName xml.Name
	Records []StatusRecord `xml:"status"`
}

// StatusRecord is one named test-suite summary. The count fields are
// text-typed child elements, matching what the dashboard importer reads.
type StatusRecord struct {
	Name  string `xml:"name"`
	Pass  string `xml:"pass"`
	Fail  string `xml:"fail"`
	Error string `xml:"error"`
	Tests string `xml:"tests"`
	Skip  string `xml:"skip,omitempty"`
	Time  string `xml:"time,omitempty"`
}
