package plugin

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"strconv"
)

// allTests names the record the dashboard reads aggregate counts from.
const allTests = "AllTests"

// ErrNoAllTests indicates a result file without an "AllTests" record.
var ErrNoAllTests = errors.New(`result file has no "AllTests" status record`)

// PatchResult overwrites the AllTests record in the result file with the
// summary counts and rewrites the document in place, UTF-8 with an XML
// declaration. Sibling records are left untouched. Running again with a
// different summary overwrites the previous values.
func PatchResult(path string, summary Summary) error {
	doc, err := readResultFile(path)
	if err != nil {
		return err
	}

	patched := false
	for i := range doc.Records {
		if doc.Records[i].Name != allTests {
			continue
		}
		doc.Records[i].Pass = strconv.Itoa(summary.Success)
		doc.Records[i].Fail = strconv.Itoa(summary.Failures)
		doc.Records[i].Error = strconv.Itoa(summary.Errors)
		doc.Records[i].Tests = strconv.Itoa(summary.Tests)
		patched = true
		break
	}
	if !patched {
		return ErrNoAllTests
	}

	return writeResultFile(path, doc)
}

func readResultFile(path string) (*ResultDocument, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read result file %s: %w", path, err)
	}

	var doc ResultDocument
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse result file %s: %w", path, err)
	}
	return &doc, nil
}

func writeResultFile(path string, doc *ResultDocument) error {
	out, err := xml.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode result file: %w", err)
	}
	out = append([]byte(xml.Header), out...)

	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("failed to write result file %s: %w", path, err)
	}
	return nil
}
