package plugin

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/wamuir/go-xslt"
)

// ErrInvalidCounts indicates a report that declares more failures than tests.
var ErrInvalidCounts = errors.New("report declares more failures than tests")

// ReadReport parses a JUnit-style test report and derives the summary
// counts, with success = tests - failures. When stylesheet names an XSLT
// file, the raw report is transformed with it before decoding, so reports
// in other formats (NUnit, xUnit) can be normalized on the way in.
func ReadReport(path, stylesheet string) (Summary, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to read test report %s: %w", path, err)
	}

	if stylesheet != "" {
		raw, err = normalizeReport(raw, stylesheet)
		if err != nil {
			return Summary{}, err
		}
	}

	var report TestReport
	if err := xml.Unmarshal(raw, &report); err != nil {
		return Summary{}, fmt.Errorf("failed to parse test report %s: %w", path, err)
	}

	errCount, err := reportCount(report.Errors, "errors")
	if err != nil {
		return Summary{}, err
	}
	failures, err := reportCount(report.Failures, "failures")
	if err != nil {
		return Summary{}, err
	}
	tests, err := reportCount(report.Tests, "tests")
	if err != nil {
		return Summary{}, err
	}

	if failures > tests {
		return Summary{}, fmt.Errorf("%w: tests=%d failures=%d", ErrInvalidCounts, tests, failures)
	}

	return Summary{
		Errors:   errCount,
		Failures: failures,
		Tests:    tests,
		Success:  tests - failures,
	}, nil
}

func reportCount(value, attr string) (int, error) {
	if value == "" {
		return 0, fmt.Errorf("test report is missing the %q attribute", attr)
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("test report attribute %q is not numeric: %v", attr, err)
	}
	return n, nil
}

// normalizeReport applies the user-supplied XSLT stylesheet to the raw
// report bytes.
func normalizeReport(raw []byte, stylesheet string) ([]byte, error) {
	xsltContent, err := os.ReadFile(stylesheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read stylesheet %s: %w", stylesheet, err)
	}

	xs, err := xslt.NewStylesheet(xsltContent)
	if err != nil {
		return nil, fmt.Errorf("failed to create stylesheet: %w", err)
	}
	defer xs.Close()

	transformed, err := xs.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to apply stylesheet to report: %w", err)
	}

	logrus.Debugf("Normalized report through stylesheet %s", stylesheet)
	return transformed, nil
}
