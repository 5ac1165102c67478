package plugin

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Publish re-reads the patched result file and inserts one row per status
// record. All rows within a run share the job link and a single UTC
// timestamp captured before the loop. It returns the number of rows
// inserted, which on error is the count persisted before the failure.
func Publish(ctx context.Context, store ReportStore, path, jobLink string) (int, error) {
	doc, err := readResultFile(path)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	for i, record := range doc.Records {
		row := ReportRow{
			Name:      record.Name,
			Tests:     record.Tests,
			Pass:      record.Pass,
			Fail:      record.Fail,
			JobLink:   jobLink,
			Timestamp: now,
		}
		if err := store.InsertRow(ctx, row); err != nil {
			return i, fmt.Errorf("failed to insert row for record %q: %w", record.Name, err)
		}
		logrus.Debugf("Published status record %q", record.Name)
	}
	return len(doc.Records), nil
}
