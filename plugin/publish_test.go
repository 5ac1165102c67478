// Copyright 2020 the Drone Authors. All rights reserved.
// Use of this source code is governed by the Blue Oak Model License
// that can be found in the LICENSE file.

package plugin

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// memoryStore collects rows in memory. failAt is the zero-based insert
// index that fails; -1 never fails.
type memoryStore struct {
	rows   []ReportRow
	failAt int
}

func (s *memoryStore) InsertRow(_ context.Context, row ReportRow) error {
	if s.failAt >= 0 && len(s.rows) == s.failAt {
		return errors.New("duplicate entry")
	}
	s.rows = append(s.rows, row)
	return nil
}

func TestPublish(t *testing.T) {
	store := &memoryStore{failAt: -1}
	jobLink := "https://ci.example.com/job/polaris/42/"

	n, err := Publish(context.Background(), store, "testdata/ut_result.xml", jobLink)
	if err != nil {
		t.Fatalf("Publish() unexpected error: %v", err)
	}
	if n != 2 {
		t.Fatalf("Publish() expected 2 rows, got: %d", n)
	}

	names := []string{store.rows[0].Name, store.rows[1].Name}
	if diff := cmp.Diff(names, []string{"AllTests", "SmokeTests"}); diff != "" {
		t.Errorf("Publish() record names mismatch (-want +got):\n%s", diff)
	}

	// One row per record, all sharing the run's job link and timestamp.
	for i, row := range store.rows {
		if row.JobLink != jobLink {
			t.Errorf("row %d job link: expected %q, got: %q", i, jobLink, row.JobLink)
		}
		if !row.Timestamp.Equal(store.rows[0].Timestamp) {
			t.Errorf("row %d timestamp differs from row 0", i)
		}
		if row.Timestamp.Location() != time.UTC {
			t.Errorf("row %d timestamp is not UTC", i)
		}
	}

	want := ReportRow{
		Name:      "SmokeTests",
		Tests:     "5",
		Pass:      "4",
		Fail:      "1",
		JobLink:   jobLink,
		Timestamp: store.rows[1].Timestamp,
	}
	if diff := cmp.Diff(store.rows[1], want); diff != "" {
		t.Errorf("Publish() row mismatch (-want +got):\n%s", diff)
	}
}

// TestPublishPartialFailure verifies that a failing insert stops the run
// but leaves the rows inserted before it.
func TestPublishPartialFailure(t *testing.T) {
	store := &memoryStore{failAt: 1}

	n, err := Publish(context.Background(), store, "testdata/ut_result.xml", "https://ci.example.com/job/42")
	if err == nil {
		t.Fatal("Publish() expected an error, got none")
	}
	if n != 1 {
		t.Errorf("Publish() expected 1 row before failure, got: %d", n)
	}
	if len(store.rows) != 1 {
		t.Errorf("expected 1 persisted row, got: %d", len(store.rows))
	}
}

func TestPublishMissingFile(t *testing.T) {
	store := &memoryStore{failAt: -1}

	n, err := Publish(context.Background(), store, "testdata/nonexistent.xml", "https://ci.example.com/job/42")
	if err == nil {
		t.Fatal("Publish() expected an error, got none")
	}
	if n != 0 {
		t.Errorf("Publish() expected 0 rows, got: %d", n)
	}
}
