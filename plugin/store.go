package plugin

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// ReportRow is one published status record. The count columns stay
// text-typed to match the existing dashboard table.
type ReportRow struct {
	Name      string    `gorm:"column:name"`
	Tests     string    `gorm:"column:tests"`
	Pass      string    `gorm:"column:pass"`
	Fail      string    `gorm:"column:fail"`
	JobLink   string    `gorm:"column:Jenkins_Job_Link"`
	Timestamp time.Time `gorm:"column:Timestamp"`
}

// TableName maps rows onto the dashboard's reporting table.
func (ReportRow) TableName() string { return "unit_test_reports" }

// ReportStore persists published rows.
type ReportStore interface {
	InsertRow(ctx context.Context, row ReportRow) error
}

type mysqlStore struct {
	db *gorm.DB
}

// openStore connects to the reporting database.
func openStore(username, password, host, database string) (ReportStore, error) {
	// refer https://github.com/go-sql-driver/mysql#dsn-data-source-name for details
	dsn := fmt.Sprintf(
		"%s:%s@tcp(%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		username, password, host, database,
	)
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to reporting database: %w", err)
	}
	return &mysqlStore{db: db}, nil
}

// InsertRow appends one row. Each insert commits on its own; there is no
// batching, so a failure mid-publish leaves the earlier rows in place.
func (s *mysqlStore) InsertRow(ctx context.Context, row ReportRow) error {
	return s.db.WithContext(ctx).Create(&row).Error
}

// logStore logs rows instead of persisting them, for PLUGIN_DRY_RUN.
type logStore struct{}

func (logStore) InsertRow(_ context.Context, row ReportRow) error {
	logrus.
		WithField("name", row.Name).
		WithField("tests", row.Tests).
		WithField("pass", row.Pass).
		WithField("fail", row.Fail).
		Info("Dry run, skipping insert")
	return nil
}
