package plugin

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Args provides plugin execution arguments.
type Args struct {
	// Level defines the plugin log level.
	Level            string `envconfig:"PLUGIN_LOG_LEVEL"`
	ReportPath       string `envconfig:"PLUGIN_REPORT_PATH"`
	ResultPath       string `envconfig:"PLUGIN_RESULT_PATH"`
	ReportStylesheet string `envconfig:"PLUGIN_REPORT_STYLESHEET"`
	JobLink          string `envconfig:"PLUGIN_JOB_LINK"`
	DryRun           bool   `envconfig:"PLUGIN_DRY_RUN"`
	DBUser           string `envconfig:"PLUGIN_DB_USER"`
	DBPassword       string `envconfig:"PLUGIN_DB_PASSWORD"`
	DBHost           string `envconfig:"PLUGIN_DB_HOST"`
	DBName           string `envconfig:"PLUGIN_DB_NAME"`
}

// Exec executes the plugin: read the test report, patch the result file
// with its counts, and publish one row per status record to the reporting
// database. Any stage error fails the run.
func Exec(ctx context.Context, args Args) error {

	logger := logrus.
		WithField("PLUGIN_REPORT_PATH", args.ReportPath).
		WithField("PLUGIN_RESULT_PATH", args.ResultPath).
		WithField("PLUGIN_DRY_RUN", args.DryRun)

	logger.Info("Starting plugin execution")

	if len(args.ReportPath) == 0 {
		return errors.New("Report Path should not be empty")
	}
	if len(args.ResultPath) == 0 {
		return errors.New("Result Path should not be empty")
	}

	jobLink := args.JobLink
	if jobLink == "" {
		link, err := readJobLink(os.Stdin)
		if err != nil {
			logger.WithError(err).Error("Failed to read job link from stdin")
			return errors.New("failed to read job link")
		}
		jobLink = link
	}

	summary, err := ReadReport(args.ReportPath, args.ReportStylesheet)
	if err != nil {
		logger.WithError(err).Error("Failed to read test report")
		return err
	}

	logger.Infof("Report counts: tests=%d pass=%d fail=%d error=%d",
		summary.Tests, summary.Success, summary.Failures, summary.Errors)

	if err := PatchResult(args.ResultPath, summary); err != nil {
		logger.WithError(err).Error("Failed to patch result file")
		return err
	}

	store, err := connectStore(args)
	if err != nil {
		logger.WithError(err).Error("Failed to open report store")
		return err
	}

	published, err := Publish(ctx, store, args.ResultPath, jobLink)
	if err != nil {
		logger.WithError(err).Errorf("Published %d row(s) before failing", published)
		return err
	}

	logger.Infof("Published %d row(s)", published)
	logger.Info("Plugin execution completed successfully")
	return nil
}

func connectStore(args Args) (ReportStore, error) {
	if args.DryRun {
		return logStore{}, nil
	}
	return openStore(args.DBUser, args.DBPassword, args.DBHost, args.DBName)
}

// readJobLink reads the Jenkins job URL as a single line, the way the
// publisher was fed interactively.
func readJobLink(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	link := strings.TrimSpace(line)
	if link == "" {
		return "", errors.New("job link should not be empty")
	}
	return link, nil
}
