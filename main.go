package main

import (
	"context"
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"

	"github.com/drone/drone-junit-publish/plugin"
)

func main() {
	var args plugin.Args
	if err := envconfig.Process("", &args); err != nil {
		logrus.Fatalln("failed to parse plugin parameters:", err)
	}

	if args.Level != "" {
		level, err := logrus.ParseLevel(args.Level)
		if err != nil {
			logrus.Fatalln("invalid PLUGIN_LOG_LEVEL:", err)
		}
		logrus.SetLevel(level)
	}

	if err := plugin.Exec(context.Background(), args); err != nil {
		logrus.Errorln(err)
		os.Exit(1)
	}
}
