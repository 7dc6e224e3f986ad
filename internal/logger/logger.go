// Package logger configures the application's structured logging and the
// component loggers built on top of it.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the root logger for the given level and environment.
// Production gets JSON lines for the log pipeline; everything else gets
// colored text for a terminal.
func NewLogger(level, environment string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		log.Warnf("Invalid log level %q, defaulting to info", level)
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)

	if environment == "production" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	return log
}
