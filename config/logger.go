package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

var Log *logrus.Logger

// InitLogger configures the shared logrus instance. JSON output keeps the
// service logs ingestible by the log pipeline.
func InitLogger() {
	Log = logrus.New()

	// Set formatter to JSON
	Log.SetFormatter(&logrus.JSONFormatter{})

	// Set output to stdout (default)
	Log.SetOutput(os.Stdout)

	// Log level is configurable via LOG_LEVEL (debug, info, warn, error)
	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)
}

// Logger returns the shared logger, initializing it on first use.
func Logger() *logrus.Logger {
	if Log == nil {
		InitLogger()
	}
	return Log
}
