package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

var Log = logrus.StandardLogger()

// InitLogger configures the process logger. Services that log through the
// logrus package functions share the same settings.
func InitLogger(level string) {
	Log = logrus.StandardLogger()

	// Output to stdout instead of the default stderr
	Log.Out = os.Stdout

	// Set JSON formatter for structured logging
	Log.SetFormatter(&logrus.JSONFormatter{})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
		Log.Warnf("Unknown log level %q, using info", level)
	}
	Log.SetLevel(lvl)
}
