// Package telemetry configures the structured logger shared by every
// manager in the transactional core.
package telemetry

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. Managers derive a subsystem-scoped
// entry from it rather than logging through the root logger directly.
var Log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return l
}

// For returns a logger entry tagged with the emitting subsystem, e.g.
// For("buffer"), For("log"), For("tx").
func For(subsystem string) *logrus.Entry {
	return Log.WithField("subsystem", subsystem)
}

// SetLevel adjusts the verbosity of the shared logger. Engine callers
// that want quiet tests can raise it to logrus.WarnLevel or above.
func SetLevel(level logrus.Level) {
	Log.SetLevel(level)
}
