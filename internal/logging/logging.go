// Package logging provides the shared structured logger used across the
// transport, protocol, and command-line packages.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the structured logger type used throughout the module. It is
// an alias for *logrus.Entry so call sites can attach fields with WithField
// and WithError without importing logrus directly.
type Logger = logrus.Entry

var base = newBase()

func newBase() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	l.SetLevel(logrus.InfoLevel)
	return l
}

// SetLevel adjusts the package-wide log level from a string such as
// "debug", "info", "warn", or "error".
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	base.SetLevel(lvl)
	return nil
}

// Named returns a logger scoped to component, e.g. Named("transport.tcp").
func Named(component string) *Logger {
	return base.WithField("component", component)
}
