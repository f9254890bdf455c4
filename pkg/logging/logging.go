// Package logging owns the process-wide logrus logger.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

// ComponentKey is the field naming the subsystem that logged an entry.
const ComponentKey = "component"

var (
	standardLogger *logrus.Logger
	once           sync.Once
)

// StandardLogger returns the singleton logger instance
func StandardLogger() *logrus.Logger {
	once.Do(func() {
		standardLogger = logrus.New()
		standardLogger.SetFormatter(&logrus.JSONFormatter{})
	})
	return standardLogger
}

// Options configure the standard logger. Format is "json" or "text";
// Output is "stdout", "stderr" or "file", the latter writing to OutputFile.
type Options struct {
	Level      string
	Format     string
	Output     string
	OutputFile string
}

// Init applies c to the standard logger. The returned func closes the log
// file, if one was opened.
func Init(c Options) (func(), error) {
	l := StandardLogger()
	cleanup := func() {}

	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}
	l.SetLevel(level)

	switch c.Format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	switch c.Output {
	case "stdout":
		l.SetOutput(os.Stdout)
	case "file":
		if err := os.MkdirAll(filepath.Dir(c.OutputFile), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(c.OutputFile, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		l.SetOutput(f)
		cleanup = func() { _ = f.Close() }
	default:
		l.SetOutput(os.Stderr)
	}

	return cleanup, nil
}

// WithComponent returns an entry tagged with the component name.
func WithComponent(name string) *logrus.Entry {
	return StandardLogger().WithField(ComponentKey, name)
}
