// Package logging provides the process-wide structured logger.
package logging

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var (
	once      sync.Once
	singleton *log.Logger
)

func logger() *log.Logger {
	once.Do(func() {
		singleton = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Prefix:          "probetool",
			Level:           log.InfoLevel,
		})
	})
	return singleton
}

// Logger returns the shared logger, for callers that want a child logger
// via With.
func Logger() *log.Logger {
	return logger()
}

// SetLevel parses and applies a level name (debug, info, warn, error).
func SetLevel(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	logger().SetLevel(lvl)
	return nil
}

// SetOutput redirects log output.
func SetOutput(w io.Writer) {
	logger().SetOutput(w)
}

func Debug(msg string, keyvals ...interface{}) {
	logger().Debug(msg, keyvals...)
}

func Info(msg string, keyvals ...interface{}) {
	logger().Info(msg, keyvals...)
}

func Warn(msg string, keyvals ...interface{}) {
	logger().Warn(msg, keyvals...)
}

func Error(msg string, keyvals ...interface{}) {
	logger().Error(msg, keyvals...)
}
