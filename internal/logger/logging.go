// Package logger builds charmbracelet/log loggers for the partserve
// processes. Stdout belongs to the msgpack IPC stream in server mode, so
// diagnostics default to stderr; only the CLI result printer writes to
// stdout.
package logger

import (
	"os"

	"github.com/charmbracelet/log"
)

// New creates a stderr logger that respects the global log level.
func New(prefix string) *log.Logger {
	return newLogger(os.Stderr, prefix)
}

// NewStdout creates a stdout logger for user-facing CLI output. Never use
// this in server mode.
func NewStdout(prefix string) *log.Logger {
	return newLogger(os.Stdout, prefix)
}

func newLogger(w *os.File, prefix string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: false,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}
