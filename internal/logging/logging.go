// Package logging configures the application's zerolog output: pretty
// console logging on stderr plus JSON lines in a state-dir log file.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	logFileName = "ditado.log"

	// maxLogSize is checked at startup only; the file is not rotated
	// while the process runs.
	maxLogSize = 5 * 1024 * 1024
)

// ParseLevel maps a config log-level string to a zerolog level.
// Unknown strings fall back to info.
func ParseLevel(level string) zerolog.Level {
	switch level {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Setup initializes the global logger at the given level, writing
// pretty output to stderr and JSON to <dir>/ditado.log. A file that
// cannot be opened degrades to console-only logging rather than
// failing startup.
func Setup(level string, dir string) zerolog.Logger {
	zerolog.SetGlobalLevel(ParseLevel(level))

	console := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}

	writer := zerolog.MultiLevelWriter(console)
	if file, err := openLogFile(dir); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not open log file: %v\n", err)
	} else {
		writer = zerolog.MultiLevelWriter(console, file)
	}

	logger := zerolog.New(writer).With().Timestamp().Logger()
	log.Logger = logger

	return logger
}

// openLogFile opens the append-mode log file, rotating a previous file
// that has grown past maxLogSize to ditado.log.old first.
func openLogFile(dir string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	path := filepath.Join(dir, logFileName)
	if info, err := os.Stat(path); err == nil && info.Size() >= maxLogSize {
		if err := os.Rename(path, path+".old"); err != nil {
			return nil, err
		}
	}

	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}
