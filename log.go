package qdx

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// NewConsoleLogger returns a human-readable logger writing to w (typically
// os.Stderr), replacing every Python variant's hand-rolled
// vlog/current_time() timestamp helper (§10) with zerolog's own timestamp
// field and a console writer for TTY-friendly output.
func NewConsoleLogger(w io.Writer) zerolog.Logger {
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	return zerolog.New(cw).With().Timestamp().Logger()
}

// NewJSONLogger returns a structured JSON logger, for unattended/batch runs
// where log lines are shipped elsewhere.
func NewJSONLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}

// NewRotatingFileLogger wraps a lumberjack.Logger as the backing writer for
// a JSON logger, so long unattended encode/analyze runs don't grow a single
// log file without bound (§10).
func NewRotatingFileLogger(path string, maxSizeMB, maxBackups, maxAgeDays int) zerolog.Logger {
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}
	return NewJSONLogger(lj)
}

// DefaultLogger is the package-level logger Encode and Decode fall back to
// when passed nil options; it writes to stderr. A Driver logs only through
// the logger given to NewDriver.
var DefaultLogger = NewConsoleLogger(os.Stderr)
