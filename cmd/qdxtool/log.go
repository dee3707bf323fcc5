package main

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/galaxy1/qdx"
)

// buildLogger wires the --log-format/--log-file persistent flags into one
// of qdx's logger constructors (§10/§12).
func buildLogger(format, file string) zerolog.Logger {
	if file != "" {
		return qdx.NewRotatingFileLogger(file, 50, 3, 28)
	}
	if format == "json" {
		return qdx.NewJSONLogger(os.Stderr)
	}
	return qdx.NewConsoleLogger(os.Stderr)
}
