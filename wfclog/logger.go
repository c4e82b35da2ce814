// File: logger.go
package wfclog

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}

// Logger is the module's structured logger type, re-exported so callers
// never need to import zerolog directly.
type Logger = zerolog.Logger

// Default is the package-level logger every component falls back to
// when no Option sets one explicitly. It writes a human-readable
// console format to stderr.
var Default = New(os.Stderr)

// New builds a Logger writing to w with caller information attached.
func New(w io.Writer) Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Caller().Logger()
}

// Nop returns a Logger that discards everything, for callers (mainly
// tests) that want solving to stay silent.
func Nop() Logger {
	return zerolog.Nop()
}
