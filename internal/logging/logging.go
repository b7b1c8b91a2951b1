// Package logging builds the zerolog loggers used across the service.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger writing to stderr at the given level. Unknown
// levels fall back to info. With pretty enabled the output is the
// human-readable console format instead of JSON.
func New(level string, pretty bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var out io.Writer = os.Stderr
	if pretty {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}

	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// Nop returns a logger that discards everything. Used in tests.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
