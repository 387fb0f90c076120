package platform

import (
	"os"

	"github.com/rs/zerolog"
)

// NewLogger builds the process logger. Console output goes to stderr so
// command output on stdout stays machine-readable.
func NewLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
