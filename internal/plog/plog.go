// Package plog wires structured logging through the trim/justify passes.
// Grounded on github.com/rs/zerolog, the logging dependency shared by the
// retrieval pack's two gnark-family repos (giuliop-AlgoPlonk, okx-gnark) —
// the teacher itself does not log structured events, it only prints
// user-facing diagnostics, so this is an enrichment pulled in from the rest
// of the pack per SPEC_FULL.md §1.2.
package plog

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New returns a console-writer logger at Info level, the quiet default for
// a batch CLI tool; pass a more verbose level via WithLevel for debugging.
func New() zerolog.Logger {
	return NewTo(os.Stderr)
}

// NewTo returns a logger writing to w, used by tests to capture output.
func NewTo(w io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(zerolog.InfoLevel).
		With().Timestamp().Logger()
}

// WithLevel returns a copy of l logging at the given level.
func WithLevel(l zerolog.Logger, level zerolog.Level) zerolog.Logger {
	return l.Level(level)
}
