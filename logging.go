// logging.go - structured logging for the simulator's diagnostic output.
//
// The simulator only ever logs diagnostics (contention escalation, help
// rounds) — never anything load-bearing for correctness —
// so the logging seam is deliberately narrow: one interface, built on
// logiface the same way every other logger in this codebase's ecosystem is
// built, with stumpy as the zero-allocation default backend.

package bystander

import (
	"io"
	"os"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is the structured logging seam used throughout this package. It
// is satisfied directly by *logiface.Logger[*stumpy.Event]. Its methods
// return builders over *stumpy.Event specifically, so a logiface logger
// with a different event type (logiface-zerolog, logiface-logrus,
// logiface-slog) does not satisfy it.
type Logger interface {
	Debug() *logiface.Builder[*stumpy.Event]
	Info() *logiface.Builder[*stumpy.Event]
	Notice() *logiface.Builder[*stumpy.Event]
	Warning() *logiface.Builder[*stumpy.Event]
	Err() *logiface.Builder[*stumpy.Event]
}

// NewLogger constructs the default [Logger]: a stumpy-backed logiface
// logger writing newline-delimited JSON to w at minimum level.
func NewLogger(w io.Writer, level logiface.Level) *logiface.Logger[*stumpy.Event] {
	return stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(w)),
		stumpy.L.WithLevel(level),
	)
}

// defaultLogger is used when [New] is given no [WithLogger] option: stderr,
// at LevelNotice, matching this codebase's default of surfacing escalation
// diagnostics without being as noisy as Debug/Trace.
func defaultLogger() Logger {
	return NewLogger(os.Stderr, logiface.LevelNotice)
}
