// Package hostlog is the host runtime's only logging facility: a thin
// wrapper over the standard library's log.Logger, gated by a verbose
// flag, in the same idiom the teacher uses for its own stderr tracing
// (timestamped lines, no structured fields, no third-party logging
// library).
package hostlog

import (
	"log"
	"os"
)

// Logger traces host-import calls and session-driver lifecycle events.
// Construct one with New; a nil *Logger is usable and silent.
type Logger struct {
	verbose bool
	inner   *log.Logger
}

// New returns a Logger writing to os.Stderr, silent until SetVerbose(true).
func New() *Logger {
	return &Logger{inner: log.New(os.Stderr, "[aidoku-host] ", log.LstdFlags)}
}

// SetVerbose toggles whether Tracef emits anything. Errorf always emits.
func (l *Logger) SetVerbose(v bool) {
	if l == nil {
		return
	}
	l.verbose = v
}

// Tracef logs a per-import or per-call trace line when verbose is set
// (e.g. "object_get(12, \"id\") -> 37", "net.send(3) -> 200").
func (l *Logger) Tracef(format string, args ...any) {
	if l == nil || !l.verbose {
		return
	}
	l.inner.Printf(format, args...)
}

// Errorf logs regardless of the verbose setting — used for env.abort,
// never for documented sentinel returns. Guest faults seen by the session
// driver go through Tracef.
func (l *Logger) Errorf(format string, args ...any) {
	if l == nil {
		return
	}
	l.inner.Printf(format, args...)
}
