package ug

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called while batch renders are logging.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for ug and all its sub-packages.
// By default, ug produces no log output. Pass nil to restore the
// silent default.
//
// Log levels used by ug:
//   - [slog.LevelDebug]: measurement and driver diagnostics
//   - [slog.LevelInfo]: export lifecycle (format, size, pages)
//   - [slog.LevelWarn]: recovered content errors (placeholders, unknown
//     colors, graph layout fallback)
//
// Example:
//
//	ug.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger used by ug.
// Sub-packages call this to share the same configuration without
// introducing import cycles.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
