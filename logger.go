package retrodesk

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
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the default logger for scenes created afterwards.
// By default, retrodesk produces no log output. A scene created with
// WithLogger uses that logger instead.
//
// SetLogger is safe for concurrent use. Pass nil to restore silence.
//
// Log levels used by retrodesk and its sub-packages:
//   - [slog.LevelDebug]: per-frame diagnostics (tier changes, render
//     target allocation and disposal, screen retargeting)
//   - [slog.LevelInfo]: lifecycle events (scene mount, worker start/stop)
//   - [slog.LevelWarn]: degraded paths (compute fallback, missing images,
//     failed reallocation)
//
// Example:
//
//	retrodesk.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the current default logger.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
