package memegen

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger configures the logger used by the library. By default nothing is logged.
// Pass nil to restore the silent default. It is safe for concurrent use.
//
// Log levels used:
//   - [slog.LevelDebug]: requests ignored by the preview service
//   - [slog.LevelInfo]: preview service lifecycle, saved exports
//   - [slog.LevelWarn]: captions which do not fit even at the minimum scale
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current library logger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
