package gmarch

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// Package level logger. Quiet by default so that library users opt in to
// diagnostics through [SetLogger].
var pkgLogger atomic.Pointer[slog.Logger]

func init() {
	pkgLogger.Store(slog.New(nopHandler{}))
}

// SetLogger routes package diagnostics through l. Passing nil restores the
// default no-op logger. Safe for concurrent use.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	pkgLogger.Store(l)
}

// Logger returns the logger the package currently emits diagnostics to.
func Logger() *slog.Logger {
	return pkgLogger.Load()
}

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (h nopHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h nopHandler) WithGroup(string) slog.Handler           { return h }
