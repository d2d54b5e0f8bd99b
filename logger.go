// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gravity

import (
	"log/slog"
	"sync/atomic"
)

// silent reports nothing at any level, so disabled call sites skip
// formatting their attributes.
var silent = slog.New(slog.DiscardHandler)

var current atomic.Pointer[slog.Logger]

// SetLogger installs the logger used by gravity and its backends. Passing nil
// restores the default, which discards everything. Safe for concurrent use.
//
// Levels:
//   - Debug: per-frame time step, source and buffer roles
//   - Info: lifecycle (loop start/stop, backend and GL version) and the
//     per-frame feedback count when feedback reporting is on
//   - Warn: resource release failures and backend fallback
//
// Example:
//
//	gravity.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	current.Store(l)
}

// Logger returns the installed logger, never nil. Backend packages log
// through it so one SetLogger call configures the whole program.
func Logger() *slog.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	return silent
}
