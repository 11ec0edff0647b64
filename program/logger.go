// Package program is the minimal driver shell around the compiler
// core: it wires source units into onyxcst/onyxast/onyxmlir, resolves
// imports across the files it's given, and hands back the compiled
// result or diagnostics. Everything an actual CLI needs on top of
// this — flag parsing, workspace discovery, LLVM invocation, linking
// — stays out of scope (spec.md §1).
package program

import (
	"context"
	"log/slog"
)

// Level mirrors slog.Level's ordering so a driver can pass one without
// importing slog itself.
type Level int

const (
	LevelDebug Level = Level(slog.LevelDebug)
	LevelInfo  Level = Level(slog.LevelInfo)
	LevelWarn  Level = Level(slog.LevelWarn)
	LevelError Level = Level(slog.LevelError)
)

// Logger is a small handle: a *slog.Logger plus the subsystem name it
// was forked for, with its level checked before any formatting work —
// the shape spec.md §9 describes for the core's own diagnostics, kept
// separate from diag's user-facing Panic/Unimplemented/InternalInvariant
// rendering.
type Logger struct {
	base      *slog.Logger
	level     Level
	subsystem string
}

// NewLogger wraps handler (nil uses slog's default) at the given
// level. A nil handler lets an external driver supply its own
// slog.Handler without this package depending on a concrete sink.
func NewLogger(handler slog.Handler, level Level) *Logger {
	var base *slog.Logger
	if handler != nil {
		base = slog.New(handler)
	} else {
		base = slog.Default()
	}

	return &Logger{base: base, level: level}
}

// With forks a child Logger scoped to subsystem, preserving the parent's
// level and handler.
func (l *Logger) With(subsystem string) *Logger {
	return &Logger{base: l.base, level: l.level, subsystem: subsystem}
}

func (l *Logger) enabled(lvl Level) bool {
	return lvl >= l.level
}

func (l *Logger) log(lvl Level, msg string, args ...any) {
	if !l.enabled(lvl) {
		return
	}

	if l.subsystem != "" {
		args = append(args, "subsystem", l.subsystem)
	}

	l.base.Log(context.Background(), slog.Level(lvl), msg, args...)
}

func (l *Logger) Debug(msg string, args ...any) { l.log(LevelDebug, msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.log(LevelInfo, msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.log(LevelWarn, msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.log(LevelError, msg, args...) }
