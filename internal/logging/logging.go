// Package logging wraps the standard library's log.Logger with leveled
// helper methods, the same shape the teacher's internal/config.LoadConfig
// uses for its own env-var-keyed defaults. No third-party logging library
// is introduced (see DESIGN.md): the teacher's own code never reaches for
// one either, despite one being available transitively, so this follows
// that precedent rather than the rest of the pack's.
package logging

import (
	"log"
	"os"
	"strings"
)

// Level orders the severities a Logger can be configured at.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func levelFromString(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger is a leveled wrapper around *log.Logger.
type Logger struct {
	level Level
	out   *log.Logger
}

// New builds a Logger writing to stderr at the given level.
func New(level Level) *Logger {
	return &Logger{
		level: level,
		out:   log.New(os.Stderr, "", log.LstdFlags),
	}
}

// FromEnv builds a Logger at the level named by INKWELL_LOG_LEVEL
// ("debug", "info", "warn", "error"), defaulting to info when unset or
// unrecognized.
func FromEnv() *Logger {
	return New(levelFromString(os.Getenv("INKWELL_LOG_LEVEL")))
}

func (l *Logger) logf(level Level, prefix, format string, args ...any) {
	if level < l.level {
		return
	}
	l.out.Printf(prefix+" "+format, args...)
}

func (l *Logger) Debugf(format string, args ...any) { l.logf(LevelDebug, "[DEBUG]", format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.logf(LevelInfo, "[INFO]", format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.logf(LevelWarn, "[WARN]", format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.logf(LevelError, "[ERROR]", format, args...) }
