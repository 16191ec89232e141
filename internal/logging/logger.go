// Package logging provides the leveled logger used by the commands.
package logging

import (
	"io"
	"log"
	"strings"
)

// Level orders log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseLevel maps a case-insensitive level name onto a Level. Unknown names
// fall back to info.
func ParseLevel(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
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

// Logger writes messages at or above its level through a standard
// log.Logger.
type Logger struct {
	level Level
	out   *log.Logger
}

// New returns a logger writing to w with the standard timestamp prefix.
func New(w io.Writer, level string) *Logger {
	return &Logger{level: ParseLevel(level), out: log.New(w, "", log.LstdFlags)}
}

// Level reports the minimum level that is written.
func (l *Logger) Level() Level { return l.level }

func (l *Logger) printf(level Level, tag, format string, v ...any) {
	if level < l.level {
		return
	}
	l.out.Printf(tag+format, v...)
}

// Debugf logs a debug message.
func (l *Logger) Debugf(format string, v ...any) { l.printf(LevelDebug, "[DEBUG] ", format, v...) }

// Infof logs an info message.
func (l *Logger) Infof(format string, v ...any) { l.printf(LevelInfo, "[INFO] ", format, v...) }

// Warnf logs a warning.
func (l *Logger) Warnf(format string, v ...any) { l.printf(LevelWarn, "[WARN] ", format, v...) }

// Errorf logs an error.
func (l *Logger) Errorf(format string, v ...any) { l.printf(LevelError, "[ERROR] ", format, v...) }

// Fatalf logs an error and exits.
func (l *Logger) Fatalf(format string, v ...any) { l.out.Fatalf("[FATAL] "+format, v...) }
