// Package logger provides a simple leveled logger for the application.
// It supports three levels: off (no output), normal (info/warn/error),
// and verbose (includes debug). Output is rendered by charmbracelet/log.
// The logger is safe for concurrent use.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	charmlog "github.com/charmbracelet/log"
)

// Level controls the verbosity of the logger.
type Level int

const (
	// LevelOff disables all log output.
	LevelOff Level = iota
	// LevelNormal enables info, warn, and error output.
	LevelNormal
	// LevelVerbose enables all output including debug.
	LevelVerbose
)

// silent sits above every charmbracelet level, so nothing gets through.
const silent = charmlog.FatalLevel + 100

// Logger is a leveled logger. All methods are safe for concurrent use.
type Logger struct {
	mu    sync.RWMutex
	level Level
	out   *charmlog.Logger
}

// New creates a logger with the given level, writing to the given output.
// If out is nil, os.Stderr is used.
func New(level Level, out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}

	inner := charmlog.NewWithOptions(out, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})

	l := &Logger{out: inner}
	l.SetLevel(level)
	return l
}

// WithPrefix returns a logger that tags every line with prefix. It starts
// at the parent's level; later SetLevel calls on either side are independent.
func (l *Logger) WithPrefix(prefix string) *Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return &Logger{
		level: l.level,
		out:   l.out.WithPrefix(prefix),
	}
}

// SetLevel changes the log level at runtime.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	switch level {
	case LevelOff:
		l.out.SetLevel(silent)
	case LevelVerbose:
		l.out.SetLevel(charmlog.DebugLevel)
	default:
		l.out.SetLevel(charmlog.InfoLevel)
	}
}

// GetLevel returns the current log level.
func (l *Logger) GetLevel() Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

// Debug logs a message at debug level (only visible in verbose mode).
func (l *Logger) Debug(format string, args ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.out.Debugf(format, args...)
}

// Info logs a message at info level.
func (l *Logger) Info(format string, args ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.out.Infof(format, args...)
}

// Warn logs a message at warn level.
func (l *Logger) Warn(format string, args ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.out.Warnf(format, args...)
}

// Error logs a message at error level.
func (l *Logger) Error(format string, args ...any) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.out.Errorf(format, args...)
}

// Writer returns an io.Writer that logs each write as one info line.
// Useful for handing to libraries that log through a plain writer.
func (l *Logger) Writer() io.Writer {
	return lineWriter{l}
}

type lineWriter struct{ l *Logger }

func (w lineWriter) Write(p []byte) (int, error) {
	if msg := strings.TrimRight(string(p), "\r\n"); msg != "" {
		w.l.Info("%s", msg)
	}
	return len(p), nil
}

// Truncate shortens s to at most maxLen runes for a log line, marking the
// cut with "...".
func Truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	r := []rune(s)
	return string(r[:maxLen-3]) + "..."
}
