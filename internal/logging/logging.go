// Package logging provides the leveled logger the rest of the module
// writes through: the core only logs warnings and debug detail, never
// blocks on I/O errors, and rotates its own log file instead of
// growing it without bound.
//
// Grounded on the teacher's cmd/bd/daemon_config.go, which resolves a
// daemon log file path under the store's own directory
// (getLogFilePath, "daemon.log"); oaps follows the same convention for
// its own "oaps.log". The teacher's go.mod carries
// gopkg.in/natefinch/lumberjack.v2 as a dependency, but no file in the
// retrieved teacher source actually imports it, so the rotation
// wiring here is built directly from lumberjack's own documented
// Logger fields rather than from a teacher call site.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Level is the severity of a logged line.
type Level int

const (
	LevelDebug Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger is a small leveled wrapper around a rotating log file. A
// write failure is swallowed: logging must never block or fail the
// operation it's describing.
type Logger struct {
	mu       sync.Mutex
	out      io.Writer
	minLevel Level
}

// defaultLogFileName mirrors the teacher's "daemon.log" convention,
// named for this module's own daemon-less hook runtime instead.
const defaultLogFileName = "oaps.log"

// New builds a Logger that writes to a lumberjack-rotated file under
// dir (created if needed). minLevel filters out anything below it;
// debug lines are dropped by default unless the caller opts in.
func New(dir string, minLevel Level) (*Logger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: create log dir: %w", err)
	}
	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(dir, defaultLogFileName),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	return &Logger{out: rotator, minLevel: minLevel}, nil
}

// NewDiscard builds a Logger that drops everything, for tests and
// callers that don't want a log file.
func NewDiscard() *Logger {
	return &Logger{out: io.Discard, minLevel: LevelError}
}

func (l *Logger) log(level Level, format string, args ...any) {
	if level < l.minLevel {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	line := fmt.Sprintf("%s [%s] %s\n", time.Now().Format(time.RFC3339), level, fmt.Sprintf(format, args...))
	// Best-effort: a logging failure must never surface to the caller.
	_, _ = io.WriteString(l.out, line)
}

// Debugf logs a debug-level line.
func (l *Logger) Debugf(format string, args ...any) { l.log(LevelDebug, format, args...) }

// Warnf logs a warning-level line.
func (l *Logger) Warnf(format string, args ...any) { l.log(LevelWarn, format, args...) }

// Errorf logs an error-level line.
func (l *Logger) Errorf(format string, args ...any) { l.log(LevelError, format, args...) }

// Close releases the underlying rotator, if any.
func (l *Logger) Close() error {
	if rotator, ok := l.out.(*lumberjack.Logger); ok {
		return rotator.Close()
	}
	return nil
}
