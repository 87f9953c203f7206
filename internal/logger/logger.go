// Package logger provides diagnostic logging for the Quill CLI.
// Debug and info messages are printed only when verbose mode is enabled
// via the --verbose flag; warnings and errors always reach stderr.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/quill-editor/quill/internal/core/domain"
	"github.com/quill-editor/quill/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.LogSink = (*Logger)(nil)

// Logger writes leveled lines of the form "[LEVEL] source: message".
type Logger struct {
	mu      sync.RWMutex
	verbose bool
	output  io.Writer
}

// New creates a logger writing to w.
func New(w io.Writer, verbose bool) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return &Logger{output: w, verbose: verbose}
}

var std = New(os.Stderr, false)

// Default returns the process-wide logger used by the package functions.
func Default() *Logger {
	return std
}

// SetVerbose enables or disables verbose logging.
func (l *Logger) SetVerbose(v bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func (l *Logger) IsVerbose() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.verbose
}

// SetOutput sets the output writer.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = w
}

// Log implements driven.LogSink.
func (l *Logger) Log(level domain.LogLevel, source, message string) {
	if source != "" {
		message = source + ": " + message
	}
	l.write(level, "%s", message)
}

// Section prints a section header if verbose mode is enabled.
func (l *Logger) Section(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.verbose {
		fmt.Fprintf(l.output, "\n=== %s ===\n", name)
	}
}

// write holds the write lock so concurrent lines never interleave.
func (l *Logger) write(level domain.LogLevel, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < domain.LogWarning && !l.verbose {
		return
	}
	fmt.Fprintf(l.output, "["+prefix(level)+"] "+format+"\n", args...)
}

func prefix(level domain.LogLevel) string {
	switch level {
	case domain.LogDebug:
		return "DEBUG"
	case domain.LogInfo:
		return "INFO"
	case domain.LogWarning:
		return "WARN"
	default:
		return "ERROR"
	}
}

// SetVerbose enables or disables verbose logging on the default logger.
func SetVerbose(v bool) {
	std.SetVerbose(v)
}

// IsVerbose returns true if verbose mode is enabled on the default logger.
func IsVerbose() bool {
	return std.IsVerbose()
}

// SetOutput sets the output writer of the default logger.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	std.write(domain.LogDebug, format, args...)
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	std.write(domain.LogInfo, format, args...)
}

// Warn prints a warning message.
func Warn(format string, args ...any) {
	std.write(domain.LogWarning, format, args...)
}

// Error prints an error message.
func Error(format string, args ...any) {
	std.write(domain.LogError, format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	std.Section(name)
}
