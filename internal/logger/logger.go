// Package logger provides a simple logging interface for dorc components.
// It allows packages to log debug, info, warn, and error messages without
// being coupled to a specific logging implementation.
package logger

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger defines the interface for logging operations.
// All methods accept a format string and arguments, similar to fmt.Printf.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// Options configures the file-backed logger.
type Options struct {
	// Level is the minimum level written to the log file (debug, info, warn, error).
	Level string
	// File is the log file path. Empty disables file output.
	File string
	// Console receives WARN and ERROR messages. Nil disables console echo.
	Console io.Writer
	// Prefix tags every message with a component name (e.g., "[restore]").
	Prefix string
}

// zeroLogger implements Logger on top of zerolog. The file sink receives
// everything at or above the configured level; the console sink only
// receives warnings and errors so menus stay readable.
type zeroLogger struct {
	file    zerolog.Logger
	console zerolog.Logger
	prefix  string
	closer  io.Closer
}

// New creates a logger from options. DORC_DEBUG forces debug level.
// The returned close function releases the log file.
func New(opts Options) (Logger, func() error, error) {
	levelName := opts.Level
	if os.Getenv("DORC_DEBUG") != "" {
		levelName = "debug"
	}
	level, err := ParseLevel(levelName)
	if err != nil {
		return nil, nil, err
	}

	l := &zeroLogger{
		file:    zerolog.Nop(),
		console: zerolog.Nop(),
		prefix:  opts.Prefix,
	}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		l.file = zerolog.New(f).Level(level).With().Timestamp().Logger()
		l.closer = f
	}

	if opts.Console != nil {
		consoleLevel := level
		if consoleLevel < zerolog.WarnLevel {
			consoleLevel = zerolog.WarnLevel
		}
		l.console = zerolog.New(zerolog.ConsoleWriter{
			Out:        opts.Console,
			TimeFormat: time.Kitchen,
		}).Level(consoleLevel).With().Timestamp().Logger()
	}

	closeFn := func() error {
		if l.closer != nil {
			return l.closer.Close()
		}
		return nil
	}
	return l, closeFn, nil
}

// ParseLevel maps a config level name to a zerolog level. Empty means info.
func ParseLevel(name string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return zerolog.InfoLevel, nil
	case "warning":
		return zerolog.WarnLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}

func (l *zeroLogger) msg(format string, args ...interface{}) string {
	m := fmt.Sprintf(format, args...)
	if l.prefix != "" {
		return l.prefix + " " + m
	}
	return m
}

func (l *zeroLogger) Debug(format string, args ...interface{}) {
	l.file.Debug().Msg(l.msg(format, args...))
}

func (l *zeroLogger) Info(format string, args ...interface{}) {
	l.file.Info().Msg(l.msg(format, args...))
}

func (l *zeroLogger) Warn(format string, args ...interface{}) {
	m := l.msg(format, args...)
	l.file.Warn().Msg(m)
	l.console.Warn().Msg(m)
}

func (l *zeroLogger) Error(format string, args ...interface{}) {
	m := l.msg(format, args...)
	l.file.Error().Msg(m)
	l.console.Error().Msg(m)
}

// Tail returns the last n lines of the log file at path.
// A missing file yields no lines and no error.
func Tail(path string, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	ring := make([]string, 0, n)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if len(ring) == n {
			ring = ring[1:]
		}
		ring = append(ring, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ring, nil
}

// noopLogger implements Logger but discards all messages.
type noopLogger struct{}

// Noop returns a logger that discards all messages.
func Noop() Logger {
	return &noopLogger{}
}

func (l *noopLogger) Debug(format string, args ...interface{}) {}
func (l *noopLogger) Info(format string, args ...interface{})  {}
func (l *noopLogger) Warn(format string, args ...interface{})  {}
func (l *noopLogger) Error(format string, args ...interface{}) {}

// LogMessage represents a captured log message.
type LogMessage struct {
	Level   string
	Message string
}

// BufferLogger captures log messages for testing.
type BufferLogger struct {
	Messages []LogMessage
}

// NewBufferLogger creates a logger that captures messages for inspection.
func NewBufferLogger() *BufferLogger {
	return &BufferLogger{
		Messages: make([]LogMessage, 0),
	}
}

func (l *BufferLogger) Debug(format string, args ...interface{}) {
	l.Messages = append(l.Messages, LogMessage{Level: "debug", Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Info(format string, args ...interface{}) {
	l.Messages = append(l.Messages, LogMessage{Level: "info", Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Warn(format string, args ...interface{}) {
	l.Messages = append(l.Messages, LogMessage{Level: "warn", Message: fmt.Sprintf(format, args...)})
}

func (l *BufferLogger) Error(format string, args ...interface{}) {
	l.Messages = append(l.Messages, LogMessage{Level: "error", Message: fmt.Sprintf(format, args...)})
}

// HasLevel returns true if any message was logged at the given level.
func (l *BufferLogger) HasLevel(level string) bool {
	for _, m := range l.Messages {
		if m.Level == level {
			return true
		}
	}
	return false
}

// Contains returns true if any message at level contains substr.
func (l *BufferLogger) Contains(level, substr string) bool {
	for _, m := range l.Messages {
		if m.Level == level && strings.Contains(m.Message, substr) {
			return true
		}
	}
	return false
}

// Clear removes all captured messages.
func (l *BufferLogger) Clear() {
	l.Messages = l.Messages[:0]
}

var defaultLogger Logger = Noop()

// Default returns the package default logger. It discards messages until
// SetDefault installs the application logger.
func Default() Logger {
	return defaultLogger
}

// SetDefault sets the default logger for the package.
func SetDefault(l Logger) {
	defaultLogger = l
}
