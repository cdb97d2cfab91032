package logger

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileLogger(t *testing.T, level string, console *bytes.Buffer) (Logger, string) {
	t.Helper()
	os.Unsetenv("DORC_DEBUG")

	path := filepath.Join(t.TempDir(), "logs", "dorc.log")
	opts := Options{Level: level, File: path, Prefix: "[test]"}
	if console != nil {
		opts.Console = console
	}
	l, closeFn, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn() })
	return l, path
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestNew_WritesAtOrAboveLevel(t *testing.T) {
	l, path := newFileLogger(t, "info", nil)

	l.Debug("debug message")
	l.Info("info message %d", 42)
	l.Error("error message")

	out := readLog(t, path)
	assert.NotContains(t, out, "debug message")
	assert.Contains(t, out, "[test] info message 42")
	assert.Contains(t, out, "[test] error message")
	assert.Contains(t, out, `"level":"error"`)
}

func TestNew_DebugEnvOverridesLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dorc.log")
	t.Setenv("DORC_DEBUG", "1")

	l, closeFn, err := New(Options{Level: "error", File: path})
	require.NoError(t, err)
	defer closeFn()

	l.Debug("visible only in debug")
	assert.Contains(t, readLog(t, path), "visible only in debug")
}

func TestNew_ConsoleOnlyGetsWarnings(t *testing.T) {
	var console bytes.Buffer
	l, _ := newFileLogger(t, "debug", &console)

	l.Info("quiet info")
	l.Warn("loud warning")
	l.Error("loud error")

	out := console.String()
	assert.NotContains(t, out, "quiet info")
	assert.Contains(t, out, "loud warning")
	assert.Contains(t, out, "loud error")
}

func TestNew_InvalidLevel(t *testing.T) {
	os.Unsetenv("DORC_DEBUG")
	_, _, err := New(Options{Level: "chatty"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chatty")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want zerolog.Level
	}{
		{"", zerolog.InfoLevel},
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dorc.log")
	var lines []string
	for i := 1; i <= 10; i++ {
		lines = append(lines, fmt.Sprintf("line %d", i))
	}
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))

	got, err := Tail(path, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"line 8", "line 9", "line 10"}, got)

	got, err = Tail(path, 50)
	require.NoError(t, err)
	assert.Len(t, got, 10)
}

func TestTail_MissingFile(t *testing.T) {
	got, err := Tail(filepath.Join(t.TempDir(), "nope.log"), 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestBufferLogger(t *testing.T) {
	l := NewBufferLogger()

	l.Debug("debug %s", "msg")
	l.Info("info %s", "msg")
	l.Warn("warn %s", "msg")
	l.Error("error %s", "msg")

	require.Len(t, l.Messages, 4)

	assert.Equal(t, "debug", l.Messages[0].Level)
	assert.Equal(t, "debug msg", l.Messages[0].Message)

	assert.Equal(t, "info", l.Messages[1].Level)
	assert.Equal(t, "info msg", l.Messages[1].Message)

	assert.Equal(t, "warn", l.Messages[2].Level)
	assert.Equal(t, "warn msg", l.Messages[2].Message)

	assert.Equal(t, "error", l.Messages[3].Level)
	assert.Equal(t, "error msg", l.Messages[3].Message)
}

func TestBufferLogger_HasLevel(t *testing.T) {
	l := NewBufferLogger()

	assert.False(t, l.HasLevel("debug"))
	assert.False(t, l.HasLevel("error"))

	l.Debug("test")
	assert.True(t, l.HasLevel("debug"))
	assert.False(t, l.HasLevel("error"))

	l.Error("test")
	assert.True(t, l.HasLevel("error"))
}

func TestBufferLogger_Contains(t *testing.T) {
	l := NewBufferLogger()
	l.Error("drush @sitea cr exited with 1")

	assert.True(t, l.Contains("error", "@sitea"))
	assert.False(t, l.Contains("warn", "@sitea"))
}

func TestBufferLogger_Clear(t *testing.T) {
	l := NewBufferLogger()

	l.Debug("test1")
	l.Info("test2")
	require.Len(t, l.Messages, 2)

	l.Clear()
	assert.Empty(t, l.Messages)
}

func TestDefault(t *testing.T) {
	original := defaultLogger
	defer func() { defaultLogger = original }()

	d := Default()
	assert.NotNil(t, d)

	buf := NewBufferLogger()
	SetDefault(buf)

	assert.Equal(t, buf, Default())
}

func TestLoggerInterface(t *testing.T) {
	var _ Logger = Noop()
	var _ Logger = NewBufferLogger()
	var _ Logger = &zeroLogger{}
}
