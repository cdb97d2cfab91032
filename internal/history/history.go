// Package history keeps the append-only log of commands run from the menus.
//
// Each line reads:
//
//	[2006-01-02 15:04:05] [/path/to/project] "Cache rebuild" "{\"program\":\"drush\",...}"
//
// The description and the JSON-encoded command are Go-quoted so a line
// never contains a raw newline.
package history

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rileyhilliard/dorc/internal/errors"
	"github.com/rileyhilliard/dorc/internal/exec"
	"github.com/rileyhilliard/dorc/internal/logger"
	"github.com/rileyhilliard/dorc/internal/session"
)

// TimeLayout is the timestamp format of a history line.
const TimeLayout = "2006-01-02 15:04:05"

// Entry is one recorded command.
type Entry struct {
	Time        time.Time
	Context     string
	Description string
	Command     exec.Command
}

// Global reports whether the entry was recorded outside any project.
func (e Entry) Global() bool {
	return e.Context == session.GlobalContext
}

// Label is how the entry appears in the replay menu.
func (e Entry) Label() string {
	return fmt.Sprintf("%s  %s  (%s)", e.Time.Format(TimeLayout), e.Description, e.Command)
}

var linePattern = regexp.MustCompile(`^\[([0-9-]{10} [0-9:]{8})\] \[(.*?)\] ("(?:[^"\\]|\\.)*") ("(?:[^"\\]|\\.)*")$`)

// Format renders e as a history line without the trailing newline.
func Format(e Entry) (string, error) {
	data, err := json.Marshal(e.Command)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("[%s] [%s] %s %s",
		e.Time.Format(TimeLayout),
		e.Context,
		strconv.Quote(e.Description),
		strconv.Quote(string(data))), nil
}

// Parse reads one history line.
func Parse(line string) (Entry, error) {
	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return Entry{}, fmt.Errorf("unrecognized history line")
	}

	ts, err := time.ParseInLocation(TimeLayout, m[1], time.Local)
	if err != nil {
		return Entry{}, fmt.Errorf("bad timestamp %q: %w", m[1], err)
	}
	desc, err := strconv.Unquote(m[3])
	if err != nil {
		return Entry{}, fmt.Errorf("bad description: %w", err)
	}
	raw, err := strconv.Unquote(m[4])
	if err != nil {
		return Entry{}, fmt.Errorf("bad command: %w", err)
	}

	var cmd exec.Command
	if err := json.Unmarshal([]byte(raw), &cmd); err != nil {
		return Entry{}, fmt.Errorf("bad command JSON: %w", err)
	}
	if cmd.Program == "" {
		return Entry{}, fmt.Errorf("command has no program")
	}

	return Entry{Time: ts, Context: m[2], Description: desc, Command: cmd}, nil
}

// Store appends to and reads the history file.
type Store struct {
	Path string
	Log  logger.Logger
	Now  func() time.Time
}

// NewStore creates a store backed by the file at path.
func NewStore(path string, log logger.Logger) *Store {
	return &Store{Path: path, Log: log, Now: time.Now}
}

// Record appends one entry. An empty context is stored as GLOBAL.
func (s *Store) Record(context, description string, cmd exec.Command) error {
	if context == "" {
		context = session.GlobalContext
	}
	line, err := Format(Entry{Time: s.now(), Context: context, Description: description, Command: cmd})
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrHistory,
			"Couldn't encode history entry", "")
	}

	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrHistory,
			"Couldn't create the history directory",
			"Check permissions on "+filepath.Dir(s.Path))
	}
	f, err := os.OpenFile(s.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrHistory,
			"Couldn't open history file",
			"Check permissions on "+s.Path)
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, line); err != nil {
		return errors.WrapWithCode(err, errors.ErrHistory, "Couldn't write history entry", "")
	}
	s.log().Debug("history: recorded %s", cmd)
	return nil
}

// List returns all entries, oldest first. Malformed lines are skipped.
// A missing file is an empty history.
func (s *Store) List() ([]Entry, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.WrapWithCode(err, errors.ErrHistory,
			"Couldn't read history", "Check permissions on "+s.Path)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		e, err := Parse(line)
		if err != nil {
			s.log().Warn("history: skipping line %d: %v", n, err)
			continue
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return entries, errors.WrapWithCode(err, errors.ErrHistory, "Couldn't read history", "")
	}
	return entries, nil
}

// Clear removes every entry.
func (s *Store) Clear() error {
	if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
		return errors.WrapWithCode(err, errors.ErrHistory,
			"Couldn't clear history", "Check permissions on "+s.Path)
	}
	s.log().Info("history: cleared")
	return nil
}

// Replay runs the entry's command again. It runs in the recorded directory
// when that still exists and in the current directory otherwise.
func (s *Store) Replay(e Entry, runner exec.Runner) error {
	cmd := e.Command
	dir := cmd.Dir
	if dir == "" && !e.Global() {
		dir = e.Context
	}

	if dir != "" {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			s.log().Warn("history: %s no longer exists, replaying %s in the current directory", dir, cmd)
			dir = ""
		}
	}
	cmd.Dir = dir

	s.log().Info("history: replaying %s", cmd)
	return exec.Check(runner.Run(cmd))
}

func (s *Store) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Store) log() logger.Logger {
	if s.Log == nil {
		return logger.Noop()
	}
	return s.Log
}
