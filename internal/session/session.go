// Package session holds the state shared by every screen: the active
// project and the active drush target.
package session

import (
	"os"
	"path/filepath"

	"github.com/rileyhilliard/dorc/internal/errors"
	"github.com/rileyhilliard/dorc/internal/exec"
	"github.com/rileyhilliard/dorc/internal/project"
	"github.com/rileyhilliard/dorc/internal/target"
)

// GlobalContext is the history context used when no project is active.
const GlobalContext = "GLOBAL"

// Session is passed by pointer to every screen. It is not safe for
// concurrent use; dorc runs one flow at a time.
type Session struct {
	project   *project.Project
	target    target.Target
	hasTarget bool

	// DrushBin overrides drush discovery (DRUSH_BIN).
	DrushBin string
}

// New creates an empty session.
func New(drushBin string) *Session {
	return &Session{DrushBin: drushBin}
}

// Project returns the active project.
func (s *Session) Project() (project.Project, bool) {
	if s.project == nil {
		return project.Project{}, false
	}
	return *s.project, true
}

// RequireProject returns the active project or a PROJECT error.
func (s *Session) RequireProject() (project.Project, error) {
	if s.project == nil {
		return project.Project{}, errors.New(errors.ErrProject,
			"No project selected",
			"Pick one with Project > Switch project.")
	}
	return *s.project, nil
}

// SetProject switches project. The target belongs to the old project and
// is cleared.
func (s *Session) SetProject(p project.Project) {
	s.project = &p
	s.ClearTarget()
}

// Context is the active project root, or GlobalContext.
func (s *Session) Context() string {
	if s.project == nil {
		return GlobalContext
	}
	return s.project.Root
}

// Target implements target.Store.
func (s *Session) Target() (target.Target, bool) {
	return s.target, s.hasTarget
}

// SetTarget implements target.Store.
func (s *Session) SetTarget(t target.Target) {
	s.target = t
	s.hasTarget = true
}

// ClearTarget implements target.Store.
func (s *Session) ClearTarget() {
	s.target = target.Target{}
	s.hasTarget = false
}

// WithTarget runs fn with t as the active target and restores the previous
// target (or its absence) afterwards, whatever fn returns.
func (s *Session) WithTarget(t target.Target, fn func() error) error {
	prev, had := s.target, s.hasTarget
	defer func() {
		s.target, s.hasTarget = prev, had
	}()
	s.SetTarget(t)
	return fn()
}

// Drush returns the unscoped drush command for the active project. Use it
// only for discovery; everything else goes through DrushCommand.
func (s *Session) Drush(args ...string) (exec.Command, error) {
	p, err := s.RequireProject()
	if err != nil {
		return exec.Command{}, err
	}
	return exec.New(s.drushProgram(p), args...).InDir(p.Root), nil
}

// DrushCommand builds a drush command scoped to the active target. It
// refuses when no target is selected.
func (s *Session) DrushCommand(args ...string) (exec.Command, error) {
	cmd, err := s.Drush(args...)
	if err != nil {
		return exec.Command{}, err
	}
	if !s.hasTarget {
		return exec.Command{}, target.ErrNoTarget
	}
	return s.target.Scope(cmd), nil
}

// ProjectCommand builds a command running in the project root.
func (s *Session) ProjectCommand(program string, args ...string) (exec.Command, error) {
	p, err := s.RequireProject()
	if err != nil {
		return exec.Command{}, err
	}
	return exec.New(program, args...).InDir(p.Root), nil
}

// drushProgram prefers DRUSH_BIN, then the project's vendor/bin/drush,
// then drush on PATH.
func (s *Session) drushProgram(p project.Project) string {
	if s.DrushBin != "" {
		return s.DrushBin
	}
	local := filepath.Join(p.Root, "vendor", "bin", "drush")
	if info, err := os.Stat(local); err == nil && !info.IsDir() {
		return local
	}
	return "drush"
}
