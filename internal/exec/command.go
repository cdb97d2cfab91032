// Package exec runs external tools (git, composer, drush, kubectl, az, ssh)
// from structured command descriptors. Nothing is passed through a shell.
package exec

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/dorc/internal/errors"
	"github.com/rileyhilliard/dorc/internal/util"
)

// Command describes one external invocation. It is also the persisted form
// of history entries and favorites, hence the JSON tags.
type Command struct {
	Program string   `json:"program"`
	Args    []string `json:"args,omitempty"`
	// Dir is the working directory. Empty means the current directory.
	Dir string `json:"dir,omitempty"`
	// Stdin is a file path fed to the process on standard input.
	Stdin string `json:"stdin,omitempty"`
}

// New creates a command for program with args.
func New(program string, args ...string) Command {
	return Command{Program: program, Args: args}
}

// InDir returns a copy of c running in dir.
func (c Command) InDir(dir string) Command {
	c.Dir = dir
	return c
}

// WithStdin returns a copy of c reading standard input from path.
func (c Command) WithStdin(path string) Command {
	c.Stdin = path
	return c
}

// WithArgs returns a copy of c with extra arguments appended.
func (c Command) WithArgs(args ...string) Command {
	merged := make([]string, 0, len(c.Args)+len(args))
	merged = append(merged, c.Args...)
	c.Args = append(merged, args...)
	return c
}

// Argv returns program followed by its arguments.
func (c Command) Argv() []string {
	return append([]string{c.Program}, c.Args...)
}

// String renders the invocation the way a user would type it, quoting only
// arguments that need it. Used for logs, history display and reports.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	for _, a := range c.Argv() {
		parts = append(parts, util.QuoteArg(a))
	}
	s := strings.Join(parts, " ")
	if c.Stdin != "" {
		s += " < " + util.QuoteArg(c.Stdin)
	}
	return s
}

// Validate checks the descriptor can be executed.
func (c Command) Validate() error {
	if strings.TrimSpace(c.Program) == "" {
		return errors.New(errors.ErrInput,
			"Command has no program",
			"Every command needs a program name, e.g. drush or git.")
	}
	if strings.ContainsAny(c.Program, " \t") && !strings.Contains(c.Program, "/") {
		return errors.New(errors.ErrInput,
			fmt.Sprintf("Program %q contains whitespace", c.Program),
			"Put arguments in args instead of the program name.")
	}
	return nil
}
