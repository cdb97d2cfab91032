package exec

import (
	"fmt"
	"regexp"

	"github.com/rileyhilliard/dorc/internal/errors"
)

// ExitNotFound is the conventional exit status for a missing command.
const ExitNotFound = 127

// commandNotFoundPatterns detect "command not found" messages printed by
// scripts the tools run internally (drush launching mysql, composer
// scripts, ...). These require exit code 127.
var commandNotFoundPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)bash: (\S+): command not found`),
	regexp.MustCompile(`(?i)zsh: command not found: (\S+)`),
	regexp.MustCompile(`(?i)sh: \d+: (\S+): not found`),
	regexp.MustCompile(`(?i)-bash: (\S+): No such file or directory`),
	regexp.MustCompile(`(?i)(\S+): not found`),
	regexp.MustCompile(`(?i)(\S+): command not found`),
}

// dependencyNotFoundPatterns detect a tool failing because a helper it
// shells out to is missing. These can have any exit code.
var dependencyNotFoundPatterns = []*regexp.Regexp{
	// sh: 1: mysql: not found
	regexp.MustCompile(`(?i)/bin/sh: (\S+): not found`),
	// env: php: No such file or directory (from #!/usr/bin/env php)
	regexp.MustCompile(`(?i)env: (\S+): No such file or directory`),
	// Drush: "Command mysql was not found"
	regexp.MustCompile(`(?i)command (\S+) was not found`),
}

// IsCommandNotFound checks if the error output indicates a missing command.
// Returns the command name (if extractable) and whether it's a command-not-found error.
func IsCommandNotFound(stderr string, exitCode int) (string, bool) {
	if exitCode != ExitNotFound {
		return "", false
	}

	for _, pattern := range commandNotFoundPatterns {
		if matches := pattern.FindStringSubmatch(stderr); len(matches) > 1 {
			return matches[1], true
		}
	}

	// Exit code is 127 but couldn't extract command name
	return "", true
}

// IsDependencyNotFound checks if a tool failed because a helper command is missing.
func IsDependencyNotFound(stderr string) (string, bool) {
	for _, pattern := range dependencyNotFoundPatterns {
		if matches := pattern.FindStringSubmatch(stderr); len(matches) > 1 {
			return matches[1], true
		}
	}
	return "", false
}

// HandleExecError turns a missing-command failure into a structured error
// naming the tool. It returns nil for ordinary non-zero exits.
func HandleExecError(cmd Command, stderr string, exitCode int) error {
	name, notFound := IsCommandNotFound(stderr, exitCode)
	if !notFound {
		name, notFound = IsDependencyNotFound(stderr)
	}
	if !notFound {
		return nil
	}
	if name == "" {
		name = cmd.Program
	}
	return notFoundError(name, nil)
}

func notFoundError(name string, cause error) error {
	return errors.WrapWithCode(cause, errors.ErrExec,
		fmt.Sprintf("'%s' not found in PATH", name),
		fmt.Sprintf(`Install '%s' or add its directory to PATH.

Check with:
  command -v %s

Run Settings > Doctor to see every tool dorc uses.`, name, name))
}
