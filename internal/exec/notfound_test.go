package exec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCommandNotFound(t *testing.T) {
	tests := []struct {
		name      string
		stderr    string
		exitCode  int
		wantCmd   string
		wantFound bool
	}{
		{"bash command not found", "bash: drush: command not found", 127, "drush", true},
		{"zsh command not found", "zsh: command not found: kubectl", 127, "kubectl", true},
		{"sh not found", "sh: 1: mysql: not found", 127, "mysql", true},
		{"-bash no such file", "-bash: composer: No such file or directory", 127, "composer", true},
		{"generic not found", "php: not found", 127, "php", true},
		{"exit code 127 no pattern match", "some other error message", 127, "", true},
		{"normal error not command not found", "Error: file not found", 1, "", false},
		{"success exit code", "", 0, "", false},
		{"permission denied", "permission denied", 126, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, found := IsCommandNotFound(tt.stderr, tt.exitCode)
			assert.Equal(t, tt.wantFound, found, "found mismatch")
			if tt.wantFound && tt.wantCmd != "" {
				assert.Equal(t, tt.wantCmd, cmd, "command name mismatch")
			}
		})
	}
}

func TestIsDependencyNotFound(t *testing.T) {
	tests := []struct {
		name      string
		stderr    string
		wantCmd   string
		wantFound bool
	}{
		{"sh script", "/bin/sh: mysql: not found", "mysql", true},
		{"env shebang", "env: php: No such file or directory", "php", true},
		{"drush helper", "Command mysqldump was not found.", "mysqldump", true},
		{"unrelated", "SQLSTATE[HY000] [2002] Connection refused", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, found := IsDependencyNotFound(tt.stderr)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.wantCmd, cmd)
		})
	}
}

func TestHandleExecError(t *testing.T) {
	err := HandleExecError(New("drush", "sql:cli"), "sh: 1: mysql: not found", 127)
	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "'mysql' not found in PATH")
	assert.Contains(t, err.Error(), "command -v mysql")

	err = HandleExecError(New("drush", "cr"), "", 127)
	assert.Contains(t, err.Error(), "'drush' not found")

	assert.Nil(t, HandleExecError(New("drush", "cr"), "tests failed", 1))
}
