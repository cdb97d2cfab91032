package doctor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	exectest "github.com/rileyhilliard/dorc/internal/exec/testing"
)

func found(string) (string, error)   { return "/usr/bin/x", nil }
func missing(string) (string, error) { return "", errors.New("not found") }

func TestParseVersion(t *testing.T) {
	tests := []struct {
		output string
		want   string
	}{
		{"git version 2.44.0", "2.44.0"},
		{"Drush Commandline Tool 12.4.3", "12.4.3"},
		{"PHP 8.2.15 (cli) (built: Jan 20 2024)\nCopyright (c) The PHP Group", "8.2.15"},
		{"Composer version 2.7.1 2024-02-09 15:26:28", "2.7.1"},
		{"Client Version: v1.29.2\nKustomize Version: v5.0.4", "1.29.2"},
		{"{\n  \"azure-cli\": \"2.57.0\",\n", "2.57.0"},
		{"no digits here", ""},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseVersion(tt.output))
		})
	}
}

func TestSatisfies(t *testing.T) {
	ok, err := Satisfies("12.4.3", ">= 10.0")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Satisfies("8.0.30", ">= 8.1")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = Satisfies("anything", "")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = Satisfies("1.0", "not a constraint")
	assert.Error(t, err)
}

func TestToolCheck_Run(t *testing.T) {
	tests := []struct {
		name       string
		check      ToolCheck
		stdout     string
		code       int
		wantStatus CheckStatus
		wantMsg    string
	}{
		{
			name:       "missing required tool fails",
			check:      ToolCheck{Tool: "drush", VersionArgs: []string{"--version"}, LookPath: missing},
			wantStatus: StatusFail,
			wantMsg:    "drush not found",
		},
		{
			name:       "missing optional tool warns",
			check:      ToolCheck{Tool: "az", Optional: true, LookPath: missing},
			wantStatus: StatusWarn,
		},
		{
			name:       "presence only",
			check:      ToolCheck{Tool: "ssh", LookPath: found},
			wantStatus: StatusPass,
			wantMsg:    "ssh found",
		},
		{
			name:       "satisfied constraint",
			check:      ToolCheck{Tool: "git", VersionArgs: []string{"--version"}, Constraint: ">= 2.20", LookPath: found},
			stdout:     "git version 2.44.0",
			wantStatus: StatusPass,
			wantMsg:    "git 2.44.0",
		},
		{
			name:       "too old",
			check:      ToolCheck{Tool: "php", VersionArgs: []string{"--version"}, Constraint: ">= 8.1", LookPath: found},
			stdout:     "PHP 7.4.33 (cli)",
			wantStatus: StatusWarn,
			wantMsg:    "older than required",
		},
		{
			name:       "version command fails",
			check:      ToolCheck{Tool: "composer", VersionArgs: []string{"--version"}, LookPath: found},
			code:       1,
			wantStatus: StatusWarn,
			wantMsg:    "version unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := exectest.NewFakeRunner().On("", exectest.Response{Stdout: tt.stdout, Code: tt.code})
			tt.check.Runner = runner

			res := tt.check.Run()
			assert.Equal(t, tt.wantStatus, res.Status)
			assert.Contains(t, res.Message, tt.wantMsg)
		})
	}
}

func TestToolCheck_UsesProgramOverride(t *testing.T) {
	runner := exectest.NewFakeRunner().On("vendor/bin/drush", exectest.Response{Stdout: "Drush Commandline Tool 12.4.3"})
	var looked string
	check := &ToolCheck{
		Tool:        "drush",
		Program:     "vendor/bin/drush",
		VersionArgs: []string{"--version"},
		Runner:      runner,
		LookPath:    func(p string) (string, error) { looked = p; return p, nil },
	}

	res := check.Run()
	assert.Equal(t, StatusPass, res.Status)
	assert.Equal(t, "12.4.3", res.Version)
	assert.Equal(t, "vendor/bin/drush", looked)
	assert.Equal(t, []string{"vendor/bin/drush --version"}, runner.Commands())
}

func TestDefaultTools(t *testing.T) {
	checks := DefaultTools(exectest.NewFakeRunner(), "")
	var names []string
	for _, c := range checks {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"git", "php", "composer", "drush", "kubectl", "az", "ssh"}, names)
}
