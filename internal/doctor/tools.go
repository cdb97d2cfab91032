package doctor

import (
	"fmt"
	osexec "os/exec"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/rileyhilliard/dorc/internal/exec"
)

var versionPattern = regexp.MustCompile(`v?(\d+\.\d+(?:\.\d+)?)`)

// ToolCheck verifies an external tool is installed and, when Constraint is
// set, that its version satisfies it.
type ToolCheck struct {
	Tool string
	// Program is the executable to run. Defaults to Tool.
	Program string
	// VersionArgs print the version on stdout. Nil means presence-only.
	VersionArgs []string
	// Constraint is a semver constraint such as ">= 2.0".
	Constraint string
	// Optional tools only warn when missing.
	Optional   bool
	Suggestion string

	Runner   exec.Runner
	LookPath func(string) (string, error)
}

func (c *ToolCheck) Name() string { return c.Tool }

func (c *ToolCheck) program() string {
	if c.Program != "" {
		return c.Program
	}
	return c.Tool
}

// Run implements Check.
func (c *ToolCheck) Run() CheckResult {
	res := CheckResult{Name: c.Tool, Required: c.Constraint}

	lookPath := c.LookPath
	if lookPath == nil {
		lookPath = osexec.LookPath
	}
	if _, err := lookPath(c.program()); err != nil {
		res.Status = StatusFail
		if c.Optional {
			res.Status = StatusWarn
		}
		res.Message = fmt.Sprintf("%s not found", c.Tool)
		res.Suggestion = c.Suggestion
		return res
	}

	if c.VersionArgs == nil || c.Runner == nil {
		res.Status = StatusPass
		res.Message = fmt.Sprintf("%s found", c.Tool)
		return res
	}

	out, code, err := c.Runner.Output(exec.New(c.program(), c.VersionArgs...))
	if err != nil || code != 0 {
		res.Status = StatusWarn
		res.Message = fmt.Sprintf("%s found (version unknown)", c.Tool)
		return res
	}

	raw := ParseVersion(string(out))
	res.Version = raw
	if raw == "" {
		res.Status = StatusWarn
		res.Message = fmt.Sprintf("%s found (version unknown)", c.Tool)
		return res
	}

	ok, err := Satisfies(raw, c.Constraint)
	if err != nil {
		res.Status = StatusWarn
		res.Message = fmt.Sprintf("%s %s (can't check %q: %v)", c.Tool, raw, c.Constraint, err)
		return res
	}
	if !ok {
		res.Status = StatusWarn
		res.Message = fmt.Sprintf("%s %s is older than required (%s)", c.Tool, raw, c.Constraint)
		res.Suggestion = c.Suggestion
		return res
	}

	res.Status = StatusPass
	res.Message = fmt.Sprintf("%s %s", c.Tool, raw)
	return res
}

// ParseVersion extracts the first version-looking token from tool output.
// "Drush Commandline Tool 12.4.3" yields "12.4.3".
func ParseVersion(output string) string {
	for _, line := range strings.Split(output, "\n") {
		if m := versionPattern.FindStringSubmatch(line); len(m) > 1 {
			return m[1]
		}
	}
	return ""
}

// Satisfies reports whether version meets constraint. An empty constraint
// accepts any version.
func Satisfies(version, constraint string) (bool, error) {
	if strings.TrimSpace(constraint) == "" {
		return true, nil
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return false, err
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, err
	}
	return c.Check(v), nil
}

// DefaultTools returns the checks for every tool dorc drives.
func DefaultTools(runner exec.Runner, drushBin string) []Check {
	if drushBin == "" {
		drushBin = "drush"
	}
	return []Check{
		&ToolCheck{Tool: "git", VersionArgs: []string{"--version"}, Constraint: ">= 2.20",
			Suggestion: "Install git: brew install git (macOS) or apt install git (Linux)", Runner: runner},
		&ToolCheck{Tool: "php", VersionArgs: []string{"--version"}, Constraint: ">= 8.1",
			Suggestion: "Install PHP 8.1 or newer", Runner: runner},
		&ToolCheck{Tool: "composer", VersionArgs: []string{"--version"}, Constraint: ">= 2.0",
			Suggestion: "Install Composer 2: https://getcomposer.org/download/", Runner: runner},
		&ToolCheck{Tool: "drush", Program: drushBin, VersionArgs: []string{"--version"}, Constraint: ">= 10.0",
			Suggestion: "Run composer require drush/drush in the project, or set DRUSH_BIN", Runner: runner},
		&ToolCheck{Tool: "kubectl", VersionArgs: []string{"version", "--client"}, Optional: true,
			Suggestion: "Install kubectl to use the Orchestration menu", Runner: runner},
		&ToolCheck{Tool: "az", VersionArgs: []string{"version"}, Optional: true,
			Suggestion: "Install the Azure CLI to use the Cloud menu", Runner: runner},
		&ToolCheck{Tool: "ssh", Optional: true,
			Suggestion: "Install an OpenSSH client to use SSH to host"},
	}
}
