// Package testing provides test doubles for the exec package.
package testing

import (
	"os"
	"strings"

	"github.com/rileyhilliard/dorc/internal/exec"
)

// Response is what the fake returns for a matching command.
type Response struct {
	Code   int
	Stdout string
	Err    error
}

type rule struct {
	prefix string
	resp   Response
	once   bool
	used   bool
}

// Call records one invocation. StdinData holds the content of cmd.Stdin
// read at call time, so tests can check the file existed and what it held.
type Call struct {
	Cmd       exec.Command
	Attached  bool
	StdinData string
}

// FakeRunner records commands and answers them from rules matched against
// Command.String(). Unmatched commands succeed with empty output.
type FakeRunner struct {
	rules []*rule
	Calls []Call
}

// NewFakeRunner creates a runner with no rules.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{}
}

// On answers every command whose rendered form starts with prefix.
// Later rules take precedence over earlier ones.
func (f *FakeRunner) On(prefix string, resp Response) *FakeRunner {
	f.rules = append(f.rules, &rule{prefix: prefix, resp: resp})
	return f
}

// Once answers only the next matching command.
func (f *FakeRunner) Once(prefix string, resp Response) *FakeRunner {
	f.rules = append(f.rules, &rule{prefix: prefix, resp: resp, once: true})
	return f
}

// Run implements exec.Runner.
func (f *FakeRunner) Run(cmd exec.Command) (int, error) {
	resp := f.record(cmd, true)
	return resp.Code, resp.Err
}

// Output implements exec.Runner.
func (f *FakeRunner) Output(cmd exec.Command) ([]byte, int, error) {
	resp := f.record(cmd, false)
	return []byte(resp.Stdout), resp.Code, resp.Err
}

// Commands returns the rendered form of every call, in order.
func (f *FakeRunner) Commands() []string {
	out := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		out[i] = c.Cmd.String()
	}
	return out
}

// Ran reports whether any call's rendered form starts with prefix.
func (f *FakeRunner) Ran(prefix string) bool {
	for _, c := range f.Calls {
		if strings.HasPrefix(c.Cmd.String(), prefix) {
			return true
		}
	}
	return false
}

func (f *FakeRunner) record(cmd exec.Command, attached bool) Response {
	call := Call{Cmd: cmd, Attached: attached}
	if cmd.Stdin != "" {
		if data, err := os.ReadFile(cmd.Stdin); err == nil {
			call.StdinData = string(data)
		}
	}
	f.Calls = append(f.Calls, call)

	rendered := cmd.String()
	for i := len(f.rules) - 1; i >= 0; i-- {
		r := f.rules[i]
		if r.once && r.used {
			continue
		}
		if strings.HasPrefix(rendered, r.prefix) {
			r.used = true
			return r.resp
		}
	}
	return Response{}
}
