package doctor

import (
	"fmt"

	"github.com/rileyhilliard/dorc/internal/exec"
	"github.com/rileyhilliard/dorc/internal/ui"
)

// FailureHook returns an exec.FailureHandler that offers to write a
// diagnostic report after a failed command. enabled is consulted on every
// failure so toggling reporting in Settings takes effect immediately.
func (r *Reporter) FailureHook(p ui.Prompter, out *ui.Printer, enabled func() bool, project func() string) exec.FailureHandler {
	return func(cmd exec.Command, exitCode int) {
		if enabled != nil && !enabled() {
			return
		}

		ok, err := p.Confirm(
			fmt.Sprintf("%s failed (exit %d)", cmd.Program, exitCode),
			"Write a diagnostic report?",
		)
		if err != nil || !ok {
			return
		}

		var proj string
		if project != nil {
			proj = project()
		}
		path, err := r.Write(r.Build(cmd, exitCode, proj))
		if err != nil {
			out.Err(err)
			return
		}
		out.Success("Report written", path)
	}
}
