package cli

import (
	"github.com/rileyhilliard/dorc/internal/errors"
	"github.com/rileyhilliard/dorc/internal/menu"
)

func (a *App) gitScreen() error {
	return a.submenu("Git", func() []menu.Item {
		return []menu.Item{
			{Label: "Status", Run: func() error { return a.projectCommand("Git status", "git", "status") }},
			{Label: "Pull", Run: func() error { return a.projectCommand("Git pull", "git", "pull", "--ff-only") }},
			{Label: "Push", Run: a.gitPush},
			{Label: "Checkout branch", Run: a.gitCheckout},
			{Label: "Log", Run: func() error {
				return a.projectCommand("Git log", "git", "--no-pager", "log", "--oneline", "--decorate", "-n", "30")
			}},
		}
	})
}

func (a *App) gitPush() error {
	ok, err := a.confirm("Push the current branch?", "Commits will be published to the remote.")
	if err != nil || !ok {
		return err
	}
	return a.projectCommand("Git push", "git", "push")
}

func (a *App) gitCheckout() error {
	list, err := a.Session.ProjectCommand("git", "branch", "--format=%(refname:short)")
	if err != nil {
		return err
	}
	out, err := a.output(list)
	if err != nil {
		return err
	}
	branches := lines(out)
	if len(branches) == 0 {
		return errors.New(errors.ErrProject, "No local branches", "")
	}

	idx, err := a.choose("Checkout branch", branches)
	if err != nil || idx < 0 {
		return err
	}
	return a.projectCommand("Git checkout "+branches[idx], "git", "checkout", branches[idx])
}
