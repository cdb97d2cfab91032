package cli

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/dorc/internal/errors"
	"github.com/rileyhilliard/dorc/internal/menu"
	"github.com/rileyhilliard/dorc/internal/project"
	"github.com/rileyhilliard/dorc/internal/ui"
)

func (a *App) projectScreen() error {
	return a.submenu("Project", func() []menu.Item {
		return []menu.Item{
			{Label: "Switch project", Run: a.switchProject},
			{Label: "Drush status", Run: func() error { return a.drush("Drush status", "status") }},
			{Label: "Composer install", Run: func() error { return a.composer("Composer install", "install") }},
			{Label: "Composer update", Run: a.composerUpdate},
			{Label: "Composer require", Run: a.composerRequire},
		}
	})
}

// switchProject lists the projects under PROJECTS_DIR. Switching clears
// the active target.
func (a *App) switchProject() error {
	found, err := project.Scan(a.Config.ProjectsDir)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		return errors.New(errors.ErrProject,
			"No Drupal projects found in "+a.Config.ProjectsDir,
			"Set PROJECTS_DIR in Settings, or start dorc inside a project.")
	}

	labels := make([]string, len(found))
	for i, p := range found {
		labels[i] = p.Name()
	}
	idx, err := a.choose("Switch project", labels)
	if err != nil || idx < 0 {
		return err
	}

	a.Session.SetProject(found[idx])
	a.Log.Info("switched to project %s", found[idx].Root)
	return nil
}

func (a *App) composer(description string, args ...string) error {
	return a.projectCommand(description, "composer", args...)
}

func (a *App) composerUpdate() error {
	ok, err := a.confirm("Run composer update?", "This can change composer.lock.")
	if err != nil || !ok {
		return err
	}
	return a.composer("Composer update", "update")
}

func (a *App) composerRequire() error {
	pkg, err := a.Prompt.Input("Package to require", "e.g. drupal/admin_toolbar:^3", ui.NotEmpty("package"))
	if err != nil {
		return err
	}
	pkg = strings.TrimSpace(pkg)
	return a.composer(fmt.Sprintf("Composer require %s", pkg), "require", pkg)
}

// projectCommand runs program in the project root.
func (a *App) projectCommand(description, program string, args ...string) error {
	cmd, err := a.Session.ProjectCommand(program, args...)
	if err != nil {
		return err
	}
	return a.run(description, cmd)
}
