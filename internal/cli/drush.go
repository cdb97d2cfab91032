package cli

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/dorc/internal/errors"
	"github.com/rileyhilliard/dorc/internal/menu"
	"github.com/rileyhilliard/dorc/internal/target"
	"github.com/rileyhilliard/dorc/internal/ui"
)

// drushScreen is the task runner. The target chosen here is dropped when
// the user leaves.
func (a *App) drushScreen() error {
	defer a.Session.ClearTarget()

	return a.submenu("Drush", func() []menu.Item {
		return []menu.Item{
			{Label: "Select target", Run: a.selectTarget},
			{Label: "Clear target", Run: a.clearTarget},
			{Label: "Cache rebuild", Run: func() error { return a.drush("Cache rebuild", "cache:rebuild") }},
			{Label: "Config import", Run: a.configImport},
			{Label: "Config export", Run: func() error { return a.drush("Config export", "config:export", "-y") }},
			{Label: "Database updates", Run: func() error { return a.drush("Database updates", "updatedb", "-y") }},
			{Label: "Watchdog tail", Run: func() error { return a.drush("Watchdog tail", "watchdog:tail") }},
			{Label: "One-time login link", Run: func() error { return a.drush("One-time login link", "user:login") }},
			{Label: "Custom drush command", Run: a.customDrush},
		}
	})
}

// candidates lists the targets of the active project.
func (a *App) candidates() ([]target.Target, error) {
	p, err := a.Session.RequireProject()
	if err != nil {
		return nil, err
	}
	drush, err := a.Session.Drush()
	if err != nil {
		return nil, err
	}
	return a.Discover.Candidates(p, drush), nil
}

func (a *App) selectTarget() error {
	cands, err := a.candidates()
	if err != nil {
		return err
	}
	t, err := a.Resolve.Resolve(a.Session, cands)
	if err != nil {
		return err
	}
	a.Log.Info("target set to %s", t.Label())
	return nil
}

func (a *App) clearTarget() error {
	a.Session.ClearTarget()
	return nil
}

// ensureTarget asks for a target when none is active.
func (a *App) ensureTarget() error {
	if _, ok := a.Session.Target(); ok {
		return nil
	}
	return a.selectTarget()
}

// drush runs a drush command against the active target, asking for one
// first when needed.
func (a *App) drush(description string, args ...string) error {
	if err := a.ensureTarget(); err != nil {
		return err
	}
	cmd, err := a.Session.DrushCommand(args...)
	if err != nil {
		return err
	}
	return a.run(description, cmd)
}

func (a *App) configImport() error {
	if err := a.ensureTarget(); err != nil {
		return err
	}
	t, _ := a.Session.Target()
	ok, err := a.confirm(
		fmt.Sprintf("Import configuration into %s?", t.Label()),
		"Active configuration will be replaced by the exported files.")
	if err != nil || !ok {
		return err
	}
	return a.drush("Config import", "config:import", "-y")
}

func (a *App) customDrush() error {
	line, err := a.Prompt.Input("drush", "Arguments, e.g. php:eval \"echo 1;\"", ui.NotEmpty("command"))
	if err != nil {
		return err
	}
	args, err := splitArgs(line)
	if err != nil {
		return err
	}
	if len(args) > 0 && (args[0] == "drush" || strings.HasSuffix(args[0], "/drush")) {
		args = args[1:]
	}
	if len(args) > 0 && strings.HasPrefix(args[0], "@") {
		return errors.New(errors.ErrInput,
			"Don't include a site alias",
			"The active target is added for you. Change it with Select target.")
	}
	return a.drush("drush "+strings.Join(args, " "), args...)
}

// splitArgs splits a line on whitespace, honoring single and double quotes.
// A backslash outside single quotes takes the next rune literally.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		quote   rune
		inToken bool
		escaped bool
	)
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			inToken = true
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			cur.WriteRune(r)
		case r == '\'' || r == '"':
			quote = r
			inToken = true
		case r == ' ' || r == '\t':
			if inToken {
				args = append(args, cur.String())
				cur.Reset()
				inToken = false
			}
		default:
			cur.WriteRune(r)
			inToken = true
		}
	}
	if escaped {
		return nil, errors.New(errors.ErrInput,
			"Command ends with a backslash",
			"Remove the trailing backslash or escape it as \\\\.")
	}
	if quote != 0 {
		return nil, errors.New(errors.ErrInput,
			"Unterminated quote in command",
			"Close the quote or remove it.")
	}
	if inToken {
		args = append(args, cur.String())
	}
	if len(args) == 0 {
		return nil, errors.New(errors.ErrInput, "Command is empty", "")
	}
	return args, nil
}
