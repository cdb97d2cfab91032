package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/dorc/internal/config"
	"github.com/rileyhilliard/dorc/internal/doctor"
	"github.com/rileyhilliard/dorc/internal/errors"
	"github.com/rileyhilliard/dorc/internal/exec"
	"github.com/rileyhilliard/dorc/internal/favorites"
	"github.com/rileyhilliard/dorc/internal/history"
	"github.com/rileyhilliard/dorc/internal/logger"
	"github.com/rileyhilliard/dorc/internal/menu"
	"github.com/rileyhilliard/dorc/internal/project"
	"github.com/rileyhilliard/dorc/internal/restore"
	"github.com/rileyhilliard/dorc/internal/session"
	"github.com/rileyhilliard/dorc/internal/target"
	"github.com/rileyhilliard/dorc/internal/terminal"
	"github.com/rileyhilliard/dorc/internal/ui"
	"github.com/rileyhilliard/dorc/pkg/sshutil"
)

// restoreLockName is the lock directory kept in the config directory while
// a restore runs.
const restoreLockName = "restore.lock"

// App holds everything the menu screens share. Screens are methods on App
// and block until the user leaves them.
type App struct {
	Paths   config.Paths
	Config  *config.Config
	Session *session.Session

	Keys   terminal.KeyReader
	Out    io.Writer
	Print  *ui.Printer
	Prompt ui.Prompter
	Runner exec.Runner
	Log    logger.Logger

	History   *history.Store
	Favorites *favorites.Registry
	Discover  *target.Discoverer
	Resolve   *target.Resolver
	Restore   *restore.Pipeline
	Reporter  *doctor.Reporter

	// Page shows long text full-screen.
	Page func(title, content string) error
	// Getenv reads the environment ($EDITOR).
	Getenv func(string) string
	// SSHConfig is the ssh client config listed by "SSH to host".
	SSHConfig string
	// Cwd is where dorc was started.
	Cwd string
}

// wire fills in the components derived from the base fields.
func (a *App) wire() {
	if a.Log == nil {
		a.Log = logger.Noop()
	}
	if a.Print == nil {
		a.Print = ui.NewPrinter(a.Out)
	}
	if a.Getenv == nil {
		a.Getenv = os.Getenv
	}
	if a.SSHConfig == "" {
		a.SSHConfig = sshutil.DefaultConfigPath()
	}
	if a.Favorites == nil {
		a.Favorites = &favorites.Registry{}
	}
	if a.Discover == nil {
		a.Discover = target.NewDiscoverer(a.Runner, a.Log)
	}
	if a.Resolve == nil {
		a.Resolve = target.NewResolver(a.Keys, a.Out)
	}
	if a.Restore == nil {
		a.Restore = &restore.Pipeline{
			Session:     a.Session,
			Runner:      a.Runner,
			Discoverer:  a.Discover,
			Resolver:    a.Resolve,
			Prompter:    a.Prompt,
			Display:     ui.NewPhaseDisplay(a.Out),
			ScratchRoot: a.Config.ScratchDir,
			LockPath:    filepath.Join(a.Paths.Dir, restoreLockName),
			Log:         a.Log,
		}
		if a.History != nil {
			a.Restore.History = a.History
		}
	}
}

// Run shows the main menu until the user quits.
func (a *App) Run() error {
	if a.Cwd != "" {
		if p, err := project.FindRoot(a.Cwd); err == nil {
			a.Session.SetProject(p)
			a.Log.Info("project %s detected from the working directory", p.Root)
		}
	}

	err := menu.Loop(a.Keys, a.Out, a.mainTitle, a.mainItems, a.onError)
	if stderrors.Is(err, menu.ErrQuit) {
		return nil
	}
	return err
}

func (a *App) mainTitle() string {
	return "dorc  " + a.statusLine()
}

// statusLine reads: [acme | @acme.prod]
func (a *App) statusLine() string {
	proj := "no project"
	if p, ok := a.Session.Project(); ok {
		proj = p.Name()
	}
	if t, ok := a.Session.Target(); ok {
		return fmt.Sprintf("[%s | %s]", proj, t.Label())
	}
	return "[" + proj + "]"
}

func (a *App) mainItems() []menu.Item {
	return []menu.Item{
		{Label: "Project", Run: a.projectScreen},
		{Label: "Git", Run: a.gitScreen},
		{Label: "Drush", Run: a.drushScreen},
		{Label: "Database", Run: a.databaseScreen},
		{Label: "Search", Run: a.searchScreen},
		{Label: "Cloud", Run: a.cloudScreen},
		{Label: "Orchestration", Run: a.orchestrationScreen},
		{Label: "History", Run: a.historyScreen},
		{Label: "Favorites", Run: a.favoritesScreen},
		{Label: "Settings", Run: a.settingsScreen},
		{Label: "Quit", Run: func() error { return menu.ErrQuit }},
	}
}

// submenu shows a screen with a trailing Back entry.
func (a *App) submenu(title string, items func() []menu.Item) error {
	return menu.Loop(a.Keys, a.Out,
		func() string { return title + "  " + a.statusLine() },
		func() []menu.Item {
			return append(items(), menu.Item{Label: "Back", Run: func() error { return menu.ErrBack }})
		},
		a.onError)
}

// onError reports a failed action and waits for a key so the message
// isn't wiped by the next redraw.
func (a *App) onError(err error) {
	switch {
	case stderrors.Is(err, ui.ErrCancelled):
		return
	case stderrors.Is(err, target.ErrNoTarget):
		a.Print.Warning("No site selected", "Pick one from Drush > Select target.")
		a.Log.Warn("action aborted: no target")
	case errors.IsCode(err, errors.ErrInput):
		a.Print.Err(err)
		a.Log.Warn("invalid input: %v", err)
	default:
		if code, ok := errors.GetExitCode(err); ok {
			a.Print.Error(fmt.Sprintf("Command exited with code %d", code))
		} else {
			a.Print.Err(err)
		}
	}
	a.pause()
}

// pause waits for any key.
func (a *App) pause() {
	fmt.Fprint(a.Out, "\nPress any key to continue...")
	_, _ = a.Keys.ReadKey()
	fmt.Fprintln(a.Out)
}

// run executes cmd attached to the terminal and records it in history.
func (a *App) run(description string, cmd exec.Command) error {
	fmt.Fprintln(a.Out)
	ui.NewPhaseDisplay(a.Out).CommandPrompt(cmd.String())
	err := exec.Check(a.Runner.Run(cmd))
	a.record(description, cmd)
	if err != nil {
		return err
	}
	a.Print.Success(description)
	a.pause()
	return nil
}

// output runs cmd with captured output. Non-zero exits become errors.
func (a *App) output(cmd exec.Command) (string, error) {
	out, code, err := a.Runner.Output(cmd)
	if err := exec.Check(code, err); err != nil {
		return "", err
	}
	return string(out), nil
}

func (a *App) record(description string, cmd exec.Command) {
	if a.History == nil {
		return
	}
	if err := a.History.Record(a.Session.Context(), description, cmd); err != nil {
		a.Log.Warn("couldn't record %s in history: %v", cmd, err)
	}
}

// confirm asks a yes/no question. Dismissing the prompt counts as no.
func (a *App) confirm(title, description string) (bool, error) {
	ok, err := a.Prompt.Confirm(title, description)
	if stderrors.Is(err, ui.ErrCancelled) {
		return false, nil
	}
	return ok, err
}

// choose shows labels and returns the chosen index, or -1.
func (a *App) choose(title string, labels []string) (int, error) {
	return menu.Choose(a.Keys, a.Out, title, labels)
}

// lines splits command output into trimmed non-empty lines.
func lines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
