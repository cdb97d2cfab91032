package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/dorc/internal/config"
	"github.com/rileyhilliard/dorc/internal/doctor"
	"github.com/rileyhilliard/dorc/internal/errors"
	"github.com/rileyhilliard/dorc/internal/exec"
	"github.com/rileyhilliard/dorc/internal/history"
	"github.com/rileyhilliard/dorc/internal/logger"
	"github.com/rileyhilliard/dorc/internal/session"
	"github.com/rileyhilliard/dorc/internal/terminal"
	"github.com/rileyhilliard/dorc/internal/ui"
)

// Options are the root command's flags.
type Options struct {
	ConfigDir string
	Verbose   bool
	NoColor   bool
}

var opts Options

var rootCmd = newRootCmd(&opts)

func newRootCmd(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dorc",
		Short: "Interactive console for Drupal projects",
		Long: `dorc is a keyboard-driven menu for the chores around a Drupal project:
drush tasks against a chosen site, database restores from dump files,
git and composer, Azure and Kubernetes access, and a replayable history
of everything it ran.

Navigate with the arrow keys or Tab, choose with Enter, go back with Esc.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(*o)
		},
	}

	cmd.PersistentFlags().StringVar(&o.ConfigDir, "config-dir", "", "config directory (default $DORC_HOME or ~/.config/dorc)")
	cmd.PersistentFlags().BoolVar(&o.Verbose, "verbose", false, "log at debug level")
	cmd.PersistentFlags().BoolVar(&o.NoColor, "no-color", false, "disable colored output")
	cmd.Version = "dev"
	cmd.SetVersionTemplate("{{.Version}}")
	return cmd
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	rootCmd.Version = versionText()
	if err := rootCmd.Execute(); err != nil {
		ui.NewPrinter(os.Stderr).Err(err)
		os.Exit(1)
	}
}

func runInteractive(o Options) error {
	app, closeFn, err := newApp(o)
	if err != nil {
		return err
	}
	defer closeFn()
	return app.Run()
}

// newApp builds the application from the config directory and the
// process's terminal.
func newApp(o Options) (*App, func(), error) {
	dir, err := config.ResolveDir(o.ConfigDir)
	if err != nil {
		return nil, nil, err
	}
	paths := config.PathsFor(dir)
	if err := config.EnsureDir(paths); err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(paths.Config)
	if err != nil {
		return nil, nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, nil, err
	}

	if o.NoColor {
		ui.DisableColors()
	} else {
		ui.SetColorMode(cfg.Color)
	}

	level := cfg.LogLevel
	if o.Verbose {
		level = "debug"
	}
	log, closeLog, err := logger.New(logger.Options{Level: level, File: paths.Log, Console: os.Stderr})
	if err != nil {
		return nil, nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't start logging",
			"Check LOG_LEVEL in "+paths.Config)
	}
	logger.SetDefault(log)
	closeFn := func() {
		if err := closeLog(); err != nil {
			ui.NewPrinter(os.Stderr).Warning("Couldn't close " + paths.Log)
		}
	}

	keys := terminal.NewReader(os.Stdin)
	if !keys.IsTerminal() {
		closeFn()
		return nil, nil, errors.New(errors.ErrInput,
			"dorc needs an interactive terminal",
			"Run it directly in a terminal; piped input isn't supported.")
	}

	runner := exec.NewExecutor(log)
	prompter := ui.NewHuhPrompter()
	printer := ui.NewPrinter(os.Stdout)
	cwd, _ := os.Getwd()

	a := &App{
		Paths:   paths,
		Config:  cfg,
		Session: session.New(cfg.DrushBin),
		Keys:    keys,
		Out:     os.Stdout,
		Print:   printer,
		Prompt:  prompter,
		Runner:  runner,
		Log:     log,
		History: history.NewStore(paths.History, log),
		Cwd:     cwd,
		Page: func(title, content string) error {
			return ui.Page(title, content, os.Stdin, os.Stdout)
		},
	}
	a.Reporter = doctor.NewReporter(paths.Reports, paths.Log,
		func() []doctor.Check { return doctor.DefaultTools(runner, cfg.DrushBin) }, log)
	runner.OnFailure = a.Reporter.FailureHook(prompter, printer,
		func() bool { return a.Config.ReportsEnabled },
		func() string {
			if p, ok := a.Session.Project(); ok {
				return p.Root
			}
			return ""
		})
	a.wire()

	if err := a.loadFavorites(); err != nil {
		printer.Err(err)
	}
	log.Info("dorc %s started with config %s", version, paths.Dir)
	return a, closeFn, nil
}
