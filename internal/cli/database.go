package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rileyhilliard/dorc/internal/archive"
	"github.com/rileyhilliard/dorc/internal/config"
	"github.com/rileyhilliard/dorc/internal/errors"
	"github.com/rileyhilliard/dorc/internal/menu"
	"github.com/rileyhilliard/dorc/internal/restore"
	"github.com/rileyhilliard/dorc/internal/target"
	"github.com/rileyhilliard/dorc/internal/ui"
	"github.com/rileyhilliard/dorc/internal/util"
)

func (a *App) databaseScreen() error {
	defer a.Session.ClearTarget()

	return a.submenu("Database", func() []menu.Item {
		return []menu.Item{
			{Label: "Restore from dump", Run: a.restoreDump},
			{Label: "Export dump", Run: a.exportDump},
			{Label: "Sync between sites", Run: a.syncDatabases},
			{Label: "Drop database", Run: a.dropDatabase},
		}
	})
}

// dumpsDir is DUMPS_DIR resolved against the project root.
func (a *App) dumpsDir() (string, error) {
	p, err := a.Session.RequireProject()
	if err != nil {
		return "", err
	}
	return config.ResolveIn(p.Root, a.Config.DumpsDir), nil
}

// listDumps returns the dump files in dir, newest first.
func listDumps(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	type dump struct {
		path string
		mod  time.Time
	}
	var dumps []dump
	for _, e := range entries {
		if e.IsDir() || !archive.IsDump(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		dumps = append(dumps, dump{filepath.Join(dir, e.Name()), info.ModTime()})
	}
	sort.SliceStable(dumps, func(i, j int) bool {
		return dumps[i].mod.After(dumps[j].mod)
	})

	paths := make([]string, len(dumps))
	for i, d := range dumps {
		paths[i] = d.path
	}
	return paths, nil
}

func (a *App) restoreDump() error {
	dir, err := a.dumpsDir()
	if err != nil {
		return err
	}
	dumps, err := listDumps(dir)
	if err != nil {
		return err
	}

	labels := make([]string, 0, len(dumps)+1)
	for _, d := range dumps {
		labels = append(labels, filepath.Base(d))
	}
	labels = append(labels, "Enter a path...")

	idx, err := a.choose(fmt.Sprintf("Restore from %s (%d %s)", dir, len(dumps), util.Pluralize(len(dumps), "dump", "dumps")), labels)
	if err != nil || idx < 0 {
		return err
	}

	var path string
	if idx < len(dumps) {
		path = dumps[idx]
	} else {
		path, err = a.Prompt.Input("Dump file", "A .sql, .sql.gz, .gz, .zip, .tar, .dump or .dmp file", ui.NotEmpty("path"))
		if err != nil {
			return err
		}
		path = config.ResolveIn(a.Cwd, path)
	}

	fmt.Fprintln(a.Out)
	rs, err := a.Restore.Run(path)
	if err != nil {
		return err
	}

	switch rs.Status {
	case restore.StatusCancelled:
		a.Print.Info("Restore cancelled", "Nothing was changed.")
	case restore.StatusSucceeded:
		a.Print.Success(fmt.Sprintf("Restored %s into %s", rs.Dump.Name(), rs.Target.Label()), rs.Warnings...)
	}
	a.pause()
	return nil
}

func (a *App) exportDump() error {
	if err := a.ensureTarget(); err != nil {
		return err
	}
	dir, err := a.dumpsDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't create "+dir, "Check DUMPS_DIR in Settings.")
	}

	t, _ := a.Session.Target()
	name := t.MatchKey()
	if name == "" {
		name = "site"
	}
	file := filepath.Join(dir, fmt.Sprintf("%s-%s.sql", name, time.Now().Format("20060102-150405")))
	return a.drush("Export dump to "+file+".gz", "sql:dump", "--gzip", "--result-file="+file)
}

// syncDatabases copies one alias's database over another's. Both ends are
// picked with the active target saved and restored around the pickers.
func (a *App) syncDatabases() error {
	cands, err := a.candidates()
	if err != nil {
		return err
	}
	var aliases []target.Target
	for _, c := range cands {
		if c.Kind == target.KindAlias {
			aliases = append(aliases, c)
		}
	}
	if len(aliases) < 2 {
		return errors.New(errors.ErrTarget,
			"Sync needs at least two site aliases",
			"Define aliases in drush/sites/*.site.yml.")
	}

	var src, dst target.Target
	current, _ := a.Session.Target()
	err = a.Session.WithTarget(current, func() error {
		var err error
		src, err = a.Resolve.Scoped("Sync from", false).Resolve(a.Session, aliases)
		if err != nil {
			return err
		}
		var rest []target.Target
		for _, c := range aliases {
			if c != src {
				rest = append(rest, c)
			}
		}
		dst, err = a.Resolve.Scoped("Sync "+src.Label()+" to", true).Resolve(a.Session, rest)
		return err
	})
	if err != nil {
		return err
	}

	ok, err := a.confirm(
		fmt.Sprintf("Overwrite %s with %s?", dst.Label(), src.Label()),
		fmt.Sprintf("The database of %s will be replaced. This can't be undone.", dst.Label()))
	if err != nil || !ok {
		return err
	}

	cmd, err := a.Session.Drush("sql:sync", src.Token(), dst.Token(), "-y")
	if err != nil {
		return err
	}
	return a.run(fmt.Sprintf("Sync %s to %s", src.Label(), dst.Label()), cmd)
}

func (a *App) dropDatabase() error {
	if err := a.ensureTarget(); err != nil {
		return err
	}
	t, _ := a.Session.Target()
	ok, err := a.confirm(
		fmt.Sprintf("Drop every table in %s?", t.Label()),
		"This can't be undone.")
	if err != nil || !ok {
		return err
	}
	return a.drush("Drop database", "sql:drop", "-y")
}
