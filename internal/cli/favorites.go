package cli

import (
	"github.com/rileyhilliard/dorc/internal/exec"
	"github.com/rileyhilliard/dorc/internal/favorites"
	"github.com/rileyhilliard/dorc/internal/menu"
)

func (a *App) favoritesScreen() error {
	return a.submenu("Favorites", func() []menu.Item {
		items := make([]menu.Item, 0, len(a.Favorites.Favorites)+2)
		for _, f := range a.Favorites.Favorites {
			f := f
			items = append(items, menu.Item{
				Label: f.Name,
				Run:   func() error { return a.run(f.Name, f.Command()) },
			})
		}
		return append(items,
			menu.Item{Label: "Edit favorites", Run: a.editFavorites},
			menu.Item{Label: "Reload favorites", Run: a.reloadFavorites},
		)
	})
}

// loadFavorites replaces the registry and reports rejected entries.
func (a *App) loadFavorites() error {
	reg, err := favorites.Load(a.Paths.Favorites)
	if err != nil {
		return err
	}
	a.Favorites = reg
	if len(reg.Problems) > 0 {
		details := make([]string, len(reg.Problems))
		for i, p := range reg.Problems {
			details[i] = p.Error()
			a.Log.Warn("favorites: %v", p)
		}
		a.Print.Warning("Some favorites were skipped", details...)
	}
	return nil
}

func (a *App) reloadFavorites() error {
	if err := a.loadFavorites(); err != nil {
		return err
	}
	a.Print.Success("Favorites reloaded")
	a.pause()
	return nil
}

// editFavorites opens favorites.yaml in $EDITOR and reloads it.
func (a *App) editFavorites() error {
	if err := favorites.EnsureFile(a.Paths.Favorites); err != nil {
		return err
	}

	editor := a.Getenv("VISUAL")
	if editor == "" {
		editor = a.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}
	argv, err := splitArgs(editor)
	if err != nil {
		return err
	}
	argv = append(argv, a.Paths.Favorites)

	if err := exec.Check(a.Runner.Run(exec.New(argv[0], argv[1:]...))); err != nil {
		return err
	}
	return a.reloadFavorites()
}
