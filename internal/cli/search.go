package cli

import "github.com/rileyhilliard/dorc/internal/menu"

func (a *App) searchScreen() error {
	defer a.Session.ClearTarget()

	return a.submenu("Search", func() []menu.Item {
		return []menu.Item{
			{Label: "Index status", Run: func() error { return a.drush("Search API status", "search-api:status") }},
			{Label: "Index items", Run: func() error { return a.drush("Search API index", "search-api:index") }},
			{Label: "Clear indexes", Run: a.clearSearch},
		}
	})
}

func (a *App) clearSearch() error {
	if err := a.ensureTarget(); err != nil {
		return err
	}
	ok, err := a.confirm("Clear all search indexes?", "Items must be indexed again before search works.")
	if err != nil || !ok {
		return err
	}
	return a.drush("Search API clear", "search-api:clear")
}
