package cli

import (
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/rileyhilliard/dorc/internal/config"
	"github.com/rileyhilliard/dorc/internal/doctor"
	"github.com/rileyhilliard/dorc/internal/menu"
	"github.com/rileyhilliard/dorc/internal/ui"
	"github.com/rileyhilliard/dorc/internal/util"
)

var logLevels = []string{"debug", "info", "warn", "error"}

func (a *App) settingsScreen() error {
	return a.submenu("Settings", func() []menu.Item {
		reports := "off"
		if a.Config.ReportsEnabled {
			reports = "on"
		}
		return []menu.Item{
			{Label: "Show configuration", Run: a.showConfig},
			{Label: "Diagnostic reports: " + reports, Run: a.toggleReports},
			{Label: "Log level: " + a.Config.LogLevel, Run: a.setLogLevel},
			{Label: "Check tools", Run: a.checkTools},
			{Label: "View last report", Run: a.viewLastReport},
		}
	})
}

// configRows lists the effective settings.
func (a *App) configRows() [][]string {
	c := a.Config
	rows := [][]string{
		{"LOG_LEVEL", c.LogLevel},
		{"REPORTS_ENABLED", strconv.FormatBool(c.ReportsEnabled)},
		{"PROJECTS_DIR", c.ProjectsDir},
		{"DUMPS_DIR", c.DumpsDir},
		{"SCRATCH_DIR", c.ScratchDir},
		{"DRUSH_BIN", c.DrushBin},
		{"AZ_REGION", c.AzRegion},
		{"AZ_RESOURCE_GROUP", c.AzResourceGroup},
		{"AKS_CLUSTER", c.AksCluster},
		{"KUBE_NAMESPACE", c.KubeNamespace},
		{"COLOR", c.Color},
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i][0] < rows[j][0] })
	return rows
}

func (a *App) showConfig() error {
	var b strings.Builder
	b.WriteString("Config file: " + a.Paths.Config + "\n")
	b.WriteString("Changing a setting from this menu rewrites the file without its comments.\n\n")
	b.WriteString(ui.RenderSimpleTable([]ui.TableColumn{
		{Title: "Key", Width: 20},
		{Title: "Value", Width: 50},
	}, a.configRows()))
	var favs []string
	if a.Favorites != nil {
		favs = a.Favorites.Names()
	}
	b.WriteString("\nFavorites: " + util.JoinOrNone(favs) + "\n")
	a.Print.Plain("%s", b.String())
	a.pause()
	return nil
}

func (a *App) toggleReports() error {
	next := !a.Config.ReportsEnabled
	if err := config.Set(a.Paths.Config, "REPORTS_ENABLED", strconv.FormatBool(next)); err != nil {
		return err
	}
	a.Config.ReportsEnabled = next
	a.Log.Info("diagnostic reports set to %t", next)
	return nil
}

func (a *App) setLogLevel() error {
	idx, err := a.choose("Log level", logLevels)
	if err != nil || idx < 0 {
		return err
	}
	level := logLevels[idx]
	if err := config.Set(a.Paths.Config, "LOG_LEVEL", level); err != nil {
		return err
	}
	a.Config.LogLevel = level
	a.Print.Success("Log level set to "+level, "Takes effect the next time dorc starts.")
	a.pause()
	return nil
}

func (a *App) checkTools() error {
	results := doctor.RunAll(doctor.DefaultTools(a.Runner, a.Config.DrushBin))

	rows := make([]ui.ToolCheckRow, len(results))
	for i, r := range results {
		rows[i] = ui.ToolCheckRow{
			Status:     r.Status.String(),
			Tool:       r.Name,
			Version:    r.Version,
			Required:   r.Required,
			Suggestion: r.Suggestion,
		}
	}
	a.Print.Plain("%s", ui.RenderToolTable(rows))
	a.Print.Plain("%s", doctor.Summary(results))
	a.pause()
	return nil
}

func (a *App) viewLastReport() error {
	path, err := doctor.LatestReport(a.Paths.Reports)
	if err != nil {
		return err
	}
	if path == "" {
		a.Print.Info("No diagnostic reports yet", "Reports are offered when a command fails.")
		a.pause()
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return a.Page(path, string(data))
}
