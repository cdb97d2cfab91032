package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/dorc/internal/errors"
	"github.com/spf13/viper"
)

const (
	// GlobalConfigDir is the config directory relative to the home directory.
	GlobalConfigDir = ".config/dorc"
	// ConfigFileName is the key=value config file name.
	ConfigFileName = "config"
	// HistoryFileName is the append-only action log.
	HistoryFileName = "history.log"
	// FavoritesFileName registers user shortcuts.
	FavoritesFileName = "favorites.yaml"
	// ReportsDirName holds diagnostic reports.
	ReportsDirName = "reports"
	// LogFileName is the application log.
	LogFileName = "dorc.log"

	// envPrefix scopes environment overrides (DORC_LOG_LEVEL=debug).
	envPrefix = "DORC"
)

// ResolveDir returns the config directory using the search order:
// 1. Explicit path (from --config-dir flag)
// 2. $DORC_HOME
// 3. ~/.config/dorc
func ResolveDir(explicit string) (string, error) {
	if explicit != "" {
		return ExpandTilde(explicit), nil
	}
	if env := os.Getenv("DORC_HOME"); env != "" {
		return ExpandTilde(env), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine home directory",
			"Set DORC_HOME or pass --config-dir")
	}
	return filepath.Join(home, GlobalConfigDir), nil
}

// PathsFor lists the well-known files under dir.
func PathsFor(dir string) Paths {
	return Paths{
		Dir:       dir,
		Config:    filepath.Join(dir, ConfigFileName),
		History:   filepath.Join(dir, HistoryFileName),
		Favorites: filepath.Join(dir, FavoritesFileName),
		Reports:   filepath.Join(dir, ReportsDirName),
		Log:       filepath.Join(dir, LogFileName),
	}
}

// EnsureDir creates the config directory and the reports directory.
func EnsureDir(p Paths) error {
	for _, dir := range []string{p.Dir, p.Reports} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Couldn't create "+dir,
				"Check permissions on the config directory")
		}
	}
	return nil
}

// Load reads the key=value config file at path. A missing file yields defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil && !os.IsNotExist(err) {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check "+path+" uses KEY=value lines")
	}

	return parseConfig(v, path)
}

// setDefaults registers every key so AutomaticEnv and Unmarshal see them
// even when the file omits them.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("reports_enabled", d.ReportsEnabled)
	v.SetDefault("projects_dir", d.ProjectsDir)
	v.SetDefault("dumps_dir", d.DumpsDir)
	v.SetDefault("scratch_dir", d.ScratchDir)
	v.SetDefault("drush_bin", d.DrushBin)
	v.SetDefault("az_region", d.AzRegion)
	v.SetDefault("az_resource_group", d.AzResourceGroup)
	v.SetDefault("aks_cluster", d.AksCluster)
	v.SetDefault("kube_namespace", d.KubeNamespace)
	v.SetDefault("color", d.Color)
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the values in "+path)
	}

	cfg.ProjectsDir = ExpandTilde(cfg.ProjectsDir)
	cfg.DumpsDir = ExpandTilde(cfg.DumpsDir)
	cfg.ScratchDir = ExpandTilde(cfg.ScratchDir)
	cfg.DrushBin = ExpandTilde(cfg.DrushBin)
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.Color = strings.ToLower(strings.TrimSpace(cfg.Color))

	return cfg, nil
}
