package config

// Config represents the key=value configuration file in the dorc config directory.
// Keys in the file are upper-case (LOG_LEVEL=debug); viper lower-cases them.
type Config struct {
	// LogLevel is the minimum level written to dorc.log: debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`

	// ReportsEnabled offers a diagnostic report when an external command fails.
	ReportsEnabled bool `mapstructure:"reports_enabled"`

	// ProjectsDir is scanned for Drupal projects by the project switcher.
	ProjectsDir string `mapstructure:"projects_dir"`

	// DumpsDir is where the restore flow looks for database dumps.
	// Relative paths are resolved against the active project root.
	DumpsDir string `mapstructure:"dumps_dir"`

	// ScratchDir holds per-restore temporary directories. Empty means os.TempDir().
	ScratchDir string `mapstructure:"scratch_dir"`

	// DrushBin overrides drush discovery (vendor/bin/drush, then PATH).
	DrushBin string `mapstructure:"drush_bin"`

	// Cloud defaults passed to az.
	AzRegion        string `mapstructure:"az_region"`
	AzResourceGroup string `mapstructure:"az_resource_group"`
	AksCluster      string `mapstructure:"aks_cluster"`

	// KubeNamespace scopes kubectl calls. Empty means the context default.
	KubeNamespace string `mapstructure:"kube_namespace"`

	// Color mode: "auto", "always", or "never".
	Color string `mapstructure:"color"`
}

// Paths lists the files dorc keeps in its config directory.
type Paths struct {
	Dir       string
	Config    string
	History   string
	Favorites string
	Reports   string
	Log       string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:       "info",
		ReportsEnabled: true,
		ProjectsDir:    "~/Sites",
		DumpsDir:       "db",
		Color:          "auto",
	}
}
