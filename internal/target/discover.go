package target

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/rileyhilliard/dorc/internal/exec"
	"github.com/rileyhilliard/dorc/internal/logger"
	"github.com/rileyhilliard/dorc/internal/project"
)

// sitesEntry matches `$sites['example.com'] = 'example';` in sites.php.
var sitesEntry = regexp.MustCompile(`^\s*\$sites\[\s*['"]([^'"]+)['"]\s*\]\s*=\s*['"]([^'"]+)['"]\s*;`)

// skippedSiteDirs are never treated as sites by the directory heuristic.
var skippedSiteDirs = map[string]bool{
	"all":        true,
	"default":    true,
	"simpletest": true,
}

// Discoverer lists the targets available in a project.
type Discoverer struct {
	Runner exec.Runner
	Log    logger.Logger
}

// NewDiscoverer creates a discoverer running drush through runner.
func NewDiscoverer(runner exec.Runner, log logger.Logger) *Discoverer {
	if log == nil {
		log = logger.Noop()
	}
	return &Discoverer{Runner: runner, Log: log}
}

// Candidates returns aliases, then multisite URIs, then All sites.
// drush is the unscoped drush command for the project (program and dir).
// Discovery problems are logged and only shrink the list.
func (d *Discoverer) Candidates(p project.Project, drush exec.Command) []Target {
	var out []Target
	out = append(out, d.Aliases(drush)...)

	uris := ParseSitesFile(filepath.Join(p.SitesDir(), "sites.php"))
	if len(uris) == 0 {
		if t, ok := d.StatusURI(drush); ok {
			uris = []Target{t}
		}
	}
	if len(uris) == 0 {
		uris = ScanSiteDirs(p.SitesDir())
		if len(uris) > 0 {
			d.Log.Warn("no sites.php or drush status; guessing %d site(s) from directories with settings.php", len(uris))
		}
	}
	out = append(out, uris...)

	return append(out, AllSites())
}

// Aliases runs `drush site:alias --format=json` and returns its keys.
func (d *Discoverer) Aliases(drush exec.Command) []Target {
	out, code, err := d.Runner.Output(drush.WithArgs("site:alias", "--format=json"))
	if err != nil || code != 0 {
		d.Log.Warn("listing drush aliases failed (exit %d): %v", code, err)
		return nil
	}
	aliases, err := ParseAliases(out)
	if err != nil {
		d.Log.Warn("couldn't parse drush alias list: %v", err)
		return nil
	}
	return aliases
}

// StatusURI asks drush for the URI of the current site.
func (d *Discoverer) StatusURI(drush exec.Command) (Target, bool) {
	out, code, err := d.Runner.Output(drush.WithArgs("status", "--field=uri"))
	if err != nil || code != 0 {
		d.Log.Warn("drush status failed (exit %d): %v", code, err)
		return Target{}, false
	}
	uri := strings.TrimSpace(string(out))
	if uri == "" || uri == "http://default" {
		return Target{}, false
	}
	return URI(uri, ""), true
}

// ParseAliases reads drush's alias JSON, an object keyed by "@name.env".
// Empty output and an empty array both mean no aliases.
func ParseAliases(data []byte) ([]Target, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("[]")) {
		return nil, nil
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(m))
	for k := range m {
		if k = strings.TrimPrefix(k, "@"); k != "" && k != "none" {
			names = append(names, k)
		}
	}
	sort.Strings(names)

	targets := make([]Target, len(names))
	for i, n := range names {
		targets[i] = Alias(n)
	}
	return targets, nil
}

// ParseSitesFile extracts URI targets from a sites.php. Commented lines are
// ignored. A missing file yields nothing.
func ParseSitesFile(path string) []Target {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var targets []Target
	seen := make(map[string]bool)
	scanner := bufio.NewScanner(f)
	inBlock := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if inBlock {
			if strings.Contains(line, "*/") {
				inBlock = false
			}
			continue
		}
		if strings.HasPrefix(line, "/*") {
			inBlock = !strings.Contains(line, "*/")
			continue
		}
		if strings.HasPrefix(line, "//") || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "*") {
			continue
		}

		m := sitesEntry.FindStringSubmatch(line)
		if m == nil || seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		targets = append(targets, URI(m[1], m[2]))
	}
	return targets
}

// ScanSiteDirs guesses sites from sites/*/settings.php. A directory with
// settings.php is not necessarily a configured site, so this is only a
// fallback when nothing better is available.
func ScanSiteDirs(sitesDir string) []Target {
	entries, err := os.ReadDir(sitesDir)
	if err != nil {
		return nil
	}

	var targets []Target
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || skippedSiteDirs[name] || strings.HasPrefix(name, ".") {
			continue
		}
		if _, err := os.Stat(filepath.Join(sitesDir, name, "settings.php")); err != nil {
			continue
		}
		targets = append(targets, URI(name, name))
	}
	return targets
}
