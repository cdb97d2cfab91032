// Package project locates Drupal projects on disk.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rileyhilliard/dorc/internal/errors"
)

// webrootCandidates are checked in order when composer.json doesn't say.
var webrootCandidates = []string{"web", "docroot", "html", "public", "."}

// Project is a Composer-managed Drupal checkout.
type Project struct {
	// Root holds composer.json.
	Root string
	// Webroot holds index.php and sites/.
	Webroot string
}

// Name is the directory name of the project root.
func (p Project) Name() string {
	return filepath.Base(p.Root)
}

// SitesDir is <webroot>/sites.
func (p Project) SitesDir() string {
	return filepath.Join(p.Webroot, "sites")
}

// Load inspects dir and returns the project rooted there.
func Load(dir string) (Project, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Project{}, err
	}
	if !fileExists(filepath.Join(abs, "composer.json")) {
		return Project{}, errors.New(errors.ErrProject,
			fmt.Sprintf("%s is not a Composer project", abs),
			"A Drupal project root contains composer.json.")
	}

	webroot, ok := findWebroot(abs)
	if !ok {
		return Project{}, errors.New(errors.ErrProject,
			fmt.Sprintf("No Drupal webroot found in %s", abs),
			"Expected web/, docroot/ or html/ containing sites/. Run composer install first.")
	}
	return Project{Root: abs, Webroot: webroot}, nil
}

// FindRoot walks up from dir to the nearest Drupal project.
func FindRoot(dir string) (Project, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return Project{}, err
	}
	for {
		if p, err := Load(current); err == nil {
			return p, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return Project{}, errors.New(errors.ErrProject,
				fmt.Sprintf("No Drupal project found at or above %s", dir),
				"Switch to a project from the Project menu, or set PROJECTS_DIR.")
		}
		current = parent
	}
}

// Scan lists the Drupal projects directly inside dir, sorted by name.
func Scan(dir string) ([]Project, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrProject,
			fmt.Sprintf("Couldn't read projects directory %s", dir),
			"Set PROJECTS_DIR in Settings to the folder holding your checkouts.")
	}

	var projects []Project
	for _, e := range entries {
		if !e.IsDir() || e.Name()[0] == '.' {
			continue
		}
		if p, err := Load(filepath.Join(dir, e.Name())); err == nil {
			projects = append(projects, p)
		}
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].Name() < projects[j].Name() })
	return projects, nil
}

// composerManifest is the subset of composer.json we read.
type composerManifest struct {
	Extra struct {
		DrupalScaffold struct {
			Locations struct {
				WebRoot string `json:"web-root"`
			} `json:"locations"`
		} `json:"drupal-scaffold"`
	} `json:"extra"`
}

func findWebroot(root string) (string, bool) {
	if declared := declaredWebroot(root); declared != "" {
		dir := filepath.Join(root, declared)
		if isWebroot(dir) {
			return dir, true
		}
	}
	for _, c := range webrootCandidates {
		dir := filepath.Join(root, c)
		if isWebroot(dir) {
			return filepath.Clean(dir), true
		}
	}
	return "", false
}

// declaredWebroot reads extra.drupal-scaffold.locations.web-root.
func declaredWebroot(root string) string {
	data, err := os.ReadFile(filepath.Join(root, "composer.json"))
	if err != nil {
		return ""
	}
	var m composerManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return ""
	}
	if m.Extra.DrupalScaffold.Locations.WebRoot == "" {
		return ""
	}
	return filepath.Clean(m.Extra.DrupalScaffold.Locations.WebRoot)
}

func isWebroot(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, "sites"))
	return err == nil && info.IsDir()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
