package favorites

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/dorc/internal/errors"
)

func onlyOnPath(names ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		for _, n := range names {
			if n == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", os.ErrNotExist
	}
}

func writeFavorites(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "favorites.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_MissingFile(t *testing.T) {
	reg, err := Load(filepath.Join(t.TempDir(), "favorites.yaml"))
	require.NoError(t, err)
	assert.Empty(t, reg.Favorites)
	assert.Empty(t, reg.Problems)
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeFavorites(t, "favorites: [unclosed"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoad_ValidEntries(t *testing.T) {
	path := writeFavorites(t, `
favorites:
  - name: Rebuild caches
    program: drush
    args: ["@acme.prod", "cache:rebuild"]
    dir: /srv/acme
  - name: "  Pods  "
    program: kubectl
    args: [get, pods]
`)

	reg, err := Loader{LookPath: onlyOnPath("drush", "kubectl")}.Load(path)
	require.NoError(t, err)
	assert.Empty(t, reg.Problems)
	assert.Equal(t, []string{"Rebuild caches", "Pods"}, reg.Names())

	fav, ok := reg.Find("Rebuild caches")
	require.True(t, ok)
	cmd := fav.Command()
	assert.Equal(t, "drush", cmd.Program)
	assert.Equal(t, []string{"@acme.prod", "cache:rebuild"}, cmd.Args)
	assert.Equal(t, "/srv/acme", cmd.Dir)

	_, ok = reg.Find("nope")
	assert.False(t, ok)
}

func TestLoad_InvalidEntriesAreSkipped(t *testing.T) {
	path := writeFavorites(t, `
favorites:
  - name: ok
    program: drush
  - program: drush
  - name: ok
    program: git
  - name: no program
  - name: inline args
    program: drush cr
  - name: missing tool
    program: terraform
  - name: missing file
    program: /nonexistent/bin/tool
`)

	reg, err := Loader{LookPath: onlyOnPath("drush", "git")}.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, reg.Names())
	require.Len(t, reg.Problems, 6)

	var msgs []string
	for _, p := range reg.Problems {
		msgs = append(msgs, p.Error())
	}
	all := strings.Join(msgs, "\n")
	assert.Contains(t, all, "entry 2: favorite needs a 'name'")
	assert.Contains(t, all, "defined twice")
	assert.Contains(t, all, "needs a 'program'")
	assert.Contains(t, all, "'args'")
	assert.Contains(t, all, "'terraform' not found in PATH")
	assert.Contains(t, all, "isn't an executable file")
}

func TestLoad_ExecutablePath(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "deploy.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\n"), 0o755))
	plain := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(plain, []byte("x"), 0o644))

	path := writeFavorites(t, "favorites:\n"+
		"  - {name: deploy, program: "+script+"}\n"+
		"  - {name: notes, program: "+plain+"}\n")

	reg, err := Loader{LookPath: onlyOnPath()}.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"deploy"}, reg.Names())
	assert.Len(t, reg.Problems, 1)
}

func TestEnsureFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "favorites.yaml")

	require.NoError(t, EnsureFile(path))
	reg, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, reg.Favorites)

	require.NoError(t, os.WriteFile(path, []byte("favorites: []\n# mine\n"), 0o644))
	require.NoError(t, EnsureFile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# mine", "existing file is left alone")
}
