// Package favorites loads the user's registered commands from favorites.yaml.
//
//	favorites:
//	  - name: Rebuild acme caches
//	    program: drush
//	    args: ["@acme.prod", "cache:rebuild"]
//	    dir: ~/projects/acme
//
// Favorites are registered explicitly. Nothing is discovered from history.
package favorites

import (
	"fmt"
	"os"
	osexec "os/exec"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/dorc/internal/config"
	"github.com/rileyhilliard/dorc/internal/errors"
	"github.com/rileyhilliard/dorc/internal/exec"
)

// Favorite is one registered command.
type Favorite struct {
	Name    string   `yaml:"name"`
	Program string   `yaml:"program"`
	Args    []string `yaml:"args,omitempty"`
	Dir     string   `yaml:"dir,omitempty"`
}

// Command returns the executable descriptor with ~ expanded in Dir.
func (f Favorite) Command() exec.Command {
	cmd := exec.New(f.Program, f.Args...)
	if f.Dir != "" {
		cmd = cmd.InDir(config.ExpandTilde(f.Dir))
	}
	return cmd
}

type file struct {
	Favorites []Favorite `yaml:"favorites"`
}

// Registry is the validated set of favorites plus the entries that were
// rejected.
type Registry struct {
	Favorites []Favorite
	Problems  []error
}

// Names returns the favorite names in file order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.Favorites))
	for i, f := range r.Favorites {
		names[i] = f.Name
	}
	return names
}

// Find returns the favorite called name.
func (r *Registry) Find(name string) (Favorite, bool) {
	for _, f := range r.Favorites {
		if f.Name == name {
			return f, true
		}
	}
	return Favorite{}, false
}

// Loader reads and validates favorites files.
type Loader struct {
	// LookPath resolves bare program names. Defaults to exec.LookPath.
	LookPath func(string) (string, error)
}

// Load reads path. A missing file is an empty registry.
func (l Loader) Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Registry{}, nil
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't read favorites",
			"Check permissions on "+path)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"favorites.yaml isn't valid YAML",
			"Fix the file from Favorites > Edit, then reload.")
	}

	reg := &Registry{}
	seen := make(map[string]bool)
	for i, fav := range f.Favorites {
		fav.Name = strings.TrimSpace(fav.Name)
		if err := l.validate(fav, seen); err != nil {
			reg.Problems = append(reg.Problems, fmt.Errorf("entry %d: %w", i+1, err))
			continue
		}
		seen[fav.Name] = true
		reg.Favorites = append(reg.Favorites, fav)
	}
	return reg, nil
}

// Load reads path with the default loader.
func Load(path string) (*Registry, error) {
	return Loader{}.Load(path)
}

func (l Loader) validate(f Favorite, seen map[string]bool) error {
	if f.Name == "" {
		return fmt.Errorf("favorite needs a 'name'")
	}
	if seen[f.Name] {
		return fmt.Errorf("favorite '%s' is defined twice - names must be unique", f.Name)
	}
	if strings.TrimSpace(f.Program) == "" {
		return fmt.Errorf("favorite '%s' needs a 'program'", f.Name)
	}
	if err := f.Command().Validate(); err != nil {
		return fmt.Errorf("favorite '%s': put arguments in 'args', not in 'program'", f.Name)
	}

	if strings.Contains(f.Program, "/") {
		info, err := os.Stat(config.ExpandTilde(f.Program))
		if err != nil || info.IsDir() || info.Mode().Perm()&0o111 == 0 {
			return fmt.Errorf("favorite '%s': %s isn't an executable file", f.Name, f.Program)
		}
		return nil
	}
	if _, err := l.lookPath()(f.Program); err != nil {
		return fmt.Errorf("favorite '%s': '%s' not found in PATH", f.Name, f.Program)
	}
	return nil
}

func (l Loader) lookPath() func(string) (string, error) {
	if l.LookPath != nil {
		return l.LookPath
	}
	return osexec.LookPath
}

const template = `# Commands listed here appear under Favorites.
# Each entry runs exactly as written, from dir when given.
#
# favorites:
#   - name: Rebuild acme caches
#     program: drush
#     args: ["@acme.prod", "cache:rebuild"]
#     dir: ~/projects/acme
favorites: []
`

// EnsureFile creates a commented starter file at path if none exists.
func EnsureFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Couldn't create the config directory", "")
	}
	if err := os.WriteFile(path, []byte(template), 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Couldn't create favorites.yaml", "")
	}
	return nil
}
