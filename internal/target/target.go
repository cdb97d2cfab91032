// Package target models the site a drush command runs against and how
// the user picks one.
package target

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/rileyhilliard/dorc/internal/errors"
	"github.com/rileyhilliard/dorc/internal/exec"
)

// ErrNoTarget is returned when no site is selected, either because the
// user cancelled the picker or there was nothing to pick.
var ErrNoTarget = errors.New(errors.ErrTarget,
	"No site selected",
	"Pick a site with Drush > Select site.")

// Kind discriminates Target variants.
type Kind int

const (
	KindAlias Kind = iota
	KindURI
	KindAllSites
)

func (k Kind) String() string {
	switch k {
	case KindAlias:
		return "alias"
	case KindURI:
		return "uri"
	case KindAllSites:
		return "all-sites"
	default:
		return "unknown"
	}
}

// allSitesToken is drush's alias for every site in a multisite.
const allSitesToken = "@sites"

// Target is one of: a drush alias, a site URI, or all sites.
type Target struct {
	Kind Kind
	// Name is the alias without "@" for KindAlias, and the sites/
	// directory (when known) for KindURI.
	Name string
	URI  string
}

// Alias creates an alias target. A leading "@" is optional.
func Alias(name string) Target {
	return Target{Kind: KindAlias, Name: strings.TrimPrefix(name, "@")}
}

// URI creates a URI target. siteDir may be empty.
func URI(uri, siteDir string) Target {
	return Target{Kind: KindURI, URI: uri, Name: siteDir}
}

// AllSites creates the all-sites pseudo-target.
func AllSites() Target {
	return Target{Kind: KindAllSites}
}

// Token is the drush argument selecting this target.
func (t Target) Token() string {
	switch t.Kind {
	case KindAlias:
		return "@" + t.Name
	case KindURI:
		return "--uri=" + t.URI
	default:
		return allSitesToken
	}
}

// Label is how the target appears in menus.
func (t Target) Label() string {
	switch t.Kind {
	case KindAlias:
		if t.Name == "" {
			return "(none)"
		}
		return "@" + t.Name
	case KindURI:
		if t.Name != "" && t.Name != t.URI {
			return t.URI + " (sites/" + t.Name + ")"
		}
		return t.URI
	default:
		return "All sites"
	}
}

func (t Target) String() string {
	return t.Label()
}

// Scope returns cmd with the target token inserted as its first argument.
func (t Target) Scope(cmd exec.Command) exec.Command {
	args := make([]string, 0, len(cmd.Args)+1)
	args = append(args, t.Token())
	cmd.Args = append(args, cmd.Args...)
	return cmd
}

// MatchKey is the normalized site name used to pair dumps with targets:
// "@site_a.prod" and sites/site-a both give "sitea".
func (t Target) MatchKey() string {
	switch t.Kind {
	case KindAlias:
		name := t.Name
		if i := strings.Index(name, "."); i > 0 {
			name = name[:i]
		}
		return normalize(name)
	case KindURI:
		if t.Name != "" {
			return normalize(t.Name)
		}
		host := t.URI
		if i := strings.Index(host, "://"); i >= 0 {
			host = host[i+3:]
		}
		if i := strings.IndexAny(host, ".:/"); i > 0 {
			host = host[:i]
		}
		return normalize(host)
	default:
		return ""
	}
}

// MatchesDump reports whether the dump file name mentions this site.
func (t Target) MatchesDump(path string) bool {
	key := t.MatchKey()
	if key == "" || key == "self" || key == "default" {
		return false
	}
	return strings.Contains(normalize(filepath.Base(path)), key)
}

func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Store holds the active target.
type Store interface {
	Target() (Target, bool)
	SetTarget(Target)
	ClearTarget()
}
