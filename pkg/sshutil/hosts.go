// Package sshutil lists the concrete hosts declared in an OpenSSH client
// config so they can be offered in a picker. Connections themselves go
// through the system ssh binary.
package sshutil

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kevinburke/ssh_config"
)

// Host is one concrete Host alias from the config.
type Host struct {
	Alias        string
	Hostname     string
	User         string
	Port         string
	IdentityFile string
}

// Label is the alias followed by where it actually points, when that adds
// anything: "bastion (deploy@10.0.0.4:2222)".
func (h Host) Label() string {
	target := h.Hostname
	if target == "" || target == h.Alias {
		target = ""
	}
	if h.User != "" && target != "" {
		target = h.User + "@" + target
	}
	if h.Port != "" && h.Port != "22" {
		if target == "" {
			target = h.Alias
		}
		target += ":" + h.Port
	}
	if target == "" {
		return h.Alias
	}
	return h.Alias + " (" + target + ")"
}

// DefaultConfigPath is ~/.ssh/config.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".ssh", "config")
	}
	return filepath.Join(home, ".ssh", "config")
}

// Hosts parses the config at path and returns its concrete aliases sorted
// by name. Wildcard patterns and negations are skipped, and so is
// everything after the first Match block, which the parser can't read.
// A missing file yields no hosts.
func Hosts(path string) ([]Host, error) {
	content, err := readUntilMatch(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	cfg, err := ssh_config.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	var hosts []Host
	seen := make(map[string]bool)
	for _, block := range cfg.Hosts {
		for _, pattern := range block.Patterns {
			alias := pattern.String()
			if alias == "" || strings.ContainsAny(alias, "*?!") || seen[alias] {
				continue
			}
			seen[alias] = true

			h := Host{Alias: alias}
			h.Hostname, _ = cfg.Get(alias, "HostName")
			h.User, _ = cfg.Get(alias, "User")
			h.Port, _ = cfg.Get(alias, "Port")
			if id, _ := cfg.Get(alias, "IdentityFile"); id != "" {
				h.IdentityFile = expandHome(id)
			}
			hosts = append(hosts, h)
		}
	}

	sort.Slice(hosts, func(i, j int) bool {
		return hosts[i].Alias < hosts[j].Alias
	})
	return hosts, nil
}

func readUntilMatch(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "match ") {
			lines = lines[:i]
			break
		}
	}
	return []byte(strings.Join(lines, "\n")), nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
