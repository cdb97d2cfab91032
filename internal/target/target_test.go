package target

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rileyhilliard/dorc/internal/exec"
)

func TestTarget_TokenAndLabel(t *testing.T) {
	tests := []struct {
		name      string
		target    Target
		wantToken string
		wantLabel string
	}{
		{"alias", Alias("sitea"), "@sitea", "@sitea"},
		{"alias with at", Alias("@sitea.prod"), "@sitea.prod", "@sitea.prod"},
		{"uri", URI("https://a.example.com", ""), "--uri=https://a.example.com", "https://a.example.com"},
		{"uri with dir", URI("a.localhost", "site_a"), "--uri=a.localhost", "a.localhost (sites/site_a)"},
		{"all sites", AllSites(), "@sites", "All sites"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantToken, tt.target.Token())
			assert.Equal(t, tt.wantLabel, tt.target.Label())
		})
	}
}

func TestTarget_Scope(t *testing.T) {
	base := exec.New("vendor/bin/drush", "sql:drop", "-y").InDir("/srv/p")

	scoped := Alias("sitea").Scope(base)

	assert.Equal(t, "vendor/bin/drush @sitea sql:drop -y", scoped.String())
	assert.Equal(t, "/srv/p", scoped.Dir)
	assert.Equal(t, []string{"sql:drop", "-y"}, base.Args, "original must be untouched")
}

func TestTarget_MatchKey(t *testing.T) {
	tests := []struct {
		target Target
		want   string
	}{
		{Alias("site_a.prod"), "sitea"},
		{Alias("sitea"), "sitea"},
		{URI("https://site-b.example.com", ""), "siteb"},
		{URI("localhost:8080", ""), "localhost"},
		{URI("b.localhost", "site_b"), "siteb"},
		{AllSites(), ""},
	}

	for _, tt := range tests {
		t.Run(tt.target.Label(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.target.MatchKey())
		})
	}
}

func TestTarget_MatchesDump(t *testing.T) {
	assert.True(t, Alias("sitea").MatchesDump("/dumps/site_a.sql.gz"))
	assert.True(t, Alias("site_a.prod").MatchesDump("nightly-SITEA-2026.zip"))
	assert.False(t, Alias("siteb").MatchesDump("/dumps/site_a.sql.gz"))
	assert.False(t, Alias("self.local").MatchesDump("self.sql"))
	assert.False(t, AllSites().MatchesDump("all.sql"))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "alias", KindAlias.String())
	assert.Equal(t, "uri", KindURI.String())
	assert.Equal(t, "all-sites", KindAllSites.String())
	assert.Equal(t, "unknown", Kind(42).String())
}
