package util

import "testing"

func TestShellQuote(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"simple", "'simple'"},
		{"with space", "'with space'"},
		{"with'quote", "'with'\\''quote'"},
		{"", "''"},
		{"path/to/file", "'path/to/file'"},
		{"$variable", "'$variable'"},
		{"$(command)", "'$(command)'"},
		{"`backtick`", "'`backtick`'"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ShellQuote(tt.input)
			if got != tt.expected {
				t.Errorf("ShellQuote(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestQuoteArg(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"drush", "drush"},
		{"@site_a", "@site_a"},
		{"--uri=https://example.com", "--uri=https://example.com"},
		{"sql:drop", "sql:drop"},
		{"-y", "-y"},
		{"/var/dumps/site a.sql", "'/var/dumps/site a.sql'"},
		{"it's", "'it'\\''s'"},
		{"$HOME", "'$HOME'"},
		{"a;b", "'a;b'"},
		{"", "''"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := QuoteArg(tt.input)
			if got != tt.expected {
				t.Errorf("QuoteArg(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
