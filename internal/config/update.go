package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Set writes KEY=value into the config file, preserving other keys.
// The file is rewritten from its parsed values, so comments and blank
// lines are not kept. The file is created if it doesn't exist.
func Set(path, key, value string) error {
	values, err := godotenv.Read(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		values = map[string]string{}
	}

	values[strings.ToUpper(key)] = value

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := godotenv.Write(values, path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Entries returns the raw KEY=value pairs in the config file, for display.
func Entries(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	return values, nil
}
