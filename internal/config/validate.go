package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/rileyhilliard/dorc/internal/errors"
)

var validLogLevels = []string{"debug", "info", "warn", "warning", "error"}

var validColorModes = []string{"auto", "always", "never"}

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if !contains(validLogLevels, cfg.LogLevel) {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("LOG_LEVEL=%q isn't a log level I know", cfg.LogLevel),
			"Use one of: "+strings.Join(validLogLevels[:4], ", ")+", "+validLogLevels[4])
	}

	if !contains(validColorModes, cfg.Color) {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("COLOR=%q isn't a valid color mode", cfg.Color),
			"Use one of: "+strings.Join(validColorModes, ", "))
	}

	if cfg.ScratchDir != "" {
		info, err := os.Stat(cfg.ScratchDir)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"SCRATCH_DIR doesn't exist: "+cfg.ScratchDir,
				"Create the directory or remove SCRATCH_DIR to use the system temp dir")
		}
		if !info.IsDir() {
			return errors.New(errors.ErrConfig,
				"SCRATCH_DIR is not a directory: "+cfg.ScratchDir,
				"Point SCRATCH_DIR at a directory")
		}
	}

	return nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
