package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const configFileName = "config.toml"

// Path resolves the config file location: $SHELLENV_HOME/config.toml, then
// $XDG_CONFIG_HOME/shellenv/config.toml, then ~/.config/shellenv/config.toml.
func Path() (string, error) {
	if override := strings.TrimSpace(os.Getenv("SHELLENV_HOME")); override != "" {
		dir, err := filepath.Abs(filepath.Clean(override))
		if err != nil {
			return "", fmt.Errorf("resolve SHELLENV_HOME %q: %w", override, err)
		}
		return filepath.Join(dir, configFileName), nil
	}

	if base := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); base != "" {
		return filepath.Join(base, "shellenv", configFileName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(home) == "" {
		if err == nil {
			err = fmt.Errorf("home directory not found")
		}
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", "shellenv", configFileName), nil
}
