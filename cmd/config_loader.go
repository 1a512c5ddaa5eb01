package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/oakwood-commons/uideck/internal/config"
	"github.com/oakwood-commons/uideck/pkg/settings"
)

// loadConfig returns the embedded defaults merged with the user config.
func loadConfig(explicit string) (config.Config, error) {
	return config.Load(resolveConfigPath(explicit))
}

// resolveConfigPath returns the explicit path if set, otherwise
// $XDG_CONFIG_HOME/uideck/config.yaml or ~/.config/uideck/config.yaml when
// present.
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	candidate := ""
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidate = filepath.Join(xdg, settings.CliBinaryName, "config.yaml")
	} else if home, err := os.UserHomeDir(); err == nil {
		candidate = filepath.Join(home, ".config", settings.CliBinaryName, "config.yaml")
	}
	if candidate != "" {
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}

// expandHome resolves a leading "~/" against the home directory.
func expandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
