package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "uideck", cfg.App.Name)
	assert.Equal(t, 500*time.Millisecond, cfg.Latency(0))
	assert.Equal(t, 500*time.Millisecond, cfg.ToolDelay(0))
	assert.Equal(t, 2*time.Second, cfg.SuccessDuration(0))
	assert.Equal(t, "table", cfg.App.DefaultListLayout)
	assert.Equal(t, "panel", cfg.App.DefaultItemLayout)
	assert.True(t, cfg.ChatEnabled())
	assert.Equal(t, "dark", cfg.UI.Theme.Default)
	assert.Equal(t, []string{"dark", "light"}, cfg.ThemeNames())
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestUserFileMergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
app:
  latency: 0s
  defaultListLayout: grid
ui:
  chat:
    enabled: false
  theme:
    default: light
  themes:
    light:
      accent: "#ff00ff"
    mono:
      accent: "15"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.Latency(time.Second))
	assert.Equal(t, "grid", cfg.App.DefaultListLayout)
	assert.Equal(t, "panel", cfg.App.DefaultItemLayout)
	assert.False(t, cfg.ChatEnabled())
	assert.Equal(t, "light", cfg.UI.Theme.Default)
	assert.Equal(t, "#ff00ff", cfg.UI.Themes["light"].Accent)
	assert.Equal(t, "236", cfg.UI.Themes["light"].Text, "partial theme inherits the rest")
	assert.Equal(t, "15", cfg.UI.Themes["mono"].Accent)
	assert.Equal(t, []string{"dark", "light", "mono"}, cfg.ThemeNames())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad_duration", "app:\n  latency: soon\n"},
		{"negative_duration", "app:\n  toolDelay: -1s\n"},
		{"bad_list_layout", "app:\n  defaultListLayout: carousel\n"},
		{"bad_item_layout", "app:\n  defaultItemLayout: table\n"},
		{"unknown_theme", "ui:\n  theme:\n    default: neon\n"},
		{"chat_width", "ui:\n  chat:\n    widthPercent: 95\n"},
		{"bad_yaml", "app: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	out, err := Marshal(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(out), "defaultListLayout: table")
	assert.NotEmpty(t, DefaultConfigYAML())
}

func TestDurationFallbacks(t *testing.T) {
	var cfg Config
	assert.Equal(t, time.Second, cfg.Latency(time.Second))
	cfg.App.Latency = "garbage"
	assert.Equal(t, time.Second, cfg.Latency(time.Second))
}
