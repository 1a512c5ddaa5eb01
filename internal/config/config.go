// Package config loads the uideck configuration: the embedded defaults
// merged with an optional user YAML file.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigYAML []byte

// DefaultConfigYAML returns the embedded default configuration document.
func DefaultConfigYAML() []byte {
	out := make([]byte, len(defaultConfigYAML))
	copy(out, defaultConfigYAML)
	return out
}

// Config is the merged configuration.
type Config struct {
	App    AppConfig    `yaml:"app" json:"app"`
	UI     UIConfig     `yaml:"ui" json:"ui"`
	Server ServerConfig `yaml:"server" json:"server"`
}

// AppConfig holds application behaviour settings.
type AppConfig struct {
	Name              string `yaml:"name,omitempty" json:"name,omitempty"`
	Title             string `yaml:"title,omitempty" json:"title,omitempty"`
	Tagline           string `yaml:"tagline,omitempty" json:"tagline,omitempty"`
	Latency           string `yaml:"latency,omitempty" json:"latency,omitempty"`
	ToolDelay         string `yaml:"toolDelay,omitempty" json:"toolDelay,omitempty"`
	SuccessDuration   string `yaml:"successDuration,omitempty" json:"successDuration,omitempty"`
	DefaultListLayout string `yaml:"defaultListLayout,omitempty" json:"defaultListLayout,omitempty"`
	DefaultItemLayout string `yaml:"defaultItemLayout,omitempty" json:"defaultItemLayout,omitempty"`
	// SeedFile replaces the built-in mock tables. JSON, YAML and TOML are
	// accepted.
	SeedFile string `yaml:"seedFile,omitempty" json:"seedFile,omitempty"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Chat   ChatConfig             `yaml:"chat" json:"chat"`
	Theme  ThemeSelection         `yaml:"theme" json:"theme"`
	Themes map[string]ThemeConfig `yaml:"themes,omitempty" json:"themes,omitempty"`
}

// ChatConfig controls the chat panel.
type ChatConfig struct {
	Enabled      *bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	WidthPercent int   `yaml:"widthPercent,omitempty" json:"widthPercent,omitempty"`
}

// ThemeSelection names the active theme.
type ThemeSelection struct {
	Default string `yaml:"default,omitempty" json:"default,omitempty"`
}

// ThemeConfig is a palette of color tokens: ANSI numbers or hex strings.
type ThemeConfig struct {
	Accent      string `yaml:"accent,omitempty" json:"accent,omitempty"`
	Text        string `yaml:"text,omitempty" json:"text,omitempty"`
	Muted       string `yaml:"muted,omitempty" json:"muted,omitempty"`
	Border      string `yaml:"border,omitempty" json:"border,omitempty"`
	HeaderFG    string `yaml:"headerFG,omitempty" json:"headerFG,omitempty"`
	HeaderBG    string `yaml:"headerBG,omitempty" json:"headerBG,omitempty"`
	SelectedFG  string `yaml:"selectedFG,omitempty" json:"selectedFG,omitempty"`
	SelectedBG  string `yaml:"selectedBG,omitempty" json:"selectedBG,omitempty"`
	InputFG     string `yaml:"inputFG,omitempty" json:"inputFG,omitempty"`
	InputBG     string `yaml:"inputBG,omitempty" json:"inputBG,omitempty"`
	UserFG      string `yaml:"userFG,omitempty" json:"userFG,omitempty"`
	AssistantFG string `yaml:"assistantFG,omitempty" json:"assistantFG,omitempty"`
	ToolFG      string `yaml:"toolFG,omitempty" json:"toolFG,omitempty"`
	Success     string `yaml:"success,omitempty" json:"success,omitempty"`
	Warning     string `yaml:"warning,omitempty" json:"warning,omitempty"`
	Danger      string `yaml:"danger,omitempty" json:"danger,omitempty"`
	Info        string `yaml:"info,omitempty" json:"info,omitempty"`
	Secondary   string `yaml:"secondary,omitempty" json:"secondary,omitempty"`
	Primary     string `yaml:"primary,omitempty" json:"primary,omitempty"`
}

// ServerConfig holds the HTTP surface settings.
type ServerConfig struct {
	Addr        string `yaml:"addr,omitempty" json:"addr,omitempty"`
	MetricsPath string `yaml:"metricsPath,omitempty" json:"metricsPath,omitempty"`
}

var (
	listLayouts = map[string]bool{"table": true, "grid": true, "list": true}
	itemLayouts = map[string]bool{"card": true, "panel": true, "details": true}
)

// Default decodes the embedded configuration.
func Default() (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(defaultConfigYAML, &cfg); err != nil {
		return cfg, fmt.Errorf("decode default config: %w", err)
	}
	return cfg, nil
}

// Load returns the defaults merged with the file at path, if any, and
// validates the result.
func Load(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return cfg, err
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		var user Config
		if err := yaml.Unmarshal(data, &user); err != nil {
			return cfg, fmt.Errorf("decode config %s: %w", path, err)
		}
		cfg = Merge(cfg, user)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Merge overlays every non-empty value of over onto base. Themes merge
// token by token so a partial palette inherits the rest.
func Merge(base, over Config) Config {
	out := base
	mergeString(&out.App.Name, over.App.Name)
	mergeString(&out.App.Title, over.App.Title)
	mergeString(&out.App.Tagline, over.App.Tagline)
	mergeString(&out.App.Latency, over.App.Latency)
	mergeString(&out.App.ToolDelay, over.App.ToolDelay)
	mergeString(&out.App.SuccessDuration, over.App.SuccessDuration)
	mergeString(&out.App.DefaultListLayout, over.App.DefaultListLayout)
	mergeString(&out.App.DefaultItemLayout, over.App.DefaultItemLayout)
	mergeString(&out.App.SeedFile, over.App.SeedFile)
	if over.UI.Chat.Enabled != nil {
		v := *over.UI.Chat.Enabled
		out.UI.Chat.Enabled = &v
	}
	if over.UI.Chat.WidthPercent != 0 {
		out.UI.Chat.WidthPercent = over.UI.Chat.WidthPercent
	}
	mergeString(&out.UI.Theme.Default, over.UI.Theme.Default)
	themes := make(map[string]ThemeConfig, len(base.UI.Themes)+len(over.UI.Themes))
	for name, th := range base.UI.Themes {
		themes[name] = th
	}
	for name, th := range over.UI.Themes {
		themes[name] = MergeTheme(themes[name], th)
	}
	out.UI.Themes = themes
	mergeString(&out.Server.Addr, over.Server.Addr)
	mergeString(&out.Server.MetricsPath, over.Server.MetricsPath)
	return out
}

// MergeTheme overlays the non-empty tokens of over onto base.
func MergeTheme(base, over ThemeConfig) ThemeConfig {
	out := base
	pairs := []struct {
		dst *string
		src string
	}{
		{&out.Accent, over.Accent}, {&out.Text, over.Text}, {&out.Muted, over.Muted},
		{&out.Border, over.Border}, {&out.HeaderFG, over.HeaderFG}, {&out.HeaderBG, over.HeaderBG},
		{&out.SelectedFG, over.SelectedFG}, {&out.SelectedBG, over.SelectedBG},
		{&out.InputFG, over.InputFG}, {&out.InputBG, over.InputBG},
		{&out.UserFG, over.UserFG}, {&out.AssistantFG, over.AssistantFG}, {&out.ToolFG, over.ToolFG},
		{&out.Success, over.Success}, {&out.Warning, over.Warning}, {&out.Danger, over.Danger},
		{&out.Info, over.Info}, {&out.Secondary, over.Secondary}, {&out.Primary, over.Primary},
	}
	for _, p := range pairs {
		mergeString(p.dst, p.src)
	}
	return out
}

func mergeString(dst *string, src string) {
	if s := strings.TrimSpace(src); s != "" {
		*dst = s
	}
}

// Validate checks durations, layouts and the theme selection.
func (c Config) Validate() error {
	for name, v := range map[string]string{
		"app.latency":         c.App.Latency,
		"app.toolDelay":       c.App.ToolDelay,
		"app.successDuration": c.App.SuccessDuration,
	} {
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if d < 0 {
			return fmt.Errorf("%s: must not be negative", name)
		}
	}
	if l := c.App.DefaultListLayout; l != "" && !listLayouts[l] {
		return fmt.Errorf("app.defaultListLayout: unknown layout %q (want table, grid or list)", l)
	}
	if l := c.App.DefaultItemLayout; l != "" && !itemLayouts[l] {
		return fmt.Errorf("app.defaultItemLayout: unknown layout %q (want card, panel or details)", l)
	}
	if p := c.UI.Chat.WidthPercent; p < 0 || p > 80 {
		return fmt.Errorf("ui.chat.widthPercent: %d out of range 0-80", p)
	}
	if name := c.UI.Theme.Default; name != "" {
		if _, ok := c.UI.Themes[name]; !ok {
			return fmt.Errorf("ui.theme.default: unknown theme %q (available: %s)", name, strings.Join(c.ThemeNames(), ", "))
		}
	}
	return nil
}

// ThemeNames returns the configured theme names sorted.
func (c Config) ThemeNames() []string {
	names := make([]string, 0, len(c.UI.Themes))
	for name := range c.UI.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ChatEnabled reports whether the chat panel is shown.
func (c Config) ChatEnabled() bool {
	return c.UI.Chat.Enabled == nil || *c.UI.Chat.Enabled
}

// Latency returns app.latency, or fallback when unset or invalid.
func (c Config) Latency(fallback time.Duration) time.Duration {
	return parseOr(c.App.Latency, fallback)
}

// ToolDelay returns app.toolDelay, or fallback.
func (c Config) ToolDelay(fallback time.Duration) time.Duration {
	return parseOr(c.App.ToolDelay, fallback)
}

// SuccessDuration returns app.successDuration, or fallback.
func (c Config) SuccessDuration(fallback time.Duration) time.Duration {
	return parseOr(c.App.SuccessDuration, fallback)
}

func parseOr(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

// Marshal renders cfg as YAML.
func Marshal(cfg Config) ([]byte, error) {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return out, nil
}
