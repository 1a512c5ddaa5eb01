// Package theme turns a configured palette into the lipgloss styles shared
// by every component.
package theme

import (
	"fmt"
	"image/color"
	"strings"
	"sync"

	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/uideck/internal/config"
)

// Theme is a resolved palette.
type Theme struct {
	Accent      color.Color
	Text        color.Color
	Muted       color.Color
	Border      color.Color
	HeaderFG    color.Color
	HeaderBG    color.Color
	SelectedFG  color.Color
	SelectedBG  color.Color
	InputFG     color.Color
	InputBG     color.Color
	UserFG      color.Color
	AssistantFG color.Color
	ToolFG      color.Color
	Success     color.Color
	Warning     color.Color
	Danger      color.Color
	Info        color.Color
	Secondary   color.Color
	Primary     color.Color
}

// Fallback is the palette used when no configuration is available.
func Fallback() Theme {
	return Theme{
		Accent:      lipgloss.Color("81"),
		Text:        lipgloss.Color("252"),
		Muted:       lipgloss.Color("245"),
		Border:      lipgloss.Color("238"),
		HeaderFG:    lipgloss.Color("81"),
		HeaderBG:    lipgloss.Color("236"),
		SelectedFG:  lipgloss.Color("255"),
		SelectedBG:  lipgloss.Color("24"),
		InputFG:     lipgloss.Color("252"),
		InputBG:     lipgloss.Color("236"),
		UserFG:      lipgloss.Color("114"),
		AssistantFG: lipgloss.Color("81"),
		ToolFG:      lipgloss.Color("179"),
		Success:     lipgloss.Color("#10b981"),
		Warning:     lipgloss.Color("#f59e0b"),
		Danger:      lipgloss.Color("#ef4444"),
		Info:        lipgloss.Color("#3b82f6"),
		Secondary:   lipgloss.Color("#6b7280"),
		Primary:     lipgloss.Color("#667eea"),
	}
}

// FromConfig resolves tc, taking unset tokens from base.
func FromConfig(tc config.ThemeConfig, base Theme) Theme {
	pick := func(token string, fallback color.Color) color.Color {
		if strings.TrimSpace(token) == "" {
			return fallback
		}
		return lipgloss.Color(token)
	}
	return Theme{
		Accent:      pick(tc.Accent, base.Accent),
		Text:        pick(tc.Text, base.Text),
		Muted:       pick(tc.Muted, base.Muted),
		Border:      pick(tc.Border, base.Border),
		HeaderFG:    pick(tc.HeaderFG, base.HeaderFG),
		HeaderBG:    pick(tc.HeaderBG, base.HeaderBG),
		SelectedFG:  pick(tc.SelectedFG, base.SelectedFG),
		SelectedBG:  pick(tc.SelectedBG, base.SelectedBG),
		InputFG:     pick(tc.InputFG, base.InputFG),
		InputBG:     pick(tc.InputBG, base.InputBG),
		UserFG:      pick(tc.UserFG, base.UserFG),
		AssistantFG: pick(tc.AssistantFG, base.AssistantFG),
		ToolFG:      pick(tc.ToolFG, base.ToolFG),
		Success:     pick(tc.Success, base.Success),
		Warning:     pick(tc.Warning, base.Warning),
		Danger:      pick(tc.Danger, base.Danger),
		Info:        pick(tc.Info, base.Info),
		Secondary:   pick(tc.Secondary, base.Secondary),
		Primary:     pick(tc.Primary, base.Primary),
	}
}

// Select resolves the named theme from cfg. An empty name selects the
// configured default.
func Select(cfg config.Config, name string) (Theme, error) {
	if name == "" {
		name = cfg.UI.Theme.Default
	}
	if name == "" {
		return Fallback(), nil
	}
	tc, ok := cfg.UI.Themes[name]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(cfg.ThemeNames(), ", "))
	}
	return FromConfig(tc, Fallback()), nil
}

var (
	defaultOnce  sync.Once
	defaultTheme Theme
)

// Default returns the default theme of the embedded configuration.
func Default() Theme {
	defaultOnce.Do(func() {
		cfg, err := config.Default()
		if err != nil {
			defaultTheme = Fallback()
			return
		}
		th, err := Select(cfg, "")
		if err != nil {
			defaultTheme = Fallback()
			return
		}
		defaultTheme = th
	})
	return defaultTheme
}
