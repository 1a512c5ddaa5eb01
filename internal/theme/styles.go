package theme

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"
)

// Styles are the lipgloss styles derived from a Theme. With NoColor set
// every style keeps its layout and emphasis but drops colors.
type Styles struct {
	Theme   Theme
	NoColor bool

	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Text      lipgloss.Style
	Muted     lipgloss.Style
	Accent    lipgloss.Style
	Highlight lipgloss.Style
	Section   lipgloss.Style
	Label     lipgloss.Style
	Error     lipgloss.Style
	Success   lipgloss.Style
	Selected  lipgloss.Style
	Header    lipgloss.Style
	Panel     lipgloss.Style
	Card      lipgloss.Style
	CardFocus lipgloss.Style
	Focused   lipgloss.Style
	Input     lipgloss.Style
	Key       lipgloss.Style

	User      lipgloss.Style
	Assistant lipgloss.Style
	Tool      lipgloss.Style
}

// New builds the style set for t.
func New(t Theme, noColor bool) Styles {
	fg := func(s lipgloss.Style, c color.Color) lipgloss.Style {
		if noColor || c == nil {
			return s
		}
		return s.Foreground(c)
	}
	bg := func(s lipgloss.Style, c color.Color) lipgloss.Style {
		if noColor || c == nil {
			return s
		}
		return s.Background(c)
	}
	border := func(s lipgloss.Style, c color.Color) lipgloss.Style {
		if noColor || c == nil {
			return s
		}
		return s.BorderForeground(c)
	}

	s := Styles{Theme: t, NoColor: noColor}
	s.Title = fg(lipgloss.NewStyle().Bold(true), t.Accent)
	s.Subtitle = fg(lipgloss.NewStyle(), t.Muted)
	s.Text = fg(lipgloss.NewStyle(), t.Text)
	s.Muted = fg(lipgloss.NewStyle(), t.Muted)
	s.Accent = fg(lipgloss.NewStyle(), t.Accent)
	s.Highlight = fg(lipgloss.NewStyle().Bold(true), t.Accent)
	s.Section = fg(lipgloss.NewStyle().Bold(true).Underline(true), t.Text)
	s.Label = fg(lipgloss.NewStyle(), t.Muted)
	s.Error = fg(lipgloss.NewStyle(), t.Danger)
	s.Success = fg(lipgloss.NewStyle().Bold(true), t.Success)
	s.Header = bg(fg(lipgloss.NewStyle().Bold(true), t.HeaderFG), t.HeaderBG)
	if noColor {
		s.Selected = lipgloss.NewStyle().Reverse(true)
	} else {
		s.Selected = bg(fg(lipgloss.NewStyle(), t.SelectedFG), t.SelectedBG)
	}
	s.Panel = border(lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1), t.Border)
	s.Card = border(lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1), t.Border)
	s.CardFocus = border(lipgloss.NewStyle().Border(lipgloss.ThickBorder()).Padding(0, 1), t.Accent)
	s.Focused = fg(lipgloss.NewStyle().Bold(true), t.Accent)
	s.Input = bg(fg(lipgloss.NewStyle(), t.InputFG), t.InputBG)
	s.Key = fg(lipgloss.NewStyle().Bold(true), t.Accent)
	s.User = fg(lipgloss.NewStyle().Bold(true), t.UserFG)
	s.Assistant = fg(lipgloss.NewStyle().Bold(true), t.AssistantFG)
	s.Tool = fg(lipgloss.NewStyle(), t.ToolFG)
	return s
}

// DefaultStyles returns the styles of the default theme.
func DefaultStyles(noColor bool) Styles {
	return New(Default(), noColor)
}

// Chip renders a colored label such as a status or badge. hex may be empty.
func (s Styles) Chip(label, hex string) string {
	if s.NoColor {
		return "[" + label + "]"
	}
	st := lipgloss.NewStyle().Padding(0, 1).Bold(true)
	if strings.TrimSpace(hex) != "" {
		st = st.Background(lipgloss.Color(hex)).Foreground(lipgloss.Color("#ffffff"))
	} else {
		st = st.Reverse(true)
	}
	return st.Render(label)
}

// Variant returns the color of an action variant.
func (s Styles) Variant(variant string) color.Color {
	switch variant {
	case "secondary":
		return s.Theme.Secondary
	case "danger":
		return s.Theme.Danger
	case "success":
		return s.Theme.Success
	}
	return s.Theme.Primary
}

// Button renders an action button. Focused buttons are bracketed.
func (s Styles) Button(label, variant string, focused, disabled bool) string {
	text := " " + label + " "
	if s.NoColor {
		switch {
		case disabled:
			return "(" + label + ")"
		case focused:
			return "[>" + label + "<]"
		}
		return "[" + label + "]"
	}
	st := lipgloss.NewStyle().Bold(true)
	switch {
	case disabled:
		st = st.Foreground(s.Theme.Muted).Faint(true)
	case focused:
		st = st.Background(s.Variant(variant)).Foreground(lipgloss.Color("#ffffff"))
	default:
		st = st.Foreground(s.Variant(variant))
	}
	return st.Render("[" + text + "]")
}
