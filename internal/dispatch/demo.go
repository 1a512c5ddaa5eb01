package dispatch

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/uideck/internal/theme"
	"github.com/oakwood-commons/uideck/internal/ui/component"
)

// Placeholder text of the demo display.
const (
	DemoHeading = "Ask the AI to show you different components!"
	DemoHint    = `Try: "Show me products" or "Display user list" or "Show me order #1001"`
)

type demo struct {
	styles theme.Styles
	width  int
}

func newDemo(styles theme.Styles) *demo { return &demo{styles: styles} }

func (m *demo) Init() tea.Cmd { return nil }
func (m *demo) Update(tea.Msg) (component.Model, tea.Cmd) { return m, nil }
func (m *demo) SetSize(width, _ int) { m.width = width }

func (m *demo) View() string {
	style := lipgloss.NewStyle()
	if m.width > 0 {
		style = style.Width(m.width).Align(lipgloss.Center)
	}
	return style.Render(m.styles.Title.Render(DemoHeading) + "\n\n" + m.styles.Muted.Render(DemoHint))
}
