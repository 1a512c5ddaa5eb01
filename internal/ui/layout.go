package ui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/oakwood-commons/uideck/internal/ui/component"
)

// Line budgets of the fixed parts of the screen.
const (
	HeaderLineCount  = 2
	FooterLineCount  = 1
	PanelChromeLines = 2
	PanelChromeCols  = 4
	MinPanelWidth    = 24
	MinPanelHeight   = 6
	displayTopLines  = 2 // "Current:" line and a gap
	chatChromeLines  = 4 // heading, gap, gap, input
)

// panelWidths splits the window between the display and chat panels.
func (m *Model) panelWidths() (display, chat int) {
	if !m.opts.ChatEnabled {
		return max(m.width, MinPanelWidth), 0
	}
	chat = m.width * m.opts.ChatWidthPercent / 100
	chat = max(chat, MinPanelWidth)
	display = max(m.width-chat, MinPanelWidth)
	return display, chat
}

func (m *Model) panelHeight() int {
	return max(m.height-HeaderLineCount-FooterLineCount, MinPanelHeight)
}

// layout propagates the panel size to the display component.
func (m *Model) layout() {
	if m.help {
		m.syncHelp()
	}
	dw, cw := m.panelWidths()
	if cw > 0 {
		m.input.SetWidth(max(cw-PanelChromeCols-3, 1))
	}
	sized, ok := m.display.Component.(component.Sized)
	if !ok {
		return
	}
	sized.SetSize(dw-PanelChromeCols, m.panelHeight()-PanelChromeLines-displayTopLines)
}

// View implements tea.Model.
func (m *Model) View() tea.View {
	if m.quitting {
		return tea.NewView("")
	}
	v := tea.NewView(m.Render())
	v.AltScreen = true
	v.WindowTitle = m.opts.Title
	return v
}

// Render draws the full screen as a string.
func (m *Model) Render() string {
	header := m.styles.Title.Render(m.opts.Title) + "\n" + m.styles.Subtitle.Render(m.opts.Tagline)
	var body string
	if m.help {
		body = m.helpPanel()
	} else {
		dw, cw := m.panelWidths()
		body = m.displayPanel(dw)
		if cw > 0 {
			body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.chatPanel(cw))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.footer())
}

func (m *Model) panelStyle(width int, focused bool) lipgloss.Style {
	st := m.styles.Panel
	if focused && !m.styles.NoColor {
		st = st.BorderForeground(m.styles.Theme.Accent)
	}
	return st.Width(width).Height(m.panelHeight())
}

func (m *Model) displayPanel(width int) string {
	inner := m.panelHeight() - PanelChromeLines
	current := m.styles.Label.Render("Current: ") + m.styles.Highlight.Render(m.display.Label())
	content := ""
	if m.display.Component != nil {
		content = m.display.Component.View()
	}
	content = clipTop(content, inner-displayTopLines, width-PanelChromeCols)
	focused := m.focus == FocusDisplay
	return m.panelStyle(width, focused).Render(current + "\n\n" + content)
}

// clipTop keeps the first n lines of s, each cut to width.
func clipTop(s string, n, width int) string {
	lines := strings.Split(s, "\n")
	if n >= 0 && len(lines) > n {
		lines = lines[:n]
	}
	return cutLines(lines, width)
}

// clipBottom keeps the last n lines of s, each cut to width.
func clipBottom(s string, n, width int) string {
	lines := strings.Split(s, "\n")
	if n >= 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return cutLines(lines, width)
}

func cutLines(lines []string, width int) string {
	if width > 0 {
		for i, l := range lines {
			if ansi.StringWidth(l) > width {
				lines[i] = ansi.Truncate(l, width, "…")
			}
		}
	}
	return strings.Join(lines, "\n")
}
