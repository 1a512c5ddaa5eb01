package ui

import (
	"strings"

	"charm.land/lipgloss/v2"
)

// HelpTitle heads the help overlay.
const HelpTitle = "Keys"

const (
	helpKeyWidth  = 14
	helpColumnGap = 3
)

type helpSection struct {
	name string
	rows [][2]string
}

var helpSections = []helpSection{
	{"Global", [][2]string{
		{"ctrl+w", "switch between display and chat"},
		{"?/F1", "toggle help"},
		{"ctrl+c", "quit"},
	}},
	{"Chat", [][2]string{
		{"enter", "send message"},
		{"tab", "back to the display"},
		{"esc/up", "browse tool calls"},
		{"j/k", "select tool call"},
		{"enter", "expand tool call"},
		{"i", "back to typing"},
		{"ctrl+l", "clear chat"},
	}},
	{"Lists", [][2]string{
		{"j/k h/l", "move"},
		{"/", "search"},
		{"s/S", "sort column / reverse"},
		{"1-9", "sort by column"},
		{"L", "cycle layout"},
		{"enter", "open item"},
		{"esc", "back"},
	}},
	{"Items", [][2]string{
		{"tab/left/right", "choose action"},
		{"enter", "run action"},
		{"esc", "back to list"},
	}},
	{"Forms", [][2]string{
		{"tab/shift+tab", "next / previous field"},
		{"left/right", "choose option"},
		{"space", "toggle checkbox"},
		{"ctrl+s", "submit"},
	}},
}

// HelpText renders the key reference as plain text.
func HelpText() string {
	var b strings.Builder
	for i, s := range helpSections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(s.name + "\n")
		for _, r := range s.rows {
			b.WriteString("  " + padRight(r[0], helpKeyWidth) + r[1] + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func padRight(s string, n int) string {
	if w := lipgloss.Width(s); w < n {
		return s + strings.Repeat(" ", n-w)
	}
	return s + " "
}

// helpColumns lays the sections out in two balanced columns when they fit
// width, else in one.
func helpColumns(width int) [][]helpSection {
	cols := balanceSections()
	total := (len(cols) - 1) * helpColumnGap
	for _, c := range cols {
		total += sectionsWidth(c)
	}
	if total <= width {
		return cols
	}
	return [][]helpSection{helpSections}
}

// balanceSections cuts helpSections in two runs, minimizing the taller.
// Sections keep their order and are never split.
func balanceSections() [][]helpSection {
	best, bestHeight := [][]helpSection{helpSections}, sectionsHeight(helpSections)
	for cut := 1; cut < len(helpSections); cut++ {
		left, right := helpSections[:cut], helpSections[cut:]
		if h := max(sectionsHeight(left), sectionsHeight(right)); h < bestHeight {
			best, bestHeight = [][]helpSection{left, right}, h
		}
	}
	return best
}

func sectionsHeight(ss []helpSection) int {
	h := 0
	for _, s := range ss {
		h += len(s.rows) + 2
	}
	return h - 1
}

func sectionsWidth(ss []helpSection) int {
	w := 0
	for _, s := range ss {
		w = max(w, lipgloss.Width(s.name))
		for _, r := range s.rows {
			w = max(w, 2+lipgloss.Width(padRight(r[0], helpKeyWidth))+lipgloss.Width(r[1]))
		}
	}
	return w
}

func (m *Model) renderSections(ss []helpSection) string {
	var lines []string
	for i, s := range ss {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, m.styles.Section.Render(s.name))
		for _, r := range s.rows {
			lines = append(lines, "  "+m.styles.Key.Render(padRight(r[0], helpKeyWidth))+m.styles.Text.Render(r[1]))
		}
	}
	return strings.Join(lines, "\n")
}

// helpBodySize is the viewport area between the title and the hint.
func (m *Model) helpBodySize() (width, height int) {
	return max(m.width, MinPanelWidth) - PanelChromeCols, max(m.panelHeight()-PanelChromeLines-3, 1)
}

// syncHelp sizes the help viewport and lays the sections out for its width.
func (m *Model) syncHelp() {
	w, h := m.helpBodySize()
	m.helpVP.SetWidth(w)
	m.helpVP.SetHeight(h)
	cols := helpColumns(w)
	rendered := make([]string, 0, 2*len(cols))
	for i, c := range cols {
		if i > 0 {
			rendered = append(rendered, strings.Repeat(" ", helpColumnGap))
		}
		rendered = append(rendered, lipgloss.NewStyle().Width(sectionsWidth(c)).Render(m.renderSections(c)))
	}
	m.helpVP.SetContent(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
}

func (m *Model) openHelp() {
	m.help = true
	m.syncHelp()
	m.helpVP.GotoTop()
}

// helpKey scrolls or closes the help overlay.
func (m *Model) helpKey(k string) {
	switch k {
	case "esc", "?", "q", "f1":
		m.help = false
	case "down", "j":
		m.helpVP.ScrollDown(1)
	case "up", "k":
		m.helpVP.ScrollUp(1)
	case "pgdown", "space":
		m.helpVP.PageDown()
	case "pgup":
		m.helpVP.PageUp()
	case "home", "g":
		m.helpVP.GotoTop()
	case "end", "G":
		m.helpVP.GotoBottom()
	}
}

func (m *Model) helpPanel() string {
	w, _ := m.helpBodySize()
	hint := "esc closes this help"
	if !m.helpVP.AtTop() || !m.helpVP.AtBottom() {
		hint = "j/k scroll · " + hint
	}
	content := strings.Join([]string{
		m.styles.Title.Render(HelpTitle),
		"",
		m.helpVP.View(),
		m.styles.Muted.Render(hint),
	}, "\n")
	content = clipTop(content, m.panelHeight()-PanelChromeLines, w)
	return m.panelStyle(max(m.width, MinPanelWidth), true).Render(content)
}
