package ui

import (
	"strings"
)

// Chat panel texts.
const (
	ChatTitle        = "AI Assistant"
	ChatOnline       = "Online"
	ChatThinking     = "Thinking..."
	EmptyChatTitle   = "Start a Conversation"
	EmptyChatMessage = "Ask me anything about your data or request to view different components."
)

// Suggestions are offered while the transcript is empty.
var Suggestions = []string{"Show me products", "Display user list", "Show order #1001"}

func (m *Model) chatPanel(width int) string {
	inner := m.panelHeight() - PanelChromeLines
	textWidth := width - PanelChromeCols

	status := ChatOnline
	if m.busy {
		status = ChatThinking
	}
	heading := m.styles.Title.Render(ChatTitle) + " " + m.styles.Muted.Render("· "+status)

	var body string
	if m.transcript.Len() == 0 {
		body = m.emptyChat()
	} else {
		body = m.transcript.Render(m.styles, textWidth)
	}
	body = clipBottom(body, inner-chatChromeLines, textWidth)
	if n := strings.Count(body, "\n") + 1; n < inner-chatChromeLines {
		body += strings.Repeat("\n", inner-chatChromeLines-n)
	}

	input := m.input.View()
	if !m.typing {
		input = m.styles.Muted.Render(m.input.Prompt + "press i to type")
	}
	focused := m.focus == FocusChat
	return m.panelStyle(width, focused).Render(heading + "\n\n" + body + "\n\n" + input)
}

func (m *Model) emptyChat() string {
	lines := []string{
		m.styles.Section.Render(EmptyChatTitle),
		m.styles.Muted.Render(EmptyChatMessage),
		"",
	}
	for _, s := range Suggestions {
		lines = append(lines, m.styles.Accent.Render("• ")+m.styles.Text.Render(s))
	}
	return strings.Join(lines, "\n")
}
