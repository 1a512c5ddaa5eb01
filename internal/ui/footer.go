package ui

import (
	"strings"

	"github.com/oakwood-commons/uideck/internal/ui/component"
)

// footerHints are shown when no flash message is pending.
var footerHints = [][2]string{
	{SwitchPanelKey, "switch panel"},
	{"?", "help"},
	{"ctrl+c", "quit"},
}

func (m *Model) footer() string {
	if m.flash != nil {
		st := m.styles.Accent
		switch m.flash.Level {
		case component.FlashSuccess:
			st = m.styles.Success
		case component.FlashError:
			st = m.styles.Error
		}
		return cutLines([]string{st.Render(m.flash.Text)}, m.width)
	}
	parts := make([]string, 0, len(footerHints))
	for _, h := range footerHints {
		if h[0] == SwitchPanelKey && !m.opts.ChatEnabled {
			continue
		}
		parts = append(parts, m.styles.Key.Render(h[0])+" "+m.styles.Muted.Render(h[1]))
	}
	return cutLines([]string{strings.Join(parts, m.styles.Muted.Render(" · "))}, m.width)
}
