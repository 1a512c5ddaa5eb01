package ui

import (
	"os"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"
)

// Fallback terminal size when it cannot be detected.
const (
	fallbackWidth  = 80
	fallbackHeight = 24
)

// Run starts the interactive program. Width/height of 0 auto-detect the
// terminal size. Extra ProgramOptions (e.g., custom IO) are passed to
// tea.NewProgram.
func Run(m *Model, width, height int, opts ...tea.ProgramOption) error {
	if width > 0 || height > 0 {
		w, h := resolveSize(width, height)
		m.width, m.height = w, h
		m.layout()
		opts = append(opts, tea.WithWindowSize(w, h))
	}
	opts = append(opts, tea.WithContext(m.opts.Context))

	final, err := tea.NewProgram(m, opts...).Run()
	if fm, ok := final.(*Model); ok && fm != nil {
		m.opts.Logger.V(1).Info("session ended", "messages", fm.transcript.Len(), "display", fm.display.Label())
	}
	return err
}

// resolveSize fills unset dimensions from the terminal.
func resolveSize(width, height int) (int, int) {
	if width <= 0 || height <= 0 {
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			if width <= 0 {
				width = w
			}
			if height <= 0 {
				height = h
			}
		}
	}
	if width <= 0 {
		width = fallbackWidth
	}
	if height <= 0 {
		height = fallbackHeight
	}
	return width, height
}
