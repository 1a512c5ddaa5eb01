// Package component defines the contract shared by the list, item and form
// components so the root model can host any of them in the display panel.
package component

import tea "charm.land/bubbletea/v2"

// Model is implemented by every component the display panel can host.
// The root model routes messages to the active component and replaces it
// wholesale on navigation.
type Model interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Model, tea.Cmd)
	View() string
}

// Sized is implemented by components that lay themselves out to the panel.
type Sized interface {
	SetSize(width, height int)
}

// Capturing is implemented by components that sometimes consume raw text
// input (a focused search box or form input). While Capturing reports true
// the root model forwards every key, including tab and q.
type Capturing interface {
	Capturing() bool
}

// Titled is implemented by components that expose a heading.
type Titled interface {
	Title() string
}

// FlashLevel selects the style of a flash message.
type FlashLevel int

const (
	FlashInfo FlashLevel = iota
	FlashSuccess
	FlashError
)

// FlashMsg asks the root model to show a transient status line.
type FlashMsg struct {
	Text  string
	Level FlashLevel
}

// Flash returns a command emitting a FlashMsg.
func Flash(level FlashLevel, text string) tea.Cmd {
	return func() tea.Msg { return FlashMsg{Text: text, Level: level} }
}

// Emit wraps msg in a command.
func Emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
