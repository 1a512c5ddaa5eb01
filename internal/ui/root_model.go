// Package ui hosts the uideck root model: the display panel showing the
// current list, item or form component next to the chat panel that drives
// it through displayComponent tool calls.
package ui

import (
	"context"
	"strings"
	"time"

	"charm.land/bubbles/v2/textinput"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/uideck/internal/assistant"
	"github.com/oakwood-commons/uideck/internal/dispatch"
	"github.com/oakwood-commons/uideck/internal/theme"
	"github.com/oakwood-commons/uideck/internal/ui/component"
)

// Focus selects the panel receiving keys.
type Focus int

const (
	// FocusDisplay routes keys to the display component.
	FocusDisplay Focus = iota
	// FocusChat routes keys to the chat panel.
	FocusChat
)

// SwitchPanelKey moves focus between the display and chat panels. Tab
// belongs to the display components, which use it for their own focus.
const SwitchPanelKey = "ctrl+w"

const (
	DefaultTitle            = "AI-Powered Data Components"
	DefaultTagline          = "Chat with AI to view and manage data"
	DefaultToolDelay        = 500 * time.Millisecond
	DefaultChatWidthPercent = 40
	// ErrorReply is shown when the agent fails.
	ErrorReply    = "Sorry, I ran into a problem handling that request."
	flashDuration = 3 * time.Second
)

// Options configure the root model.
type Options struct {
	Dispatcher       *dispatch.Dispatcher
	Agent            assistant.Agent
	Styles           theme.Styles
	Title            string
	Tagline          string
	ChatEnabled      bool
	ChatWidthPercent int
	// ToolDelay precedes every agent tool call. Zero dispatches at once.
	ToolDelay time.Duration
	Logger    logr.Logger
	Context   context.Context
}

type replyMsg struct {
	reply assistant.Reply
	err   error
}

type toolDueMsg struct {
	call assistant.ToolCall
}

type flashExpiredMsg struct {
	seq int
}

// Model is the root bubbletea model.
type Model struct {
	opts       Options
	styles     theme.Styles
	display    dispatch.Display
	transcript *assistant.Transcript
	input      textinput.Model
	focus      Focus
	typing     bool
	busy       bool
	help       bool
	helpVP     viewport.Model
	flash      *component.FlashMsg
	flashSeq   int
	width      int
	height     int
	quitting   bool
	// primed is set once the display was loaded outside the program.
	primed bool
}

// NewModel builds the root model showing the demo display.
func NewModel(opts Options) *Model {
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.Tagline == "" {
		opts.Tagline = DefaultTagline
	}
	if opts.ChatWidthPercent <= 0 {
		opts.ChatWidthPercent = DefaultChatWidthPercent
	}
	if opts.Agent == nil {
		opts.Agent = assistant.NewRuleAgent()
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger.GetSink() == nil {
		opts.Logger = logr.Discard()
	}
	in := textinput.New()
	in.Prompt = "› "
	in.Placeholder = "Type your message..."
	m := &Model{
		opts:       opts,
		styles:     opts.Styles,
		transcript: assistant.NewTranscript(),
		input:      in,
		helpVP:     viewport.New(),
		width:      80,
		height:     24,
	}
	m.display = opts.Dispatcher.Demo()
	if opts.ChatEnabled {
		m.focus = FocusChat
		m.typing = true
		m.input.Focus()
	}
	m.layout()
	return m
}

// Display returns the current display.
func (m *Model) Display() dispatch.Display { return m.display }

// Transcript returns the chat history.
func (m *Model) Transcript() *assistant.Transcript { return m.transcript }

// Focus returns the focused panel.
func (m *Model) Focus() Focus { return m.focus }

// Typing reports whether the chat input has focus.
func (m *Model) Typing() bool { return m.typing }

// HelpVisible reports whether the help overlay is shown.
func (m *Model) HelpVisible() bool { return m.help }

// Flash returns the current flash message, if any.
func (m *Model) Flash() (component.FlashMsg, bool) {
	if m.flash == nil {
		return component.FlashMsg{}, false
	}
	return *m.flash, true
}

// Quitting reports whether the model asked to quit.
func (m *Model) Quitting() bool { return m.quitting }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.typing {
		cmds = append(cmds, textinput.Blink)
	}
	if !m.primed && m.display.Component != nil {
		cmds = append(cmds, m.display.Component.Init())
	}
	return tea.Batch(cmds...)
}

// Show dispatches args directly, bypassing the chat, and returns the
// result together with the command that loads the new display.
func (m *Model) Show(args dispatch.ToolArgs) (dispatch.Result, tea.Cmd) {
	res, disp := m.opts.Dispatcher.Dispatch(m.opts.Context, args)
	if !res.Success {
		return res, m.setFlash(component.FlashError, res.Error)
	}
	return res, m.setDisplay(disp)
}

// Send posts text to the chat as if the user had typed it.
func (m *Model) Send(text string) tea.Cmd {
	text = strings.TrimSpace(text)
	if text == "" || m.busy {
		return nil
	}
	history := m.transcript.Messages()
	m.transcript.Add(assistant.NewMessage(assistant.RoleUser, text))
	m.busy = true
	agent, ctx := m.opts.Agent, m.opts.Context
	return func() tea.Msg {
		reply, err := agent.Respond(ctx, history, text)
		return replyMsg{reply: reply, err: err}
	}
}

func (m *Model) setDisplay(disp dispatch.Display) tea.Cmd {
	m.display = disp
	m.layout()
	if disp.Component == nil {
		return nil
	}
	return disp.Component.Init()
}

func (m *Model) setFlash(level component.FlashLevel, text string) tea.Cmd {
	m.flashSeq++
	m.flash = &component.FlashMsg{Text: text, Level: level}
	seq := m.flashSeq
	return tea.Tick(flashDuration, func(time.Time) tea.Msg { return flashExpiredMsg{seq: seq} })
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, m.update(msg)
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return nil
	case tea.KeyPressMsg:
		return m.handleKey(msg)
	case dispatch.NavigateMsg:
		return m.setDisplay(msg.Display)
	case component.FlashMsg:
		return m.setFlash(msg.Level, msg.Text)
	case flashExpiredMsg:
		if msg.seq == m.flashSeq {
			m.flash = nil
		}
		return nil
	case replyMsg:
		return m.handleReply(msg)
	case toolDueMsg:
		return m.runTool(msg.call)
	}
	if !m.typing {
		return m.forward(msg)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return tea.Batch(cmd, m.forward(msg))
}

// forward hands msg to the display component.
func (m *Model) forward(msg tea.Msg) tea.Cmd {
	if m.display.Component == nil {
		return nil
	}
	next, cmd := m.display.Component.Update(msg)
	m.display.Component = next
	return cmd
}

func (m *Model) handleReply(msg replyMsg) tea.Cmd {
	m.busy = false
	if msg.err != nil {
		m.opts.Logger.Error(msg.err, "agent failed")
		m.transcript.Add(assistant.NewMessage(assistant.RoleAssistant, ErrorReply))
		return nil
	}
	if msg.reply.Text != "" {
		m.transcript.Add(assistant.NewMessage(assistant.RoleAssistant, msg.reply.Text))
	}
	var cmds []tea.Cmd
	for _, call := range msg.reply.ToolCalls {
		m.transcript.AddToolCall(call)
		if m.opts.ToolDelay <= 0 {
			cmds = append(cmds, component.Emit(toolDueMsg{call: call}))
			continue
		}
		cmds = append(cmds, tea.Tick(m.opts.ToolDelay, func(time.Time) tea.Msg { return toolDueMsg{call: call} }))
	}
	return tea.Batch(cmds...)
}

func (m *Model) runTool(call assistant.ToolCall) tea.Cmd {
	if call.Name != dispatch.ToolName {
		res := dispatch.Result{Error: "Unknown tool: " + call.Name}
		m.transcript.SetResult(call.ID, res)
		return nil
	}
	res, disp := m.opts.Dispatcher.Dispatch(m.opts.Context, call.Args)
	m.transcript.SetResult(call.ID, res)
	if !res.Success {
		return nil
	}
	return m.setDisplay(disp)
}

func (m *Model) capturing() bool {
	c, ok := m.display.Component.(component.Capturing)
	return ok && c.Capturing()
}

func (m *Model) handleKey(key tea.KeyPressMsg) tea.Cmd {
	k := key.String()
	if k == "ctrl+c" || key.Code == 0x03 {
		m.quitting = true
		return tea.Quit
	}
	if m.help {
		m.helpKey(k)
		return nil
	}
	if k == "f1" {
		m.openHelp()
		return nil
	}
	if k == SwitchPanelKey {
		if m.focus == FocusChat {
			m.focusDisplay()
			return nil
		}
		return m.focusChat()
	}
	if m.focus == FocusChat {
		return m.chatKey(key)
	}
	if k == "?" && !m.capturing() {
		m.openHelp()
		return nil
	}
	return m.forward(key)
}

func (m *Model) focusChat() tea.Cmd {
	if !m.opts.ChatEnabled {
		return nil
	}
	m.focus = FocusChat
	m.typing = true
	return m.input.Focus()
}

func (m *Model) focusDisplay() {
	m.focus = FocusDisplay
	m.typing = false
	m.input.Blur()
	m.transcript.ClearSelection()
}

func (m *Model) chatKey(key tea.KeyPressMsg) tea.Cmd {
	k := key.String()
	if k == "tab" {
		m.focusDisplay()
		return nil
	}
	if k == "ctrl+l" {
		m.transcript = assistant.NewTranscript()
		return nil
	}
	if m.typing {
		switch k {
		case "enter":
			text := m.input.Value()
			m.input.SetValue("")
			return m.Send(text)
		case "esc", "up":
			m.typing = false
			m.input.Blur()
			m.transcript.SelectTool(0)
			return nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(key)
		return cmd
	}
	switch k {
	case "up", "k":
		m.transcript.SelectTool(-1)
	case "down", "j":
		m.transcript.SelectTool(1)
	case "enter", "space":
		m.transcript.ToggleSelected()
	case "?":
		m.openHelp()
	case "esc", "i", "/":
		m.transcript.ClearSelection()
		m.typing = true
		return m.input.Focus()
	}
	return nil
}
