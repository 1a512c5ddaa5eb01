package ui

import (
	"errors"
	"strings"
	"sync"
	"time"

	"charm.land/bubbles/v2/cursor"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/oakwood-commons/uideck/internal/dispatch"
	"github.com/oakwood-commons/uideck/internal/ui/component"
)

// Snapshot defaults.
const (
	DefaultSnapshotWidth   = 100
	DefaultSnapshotHeight  = 30
	DefaultSnapshotTimeout = 1500 * time.Millisecond
	snapshotMsgBudget      = 256
)

// Script is replayed against a model before it is shown.
type Script struct {
	// Show is dispatched directly before any prompt.
	Show *dispatch.ToolArgs
	// Prompts are sent to the chat in order, each after the previous reply.
	Prompts []string
	// Keys are replayed last. Tokens in angle brackets name keys ("<Tab>",
	// "<C-s>", "<S-Tab>", "<F1>"); everything else is typed literally.
	Keys []string
}

// Empty reports whether the script does nothing.
func (s Script) Empty() bool {
	return s.Show == nil && len(s.Prompts) == 0 && len(s.Keys) == 0
}

// SnapshotConfig configures a one-shot render of the root model.
type SnapshotConfig struct {
	Script
	Width   int
	Height  int
	NoColor bool
	// Timeout bounds every round of pending commands.
	Timeout time.Duration
}

func (c SnapshotConfig) withDefaults() SnapshotConfig {
	if c.Width <= 0 {
		c.Width = DefaultSnapshotWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultSnapshotHeight
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultSnapshotTimeout
	}
	return c
}

// Snapshot drives m without a terminal and returns the rendered screen.
// Commands are executed until the model settles, so data fetches and
// agent replies are reflected. The error reports a rejected Show; the
// screen is rendered regardless.
func Snapshot(m *Model, cfg SnapshotConfig) (string, error) {
	cfg = cfg.withDefaults()
	m.staticCursor()
	d := newDriver(m.update, cfg.Timeout)
	d.send(tea.WindowSizeMsg{Width: cfg.Width, Height: cfg.Height})
	err := m.play(d, cfg.Script)

	view := m.Render()
	if cfg.NoColor {
		view = ansi.Strip(view)
	}
	return padSnapshotHeight(view, cfg.Height, cfg.Width), err
}

// Play runs s against m, waiting at most timeout for each round of
// commands. A model that has been played does not reload its display
// when the program starts.
func (m *Model) Play(s Script, timeout time.Duration) error {
	return m.play(newDriver(m.update, timeout), s)
}

func (m *Model) play(d *driver, s Script) error {
	if !m.primed {
		d.run(m.Init())
		m.primed = true
	}
	var err error
	if s.Show != nil {
		res, cmd := m.Show(*s.Show)
		if !res.Success {
			err = errors.New(res.Error)
		}
		d.run(cmd)
	}
	for _, p := range s.Prompts {
		d.run(m.Send(p))
	}
	applyKeys(d, s.Keys)
	return err
}

// staticCursor stops the chat cursor from blinking, so typed keys do not
// leave a timer pending in every round.
func (m *Model) staticCursor() {
	st := m.input.Styles()
	st.Cursor.Blink = false
	m.input.SetStyles(st)
}

// DisplaySnapshotter renders displays on their own, outside the root
// model, once their data has loaded.
func DisplaySnapshotter(width, height int, noColor bool, timeout time.Duration) dispatch.Snapshotter {
	cfg := SnapshotConfig{Width: width, Height: height, Timeout: timeout}.withDefaults()
	return func(disp dispatch.Display) string {
		return RenderDisplay(disp, cfg.Width, cfg.Height, noColor, cfg.Timeout)
	}
}

// RenderDisplay loads disp and renders it headed by its label. Navigation
// requested by the component is ignored.
func RenderDisplay(disp dispatch.Display, width, height int, noColor bool, timeout time.Duration) string {
	if disp.Component == nil {
		return disp.Label()
	}
	if sized, ok := disp.Component.(component.Sized); ok {
		sized.SetSize(width, max(height-displayTopLines, 1))
	}
	comp := disp.Component
	d := newDriver(func(msg tea.Msg) tea.Cmd {
		switch msg.(type) {
		case dispatch.NavigateMsg, component.FlashMsg:
			return nil
		}
		next, cmd := comp.Update(msg)
		comp = next
		return cmd
	}, timeout)
	d.run(comp.Init())

	view := "Current: " + disp.Label() + "\n\n" + comp.View()
	if noColor {
		view = ansi.Strip(view)
	}
	return strings.TrimRight(view, "\n")
}

// driver runs a model's commands synchronously. Each round executes the
// pending commands concurrently under a shared deadline and applies their
// messages in command order. Commands still running at the deadline are
// abandoned, which drops animation ticks and delayed timers.
type driver struct {
	update  func(tea.Msg) tea.Cmd
	timeout time.Duration
	budget  int
}

func newDriver(update func(tea.Msg) tea.Cmd, timeout time.Duration) *driver {
	if timeout <= 0 {
		timeout = DefaultSnapshotTimeout
	}
	return &driver{update: update, timeout: timeout, budget: snapshotMsgBudget}
}

// send applies msg and drains the commands it produces.
func (d *driver) send(msg tea.Msg) {
	if d.budget <= 0 {
		return
	}
	d.budget--
	d.run(d.update(msg))
}

// run drains cmd and everything it leads to.
func (d *driver) run(cmd tea.Cmd) {
	pending := []tea.Cmd{cmd}
	for len(pending) > 0 && d.budget > 0 {
		msgs := collect(pending, d.timeout)
		pending = pending[:0:0]
		for _, msg := range msgs {
			if d.budget <= 0 {
				return
			}
			d.budget--
			if next := d.update(msg); next != nil {
				pending = append(pending, next)
			}
		}
	}
}

// collect runs cmds concurrently and returns, in command order, the
// messages of those that finished before the timeout. Batches are
// expanded into the same round so a slow command only loses its own
// messages.
func collect(cmds []tea.Cmd, timeout time.Duration) []tea.Msg {
	r := &round{}
	root := &slot{children: make([]*slot, len(cmds))}
	for i, cmd := range cmds {
		if cmd == nil {
			continue
		}
		root.children[i] = &slot{}
		r.wg.Add(1)
		go r.execute(cmd, root.children[i])
	}
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return root.flatten(nil)
}

type round struct {
	mu sync.Mutex
	wg sync.WaitGroup
}

// slot holds the outcome of one command: a message or, for a batch,
// one slot per batched command.
type slot struct {
	msg      tea.Msg
	children []*slot
}

func (r *round) execute(cmd tea.Cmd, s *slot) {
	defer r.wg.Done()
	msg := cmd()
	switch msg := msg.(type) {
	case nil, tea.QuitMsg, spinner.TickMsg, cursor.BlinkMsg, flashExpiredMsg:
		return
	case tea.BatchMsg:
		children := make([]*slot, len(msg))
		for i, sub := range msg {
			if sub == nil {
				continue
			}
			children[i] = &slot{}
			r.wg.Add(1)
			go r.execute(sub, children[i])
		}
		r.mu.Lock()
		s.children = children
		r.mu.Unlock()
	default:
		r.mu.Lock()
		s.msg = msg
		r.mu.Unlock()
	}
}

func (s *slot) flatten(out []tea.Msg) []tea.Msg {
	if s == nil {
		return out
	}
	if s.msg != nil {
		out = append(out, s.msg)
	}
	for _, c := range s.children {
		out = c.flatten(out)
	}
	return out
}

func padSnapshotHeight(view string, height, width int) string {
	lines := strings.Split(strings.TrimRight(view, "\n"), "\n")
	if height <= 0 || len(lines) >= height {
		return strings.Join(lines, "\n")
	}
	padLine := " "
	if width > 1 {
		padLine = strings.Repeat(" ", width)
	}
	for len(lines) < height {
		lines = append(lines, padLine)
	}
	return strings.Join(lines, "\n")
}
