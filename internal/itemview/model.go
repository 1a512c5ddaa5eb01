// Package itemview renders a single record as a card, a panel or a details
// page with grouped fields and an optional action bar.
package itemview

import (
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/uideck/internal/record"
	"github.com/oakwood-commons/uideck/internal/schema"
	"github.com/oakwood-commons/uideck/internal/theme"
	"github.com/oakwood-commons/uideck/internal/ui/component"
)

// Layout selects how the record is arranged.
type Layout string

const (
	LayoutCard    Layout = "card"
	LayoutPanel   Layout = "panel"
	LayoutDetails Layout = "details"
)

// Layouts lists the supported layouts.
var Layouts = []Layout{LayoutCard, LayoutPanel, LayoutDetails}

// ParseLayout parses a layout name. Unknown names report false.
func ParseLayout(s string) (Layout, bool) {
	l := Layout(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Layouts {
		if l == known {
			return l, true
		}
	}
	return "", false
}

// Variant only affects how an action is styled.
type Variant string

const (
	VariantPrimary   Variant = "primary"
	VariantSecondary Variant = "secondary"
	VariantDanger    Variant = "danger"
	VariantSuccess   Variant = "success"
)

// Action is a button in the action bar. OnClick receives the shown record.
type Action struct {
	Label    string
	Icon     string
	Variant  Variant
	Disabled bool
	OnClick  func(r record.Record) tea.Cmd
}

func (a Action) text() string {
	if a.Icon == "" {
		return a.Label
	}
	return a.Icon + " " + a.Label
}

// Resolver derives a display string from the record.
type Resolver func(r record.Record) string

// Options configure a Model.
type Options struct {
	Fields   []schema.Field
	Title    Resolver
	Subtitle Resolver
	Image    Resolver
	Actions  []Action
	Layout   Layout
	OnBack   func() tea.Cmd
	Styles   *theme.Styles
}

const defaultWidth = 80

// Model is the interactive item component.
type Model struct {
	rec    record.Record
	opts   Options
	styles theme.Styles
	focus  int
	vp     viewport.Model
	width  int
	height int
}

// New creates an item view over r. The default layout is card.
func New(r record.Record, opts Options) *Model {
	if opts.Layout == "" {
		opts.Layout = LayoutCard
	}
	styles := theme.DefaultStyles(false)
	if opts.Styles != nil {
		styles = *opts.Styles
	}
	m := &Model{rec: r, opts: opts, styles: styles, width: defaultWidth, vp: viewport.New()}
	return m
}

// Init implements component.Model.
func (m *Model) Init() tea.Cmd { return nil }

// Record returns the shown record.
func (m *Model) Record() record.Record { return m.rec }

// Layout returns the layout.
func (m *Model) Layout() Layout { return m.opts.Layout }

// Title returns the resolved title.
func (m *Model) Title() string { return m.resolve(m.opts.Title) }

// Focus returns the index of the focused action.
func (m *Model) Focus() int { return m.focus }

// SetSize implements component.Sized.
func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
	m.vp.SetWidth(width)
	m.vp.SetHeight(height)
}

// Invoke runs the action at i. Disabled or missing actions do nothing.
func (m *Model) Invoke(i int) tea.Cmd {
	if i < 0 || i >= len(m.opts.Actions) {
		return nil
	}
	a := m.opts.Actions[i]
	if a.Disabled || a.OnClick == nil {
		return nil
	}
	return a.OnClick(m.rec)
}

// Update implements component.Model.
func (m *Model) Update(msg tea.Msg) (component.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	n := len(m.opts.Actions)
	switch key.String() {
	case "left", "h", "shift+tab":
		if n > 0 {
			m.focus = (m.focus - 1 + n) % n
		}
	case "right", "l", "tab":
		if n > 0 {
			m.focus = (m.focus + 1) % n
		}
	case "enter", "space":
		return m, m.Invoke(m.focus)
	case "esc", "backspace":
		if m.opts.OnBack != nil {
			return m, m.opts.OnBack()
		}
	case "up", "k":
		m.vp.ScrollUp(1)
	case "down", "j":
		m.vp.ScrollDown(1)
	case "pgup":
		m.vp.PageUp()
	case "pgdown":
		m.vp.PageDown()
	}
	return m, nil
}

func (m *Model) resolve(fn Resolver) string {
	if fn == nil {
		return ""
	}
	return fn(m.rec)
}

// View implements component.Model.
func (m *Model) View() string {
	content := m.render()
	if m.height <= 0 || lipgloss.Height(content) <= m.height {
		return content
	}
	m.vp.SetContent(content)
	return m.vp.View()
}

func (m *Model) render() string {
	var parts []string
	if m.opts.OnBack != nil {
		parts = append(parts, m.styles.Key.Render("← Back")+m.styles.Muted.Render(" (esc)"))
	}
	switch m.opts.Layout {
	case LayoutPanel:
		parts = append(parts, m.panel())
	case LayoutDetails:
		parts = append(parts, m.details())
	default:
		parts = append(parts, m.card())
	}
	if len(m.opts.Actions) > 0 && m.opts.Layout != LayoutPanel {
		parts = append(parts, m.actionBar())
	}
	return strings.Join(parts, "\n")
}

func (m *Model) innerWidth() int {
	return max(20, m.width-4)
}

func (m *Model) header(title lipgloss.Style) []string {
	var lines []string
	if img := m.resolve(m.opts.Image); img != "" {
		lines = append(lines, m.styles.Muted.Render("[image: "+img+"]"))
	}
	if t := m.Title(); t != "" {
		lines = append(lines, title.Render(t))
	}
	if s := m.resolve(m.opts.Subtitle); s != "" {
		lines = append(lines, m.styles.Subtitle.Render(s))
	}
	return lines
}

func (m *Model) card() string {
	lines := m.header(m.styles.Title)
	if len(lines) > 0 {
		lines = append(lines, "")
	}
	lines = append(lines, m.sections(false, m.innerWidth())...)
	return m.styles.Card.Width(m.innerWidth() + 4).Render(strings.Join(lines, "\n"))
}

func (m *Model) panel() string {
	head := strings.Join(m.header(m.styles.Title), "\n")
	if len(m.opts.Actions) > 0 {
		bar := m.actionBar()
		if head == "" {
			head = bar
		} else {
			head = lipgloss.JoinHorizontal(lipgloss.Top, head, "   ", bar)
		}
	}
	body := strings.Join(m.sections(true, m.innerWidth()), "\n")
	rule := m.styles.Muted.Render(strings.Repeat("─", m.innerWidth()))
	inner := body
	if head != "" {
		inner = head + "\n" + rule + "\n" + body
	}
	return m.styles.Panel.Width(m.innerWidth() + 4).Render(inner)
}

func (m *Model) details() string {
	lines := m.header(m.styles.Title.Underline(true))
	if len(lines) > 0 {
		lines = append(lines, "")
	}
	lines = append(lines, m.sections(false, m.width)...)
	return strings.Join(lines, "\n")
}

// sections renders each section with its heading. Rows lay fields out one
// per line; otherwise fields fill a four-unit grid by span.
func (m *Model) sections(rows bool, width int) []string {
	var out []string
	for i, sec := range schema.Sections(m.opts.Fields) {
		if i > 0 {
			out = append(out, "")
		}
		if sec.Labeled() {
			out = append(out, m.styles.Section.Render(sec.Name))
		}
		if rows {
			out = append(out, m.fieldRows(sec.Fields)...)
		} else {
			out = append(out, m.fieldGrid(sec.Fields, width))
		}
	}
	return out
}

func (m *Model) fieldRows(fields []schema.Field) []string {
	labelWidth := 0
	for _, f := range fields {
		labelWidth = max(labelWidth, lipgloss.Width(f.Label))
	}
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		label := m.label(f).Width(labelWidth + 2).Render(f.Label)
		lines = append(lines, label+m.value(f))
	}
	return lines
}

func (m *Model) fieldGrid(fields []schema.Field, width int) string {
	unit := max(10, width/4)
	var rows []string
	var cells []string
	used := 0
	flush := func() {
		if len(cells) > 0 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		}
		cells, used = nil, 0
	}
	for _, f := range fields {
		span := f.EffectiveSpan()
		if used+span > 4 {
			flush()
		}
		cell := m.label(f).Render(f.Label) + "\n" + m.value(f)
		cells = append(cells, lipgloss.NewStyle().Width(span*unit).PaddingRight(1).Render(cell))
		used += span
	}
	flush()
	return strings.Join(rows, "\n")
}

func (m *Model) label(f schema.Field) lipgloss.Style {
	if f.Highlight {
		return m.styles.Accent
	}
	return m.styles.Label
}

func (m *Model) value(f schema.Field) string {
	v := f.Display(m.rec)
	switch {
	case f.Badge:
		return m.styles.Chip(v, f.EffectiveBadgeColor())
	case f.Highlight:
		return m.styles.Highlight.Render(v)
	}
	return m.styles.Text.Render(v)
}

func (m *Model) actionBar() string {
	buttons := make([]string, 0, len(m.opts.Actions))
	for i, a := range m.opts.Actions {
		variant := a.Variant
		if variant == "" {
			variant = VariantPrimary
		}
		buttons = append(buttons, m.styles.Button(a.text(), string(variant), i == m.focus, a.Disabled))
	}
	return strings.Join(buttons, " ")
}
