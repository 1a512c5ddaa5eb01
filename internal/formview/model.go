// Package formview is the interactive renderer for a form.Form: one editor
// per field, a submit button and an optional cancel button.
package formview

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/uideck/internal/celx"
	"github.com/oakwood-commons/uideck/internal/form"
	"github.com/oakwood-commons/uideck/internal/schema"
	"github.com/oakwood-commons/uideck/internal/theme"
	"github.com/oakwood-commons/uideck/internal/ui/component"
)

// Layout places labels above (vertical) or beside (horizontal) editors.
type Layout string

const (
	LayoutVertical   Layout = "vertical"
	LayoutHorizontal Layout = "horizontal"
)

// ParseLayout parses a layout name. Unknown names report false.
func ParseLayout(s string) (Layout, bool) {
	switch l := Layout(strings.ToLower(strings.TrimSpace(s))); l {
	case LayoutVertical, LayoutHorizontal:
		return l, true
	}
	return "", false
}

const (
	DefaultSubmitText      = "Submit"
	DefaultCancelText      = "Cancel"
	DefaultSuccessDuration = 2 * time.Second
	submittingText         = "Submitting..."
	emptyChoice            = "Select an option"
	labelColumn            = 18
)

var lastID int64

// Options configure a Model.
type Options struct {
	Fields      []schema.FormField
	OnSubmit    form.SubmitFunc
	Initial     form.Data
	Title       string
	Description string
	SubmitText  string
	CancelText  string
	// OnCancel enables the cancel button.
	OnCancel        func() tea.Cmd
	ShowSuccess     bool
	SuccessMessage  string
	SuccessDuration time.Duration
	Layout          Layout
	Evaluator       *celx.Evaluator
	Logger          logr.Logger
	Context         context.Context
	Styles          *theme.Styles
}

type submittedMsg struct {
	id  int
	err error
}

type resetMsg struct {
	id  int
	seq int
}

// Model is the interactive form component.
type Model struct {
	id      int
	opts    Options
	styles  theme.Styles
	form    *form.Form
	inputs  map[string]*textinput.Model
	areas   map[string]*textarea.Model
	choice  map[string]int
	focus   int
	spinner spinner.Model
	seq     int
	width   int
	height  int
}

// New builds the form engine and one editor per field.
func New(opts Options) (*Model, error) {
	if opts.SubmitText == "" {
		opts.SubmitText = DefaultSubmitText
	}
	if opts.CancelText == "" {
		opts.CancelText = DefaultCancelText
	}
	if opts.SuccessMessage == "" {
		opts.SuccessMessage = form.DefaultSuccessMessage
	}
	if opts.SuccessDuration <= 0 {
		opts.SuccessDuration = DefaultSuccessDuration
	}
	if opts.Layout == "" {
		opts.Layout = LayoutVertical
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	formOpts := []form.Option{
		form.WithInitialData(opts.Initial),
		form.WithSuccessState(opts.ShowSuccess),
		form.WithLogger(opts.Logger),
	}
	if opts.Evaluator != nil {
		formOpts = append(formOpts, form.WithEvaluator(opts.Evaluator))
	}
	f, err := form.New(opts.Fields, formOpts...)
	if err != nil {
		return nil, err
	}
	styles := theme.DefaultStyles(false)
	if opts.Styles != nil {
		styles = *opts.Styles
	}
	m := &Model{
		id:      int(atomic.AddInt64(&lastID, 1)),
		opts:    opts,
		styles:  styles,
		form:    f,
		inputs:  map[string]*textinput.Model{},
		areas:   map[string]*textarea.Model{},
		choice:  map[string]int{},
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.Accent)),
		width:   60,
	}
	for _, fld := range f.Fields() {
		b := fld.Base()
		switch v := fld.(type) {
		case schema.TextField, schema.NumberField, schema.FileField:
			ti := textinput.New()
			ti.Prompt = ""
			ti.Placeholder = b.Placeholder
			if t, ok := fld.(schema.TextField); ok && t.Kind == schema.TypePassword {
				ti.EchoMode = textinput.EchoPassword
			}
			m.inputs[b.Name] = &ti
		case schema.TextAreaField:
			ta := textarea.New()
			ta.ShowLineNumbers = false
			ta.Prompt = ""
			ta.Placeholder = b.Placeholder
			ta.SetHeight(v.VisibleRows())
			m.areas[b.Name] = &ta
		}
	}
	m.syncEditors()
	m.focus = m.nextFocusable(-1, 1)
	m.applyFocus()
	return m, nil
}

// Form exposes the underlying engine.
func (m *Model) Form() *form.Form { return m.form }

// Title returns the form heading.
func (m *Model) Title() string { return m.opts.Title }

// Init implements component.Model.
func (m *Model) Init() tea.Cmd { return nil }

// SetSize implements component.Sized.
func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
	w := m.editorWidth()
	for _, ti := range m.inputs {
		ti.SetWidth(w)
	}
	for _, ta := range m.areas {
		ta.SetWidth(w)
	}
}

func (m *Model) editorWidth() int {
	w := m.width - 4
	if m.opts.Layout == LayoutHorizontal {
		w -= labelColumn
	}
	return max(10, w)
}

// Capturing reports whether a text editor has focus.
func (m *Model) Capturing() bool {
	name, ok := m.focusedField()
	if !ok {
		return false
	}
	_, in := m.inputs[name]
	_, ta := m.areas[name]
	return in || ta
}

// slots: fields, then submit, then cancel when enabled.
func (m *Model) slots() int {
	n := len(m.form.Fields()) + 1
	if m.opts.OnCancel != nil {
		n++
	}
	return n
}

func (m *Model) submitSlot() int { return len(m.form.Fields()) }

func (m *Model) focusable(i int) bool {
	if i < len(m.form.Fields()) {
		return !m.form.Fields()[i].Base().Disabled
	}
	return i < m.slots()
}

func (m *Model) nextFocusable(from, dir int) int {
	n := m.slots()
	for step := 1; step <= n; step++ {
		i := ((from+dir*step)%n + n) % n
		if m.focusable(i) {
			return i
		}
	}
	return m.submitSlot()
}

func (m *Model) focusedField() (string, bool) {
	if m.focus < 0 || m.focus >= len(m.form.Fields()) {
		return "", false
	}
	return m.form.Fields()[m.focus].Base().Name, true
}

// FocusedField returns the name of the focused field, if any.
func (m *Model) FocusedField() (string, bool) { return m.focusedField() }

func (m *Model) applyFocus() tea.Cmd {
	var cmds []tea.Cmd
	name, _ := m.focusedField()
	for n, ti := range m.inputs {
		if n == name && m.form.Phase() != form.Submitting {
			cmds = append(cmds, ti.Focus())
		} else {
			ti.Blur()
		}
	}
	for n, ta := range m.areas {
		if n == name && m.form.Phase() != form.Submitting {
			cmds = append(cmds, ta.Focus())
		} else {
			ta.Blur()
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) move(dir int) tea.Cmd {
	m.focus = m.nextFocusable(m.focus, dir)
	return m.applyFocus()
}

// syncEditors copies engine values into the text editors.
func (m *Model) syncEditors() {
	for name, ti := range m.inputs {
		if sel := m.form.Selected(name); sel != nil {
			ti.SetValue(strings.Join(sel, ", "))
			continue
		}
		ti.SetValue(m.form.Text(name))
	}
	for name, ta := range m.areas {
		ta.SetValue(m.form.Text(name))
	}
}

// Submit validates and, when valid, runs OnSubmit in a command.
func (m *Model) Submit() tea.Cmd {
	if m.form.Phase() == form.Submitting {
		return nil
	}
	data, ok := m.form.Begin()
	if !ok {
		for i, fld := range m.form.Fields() {
			if m.form.Error(fld.Base().Name) != "" {
				m.focus = i
				break
			}
		}
		return m.applyFocus()
	}
	m.applyFocus()
	id, fn, ctx := m.id, m.opts.OnSubmit, m.opts.Context
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		var err error
		if fn != nil {
			err = fn(ctx, data)
		}
		return submittedMsg{id: id, err: err}
	})
}

// Update implements component.Model.
func (m *Model) Update(msg tea.Msg) (component.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case submittedMsg:
		if msg.id != m.id {
			return m, nil
		}
		m.form.Finish(msg.err)
		cmd := m.applyFocus()
		if m.form.Phase() == form.Submitted {
			m.seq++
			id, seq := m.id, m.seq
			return m, tea.Batch(cmd, tea.Tick(m.opts.SuccessDuration, func(time.Time) tea.Msg {
				return resetMsg{id: id, seq: seq}
			}))
		}
		return m, cmd
	case resetMsg:
		if msg.id == m.id && msg.seq == m.seq && m.form.Phase() == form.Submitted {
			m.form.Reset()
			m.syncEditors()
			m.focus = m.nextFocusable(-1, 1)
			return m, m.applyFocus()
		}
		return m, nil
	case spinner.TickMsg:
		if m.form.Phase() != form.Submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyPressMsg:
		return m, m.handleKey(msg)
	}
	return m, m.forward(msg)
}

func (m *Model) handleKey(key tea.KeyPressMsg) tea.Cmd {
	switch m.form.Phase() {
	case form.Submitting, form.Submitted:
		return nil
	}
	k := key.String()
	switch k {
	case "ctrl+s":
		return m.Submit()
	case "tab":
		return m.move(1)
	case "shift+tab":
		return m.move(-1)
	}
	name, isField := m.focusedField()
	if !isField {
		switch k {
		case "up", "k", "left", "h":
			return m.move(-1)
		case "down", "j", "right", "l":
			return m.move(1)
		case "enter", "space":
			if m.focus == m.submitSlot() {
				return m.Submit()
			}
			if m.opts.OnCancel != nil {
				return m.opts.OnCancel()
			}
		case "esc":
			if m.opts.OnCancel != nil {
				return m.opts.OnCancel()
			}
		}
		return nil
	}
	fld, _ := m.form.Field(name)
	if _, ok := m.areas[name]; ok {
		switch k {
		case "esc":
			return m.move(1)
		}
		return m.edit(name, key)
	}
	switch k {
	case "up":
		return m.move(-1)
	case "down":
		return m.move(1)
	case "enter":
		if _, ok := m.inputs[name]; ok {
			return m.move(1)
		}
	}
	if _, ok := m.inputs[name]; ok {
		return m.edit(name, key)
	}
	m.choose(fld, k)
	return nil
}

// edit forwards a key to the focused text editor and stores the result.
func (m *Model) edit(name string, key tea.KeyPressMsg) tea.Cmd {
	var cmd tea.Cmd
	if ti, ok := m.inputs[name]; ok {
		prev := ti.Value()
		*ti, cmd = ti.Update(key)
		if ti.Value() == prev {
			return cmd
		}
		fld, _ := m.form.Field(name)
		if schema.MultiValued(fld) {
			_ = m.form.Set(name, splitList(ti.Value()))
		} else {
			_ = m.form.Set(name, ti.Value())
		}
		return cmd
	}
	if ta, ok := m.areas[name]; ok {
		prev := ta.Value()
		*ta, cmd = ta.Update(key)
		if ta.Value() != prev {
			_ = m.form.Set(name, ta.Value())
		}
	}
	return cmd
}

func (m *Model) forward(msg tea.Msg) tea.Cmd {
	name, ok := m.focusedField()
	if !ok {
		return nil
	}
	var cmd tea.Cmd
	if ti, ok := m.inputs[name]; ok {
		*ti, cmd = ti.Update(msg)
	}
	if ta, ok := m.areas[name]; ok {
		*ta, cmd = ta.Update(msg)
	}
	return cmd
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// choices returns the values a choice field cycles through. Optional
// single selects start with an empty choice.
func choices(fld schema.FormField) []schema.Option {
	opts := schema.Options(fld)
	if s, ok := fld.(schema.SelectField); ok && !s.Multiple && !s.Required {
		return append([]schema.Option{{Label: emptyChoice}}, opts...)
	}
	return opts
}

// choiceIndex is the option cursor of a choice field. Single-valued fields
// track their current value and report -1 while it matches no option.
func (m *Model) choiceIndex(fld schema.FormField, opts []schema.Option) int {
	name := fld.Base().Name
	if !schema.MultiValued(fld) {
		for i, o := range opts {
			if o.Value == m.form.Text(name) {
				return i
			}
		}
		return -1
	}
	return m.choice[name]
}

// choose handles keys on select, checkbox and radio fields.
func (m *Model) choose(fld schema.FormField, k string) {
	name := fld.Base().Name
	opts := choices(fld)
	if len(opts) == 0 {
		return
	}
	cur := m.choiceIndex(fld, opts)
	switch k {
	case "left", "h":
		if cur < 0 {
			cur = len(opts)
		}
		cur = (cur - 1 + len(opts)) % len(opts)
	case "right", "l":
		cur = (cur + 1) % len(opts)
	case "space", "enter", "x":
		if schema.MultiValued(fld) && cur >= 0 {
			_ = m.form.Toggle(name, opts[cur].Value)
		}
		return
	default:
		return
	}
	m.choice[name] = cur
	if !schema.MultiValued(fld) {
		_ = m.form.Set(name, opts[cur].Value)
	}
}

// View implements component.Model.
func (m *Model) View() string {
	if m.form.Phase() == form.Submitted {
		return m.styles.Success.Render("✓ " + m.opts.SuccessMessage)
	}
	var parts []string
	if m.opts.Title != "" {
		parts = append(parts, m.styles.Title.Render(m.opts.Title))
	}
	if m.opts.Description != "" {
		parts = append(parts, m.styles.Subtitle.Render(m.opts.Description))
	}
	if len(parts) > 0 {
		parts = append(parts, "")
	}
	for i, fld := range m.form.Fields() {
		parts = append(parts, m.fieldView(i, fld))
	}
	parts = append(parts, m.buttons())
	if m.form.Phase() == form.Failed {
		parts = append(parts, m.styles.Error.Render(form.FailureMessage))
	}
	return strings.Join(parts, "\n")
}

func (m *Model) fieldView(i int, fld schema.FormField) string {
	b := fld.Base()
	focused := i == m.focus
	label := b.Label
	if b.Required {
		label += " *"
	}
	labelStyle := m.styles.Label
	if focused {
		label = "› " + label
		labelStyle = m.styles.Focused
	} else {
		label = "  " + label
	}
	if b.Disabled {
		labelStyle = m.styles.Muted.Faint(true)
	}
	editor := m.editorView(fld, focused)

	var lines []string
	if m.opts.Layout == LayoutHorizontal {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			labelStyle.Width(labelColumn).Render(label), editor))
	} else {
		lines = append(lines, labelStyle.Render(label), lipgloss.NewStyle().PaddingLeft(2).Render(editor))
	}
	indent := "  "
	if m.opts.Layout == LayoutHorizontal {
		indent = strings.Repeat(" ", labelColumn)
	}
	if e := m.form.Error(b.Name); e != "" {
		lines = append(lines, indent+m.styles.Error.Render(e))
	} else if b.HelpText != "" {
		lines = append(lines, indent+m.styles.Muted.Render(b.HelpText))
	}
	return strings.Join(lines, "\n")
}

// editorView renders the editor for each field variant.
func (m *Model) editorView(fld schema.FormField, focused bool) string {
	name := fld.Base().Name
	switch v := fld.(type) {
	case schema.TextField, schema.NumberField, schema.FileField:
		out := m.inputs[name].View()
		if _, ok := v.(schema.FileField); ok {
			out = m.styles.Muted.Render("file: ") + out
		}
		return m.styles.Input.Render(out)
	case schema.TextAreaField:
		return m.areas[name].View()
	case schema.SelectField:
		if v.Multiple {
			return m.optionGroup(fld, focused, "[x]", "[ ]")
		}
		label := emptyChoice
		for _, o := range choices(fld) {
			if o.Value != "" && o.Value == m.form.Text(name) {
				label = o.Label
				break
			}
		}
		return m.styles.Input.Render("‹ " + label + " ›")
	case schema.CheckboxField:
		return m.optionGroup(fld, focused, "[x]", "[ ]")
	case schema.RadioField:
		return m.optionGroup(fld, focused, "(•)", "( )")
	}
	return ""
}

func (m *Model) optionGroup(fld schema.FormField, focused bool, on, off string) string {
	name := fld.Base().Name
	selected := map[string]bool{}
	if schema.MultiValued(fld) {
		for _, v := range m.form.Selected(name) {
			selected[v] = true
		}
	} else {
		selected[m.form.Text(name)] = true
	}
	opts := schema.Options(fld)
	items := make([]string, 0, len(opts))
	for i, o := range opts {
		mark := off
		if selected[o.Value] {
			mark = on
		}
		item := mark + " " + o.Label
		if focused && i == m.choiceIndex(fld, opts) {
			item = m.styles.Focused.Render(item)
		} else {
			item = m.styles.Text.Render(item)
		}
		items = append(items, item)
	}
	return strings.Join(items, "  ")
}

func (m *Model) buttons() string {
	var out []string
	switch m.form.Phase() {
	case form.Submitting:
		out = append(out, m.spinner.View()+" "+m.styles.Button(submittingText, "primary", false, true))
	default:
		out = append(out, m.styles.Button(m.opts.SubmitText, "primary", m.focus == m.submitSlot(), false))
	}
	if m.opts.OnCancel != nil {
		out = append(out, m.styles.Button(m.opts.CancelText, "secondary",
			m.focus == m.submitSlot()+1, m.form.Phase() == form.Submitting))
	}
	return "\n" + strings.Join(out, " ")
}
