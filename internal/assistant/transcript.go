package assistant

import (
	"encoding/json"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/uideck/internal/dispatch"
	"github.com/oakwood-commons/uideck/internal/theme"
)

// Status texts of a tool entry.
const (
	PendingText = "Loading component..."
	SuccessText = "✓ Success"
)

// Transcript is the ordered chat history. Tool entries can be selected
// and expanded to show their raw arguments and result.
type Transcript struct {
	msgs     []Message
	expanded map[string]bool
	selected int
}

// NewTranscript returns an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{expanded: map[string]bool{}, selected: -1}
}

// Add appends m.
func (t *Transcript) Add(m Message) {
	t.msgs = append(t.msgs, m)
}

// AddToolCall appends a pending tool entry for call.
func (t *Transcript) AddToolCall(call ToolCall) Message {
	m := NewMessage(RoleTool, "")
	m.Call = &call
	t.Add(m)
	return m
}

// SetResult records the result of the tool call with callID.
func (t *Transcript) SetResult(callID string, res dispatch.Result) bool {
	for i := len(t.msgs) - 1; i >= 0; i-- {
		if c := t.msgs[i].Call; c != nil && c.ID == callID {
			r := res
			t.msgs[i].Result = &r
			return true
		}
	}
	return false
}

// Messages returns a copy of the history.
func (t *Transcript) Messages() []Message {
	return append([]Message(nil), t.msgs...)
}

// Len returns the number of messages.
func (t *Transcript) Len() int { return len(t.msgs) }

func (t *Transcript) tools() []int {
	var idx []int
	for i, m := range t.msgs {
		if m.Role == RoleTool {
			idx = append(idx, i)
		}
	}
	return idx
}

// SelectTool moves the tool selection by delta, wrapping around. With no
// selection it starts at the latest tool entry.
func (t *Transcript) SelectTool(delta int) bool {
	idx := t.tools()
	if len(idx) == 0 {
		return false
	}
	pos := -1
	for i, v := range idx {
		if v == t.selected {
			pos = i
		}
	}
	if pos < 0 {
		pos = len(idx) - 1
	} else {
		pos = ((pos+delta)%len(idx) + len(idx)) % len(idx)
	}
	t.selected = idx[pos]
	return true
}

// Selected returns the selected tool entry.
func (t *Transcript) Selected() (Message, bool) {
	if t.selected < 0 || t.selected >= len(t.msgs) {
		return Message{}, false
	}
	return t.msgs[t.selected], true
}

// ClearSelection drops the tool selection.
func (t *Transcript) ClearSelection() { t.selected = -1 }

// ToggleSelected expands or collapses the selected tool entry.
func (t *Transcript) ToggleSelected() bool {
	m, ok := t.Selected()
	if !ok {
		return false
	}
	t.expanded[m.ID] = !t.expanded[m.ID]
	return true
}

// Expanded reports whether the entry with id is expanded.
func (t *Transcript) Expanded(id string) bool { return t.expanded[id] }

// Render draws the transcript at width.
func (t *Transcript) Render(styles theme.Styles, width int) string {
	blocks := make([]string, 0, len(t.msgs))
	for i, m := range t.msgs {
		switch m.Role {
		case RoleUser:
			blocks = append(blocks, styles.User.Render("You")+"\n"+wrap(styles.Text.Render(m.Text), width))
		case RoleAssistant:
			blocks = append(blocks, styles.Assistant.Render("Assistant")+"\n"+RenderMarkdown(m.Text, styles, width))
		case RoleTool:
			blocks = append(blocks, t.renderTool(m, i == t.selected, styles, width))
		}
	}
	return strings.Join(blocks, "\n\n")
}

func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}

func (t *Transcript) renderTool(m Message, selected bool, styles theme.Styles, width int) string {
	marker := "  "
	if selected {
		marker = styles.Focused.Render("▸ ")
	}
	status := styles.Muted.Render(PendingText)
	if r := m.Result; r != nil {
		if r.Success {
			status = styles.Success.Render(SuccessText)
		} else {
			status = styles.Error.Render("✗ " + r.Error)
		}
	}
	name := dispatch.ToolName
	var details []string
	if c := m.Call; c != nil {
		name = c.Name
		details = append(details, "Type: "+c.Args.ComponentType, "Data: "+c.Args.DataType)
		if c.Args.ItemID != "" {
			details = append(details, "ID: "+c.Args.ItemID)
		}
		if c.Args.Layout != "" {
			details = append(details, "Layout: "+c.Args.Layout)
		}
	}
	lines := []string{
		marker + styles.Tool.Render("🔧 "+name) + " " + status,
		"  " + styles.Muted.Render(strings.Join(details, " | ")),
	}
	if t.expanded[m.ID] {
		if m.Call != nil {
			lines = append(lines, indentJSON("args", m.Call.Args, styles)...)
		}
		if m.Result != nil {
			lines = append(lines, indentJSON("result", m.Result, styles)...)
		}
	}
	return wrap(strings.Join(lines, "\n"), width)
}

func indentJSON(label string, v any, styles theme.Styles) []string {
	b, err := json.MarshalIndent(v, "    ", "  ")
	if err != nil {
		return []string{"  " + styles.Error.Render(label+": "+err.Error())}
	}
	return []string{"  " + styles.Label.Render(label+":"), "    " + styles.Muted.Render(string(b))}
}
