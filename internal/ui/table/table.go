// Package table wraps the bubbles table with typed rows, theme colors and
// height that shrinks to fit its content.
package table

import (
	"fmt"
	"image/color"

	bubtable "charm.land/bubbles/v2/table"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

type Column = bubtable.Column
type Row = bubtable.Row

// headerLines is the header row plus its bottom border.
const headerLines = 2

// Model displays values of type V as table rows.
type Model[V any] struct {
	table   bubtable.Model
	styles  bubtable.Styles
	rows    []V
	columns []Column
	toRow   func(V) Row

	width     int
	maxHeight int
	focused   bool
	noColor   bool

	headerFG   color.Color
	selectedFG color.Color
	selectedBG color.Color
}

// NewModel creates a table over the given columns; toRow renders one value.
func NewModel[V any](columns []Column, toRow func(V) Row) *Model[V] {
	t := bubtable.New(
		bubtable.WithColumns(columns),
		bubtable.WithFocused(true),
	)
	s := bubtable.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Bold(true).
		Align(lipgloss.Left).
		Padding(0, 1, 0, 0)
	s.Cell = lipgloss.NewStyle().Align(lipgloss.Left).Padding(0, 1, 0, 0)
	s.Selected = s.Selected.UnsetForeground().Bold(false)
	t.SetStyles(s)

	m := &Model[V]{
		table:     t,
		styles:    s,
		columns:   columns,
		toRow:     toRow,
		width:     80,
		maxHeight: 12,
		focused:   true,
	}
	m.resize()
	return m
}

// SetRows replaces the row values and keeps the cursor in range.
func (m *Model[V]) SetRows(rows []V) {
	m.rows = rows
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = m.toRow(r)
	}
	m.table.SetRows(out)
	m.resize()
	if len(rows) > 0 && (m.Cursor() < 0 || m.Cursor() >= len(rows)) {
		m.table.SetCursor(0)
	}
}

// SetColumns replaces the column definitions.
func (m *Model[V]) SetColumns(columns []Column) {
	m.columns = columns
	m.table.SetColumns(columns)
	m.applyColorScheme()
}

// Columns returns the column definitions.
func (m *Model[V]) Columns() []Column { return m.columns }

// Rows returns the row values.
func (m *Model[V]) Rows() []V { return m.rows }

// Cursor returns the selected row index.
func (m *Model[V]) Cursor() int { return m.table.Cursor() }

// SetCursor moves the selection.
func (m *Model[V]) SetCursor(pos int) { m.table.SetCursor(pos) }

// SelectedRow returns the selected value, or nil when the table is empty.
func (m *Model[V]) SelectedRow() *V {
	c := m.Cursor()
	if c < 0 || c >= len(m.rows) {
		return nil
	}
	return &m.rows[c]
}

// SetSize sets the width and the maximum height including the header.
func (m *Model[V]) SetSize(width, maxHeight int) {
	m.width = width
	m.maxHeight = maxHeight
	m.resize()
}

// resize fits the viewport to the rows so short tables are not padded.
func (m *Model[V]) resize() {
	h := len(m.rows) + headerLines
	if m.maxHeight > 0 && h > m.maxHeight {
		h = m.maxHeight
	}
	if h < headerLines+1 {
		h = headerLines + 1
	}
	m.table.SetWidth(m.width)
	m.table.SetHeight(h)
}

// Focus enables keyboard navigation.
func (m *Model[V]) Focus() {
	m.focused = true
	m.table.Focus()
}

// Blur disables keyboard navigation.
func (m *Model[V]) Blur() {
	m.focused = false
	m.table.Blur()
}

// Focused reports whether the table handles keys.
func (m *Model[V]) Focused() bool { return m.focused }

// SetNoColor drops colors and marks the selection with reverse video.
func (m *Model[V]) SetNoColor(noColor bool) {
	m.noColor = noColor
	m.applyColorScheme()
}

// SetColors sets the header and selection colors.
func (m *Model[V]) SetColors(headerFG, selectedFG, selectedBG color.Color) {
	m.headerFG = headerFG
	m.selectedFG = selectedFG
	m.selectedBG = selectedBG
	m.applyColorScheme()
}

func (m *Model[V]) applyColorScheme() {
	s := m.styles
	if m.noColor {
		s.Header = s.Header.UnsetForeground().UnsetBackground()
		s.Selected = s.Selected.UnsetForeground().UnsetBackground().Reverse(true)
		s.Cell = s.Cell.UnsetForeground().UnsetBackground()
	} else {
		if m.headerFG != nil {
			s.Header = s.Header.Foreground(m.headerFG)
		}
		if m.selectedFG != nil {
			s.Selected = s.Selected.Foreground(m.selectedFG)
		}
		if m.selectedBG != nil {
			s.Selected = s.Selected.Background(m.selectedBG)
		}
	}
	m.table.SetStyles(s)
	m.styles = s
}

// Update forwards navigation keys to the bubbles table.
func (m *Model[V]) Update(msg tea.Msg) (*Model[V], tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the table.
func (m *Model[V]) View() string {
	return m.table.View()
}

func (m *Model[V]) String() string {
	return fmt.Sprintf("Table[rows=%d, cursor=%d, width=%d]", len(m.rows), m.Cursor(), m.width)
}
