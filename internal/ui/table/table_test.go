package table

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Key   string
	Value string
}

func makeModel() *Model[item] {
	cols := []Column{{Title: "KEY", Width: 10}, {Title: "VALUE", Width: 20}}
	return NewModel(cols, func(v item) Row { return Row{v.Key, v.Value} })
}

func TestSetRowsAndSelection(t *testing.T) {
	m := makeModel()
	m.SetRows([]item{{"apple", "red"}, {"banana", "yellow"}})
	require.Len(t, m.Rows(), 2)

	sel := m.SelectedRow()
	require.NotNil(t, sel)
	assert.Equal(t, "apple", sel.Key)

	m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	sel = m.SelectedRow()
	require.NotNil(t, sel)
	assert.Equal(t, "banana", sel.Key)

	m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 1, m.Cursor(), "cursor stays in bounds")
}

func TestEmptyTableHasNoSelection(t *testing.T) {
	m := makeModel()
	m.SetRows(nil)
	assert.Nil(t, m.SelectedRow())
}

func TestViewFitsRows(t *testing.T) {
	m := makeModel()
	m.SetNoColor(true)
	m.SetSize(40, 20)
	m.SetRows([]item{{"k1", "v1"}, {"k2", "v2"}})

	out := ansi.Strip(m.View())
	assert.Contains(t, out, "KEY")
	assert.Contains(t, out, "k1")
	assert.Contains(t, out, "v2")
	assert.Equal(t, 4, lipgloss.Height(m.View()), "header, border and two rows")
	assert.LessOrEqual(t, lipgloss.Width(strings.Split(out, "\n")[0]), 40)
}

func TestBlurIgnoresKeys(t *testing.T) {
	m := makeModel()
	m.SetRows([]item{{"a", "1"}, {"b", "2"}})
	m.Blur()
	assert.False(t, m.Focused())
	m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 0, m.Cursor())
	m.Focus()
	assert.True(t, m.Focused())
}
