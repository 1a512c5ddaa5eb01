package ui

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/uideck/internal/dispatch"
	"github.com/oakwood-commons/uideck/internal/mockdata"
	"github.com/oakwood-commons/uideck/internal/theme"
)

func TestSnapshotDemo(t *testing.T) {
	m, _ := newTestModel(t, true)
	out, err := Snapshot(m, SnapshotConfig{Width: 120, Height: 32, NoColor: true})
	require.NoError(t, err)

	assert.NotContains(t, out, "\x1b[")
	assert.Len(t, strings.Split(out, "\n"), 32)
	for _, want := range []string{DefaultTitle, "Current: demo - products", ChatTitle, EmptyChatTitle} {
		assert.Contains(t, out, want)
	}
	for _, s := range Suggestions {
		assert.Contains(t, out, s)
	}
}

func TestSnapshotPrompt(t *testing.T) {
	m, _ := newTestModel(t, true)
	out, err := Snapshot(m, SnapshotConfig{
		Script:  Script{Prompts: []string{"Show me products"}},
		Width:   160,
		Height:  32,
		NoColor: true,
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Current: list - products")
	assert.Contains(t, out, "Laptop Pro")

	msgs := m.Transcript().Messages()
	require.Len(t, msgs, 3)
	require.NotNil(t, msgs[2].Result)
	assert.True(t, msgs[2].Result.Success)
}

func TestSnapshotShowItem(t *testing.T) {
	m, src := newTestModel(t, false)
	out, err := Snapshot(m, SnapshotConfig{
		Script:  Script{Show: &dispatch.ToolArgs{ComponentType: "item", DataType: "orders", ItemID: "1001"}},
		NoColor: true,
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Current: item - orders")
	assert.Contains(t, out, "Acme Corp")
	assert.NotContains(t, out, ChatTitle)
	_, gets := src.Calls()
	assert.Equal(t, 1, gets)
}

func TestSnapshotRejectedShow(t *testing.T) {
	m, _ := newTestModel(t, true)
	out, err := Snapshot(m, SnapshotConfig{
		Script:  Script{Show: &dispatch.ToolArgs{ComponentType: "item", DataType: "orders"}},
		NoColor: true,
	})
	require.EqualError(t, err, dispatch.ErrItemIDRequired)
	assert.Contains(t, out, "Current: demo - products")
	assert.Contains(t, out, dispatch.ErrItemIDRequired, "flash stays up past the snapshot")
}

func TestSnapshotTypedPrompt(t *testing.T) {
	m, _ := newTestModel(t, true)
	_, err := Snapshot(m, SnapshotConfig{
		Script: Script{Keys: []string{"Show order #1001", "<Enter>"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "item - orders", m.Display().Label())
	assert.Equal(t, "1001", m.Display().ItemID)
}

func TestSnapshotKeysNavigateListToItem(t *testing.T) {
	m, _ := newTestModel(t, false)
	_, err := Snapshot(m, SnapshotConfig{
		Script: Script{
			Show: &dispatch.ToolArgs{ComponentType: "list", DataType: "products"},
			Keys: []string{"<Enter>"},
		},
	})
	require.NoError(t, err)
	disp := m.Display()
	assert.Equal(t, dispatch.KindItem, disp.Kind)
	assert.Equal(t, "1", disp.ItemID)
	require.NotNil(t, disp.Back)

	require.NoError(t, m.Play(Script{Keys: []string{"<Esc>"}}, 0))
	assert.Equal(t, dispatch.KindList, m.Display().Kind)
}

func TestSnapshotHelpKeys(t *testing.T) {
	m, _ := newTestModel(t, true)
	out, err := Snapshot(m, SnapshotConfig{Script: Script{Keys: []string{"<C-w>", "?"}}, NoColor: true})
	require.NoError(t, err)
	assert.True(t, m.HelpVisible())
	assert.Equal(t, FocusDisplay, m.Focus())
	assert.Contains(t, out, HelpTitle)
	assert.Contains(t, out, "esc closes this help")
	for _, want := range []string{"Global", "Lists", "Items", "Forms", "ctrl+s"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "j/k scroll", "the default size fits every section")
}

func TestPlayPrimesOnce(t *testing.T) {
	m, src := newTestModel(t, false)
	require.NoError(t, m.Play(Script{Show: &dispatch.ToolArgs{ComponentType: "list", DataType: "products"}}, 0))
	lists, _ := src.Calls()
	assert.Equal(t, 1, lists)
	assert.Nil(t, m.Init(), "a played model does not reload its display")

	fresh, _ := newTestModel(t, false)
	fresh.Show(dispatch.ToolArgs{ComponentType: "list", DataType: "products"})
	assert.NotNil(t, fresh.Init())
}

func TestRenderDisplay(t *testing.T) {
	styles := theme.DefaultStyles(true)
	d := dispatch.New(mockdata.MustNewStore(mockdata.WithLatency(0)), nil, dispatch.Options{Styles: &styles})
	res, disp := d.Dispatch(t.Context(), dispatch.ToolArgs{ComponentType: "list", DataType: "users", Layout: "card"})
	require.True(t, res.Success)

	out := RenderDisplay(disp, 100, 40, true, 0)
	assert.True(t, strings.HasPrefix(out, "Current: list - users\n\n"), out)
	assert.Contains(t, out, "John Doe")
	assert.NotContains(t, out, "\x1b[")
	for _, l := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, ansi.StringWidth(l), 100, l)
	}

	snap := DisplaySnapshotter(100, 40, true, 0)
	_, disp = d.Dispatch(t.Context(), dispatch.ToolArgs{ComponentType: "form", DataType: "employees"})
	assert.Contains(t, snap(disp), "Current: form - employees")
}

func TestDriverDropsAnimationAndAbandonsSlowCommands(t *testing.T) {
	var got []tea.Msg
	d := newDriver(func(msg tea.Msg) tea.Cmd {
		got = append(got, msg)
		return nil
	}, 50*time.Millisecond)

	type fast struct{ n int }
	slow := func() tea.Msg {
		time.Sleep(time.Second)
		return fast{n: -1}
	}
	d.run(tea.Batch(
		func() tea.Msg { return fast{n: 1} },
		slow,
		tea.Batch(func() tea.Msg { return fast{n: 2} }, func() tea.Msg { return fast{n: 3} }),
		func() tea.Msg { return tea.QuitMsg{} },
	))
	assert.Equal(t, []tea.Msg{fast{n: 1}, fast{n: 2}, fast{n: 3}}, got)
}

func TestDriverBudget(t *testing.T) {
	calls := 0
	var loop tea.Cmd
	loop = func() tea.Msg { return struct{}{} }
	d := newDriver(func(tea.Msg) tea.Cmd {
		calls++
		return loop
	}, time.Second)
	d.send(struct{}{})
	assert.Equal(t, snapshotMsgBudget, calls)
}

func TestKeyMsgsFromToken(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"<Esc>", "esc"},
		{"<CR>", "enter"},
		{"<Tab>", "tab"},
		{"<S-Tab>", "shift+tab"},
		{"<Space>", "space"},
		{"<C-s>", "ctrl+s"},
		{"<c-w>", "ctrl+w"},
		{"<F1>", "f1"},
		{"<F12>", "f12"},
		{"<PgDown>", "pgdown"},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			msgs, ok := keyMsgsFromToken(tt.token)
			require.True(t, ok)
			require.Len(t, msgs, 1)
			assert.Equal(t, tt.want, msgs[0].String())
		})
	}

	for _, token := range []string{"", "x", "<F13>", "<C-ab>", "<nope>"} {
		_, ok := keyMsgsFromToken(token)
		assert.False(t, ok, token)
	}
}

func TestParseTokenSegments(t *testing.T) {
	assert.Equal(t, []tokenSegment{
		{text: "<F1>", isVimKey: true},
		{text: "rwo", isVimKey: false},
	}, parseTokenSegments("<F1>rwo"))
	assert.Equal(t, []tokenSegment{
		{text: "a", isVimKey: false},
		{text: "<Tab>", isVimKey: true},
		{text: "b<", isVimKey: false},
	}, parseTokenSegments("a<Tab>b<"))
}

func TestHelpText(t *testing.T) {
	text := HelpText()
	for _, want := range []string{"Global", "Chat", "Lists", "Items", "Forms", SwitchPanelKey, "ctrl+s", "submit"} {
		assert.Contains(t, text, want)
	}
	assert.False(t, strings.HasSuffix(text, "\n"))
}
