package itemview

import (
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/uideck/internal/domain"
	"github.com/oakwood-commons/uideck/internal/mockdata"
	"github.com/oakwood-commons/uideck/internal/record"
	"github.com/oakwood-commons/uideck/internal/schema"
	"github.com/oakwood-commons/uideck/internal/theme"
)

type backMsg struct{}

func key(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case "right":
		return tea.KeyPressMsg{Code: tea.KeyRight}
	case "left":
		return tea.KeyPressMsg{Code: tea.KeyLeft}
	}
	return tea.KeyPressMsg{Code: []rune(s)[0], Text: s}
}

func plain() *theme.Styles {
	s := theme.DefaultStyles(true)
	return &s
}

func order() record.Record {
	return record.Record{"id": 1001, "customer": "Acme Corp", "product": "Enterprise License",
		"amount": 5999.99, "status": "completed", "date": "2024-01-15"}
}

func orderFields() []schema.Field {
	return []schema.Field{
		{Key: "id", Label: "Order ID", Value: schema.Key("id"), Section: "Order Information", Highlight: true},
		{Key: "date", Label: "Date", Value: schema.Key("date"), Render: schema.LocaleDate, Section: "Order Information"},
		{Key: "status", Label: "Status", Value: schema.Key("status"), Section: "Order Information", Badge: true, BadgeColor: "#10b981"},
		{Key: "customer", Label: "Customer", Value: schema.Key("customer"), Section: "Customer"},
		{Key: "product", Label: "Product", Value: schema.Key("product"), Span: 2},
		{Key: "amount", Label: "Amount", Value: schema.Key("amount"), Render: schema.Currency},
	}
}

func actions(calls *[]string) []Action {
	return []Action{
		{Label: "Edit", Icon: "✏️", Variant: VariantPrimary, OnClick: func(r record.Record) tea.Cmd {
			*calls = append(*calls, "edit "+record.Stringify(r.Get("id")))
			return nil
		}},
		{Label: "Archive", Variant: VariantSecondary, Disabled: true, OnClick: func(record.Record) tea.Cmd {
			*calls = append(*calls, "archive")
			return nil
		}},
		{Label: "Delete", Variant: VariantDanger, OnClick: func(record.Record) tea.Cmd {
			*calls = append(*calls, "delete")
			return nil
		}},
	}
}

// lineIndex returns the first line whose text, without borders, is want.
func lineIndex(out, want string) int {
	for i, l := range strings.Split(out, "\n") {
		if strings.Trim(l, " │┃╭╮╰╯─━") == want {
			return i
		}
	}
	return -1
}

func titleOf(r record.Record) string { return "Order #" + record.Stringify(r.Get("id")) }

func TestViewGroupsSectionsInOrder(t *testing.T) {
	for _, l := range Layouts {
		t.Run(string(l), func(t *testing.T) {
			m := New(order(), Options{Fields: orderFields(), Layout: l, Title: titleOf, Styles: plain()})
			out := ansi.Strip(m.View())

			assert.Contains(t, out, "Order #1001")
			info := lineIndex(out, "Order Information")
			cust := lineIndex(out, "Customer")
			require.GreaterOrEqual(t, info, 0)
			require.GreaterOrEqual(t, cust, 0)
			assert.Less(t, info, cust)
			assert.NotContains(t, out, schema.DefaultSection, "default section has no heading")
			assert.Contains(t, out, "[completed]", "badge renders as a chip")
			assert.Contains(t, out, "Enterprise License")
			assert.Contains(t, out, "1/15/2024")
		})
	}
}

func TestPanelPutsActionsInHeader(t *testing.T) {
	var calls []string
	panel := ansi.Strip(New(order(), Options{Fields: orderFields(), Layout: LayoutPanel, Title: titleOf,
		Actions: actions(&calls), Styles: plain()}).View())
	lines := strings.Split(panel, "\n")
	var header string
	for _, l := range lines {
		if strings.Contains(l, "Order #1001") {
			header = l
			break
		}
	}
	assert.Contains(t, header, "Edit", "panel actions sit on the title line")
	assert.Equal(t, 1, strings.Count(panel, "Delete"))

	card := ansi.Strip(New(order(), Options{Fields: orderFields(), Layout: LayoutCard, Title: titleOf,
		Actions: actions(&calls), Styles: plain()}).View())
	cardLines := strings.Split(strings.TrimRight(card, "\n"), "\n")
	assert.Contains(t, cardLines[len(cardLines)-1], "Delete", "card actions are in the footer")
	assert.Equal(t, 1, strings.Count(card, "Delete"))
}

func TestActionsInvokeUnlessDisabled(t *testing.T) {
	var calls []string
	m := New(order(), Options{Fields: orderFields(), Actions: actions(&calls), Styles: plain()})

	m.Update(key("enter"))
	m.Update(key("right"))
	assert.Equal(t, 1, m.Focus())
	m.Update(key("enter"))
	m.Update(key("right"))
	m.Update(key("enter"))
	m.Update(key("right"))
	assert.Equal(t, 0, m.Focus(), "focus wraps")
	m.Update(key("left"))
	assert.Equal(t, 2, m.Focus())

	assert.Equal(t, []string{"edit 1001", "delete"}, calls)
	assert.Nil(t, m.Invoke(1))
	assert.Nil(t, m.Invoke(7))

	out := ansi.Strip(m.View())
	assert.Contains(t, out, "(Archive)")
	assert.Contains(t, out, "[>Delete<]")
}

func TestBackInvokesOnBack(t *testing.T) {
	m := New(order(), Options{Fields: orderFields(), Styles: plain(), OnBack: func() tea.Cmd {
		return func() tea.Msg { return backMsg{} }
	}})
	assert.Contains(t, ansi.Strip(m.View()), "← Back")

	_, cmd := m.Update(key("esc"))
	require.NotNil(t, cmd)
	assert.Equal(t, backMsg{}, cmd())

	m = New(order(), Options{Fields: orderFields(), Styles: plain()})
	_, cmd = m.Update(key("esc"))
	assert.Nil(t, cmd)
	assert.NotContains(t, ansi.Strip(m.View()), "← Back")
}

func TestImageAndSubtitle(t *testing.T) {
	m := New(order(), Options{
		Fields:   orderFields(),
		Layout:   LayoutDetails,
		Title:    titleOf,
		Subtitle: func(r record.Record) string { return r.String("customer") },
		Image:    func(record.Record) string { return "https://example.com/a.png" },
		Styles:   plain(),
	})
	out := ansi.Strip(m.View())
	assert.Contains(t, out, "[image: https://example.com/a.png]")
	assert.Less(t, strings.Index(out, "Order #1001"), strings.Index(out, "Acme Corp"))
}

func TestParseLayout(t *testing.T) {
	l, ok := ParseLayout("PANEL")
	require.True(t, ok)
	assert.Equal(t, LayoutPanel, l)
	_, ok = ParseLayout("grid")
	assert.False(t, ok)
}

func TestDataModelLoadsItem(t *testing.T) {
	dm := NewData(DataOptions{
		Source: mockdata.MustNewStore(mockdata.WithLatency(0)),
		Domain: domain.Orders,
		ItemID: "1001",
		Item:   Options{Fields: orderFields(), Title: titleOf, Styles: plain()},
	})
	load := dm.Load()
	assert.Contains(t, ansi.Strip(dm.View()), LoadingMessage)

	dm.Update(load())
	require.Equal(t, PhaseReady, dm.Phase())
	out := ansi.Strip(dm.View())
	assert.Contains(t, out, "Acme Corp")
	assert.Contains(t, out, "completed")
}

func TestDataModelNotFoundIsInline(t *testing.T) {
	backs := 0
	dm := NewData(DataOptions{
		Source: mockdata.MustNewStore(mockdata.WithLatency(0)),
		Domain: domain.Orders,
		ItemID: "9999",
		Item: Options{Fields: orderFields(), Styles: plain(), OnBack: func() tea.Cmd {
			backs++
			return nil
		}},
	})
	dm.Update(dm.Load()())
	assert.Equal(t, PhaseError, dm.Phase())
	assert.Equal(t, mockdata.NotFoundMessage, dm.ErrorText())
	assert.Contains(t, ansi.Strip(dm.View()), "Item not found")

	dm.Update(key("esc"))
	assert.Equal(t, 1, backs, "back works from the error state")
}

func TestDataModelFetchFailure(t *testing.T) {
	dm := NewData(DataOptions{Source: mockdata.FailingSource{Err: errors.New("db down")}, Domain: domain.Users, ItemID: "1"})
	dm.Update(dm.Load()())
	assert.Equal(t, PhaseError, dm.Phase())
	assert.Equal(t, ErrorMessage, dm.ErrorText())
}

func TestDataModelDropsStaleResult(t *testing.T) {
	dm := NewData(DataOptions{
		Source: mockdata.MustNewStore(mockdata.WithLatency(0)),
		Domain: domain.Users,
		ItemID: "1",
		Item:   Options{Fields: []schema.Field{{Key: "firstName", Label: "First", Value: schema.Key("firstName")}}},
	})
	first := dm.Load()
	second := dm.SetItem(domain.Users, "2")

	dm.Update(second())
	dm.Update(first())
	require.Equal(t, PhaseReady, dm.Phase())
	assert.Equal(t, "Jane", dm.Item().Record().String("firstName"))
}
