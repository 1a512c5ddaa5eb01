package listview

import (
	"fmt"
	"strings"
	"sync/atomic"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/uideck/internal/record"
	"github.com/oakwood-commons/uideck/internal/theme"
	"github.com/oakwood-commons/uideck/internal/ui/component"
	"github.com/oakwood-commons/uideck/internal/ui/table"
)

// DefaultEmptyMessage is shown when there is nothing to list.
const DefaultEmptyMessage = "No items to display"

const (
	cardWidth     = 26
	maxColumnSize = 32
	defaultWidth  = 80
)

var lastID int64

func nextID() int { return int(atomic.AddInt64(&lastID, 1)) }

// Options configure a list Model.
type Options struct {
	Config       Config
	Layout       Layout
	Title        string
	Description  string
	EmptyMessage string
	// ItemView renders a selected item in place of the list. Running back
	// returns to the list exactly as it was left. When set, selection never
	// reaches Config.OnItemClick.
	ItemView func(r record.Record, back tea.Cmd) component.Model
	Styles   *theme.Styles
}

type backMsg struct{ id int }

type row struct {
	n int
	r record.Record
}

// Model is the interactive list component.
type Model struct {
	id      int
	opts    Options
	styles  theme.Styles
	items   []record.Record
	visible []record.Record

	layout    Layout
	sort      SortState
	search    textinput.Model
	searching bool
	cursor    int
	offset    int

	tbl    *table.Model[row]
	detail component.Model

	width  int
	height int
}

// New creates a list over items. The default layout is grid.
func New(items []record.Record, opts Options) *Model {
	if opts.Layout == "" {
		opts.Layout = LayoutGrid
	}
	if opts.EmptyMessage == "" {
		opts.EmptyMessage = DefaultEmptyMessage
	}
	styles := theme.DefaultStyles(false)
	if opts.Styles != nil {
		styles = *opts.Styles
	}

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "Search..."
	ti.SetWidth(30)

	m := &Model{
		id:     nextID(),
		opts:   opts,
		styles: styles,
		items:  items,
		layout: opts.Layout,
		search: ti,
		width:  defaultWidth,
	}
	m.tbl = table.NewModel(nil, m.tableRow)
	m.tbl.SetNoColor(styles.NoColor)
	m.tbl.SetColors(styles.Theme.HeaderFG, styles.Theme.SelectedFG, styles.Theme.SelectedBG)
	m.refresh()
	return m
}

// Init implements component.Model.
func (m *Model) Init() tea.Cmd { return nil }

// Title returns the list heading.
func (m *Model) Title() string { return m.opts.Title }

// Items returns the unfiltered items.
func (m *Model) Items() []record.Record { return m.items }

// SetItems replaces the item set and clears search, sort, selection and
// any in-place item view. The layout is kept.
func (m *Model) SetItems(items []record.Record) {
	m.items = items
	m.search.SetValue("")
	m.search.Blur()
	m.searching = false
	m.sort = SortState{}
	m.cursor = 0
	m.offset = 0
	m.detail = nil
	m.refresh()
}

// Visible returns the filtered and sorted items in display order.
func (m *Model) Visible() []record.Record { return m.visible }

// Layout returns the current layout.
func (m *Model) Layout() Layout { return m.layout }

// SetLayout switches layout keeping search, sort and selection.
func (m *Model) SetLayout(l Layout) {
	m.layout = l
	m.offset = 0
	m.refresh()
}

// Query returns the search text.
func (m *Model) Query() string { return m.search.Value() }

// SetQuery replaces the search text.
func (m *Model) SetQuery(q string) {
	m.search.SetValue(q)
	m.cursor = 0
	m.offset = 0
	m.refresh()
}

// SortState returns the active sort.
func (m *Model) SortState() SortState { return m.sort }

// ToggleSort applies a header click on the column with key.
func (m *Model) ToggleSort(key string) {
	m.sort = m.sort.Toggle(key, m.opts.Config)
	m.refresh()
}

// Cursor returns the selected index into Visible.
func (m *Model) Cursor() int { return m.cursor }

// SetCursor moves the selection.
func (m *Model) SetCursor(i int) {
	m.cursor = i
	m.refresh()
}

// Selected returns the item under the cursor.
func (m *Model) Selected() (record.Record, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return nil, false
	}
	return m.visible[m.cursor], true
}

// InDetail reports whether an item is shown in place of the list.
func (m *Model) InDetail() bool { return m.detail != nil }

// Detail returns the in-place item view, if any.
func (m *Model) Detail() component.Model { return m.detail }

// Back leaves the in-place item view.
func (m *Model) Back() { m.detail = nil }

// Capturing reports whether keys go to the search box or a capturing detail.
func (m *Model) Capturing() bool {
	if m.detail != nil {
		if c, ok := m.detail.(component.Capturing); ok {
			return c.Capturing()
		}
		return false
	}
	return m.searching
}

// SetSize implements component.Sized.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if s, ok := m.detail.(component.Sized); ok {
		s.SetSize(width, height)
	}
	m.refresh()
}

// Select activates the item under the cursor.
func (m *Model) Select() tea.Cmd {
	r, ok := m.Selected()
	if !ok {
		return nil
	}
	if m.opts.ItemView != nil {
		id := m.id
		m.detail = m.opts.ItemView(r, component.Emit(backMsg{id: id}))
		if s, ok := m.detail.(component.Sized); ok {
			s.SetSize(m.width, m.height)
		}
		return m.detail.Init()
	}
	if m.opts.Config.OnItemClick != nil {
		return m.opts.Config.OnItemClick(m.opts.Config.KeyOf(r))
	}
	return nil
}

// Update implements component.Model.
func (m *Model) Update(msg tea.Msg) (component.Model, tea.Cmd) {
	if b, ok := msg.(backMsg); ok && b.id == m.id {
		m.detail = nil
		return m, nil
	}
	if m.detail != nil {
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		if m.searching {
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			return m, cmd
		}
		return m, nil
	}
	if len(m.items) == 0 {
		return m, nil
	}
	if m.searching {
		return m, m.updateSearch(key)
	}
	return m, m.handleKey(key)
}

func (m *Model) updateSearch(key tea.KeyPressMsg) tea.Cmd {
	switch key.String() {
	case "enter", "down":
		m.searching = false
		m.search.Blur()
		return nil
	case "esc":
		m.searching = false
		m.search.Blur()
		m.SetQuery("")
		return nil
	}
	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(key)
	if m.search.Value() != before {
		m.cursor = 0
		m.offset = 0
		m.refresh()
	}
	return cmd
}

func (m *Model) handleKey(key tea.KeyPressMsg) tea.Cmd {
	switch k := key.String(); k {
	case "/":
		if m.opts.Config.Searchable {
			m.searching = true
			return m.search.Focus()
		}
	case "esc":
		if m.Query() != "" {
			m.SetQuery("")
		}
	case "s":
		m.cycleSort()
	case "S":
		m.reverseSort()
	case "L":
		m.SetLayout(m.layout.Next())
	case "enter":
		return m.Select()
	case "up", "k", "down", "j", "left", "h", "right", "l", "home", "g", "end", "G", "pgup", "pgdown":
		m.move(k, key)
	default:
		if len(k) == 1 && k[0] >= '1' && k[0] <= '9' {
			i := int(k[0] - '1')
			if i < len(m.opts.Config.Columns) {
				m.ToggleSort(m.opts.Config.Columns[i].Key)
			}
		}
	}
	return nil
}

func (m *Model) move(k string, key tea.KeyPressMsg) {
	n := len(m.visible)
	if n == 0 {
		return
	}
	if m.layout == LayoutTable {
		m.tbl, _ = m.tbl.Update(key)
		m.cursor = m.tbl.Cursor()
		return
	}
	step := 1
	if m.layout == LayoutGrid {
		step = m.perRow()
	}
	switch k {
	case "up", "k":
		m.cursor -= step
	case "down", "j":
		m.cursor += step
	case "left", "h":
		if m.layout == LayoutGrid {
			m.cursor--
		}
	case "right", "l":
		if m.layout == LayoutGrid {
			m.cursor++
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = n - 1
	case "pgup":
		m.cursor -= step * m.pageRows()
	case "pgdown":
		m.cursor += step * m.pageRows()
	}
	m.cursor = clamp(m.cursor, 0, n-1)
	m.scroll()
}

func (m *Model) sortable() []string {
	var keys []string
	for _, c := range m.opts.Config.Columns {
		if c.Sortable {
			keys = append(keys, c.Key)
		}
	}
	return keys
}

// cycleSort activates the next sortable column ascending.
func (m *Model) cycleSort() {
	keys := m.sortable()
	if len(keys) == 0 {
		return
	}
	next := keys[0]
	for i, k := range keys {
		if k == m.sort.Column {
			next = keys[(i+1)%len(keys)]
			break
		}
	}
	m.sort = SortState{Column: next}
	m.refresh()
}

func (m *Model) reverseSort() {
	keys := m.sortable()
	if len(keys) == 0 {
		return
	}
	key := m.sort.Column
	if key == "" {
		key = keys[0]
	}
	m.ToggleSort(key)
}

func (m *Model) refresh() {
	m.visible = Visible(m.items, m.opts.Config, m.search.Value(), m.sort)
	m.cursor = clamp(m.cursor, 0, max(len(m.visible)-1, 0))
	m.tbl.SetColumns(m.tableColumns())
	rows := make([]row, len(m.visible))
	for i, r := range m.visible {
		rows[i] = row{n: i + 1, r: r}
	}
	m.tbl.SetRows(rows)
	m.tbl.SetSize(m.width, m.bodyHeight())
	m.tbl.SetCursor(m.cursor)
	m.scroll()
}

// scroll keeps the cursor inside the rendered window of grid and list layouts.
func (m *Model) scroll() {
	page := m.pageRows()
	line := m.cursor
	if m.layout == LayoutGrid {
		line = m.cursor / m.perRow()
	}
	if line < m.offset {
		m.offset = line
	}
	if page > 0 && line >= m.offset+page {
		m.offset = line - page + 1
	}
}

func (m *Model) perRow() int {
	return max(1, (m.width+1)/(cardWidth+5))
}

func (m *Model) cardHeight() int {
	h := 2 + 2*len(m.opts.Config.Columns)
	if m.opts.Config.ShowNumbers {
		h++
	}
	if m.opts.Config.Status != nil {
		h++
	}
	return h
}

// pageRows is the number of card rows or list lines that fit. Zero means
// unbounded.
func (m *Model) pageRows() int {
	h := m.bodyHeight()
	if h <= 0 {
		return 0
	}
	if m.layout == LayoutGrid {
		return max(1, h/m.cardHeight())
	}
	return max(1, h)
}

func (m *Model) bodyHeight() int {
	if m.height <= 0 {
		return 0
	}
	return max(3, m.height-lipgloss.Height(m.headerView())-1)
}

func (m *Model) tableColumns() []table.Column {
	cfg := m.opts.Config
	var cols []table.Column
	if cfg.ShowNumbers {
		cols = append(cols, table.Column{Title: "#", Width: max(3, len(fmt.Sprint(len(m.visible)))+1)})
	}
	for _, c := range cfg.Columns {
		title := c.Label
		if ind := m.sort.Indicator(c.Key); ind != "" {
			title += " " + ind
		}
		w := c.Width
		if w <= 0 {
			w = runewidth.StringWidth(c.Label) + 2
			for _, r := range m.visible {
				w = max(w, runewidth.StringWidth(c.Display(r)))
			}
			w = min(w, maxColumnSize)
		}
		cols = append(cols, table.Column{Title: title, Width: w})
	}
	if cfg.Status != nil {
		w := len("Status")
		for _, r := range m.visible {
			if st := cfg.Status(r); st != nil {
				w = max(w, runewidth.StringWidth(st.Label))
			}
		}
		cols = append(cols, table.Column{Title: "Status", Width: w})
	}
	return cols
}

func (m *Model) tableRow(v row) table.Row {
	cfg := m.opts.Config
	var out table.Row
	if cfg.ShowNumbers {
		out = append(out, fmt.Sprint(v.n))
	}
	for _, c := range cfg.Columns {
		out = append(out, c.Display(v.r))
	}
	if cfg.Status != nil {
		label := ""
		if st := cfg.Status(v.r); st != nil {
			label = st.Label
		}
		out = append(out, label)
	}
	return out
}

func (m *Model) headerView() string {
	var lines []string
	if m.opts.Title != "" {
		lines = append(lines, m.styles.Title.Render(m.opts.Title))
	}
	if m.opts.Description != "" {
		lines = append(lines, m.styles.Subtitle.Render(m.opts.Description))
	}
	if len(m.items) == 0 {
		return strings.Join(lines, "\n")
	}
	if m.opts.Config.Searchable {
		if m.searching || m.Query() != "" {
			lines = append(lines, m.search.View())
		} else {
			lines = append(lines, m.styles.Muted.Render("/ Search..."))
		}
	}
	lines = append(lines, m.sortLine())
	lines = append(lines, m.styles.Muted.Render(CountLabel(len(m.visible))))
	return strings.Join(lines, "\n")
}

func (m *Model) sortLine() string {
	label := "none"
	if col, ok := m.opts.Config.Column(m.sort.Column); ok {
		label = col.Label + " " + m.sort.Indicator(col.Key)
	}
	hint := "[" + string(m.layout) + "] s sort · S reverse · 1-9 column · L layout"
	return m.styles.Muted.Render("Sort: ") + m.styles.Accent.Render(label) + "  " + m.styles.Muted.Render(hint)
}

// View implements component.Model.
func (m *Model) View() string {
	if m.detail != nil {
		return m.detail.View()
	}
	header := m.headerView()
	var body string
	switch {
	case len(m.items) == 0 || len(m.visible) == 0:
		body = m.styles.Muted.Render(m.opts.EmptyMessage)
	case m.layout == LayoutTable:
		body = m.tbl.View()
	case m.layout == LayoutList:
		body = m.listView()
	default:
		body = m.gridView()
	}
	if header == "" {
		return body
	}
	return header + "\n\n" + body
}

func (m *Model) window(n int) (int, int) {
	page := m.pageRows()
	if page <= 0 {
		return 0, n
	}
	start := clamp(m.offset, 0, max(n-1, 0))
	return start, min(n, start+page)
}

func (m *Model) gridView() string {
	per := m.perRow()
	var rows []string
	for i := 0; i < len(m.visible); i += per {
		end := min(i+per, len(m.visible))
		cards := make([]string, 0, end-i)
		for j := i; j < end; j++ {
			if j > i {
				cards = append(cards, " ")
			}
			cards = append(cards, m.card(j, m.visible[j]))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	start, end := m.window(len(rows))
	return lipgloss.JoinVertical(lipgloss.Left, rows[start:end]...)
}

func (m *Model) card(i int, r record.Record) string {
	cfg := m.opts.Config
	var lines []string
	if cfg.ShowNumbers {
		lines = append(lines, m.styles.Muted.Render(fmt.Sprintf("#%d", i+1)))
	}
	for _, c := range cfg.Columns {
		lines = append(lines,
			m.styles.Label.Render(runewidth.Truncate(c.Label, cardWidth, "…")),
			m.styles.Text.Render(runewidth.Truncate(c.Display(r), cardWidth, "…")),
		)
	}
	if cfg.Status != nil {
		chip := ""
		if st := cfg.Status(r); st != nil {
			chip = m.styles.Chip(st.Label, st.Color)
		}
		lines = append(lines, chip)
	}
	style := m.styles.Card
	if i == m.cursor {
		style = m.styles.CardFocus
	}
	return style.Width(cardWidth + 4).Render(strings.Join(lines, "\n"))
}

func (m *Model) listView() string {
	cfg := m.opts.Config
	start, end := m.window(len(m.visible))
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		r := m.visible[i]
		parts := make([]string, 0, len(cfg.Columns))
		for _, c := range cfg.Columns {
			parts = append(parts, m.styles.Label.Render(c.Label+":")+" "+m.styles.Text.Render(c.Display(r)))
		}
		line := strings.Join(parts, m.styles.Muted.Render(" · "))
		if cfg.ShowNumbers {
			line = m.styles.Muted.Render(fmt.Sprintf("%d.", i+1)) + " " + line
		}
		if cfg.Status != nil {
			if st := cfg.Status(r); st != nil {
				line += "  " + m.styles.Chip(st.Label, st.Color)
			}
		}
		marker := "  "
		if i == m.cursor {
			marker = m.styles.Focused.Render("› ")
		}
		lines = append(lines, ansi.Truncate(marker+line, max(m.width, 20), "…"))
	}
	return strings.Join(lines, "\n")
}

func clamp(v, low, high int) int {
	return min(max(v, low), high)
}
