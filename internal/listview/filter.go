// Package listview renders a collection of records as a table, a grid of
// cards or a plain list, with search, single-column sort and selection.
package listview

import (
	"fmt"
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/uideck/internal/record"
	"github.com/oakwood-commons/uideck/internal/schema"
)

// Layout selects how items are arranged.
type Layout string

const (
	LayoutTable Layout = "table"
	LayoutGrid  Layout = "grid"
	LayoutList  Layout = "list"
)

// Layouts lists the layouts in cycling order.
var Layouts = []Layout{LayoutTable, LayoutGrid, LayoutList}

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

// Next returns the layout after l in cycling order.
func (l Layout) Next() Layout {
	for i, known := range Layouts {
		if known == l {
			return Layouts[(i+1)%len(Layouts)]
		}
	}
	return LayoutTable
}

// Config describes how a list projects and interacts with its records.
type Config struct {
	Columns []schema.Column
	// ItemKey identifies an item. Defaults to the record id.
	ItemKey schema.Extractor
	// OnItemClick receives the key of a selected item. It is ignored when
	// the list shows details in place.
	OnItemClick func(key any) tea.Cmd
	Status      func(r record.Record) *schema.Status
	ShowNumbers bool
	Searchable  bool
	// SearchFields restricts search to these record keys. Empty means every
	// column's extracted value.
	SearchFields []string
}

// Validate checks the column descriptors.
func (c Config) Validate() error {
	if err := schema.ValidateColumns(c.Columns); err != nil {
		return fmt.Errorf("list config: %w", err)
	}
	return nil
}

// Column looks up a column by key.
func (c Config) Column(key string) (schema.Column, bool) {
	for _, col := range c.Columns {
		if col.Key == key {
			return col, true
		}
	}
	return schema.Column{}, false
}

// KeyOf returns the key of r.
func (c Config) KeyOf(r record.Record) any {
	if c.ItemKey != nil {
		return c.ItemKey(r)
	}
	return r.Get(record.IDKey)
}

// Filter keeps the items matching query. Matching is a case-insensitive
// substring test against the search fields, or every column value when no
// search fields are configured. A blank query or a non-searchable config
// returns items unchanged.
func Filter(items []record.Record, cfg Config, query string) []record.Record {
	q := strings.ToLower(strings.TrimSpace(query))
	if !cfg.Searchable || q == "" {
		return items
	}
	out := make([]record.Record, 0, len(items))
	for _, item := range items {
		if matches(item, cfg, q) {
			out = append(out, item)
		}
	}
	return out
}

func matches(item record.Record, cfg Config, q string) bool {
	if len(cfg.SearchFields) > 0 {
		for _, key := range cfg.SearchFields {
			if strings.Contains(strings.ToLower(record.Stringify(item.Get(key))), q) {
				return true
			}
		}
		return false
	}
	for _, col := range cfg.Columns {
		if col.Value == nil {
			continue
		}
		if strings.Contains(strings.ToLower(record.Stringify(col.Value(item))), q) {
			return true
		}
	}
	return false
}

// SortState is the active sort column and direction. The zero value is
// unsorted.
type SortState struct {
	Column string
	Desc   bool
}

// Active reports whether a column is selected.
func (s SortState) Active() bool { return s.Column != "" }

// Toggle applies a header click on key. Clicking the active column flips
// the direction; clicking another sortable column sorts it ascending.
// Non-sortable or unknown columns leave the state unchanged.
func (s SortState) Toggle(key string, cfg Config) SortState {
	col, ok := cfg.Column(key)
	if !ok || !col.Sortable {
		return s
	}
	if s.Column == key {
		return SortState{Column: key, Desc: !s.Desc}
	}
	return SortState{Column: key}
}

// Indicator returns the arrow shown next to the header of key.
func (s SortState) Indicator(key string) string {
	if s.Column != key {
		return ""
	}
	if s.Desc {
		return "↓"
	}
	return "↑"
}

// Sort returns a sorted copy of items. Equal values keep their relative
// order. An inactive state or an unknown column returns items unchanged.
func Sort(items []record.Record, cfg Config, st SortState) []record.Record {
	if !st.Active() {
		return items
	}
	col, ok := cfg.Column(st.Column)
	if !ok || col.Value == nil {
		return items
	}
	out := make([]record.Record, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		c := record.Compare(col.Value(out[i]), col.Value(out[j]))
		if st.Desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

// Visible applies Filter then Sort.
func Visible(items []record.Record, cfg Config, query string, st SortState) []record.Record {
	return Sort(Filter(items, cfg, query), cfg, st)
}

// CountLabel renders the item count line.
func CountLabel(n int) string {
	if n == 1 {
		return "1 item"
	}
	return fmt.Sprintf("%d items", n)
}
