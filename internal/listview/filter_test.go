package listview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/uideck/internal/record"
	"github.com/oakwood-commons/uideck/internal/schema"
)

func products() []record.Record {
	return []record.Record{
		{"id": 1, "name": "Laptop Pro 15", "category": "Electronics", "price": 1299.99, "stock": 45},
		{"id": 2, "name": "Wireless Mouse", "category": "Accessories", "price": 29.99, "stock": 8},
		{"id": 3, "name": "USB-C Hub", "category": "Accessories", "price": 49.99, "stock": 0},
		{"id": 4, "name": "4K Monitor", "category": "Electronics", "price": 399.99, "stock": 23},
		{"id": 5, "name": "Mechanical Keyboard", "category": "Accessories", "price": 149.99, "stock": 15},
	}
}

func productConfig() Config {
	return Config{
		Columns: []schema.Column{
			{Key: "name", Label: "Product Name", Value: schema.Key("name"), Sortable: true},
			{Key: "category", Label: "Category", Value: schema.Key("category"), Sortable: true},
			{Key: "price", Label: "Price", Value: schema.Key("price"), Render: schema.Currency, Sortable: true},
			{Key: "stock", Label: "Stock", Value: schema.Key("stock")},
		},
		Searchable: true,
	}
}

func ids(items []record.Record) []float64 {
	out := make([]float64, 0, len(items))
	for _, r := range items {
		id, _ := record.ID(r)
		out = append(out, id)
	}
	return out
}

func TestFilterHubYieldsUSBCHub(t *testing.T) {
	got := Filter(products(), productConfig(), "hub")
	require.Len(t, got, 1)
	assert.Equal(t, []float64{3}, ids(got))
}

func TestFilterBlankQueryKeepsEverything(t *testing.T) {
	items := products()
	for _, q := range []string{"", "   ", "\t"} {
		assert.Len(t, Filter(items, productConfig(), q), len(items), "query %q", q)
	}
}

func TestFilterTrimsAndLowercasesQuery(t *testing.T) {
	got := Filter(products(), productConfig(), "  MONITOR ")
	assert.Equal(t, []float64{4}, ids(got))
}

func TestFilterNotSearchableIgnoresQuery(t *testing.T) {
	cfg := productConfig()
	cfg.Searchable = false
	assert.Len(t, Filter(products(), cfg, "hub"), 5)
}

func TestFilterUsesSearchFieldsWhenSet(t *testing.T) {
	cfg := productConfig()
	cfg.SearchFields = []string{"category"}

	assert.Empty(t, Filter(products(), cfg, "hub"), "name is not a search field")
	assert.Equal(t, []float64{1, 4}, ids(Filter(products(), cfg, "electro")))
}

func TestFilterMatchesExtractedNumbers(t *testing.T) {
	assert.Equal(t, []float64{2}, ids(Filter(products(), productConfig(), "29.99")))
}

func TestFilterResultIsSubsetContainingQuery(t *testing.T) {
	items := products()
	for _, q := range []string{"a", "o", "es", "1", "zzz"} {
		got := Filter(items, productConfig(), q)
		assert.LessOrEqual(t, len(got), len(items))
		for _, r := range got {
			assert.True(t, matches(r, productConfig(), q), "query %q", q)
		}
	}
}

func TestSortStateToggle(t *testing.T) {
	cfg := productConfig()
	var st SortState
	assert.False(t, st.Active())

	st = st.Toggle("price", cfg)
	assert.Equal(t, SortState{Column: "price"}, st)

	st = st.Toggle("price", cfg)
	assert.Equal(t, SortState{Column: "price", Desc: true}, st)

	st = st.Toggle("price", cfg)
	assert.Equal(t, SortState{Column: "price"}, st)

	st = st.Toggle("price", cfg).Toggle("name", cfg)
	assert.Equal(t, SortState{Column: "name"}, st, "another column starts ascending")

	assert.Equal(t, st, st.Toggle("stock", cfg), "stock is not sortable")
	assert.Equal(t, st, st.Toggle("missing", cfg))
}

func TestSortAscendingDescending(t *testing.T) {
	cfg := productConfig()
	asc := Sort(products(), cfg, SortState{Column: "price"})
	assert.Equal(t, []float64{2, 3, 5, 4, 1}, ids(asc))

	desc := Sort(products(), cfg, SortState{Column: "price", Desc: true})
	assert.Equal(t, []float64{1, 4, 5, 3, 2}, ids(desc))
}

func TestSortIsStable(t *testing.T) {
	got := Sort(products(), productConfig(), SortState{Column: "category"})
	assert.Equal(t, []float64{2, 3, 5, 1, 4}, ids(got))

	got = Sort(products(), productConfig(), SortState{Column: "category", Desc: true})
	assert.Equal(t, []float64{1, 4, 2, 3, 5}, ids(got))
}

func TestSortDoesNotMutateInput(t *testing.T) {
	items := products()
	_ = Sort(items, productConfig(), SortState{Column: "name"})
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, ids(items))
}

func TestSortInactiveReturnsInput(t *testing.T) {
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, ids(Sort(products(), productConfig(), SortState{})))
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, ids(Sort(products(), productConfig(), SortState{Column: "nope"})))
}

func TestParseLayoutAndNext(t *testing.T) {
	l, ok := ParseLayout(" Grid ")
	require.True(t, ok)
	assert.Equal(t, LayoutGrid, l)

	_, ok = ParseLayout("cards")
	assert.False(t, ok)

	assert.Equal(t, LayoutGrid, LayoutTable.Next())
	assert.Equal(t, LayoutList, LayoutGrid.Next())
	assert.Equal(t, LayoutTable, LayoutList.Next())
}

func TestCountLabel(t *testing.T) {
	assert.Equal(t, "0 items", CountLabel(0))
	assert.Equal(t, "1 item", CountLabel(1))
	assert.Equal(t, "5 items", CountLabel(5))
}

func TestConfigKeyOfDefaultsToID(t *testing.T) {
	cfg := productConfig()
	assert.Equal(t, 3, cfg.KeyOf(products()[2]))

	cfg.ItemKey = schema.Key("name")
	assert.Equal(t, "USB-C Hub", cfg.KeyOf(products()[2]))
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, productConfig().Validate())

	cfg := productConfig()
	cfg.Columns = append(cfg.Columns, schema.Column{Key: "name", Value: schema.Key("name")})
	assert.ErrorIs(t, cfg.Validate(), schema.ErrInvalidDescriptor)
}
