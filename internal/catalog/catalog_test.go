package catalog

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/uideck/internal/domain"
	"github.com/oakwood-commons/uideck/internal/form"
	"github.com/oakwood-commons/uideck/internal/itemview"
	"github.com/oakwood-commons/uideck/internal/mockdata"
	"github.com/oakwood-commons/uideck/internal/record"
	"github.com/oakwood-commons/uideck/internal/schema"
	"github.com/oakwood-commons/uideck/internal/ui/component"
)

func seed(t *testing.T, d domain.Domain) []record.Record {
	t.Helper()
	res, err := mockdata.MustNewStore(mockdata.WithLatency(0)).ListRecords(context.Background(), d)
	require.NoError(t, err)
	return res.Data
}

func TestEveryDomainHasValidConfigs(t *testing.T) {
	c := New(logr.Discard())
	for _, d := range domain.All() {
		t.Run(d.String(), func(t *testing.T) {
			cfg := c.ListConfig(d, nil)
			require.NoError(t, cfg.Validate())
			require.NoError(t, schema.ValidateFields(c.ItemFields(d)))
			require.NoError(t, schema.ValidateFormFields(c.FormFields(d)))

			titles := c.Titles(d)
			assert.NotEmpty(t, titles.List)
			assert.NotEmpty(t, titles.Form)

			for _, r := range seed(t, d) {
				require.NotNil(t, cfg.Status(r))
				assert.NotEmpty(t, cfg.Status(r).Label)
				assert.NotEmpty(t, c.ItemTitle(d)(r))
			}

			_, err := form.New(c.FormFields(d))
			assert.NoError(t, err)
		})
	}
}

func TestProductConfig(t *testing.T) {
	c := New(logr.Discard())
	cfg := c.ListConfig(domain.Products, nil)
	assert.Equal(t, []string{"name", "category"}, cfg.SearchFields)
	assert.True(t, cfg.ShowNumbers)

	hub := record.Record{"id": 3, "name": "USB-C Hub", "price": 49.99, "inStock": false}
	assert.Equal(t, &schema.Status{Label: "Out of Stock", Color: colorRed}, cfg.Status(hub))
	price, ok := cfg.Column("price")
	require.True(t, ok)
	assert.Equal(t, "$49.99", price.Display(hub))
	assert.Equal(t, 3, cfg.KeyOf(hub))
}

func TestUserAndEmployeeRendering(t *testing.T) {
	c := New(logr.Discard())
	users := seed(t, domain.Users)
	assert.Equal(t, "John Doe", c.ItemTitle(domain.Users)(users[0]))
	assert.Equal(t, "Admin", c.ItemSubtitle(domain.Users)(users[0]))
	assert.Nil(t, c.ItemSubtitle(domain.Products))

	emps := seed(t, domain.Employees)
	cfg := c.ListConfig(domain.Employees, nil)
	salary, _ := cfg.Column("salary")
	assert.Equal(t, "$250,000", salary.Display(emps[0]))
	exp, _ := cfg.Column("experience")
	assert.Equal(t, "15 years", exp.Display(emps[0]))
	assert.Equal(t, colorAmber, cfg.Status(emps[3]).Color)
}

func TestOrderFields(t *testing.T) {
	c := New(logr.Discard())
	orders := seed(t, domain.Orders)
	fields := c.ItemFields(domain.Orders)
	assert.Equal(t, "#1001", fields[0].Display(orders[0]))
	assert.Equal(t, "Order #1001", c.ItemTitle(domain.Orders)(orders[0]))
	assert.Equal(t, colorBlue, c.ListConfig(domain.Orders, nil).Status(orders[2]).Color)
}

func TestItemActionsFlash(t *testing.T) {
	c := New(logr.Discard())
	actions := c.ItemActions(domain.Products)
	require.Len(t, actions, 2)
	assert.Equal(t, itemview.VariantDanger, actions[1].Variant)

	cmd := actions[0].OnClick(record.Record{"id": 1})
	require.NotNil(t, cmd)
	assert.Equal(t, component.FlashMsg{Text: "Edit product", Level: component.FlashInfo}, cmd())

	assert.Empty(t, c.ItemActions(domain.Orders))
}

func TestListConfigCallsOnClick(t *testing.T) {
	var got any
	c := New(logr.Discard())
	cfg := c.ListConfig(domain.Users, func(key any) tea.Cmd {
		got = key
		return nil
	})
	cfg.OnItemClick(cfg.KeyOf(record.Record{"id": 2}))
	assert.Equal(t, 2, got)
}

func TestSubmitIsSimulated(t *testing.T) {
	c := New(logr.Discard())
	f, err := form.New(c.FormFields(domain.Products), form.WithInitialData(form.Data{
		"name": "Desk Lamp", "category": "accessories", "price": "19.99", "stock": "4",
	}))
	require.NoError(t, err)
	errs, err := f.Submit(context.Background(), c.Submit(domain.Products))
	require.NoError(t, err)
	assert.Empty(t, errs)

	assert.ErrorIs(t, c.Submit("pets")(context.Background(), form.Data{}), domain.ErrUnknownDomain)
}
