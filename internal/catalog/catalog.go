// Package catalog holds the per-domain list, item and form configurations
// the dispatcher hands to the generic components.
package catalog

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/uideck/internal/domain"
	"github.com/oakwood-commons/uideck/internal/form"
	"github.com/oakwood-commons/uideck/internal/itemview"
	"github.com/oakwood-commons/uideck/internal/listview"
	"github.com/oakwood-commons/uideck/internal/record"
	"github.com/oakwood-commons/uideck/internal/schema"
	"github.com/oakwood-commons/uideck/internal/ui/component"
)

// Status colors shared by the list configurations.
const (
	colorGreen  = "#10b981"
	colorRed    = "#ef4444"
	colorGray   = "#6b7280"
	colorAmber  = "#f59e0b"
	colorBlue   = "#3b82f6"
	colorIndigo = "#667eea"
)

// Titles are the headings used for a domain.
type Titles struct {
	List string
	Form string
}

// Catalog builds configurations. Simulated actions and submissions are
// logged through Logger.
type Catalog struct {
	log logr.Logger
}

// New returns a Catalog logging to log.
func New(log logr.Logger) *Catalog {
	return &Catalog{log: log}
}

// Titles returns the list and form headings of d.
func (c *Catalog) Titles(d domain.Domain) Titles {
	switch d {
	case domain.Products:
		return Titles{List: "Product Catalog", Form: "Add New Product"}
	case domain.Users:
		return Titles{List: "User Directory", Form: "Create User Account"}
	case domain.Employees:
		return Titles{List: "Employee Directory", Form: "Add Employee"}
	case domain.Orders:
		return Titles{List: "Order Management", Form: "Create Order"}
	}
	return Titles{}
}

func fullName(r record.Record) any {
	return r.String("firstName") + " " + r.String("lastName")
}

// ListConfig returns the list configuration of d. onClick receives the
// key of a selected item.
func (c *Catalog) ListConfig(d domain.Domain, onClick func(key any) tea.Cmd) listview.Config {
	cfg := listview.Config{
		ItemKey:     schema.Key(record.IDKey),
		OnItemClick: onClick,
		Searchable:  true,
	}
	switch d {
	case domain.Products:
		cfg.Columns = []schema.Column{
			{Key: "name", Label: "Product", Value: schema.Key("name"), Sortable: true},
			{Key: "category", Label: "Category", Value: schema.Key("category"), Sortable: true},
			{Key: "price", Label: "Price", Value: schema.Key("price"), Render: schema.Currency, Sortable: true},
			{Key: "stock", Label: "Stock", Value: schema.Key("stock"), Sortable: true},
		}
		cfg.Status = func(r record.Record) *schema.Status {
			if b, _ := r.Get("inStock").(bool); b {
				return &schema.Status{Label: "In Stock", Color: colorGreen}
			}
			return &schema.Status{Label: "Out of Stock", Color: colorRed}
		}
		cfg.SearchFields = []string{"name", "category"}
		cfg.ShowNumbers = true
	case domain.Users:
		cfg.Columns = []schema.Column{
			{Key: "name", Label: "Name", Value: fullName, Sortable: true},
			{Key: "email", Label: "Email", Value: schema.Key("email")},
			{Key: "role", Label: "Role", Value: schema.Key("role"), Sortable: true},
			{Key: "department", Label: "Department", Value: schema.Key("department"), Sortable: true},
		}
		cfg.Status = func(r record.Record) *schema.Status {
			if b, _ := r.Get("active").(bool); b {
				return &schema.Status{Label: "Active", Color: colorGreen}
			}
			return &schema.Status{Label: "Inactive", Color: colorGray}
		}
		cfg.ShowNumbers = true
	case domain.Employees:
		cfg.Columns = []schema.Column{
			{Key: "name", Label: "Name", Value: schema.Key("name"), Sortable: true},
			{Key: "position", Label: "Position", Value: schema.Key("position"), Sortable: true},
			{Key: "salary", Label: "Salary", Value: schema.Key("salary"), Render: schema.GroupedCurrency, Sortable: true},
			{Key: "experience", Label: "Experience", Value: schema.Key("experience"), Render: schema.Years, Sortable: true},
		}
		cfg.Status = func(r record.Record) *schema.Status {
			s := r.String("status")
			if s == "active" {
				return &schema.Status{Label: s, Color: colorGreen}
			}
			return &schema.Status{Label: s, Color: colorAmber}
		}
	case domain.Orders:
		cfg.Columns = []schema.Column{
			{Key: "id", Label: "Order ID", Value: schema.Key("id"), Sortable: true},
			{Key: "customer", Label: "Customer", Value: schema.Key("customer"), Sortable: true},
			{Key: "product", Label: "Product", Value: schema.Key("product")},
			{Key: "amount", Label: "Amount", Value: schema.Key("amount"), Render: schema.Currency, Sortable: true},
			{Key: "date", Label: "Date", Value: schema.Key("date"), Sortable: true},
		}
		cfg.Status = orderStatus
	}
	return cfg
}

func orderStatus(r record.Record) *schema.Status {
	s := r.String("status")
	colors := map[string]string{"completed": colorGreen, "pending": colorAmber, "processing": colorBlue}
	return &schema.Status{Label: s, Color: colors[s]}
}

// ItemFields returns the detail fields of d.
func (c *Catalog) ItemFields(d domain.Domain) []schema.Field {
	switch d {
	case domain.Products:
		return []schema.Field{
			{Key: "name", Label: "Product Name", Value: schema.Key("name"), Highlight: true, Span: 2},
			{Key: "category", Label: "Category", Value: schema.Key("category"), Section: "Basic Info"},
			{Key: "price", Label: "Price", Value: schema.Key("price"), Render: schema.Currency, Section: "Basic Info"},
			{Key: "stock", Label: "Stock", Value: schema.Key("stock"), Section: "Inventory"},
			{Key: "rating", Label: "Rating", Value: schema.Key("rating"), Render: schema.Rating, Section: "Reviews"},
		}
	case domain.Users:
		return []schema.Field{
			{Key: "name", Label: "Full Name", Value: fullName, Highlight: true, Span: 2},
			{Key: "email", Label: "Email", Value: schema.Key("email"), Section: "Contact"},
			{Key: "role", Label: "Role", Value: schema.Key("role"), Badge: true, BadgeColor: colorIndigo, Section: "Work Info"},
			{Key: "department", Label: "Department", Value: schema.Key("department"), Section: "Work Info"},
			{Key: "joinDate", Label: "Join Date", Value: schema.Key("joinDate"), Render: schema.LocaleDate, Section: "Work Info"},
		}
	case domain.Employees:
		return []schema.Field{
			{Key: "name", Label: "Name", Value: schema.Key("name"), Highlight: true, Span: 2},
			{Key: "position", Label: "Position", Value: schema.Key("position"), Section: "Position"},
			{Key: "salary", Label: "Salary", Value: schema.Key("salary"), Render: schema.GroupedCurrency, Section: "Compensation"},
			{Key: "experience", Label: "Experience", Value: schema.Key("experience"), Render: schema.Years, Section: "Experience"},
		}
	case domain.Orders:
		return []schema.Field{
			{Key: "id", Label: "Order ID", Value: func(r record.Record) any { return "#" + record.Stringify(r.Get("id")) }, Highlight: true},
			{Key: "customer", Label: "Customer", Value: schema.Key("customer"), Section: "Details"},
			{Key: "product", Label: "Product", Value: schema.Key("product"), Section: "Details"},
			{Key: "amount", Label: "Amount", Value: schema.Key("amount"), Render: schema.Currency, Section: "Payment"},
			{Key: "date", Label: "Date", Value: schema.Key("date"), Section: "Timeline"},
		}
	}
	return nil
}

// simulated returns an action handler that logs and flashes text.
func (c *Catalog) simulated(d domain.Domain, action, text string) func(record.Record) tea.Cmd {
	return func(r record.Record) tea.Cmd {
		c.log.Info("simulated item action", "domain", d.String(), "action", action, "id", record.Stringify(r.Get(record.IDKey)))
		return component.Flash(component.FlashInfo, text)
	}
}

// ItemActions returns the actions offered on a detail view of d.
func (c *Catalog) ItemActions(d domain.Domain) []itemview.Action {
	switch d {
	case domain.Products:
		return []itemview.Action{
			{Label: "Edit", Icon: "✏️", Variant: itemview.VariantPrimary, OnClick: c.simulated(d, "edit", "Edit product")},
			{Label: "Delete", Icon: "🗑️", Variant: itemview.VariantDanger, OnClick: c.simulated(d, "delete", "Delete product")},
		}
	case domain.Users:
		return []itemview.Action{
			{Label: "Edit Profile", Icon: "✏️", Variant: itemview.VariantPrimary, OnClick: c.simulated(d, "edit", "Edit user")},
			{Label: "Reset Password", Icon: "🔑", Variant: itemview.VariantSecondary, OnClick: c.simulated(d, "reset-password", "Reset password")},
		}
	}
	return nil
}

// ItemTitle returns the title resolver of d.
func (c *Catalog) ItemTitle(d domain.Domain) itemview.Resolver {
	switch d {
	case domain.Users:
		return func(r record.Record) string { return record.Stringify(fullName(r)) }
	case domain.Orders:
		return func(r record.Record) string { return "Order #" + record.Stringify(r.Get("id")) }
	}
	return func(r record.Record) string { return r.String("name") }
}

// ItemSubtitle returns the subtitle resolver of d, or nil.
func (c *Catalog) ItemSubtitle(d domain.Domain) itemview.Resolver {
	switch d {
	case domain.Users:
		return func(r record.Record) string { return r.String("role") }
	case domain.Employees:
		return func(r record.Record) string { return r.String("position") }
	}
	return nil
}

// ItemOptions assembles the item view options of d.
func (c *Catalog) ItemOptions(d domain.Domain, layout itemview.Layout, onBack func() tea.Cmd) itemview.Options {
	return itemview.Options{
		Fields:   c.ItemFields(d),
		Title:    c.ItemTitle(d),
		Subtitle: c.ItemSubtitle(d),
		Actions:  c.ItemActions(d),
		Layout:   layout,
		OnBack:   onBack,
	}
}

func fp(v float64) *float64 { return &v }

func opts(pairs ...string) []schema.Option {
	out := make([]schema.Option, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, schema.Option{Label: pairs[i], Value: pairs[i+1]})
	}
	return out
}

// FormFields returns the creation form of d.
func (c *Catalog) FormFields(d domain.Domain) []schema.FormField {
	switch d {
	case domain.Products:
		return []schema.FormField{
			schema.TextField{FieldBase: schema.FieldBase{Name: "name", Label: "Product Name", Required: true, Placeholder: "Enter product name"}},
			schema.SelectField{FieldBase: schema.FieldBase{Name: "category", Label: "Category", Required: true},
				Options: opts("Electronics", "electronics", "Accessories", "accessories")},
			schema.NumberField{FieldBase: schema.FieldBase{Name: "price", Label: "Price", Required: true}, Min: fp(0.01), Step: 0.01},
			schema.NumberField{FieldBase: schema.FieldBase{Name: "stock", Label: "Stock Quantity", Required: true}, Min: fp(0)},
		}
	case domain.Users:
		return []schema.FormField{
			schema.TextField{FieldBase: schema.FieldBase{Name: "firstName", Label: "First Name", Required: true}},
			schema.TextField{FieldBase: schema.FieldBase{Name: "lastName", Label: "Last Name", Required: true}},
			schema.TextField{FieldBase: schema.FieldBase{Name: "email", Label: "Email", Required: true, Placeholder: "name@example.com"}, Kind: schema.TypeEmail},
			schema.SelectField{FieldBase: schema.FieldBase{Name: "role", Label: "Role", Required: true},
				Options: opts("Admin", "Admin", "Manager", "Manager", "Developer", "Developer", "Designer", "Designer")},
			schema.TextField{FieldBase: schema.FieldBase{Name: "department", Label: "Department"}},
			schema.CheckboxField{FieldBase: schema.FieldBase{Name: "flags", Label: "Account", HelpText: "Inactive accounts cannot sign in"},
				Options: opts("Active", "active")},
		}
	case domain.Employees:
		return []schema.FormField{
			schema.TextField{FieldBase: schema.FieldBase{Name: "name", Label: "Name", Required: true}},
			schema.TextField{FieldBase: schema.FieldBase{Name: "position", Label: "Position", Required: true}},
			schema.NumberField{FieldBase: schema.FieldBase{Name: "salary", Label: "Salary", Required: true}, Min: fp(0), Step: 1000},
			schema.NumberField{FieldBase: schema.FieldBase{Name: "experience", Label: "Experience (years)"}, Min: fp(0), Max: fp(60)},
			schema.RadioField{FieldBase: schema.FieldBase{Name: "status", Label: "Status", Default: "active"},
				Options: opts("Active", "active", "Vacation", "vacation")},
		}
	case domain.Orders:
		return []schema.FormField{
			schema.TextField{FieldBase: schema.FieldBase{Name: "customer", Label: "Customer", Required: true}},
			schema.TextField{FieldBase: schema.FieldBase{Name: "product", Label: "Product", Required: true}},
			schema.NumberField{FieldBase: schema.FieldBase{Name: "amount", Label: "Amount", Required: true}, Min: fp(0.01), Step: 0.01},
			schema.SelectField{FieldBase: schema.FieldBase{Name: "status", Label: "Status", Default: "pending"},
				Options: opts("Pending", "pending", "Processing", "processing", "Completed", "completed")},
			schema.TextField{FieldBase: schema.FieldBase{Name: "date", Label: "Date", Placeholder: "YYYY-MM-DD"}, Kind: schema.TypeDate},
			schema.TextAreaField{FieldBase: schema.FieldBase{Name: "notes", Label: "Notes"}, Rows: 3, MaxLength: 500},
		}
	}
	return nil
}

// Submit returns the simulated submission handler of d's form.
func (c *Catalog) Submit(d domain.Domain) form.SubmitFunc {
	return func(_ context.Context, data form.Data) error {
		if !d.Valid() {
			return fmt.Errorf("submit %q: %w", d, domain.ErrUnknownDomain)
		}
		c.log.Info("simulated form submission", "domain", d.String(), "fields", len(data))
		c.log.V(1).Info("form data", "domain", d.String(), "data", data)
		return nil
	}
}
