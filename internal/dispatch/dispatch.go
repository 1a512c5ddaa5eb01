// Package dispatch turns displayComponent tool calls into Display values:
// a fully built list, item or form component plus the state the root
// model shows about it. Every navigation replaces the Display wholesale.
package dispatch

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/uideck/internal/catalog"
	"github.com/oakwood-commons/uideck/internal/celx"
	"github.com/oakwood-commons/uideck/internal/domain"
	"github.com/oakwood-commons/uideck/internal/form"
	"github.com/oakwood-commons/uideck/internal/formview"
	"github.com/oakwood-commons/uideck/internal/itemview"
	"github.com/oakwood-commons/uideck/internal/listview"
	"github.com/oakwood-commons/uideck/internal/metrics"
	"github.com/oakwood-commons/uideck/internal/mockdata"
	"github.com/oakwood-commons/uideck/internal/record"
	"github.com/oakwood-commons/uideck/internal/theme"
	"github.com/oakwood-commons/uideck/internal/ui/component"
)

// ToolName is the name of the single assistant tool.
const ToolName = "displayComponent"

// Failure messages reported in Result.Error.
const (
	ErrItemIDRequired   = "itemId is required for item component"
	ErrInvalidComponent = "Invalid component type"
	errInvalidDataType  = "Invalid data type: "
)

// Kind is the component shown in the display panel.
type Kind string

const (
	KindDemo Kind = "demo"
	KindList Kind = "list"
	KindItem Kind = "item"
	KindForm Kind = "form"
)

// ComponentTypes lists the kinds a tool call may request.
var ComponentTypes = []string{string(KindList), string(KindForm), string(KindItem)}

// ToolArgs are the displayComponent arguments.
type ToolArgs struct {
	ComponentType string `json:"componentType"`
	DataType      string `json:"dataType"`
	ItemID        string `json:"itemId,omitempty"`
	Layout        string `json:"layout,omitempty"`
}

// Result is reported back to the caller of displayComponent.
type Result struct {
	Success       bool   `json:"success"`
	ComponentType string `json:"componentType,omitempty"`
	DataType      string `json:"dataType,omitempty"`
	ItemID        string `json:"itemId,omitempty"`
	Layout        string `json:"layout,omitempty"`
	Error         string `json:"error,omitempty"`
}

func failure(msg string) Result { return Result{Success: false, Error: msg} }

// BackTarget is the list an item view returns to.
type BackTarget struct {
	Domain domain.Domain
	Layout string
}

// Display is the state of the display panel.
type Display struct {
	Kind      Kind
	Domain    domain.Domain
	Layout    string
	ItemID    string
	Title     string
	Back      *BackTarget
	Component component.Model
}

// Label is the "<kind> - <domain>" summary shown above the panel.
func (d Display) Label() string {
	return fmt.Sprintf("%s - %s", d.Kind, d.Domain)
}

// NavigateMsg replaces the display.
type NavigateMsg struct {
	Display Display
}

// Navigate returns a command emitting a NavigateMsg for disp.
func Navigate(disp Display) tea.Cmd {
	return component.Emit(NavigateMsg{Display: disp})
}

// Snapshotter renders a display to plain text once its data has loaded.
type Snapshotter func(disp Display) string

// Options configure a Dispatcher.
type Options struct {
	ListLayout      listview.Layout
	ItemLayout      itemview.Layout
	SuccessDuration time.Duration
	Recorder        metrics.Recorder
	Evaluator       *celx.Evaluator
	Logger          logr.Logger
	Context         context.Context
	Styles          *theme.Styles
}

// Dispatcher builds displays over a data source and a catalog.
type Dispatcher struct {
	src  mockdata.Source
	cat  *catalog.Catalog
	opts Options
}

// New creates a Dispatcher. Zero options fall back to the table list
// layout, the panel item layout and a noop recorder.
func New(src mockdata.Source, cat *catalog.Catalog, opts Options) *Dispatcher {
	if opts.ListLayout == "" {
		opts.ListLayout = listview.LayoutTable
	}
	if opts.ItemLayout == "" {
		opts.ItemLayout = itemview.LayoutPanel
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.Noop{}
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Logger.GetSink() == nil {
		opts.Logger = logr.Discard()
	}
	if cat == nil {
		cat = catalog.New(opts.Logger)
	}
	return &Dispatcher{src: src, cat: cat, opts: opts}
}

// Catalog returns the configuration catalog.
func (d *Dispatcher) Catalog() *catalog.Catalog { return d.cat }

// Dispatch validates args and builds the requested display. On failure
// the returned Display is zero and nothing is fetched.
func (d *Dispatcher) Dispatch(ctx context.Context, args ToolArgs) (Result, Display) {
	res, disp := d.dispatch(ctx, args)
	outcome := metrics.OutcomeOK
	if !res.Success {
		outcome = metrics.OutcomeFailed
	}
	d.opts.Recorder.ToolCall(args.ComponentType, args.DataType, outcome)
	log := d.opts.Logger.WithValues("componentType", args.ComponentType, "dataType", args.DataType,
		"itemId", args.ItemID, "layout", args.Layout)
	if res.Success {
		log.V(1).Info("dispatched tool call")
	} else {
		log.Info("rejected tool call", "error", res.Error)
	}
	return res, disp
}

func (d *Dispatcher) dispatch(_ context.Context, args ToolArgs) (Result, Display) {
	kind := Kind(strings.ToLower(strings.TrimSpace(args.ComponentType)))
	switch kind {
	case KindList, KindItem, KindForm:
	default:
		return failure(ErrInvalidComponent), Display{}
	}
	itemID := strings.TrimSpace(args.ItemID)
	if kind == KindItem && itemID == "" {
		return failure(ErrItemIDRequired), Display{}
	}
	dom, err := domain.Parse(args.DataType)
	if err != nil {
		return failure(errInvalidDataType + args.DataType), Display{}
	}

	res := Result{Success: true, ComponentType: string(kind), DataType: dom.String()}
	var disp Display
	switch kind {
	case KindList:
		disp = d.ShowList(dom, args.Layout)
		res.Layout = disp.Layout
	case KindItem:
		disp = d.ShowItem(dom, itemID, args.Layout, nil)
		res.ItemID = itemID
		res.Layout = disp.Layout
	case KindForm:
		disp, err = d.ShowForm(dom)
		if err != nil {
			d.opts.Logger.Error(err, "building form", "domain", dom.String())
			return failure(err.Error()), Display{}
		}
	}
	return res, disp
}

// Demo is the initial display.
func (d *Dispatcher) Demo() Display {
	return Display{Kind: KindDemo, Domain: domain.Products, Component: newDemo(d.styles())}
}

func (d *Dispatcher) styles() theme.Styles {
	if d.opts.Styles != nil {
		return *d.opts.Styles
	}
	return theme.DefaultStyles(false)
}

func (d *Dispatcher) listLayout(s string) listview.Layout {
	if l, ok := listview.ParseLayout(s); ok {
		return l
	}
	if s != "" {
		d.opts.Logger.V(1).Info("unknown list layout, using default", "layout", s, "default", d.opts.ListLayout)
	}
	return d.opts.ListLayout
}

func (d *Dispatcher) itemLayout(s string) itemview.Layout {
	if l, ok := itemview.ParseLayout(s); ok {
		return l
	}
	if s != "" {
		d.opts.Logger.V(1).Info("unknown item layout, using default", "layout", s, "default", d.opts.ItemLayout)
	}
	return d.opts.ItemLayout
}

// ShowList builds a list display. Selecting an item navigates to its
// detail with a back target pointing at this list and layout.
func (d *Dispatcher) ShowList(dom domain.Domain, layout string) Display {
	l := d.listLayout(layout)
	back := &BackTarget{Domain: dom, Layout: string(l)}
	onClick := func(key any) tea.Cmd {
		return Navigate(d.ShowItem(dom, record.Stringify(key), "", back))
	}
	title := d.cat.Titles(dom).List
	dm := listview.NewData(listview.DataOptions{
		Source: d.src,
		Domain: dom,
		List: listview.Options{
			Config: d.cat.ListConfig(dom, onClick),
			Layout: l,
			Title:  title,
			Styles: d.opts.Styles,
		},
		Context: d.opts.Context,
	})
	return Display{Kind: KindList, Domain: dom, Layout: string(l), Title: title, Component: dm}
}

// ShowItem builds an item display. With back set the view offers a back
// action that rebuilds that list.
func (d *Dispatcher) ShowItem(dom domain.Domain, itemID, layout string, back *BackTarget) Display {
	l := d.itemLayout(layout)
	var onBack func() tea.Cmd
	if back != nil {
		target := *back
		onBack = func() tea.Cmd {
			return Navigate(d.ShowList(target.Domain, target.Layout))
		}
	}
	opts := d.cat.ItemOptions(dom, l, onBack)
	opts.Styles = d.opts.Styles
	dm := itemview.NewData(itemview.DataOptions{
		Source:  d.src,
		Domain:  dom,
		ItemID:  itemID,
		Item:    opts,
		Context: d.opts.Context,
	})
	return Display{Kind: KindItem, Domain: dom, Layout: string(l), ItemID: itemID, Back: back, Component: dm}
}

// ShowForm builds the creation form of dom. Submissions are simulated.
func (d *Dispatcher) ShowForm(dom domain.Domain) (Display, error) {
	submit := d.cat.Submit(dom)
	rec := d.opts.Recorder
	title := d.cat.Titles(dom).Form
	fm, err := formview.New(formview.Options{
		Fields: d.cat.FormFields(dom),
		OnSubmit: func(ctx context.Context, data form.Data) error {
			err := submit(ctx, data)
			outcome := metrics.OutcomeOK
			if err != nil {
				outcome = metrics.OutcomeError
			}
			rec.FormSubmission(dom, outcome)
			return err
		},
		Title:           title,
		SubmitText:      formview.DefaultSubmitText,
		ShowSuccess:     true,
		SuccessDuration: d.opts.SuccessDuration,
		Evaluator:       d.opts.Evaluator,
		Logger:          d.opts.Logger.WithName("form").WithValues("domain", dom.String()),
		Context:         d.opts.Context,
		Styles:          d.opts.Styles,
	})
	if err != nil {
		return Display{}, fmt.Errorf("build %s form: %w", dom, err)
	}
	return Display{Kind: KindForm, Domain: dom, Title: title, Component: fm}, nil
}
