package itemview

import (
	"context"
	"sync/atomic"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/uideck/internal/domain"
	"github.com/oakwood-commons/uideck/internal/mockdata"
	"github.com/oakwood-commons/uideck/internal/theme"
	"github.com/oakwood-commons/uideck/internal/ui/component"
	"github.com/oakwood-commons/uideck/pkg/logger"
)

// Messages shown while or instead of rendering the item.
const (
	LoadingMessage = "Loading item details..."
	FailedMessage  = "Failed to load data"
	ErrorMessage   = "An error occurred while loading data"
)

var lastID int64

// DataOptions configure a DataModel.
type DataOptions struct {
	Source  mockdata.Source
	Domain  domain.Domain
	ItemID  string
	Item    Options
	Context context.Context
}

// DataPhase is the fetch state of a DataModel.
type DataPhase int

const (
	PhaseLoading DataPhase = iota
	PhaseReady
	PhaseError
)

// LoadedMsg carries an item fetch result back to the DataModel that issued it.
type LoadedMsg struct {
	id     int
	token  uint64
	Result mockdata.ItemResult
	Err    error
}

// DataModel fetches one record and renders it with a Model. Results of
// superseded fetches are dropped.
type DataModel struct {
	id      int
	opts    DataOptions
	styles  theme.Styles
	token   uint64
	phase   DataPhase
	errText string
	item    *Model
	spinner spinner.Model
	width   int
	height  int
}

// NewData creates a DataModel. Init starts the fetch.
func NewData(opts DataOptions) *DataModel {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	styles := theme.DefaultStyles(false)
	if opts.Item.Styles != nil {
		styles = *opts.Item.Styles
	}
	return &DataModel{
		id:      int(atomic.AddInt64(&lastID, 1)),
		opts:    opts,
		styles:  styles,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.Accent)),
	}
}

// Init implements component.Model.
func (m *DataModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.Load())
}

// Load fetches the current item, superseding any fetch in flight.
func (m *DataModel) Load() tea.Cmd {
	m.token++
	m.phase = PhaseLoading
	m.errText = ""
	id, token := m.id, m.token
	src, d, itemID, ctx := m.opts.Source, m.opts.Domain, m.opts.ItemID, m.opts.Context
	return func() tea.Msg {
		res, err := src.GetRecord(ctx, d, itemID)
		return LoadedMsg{id: id, token: token, Result: res, Err: err}
	}
}

// SetItem switches to another record and refetches.
func (m *DataModel) SetItem(d domain.Domain, itemID string) tea.Cmd {
	m.opts.Domain, m.opts.ItemID = d, itemID
	return m.Load()
}

// Domain returns the domain of the requested record.
func (m *DataModel) Domain() domain.Domain { return m.opts.Domain }

// ItemID returns the requested id.
func (m *DataModel) ItemID() string { return m.opts.ItemID }

// Phase returns the fetch state.
func (m *DataModel) Phase() DataPhase { return m.phase }

// ErrorText returns the inline error of a failed fetch.
func (m *DataModel) ErrorText() string { return m.errText }

// Item returns the loaded item view, or nil.
func (m *DataModel) Item() *Model { return m.item }

// SetSize implements component.Sized.
func (m *DataModel) SetSize(width, height int) {
	m.width, m.height = width, height
	if m.item != nil {
		m.item.SetSize(width, height)
	}
}

// Update implements component.Model.
func (m *DataModel) Update(msg tea.Msg) (component.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		if msg.id != m.id {
			break
		}
		if msg.token != m.token {
			logger.FromContext(m.opts.Context).V(1).Info("dropping stale item result",
				"domain", m.opts.Domain.String(), "id", m.opts.ItemID, "token", msg.token)
			return m, nil
		}
		m.apply(msg)
		return m, nil
	case spinner.TickMsg:
		if m.phase != PhaseLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	switch m.phase {
	case PhaseReady:
		_, cmd := m.item.Update(msg)
		return m, cmd
	case PhaseError:
		if k, ok := msg.(tea.KeyPressMsg); ok && m.opts.Item.OnBack != nil {
			if s := k.String(); s == "esc" || s == "backspace" {
				return m, m.opts.Item.OnBack()
			}
		}
	}
	return m, nil
}

func (m *DataModel) apply(msg LoadedMsg) {
	log := logger.FromContext(m.opts.Context)
	switch {
	case msg.Err != nil:
		log.Error(msg.Err, "item fetch failed", "domain", m.opts.Domain.String(), "id", m.opts.ItemID)
		m.phase = PhaseError
		m.errText = ErrorMessage
	case !msg.Result.Success:
		log.V(1).Info("item not loaded", "domain", m.opts.Domain.String(), "id", m.opts.ItemID, "error", msg.Result.Error)
		m.phase = PhaseError
		m.errText = msg.Result.Error
		if m.errText == "" {
			m.errText = FailedMessage
		}
	default:
		m.phase = PhaseReady
		m.item = New(msg.Result.Data, m.opts.Item)
		if m.width > 0 || m.height > 0 {
			m.item.SetSize(m.width, m.height)
		}
	}
}

// View implements component.Model.
func (m *DataModel) View() string {
	switch m.phase {
	case PhaseLoading:
		return m.spinner.View() + " " + m.styles.Muted.Render(LoadingMessage)
	case PhaseError:
		out := m.styles.Error.Bold(true).Render("Error") + "\n" + m.styles.Error.Render(m.errText)
		if m.opts.Item.OnBack != nil {
			out = m.styles.Key.Render("← Back") + m.styles.Muted.Render(" (esc)") + "\n" + out
		}
		return out
	}
	return m.item.View()
}
