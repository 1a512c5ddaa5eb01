package listview

import (
	"context"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/uideck/internal/domain"
	"github.com/oakwood-commons/uideck/internal/mockdata"
	"github.com/oakwood-commons/uideck/internal/theme"
	"github.com/oakwood-commons/uideck/internal/ui/component"
	"github.com/oakwood-commons/uideck/pkg/logger"
)

// Messages shown when a fetch does not produce a list.
const (
	FailedMessage = "Failed to load data"
	ErrorMessage  = "An error occurred while loading data"
)

// DataOptions configure a DataModel.
type DataOptions struct {
	Source  mockdata.Source
	Domain  domain.Domain
	List    Options
	Context context.Context
}

// DataPhase is the fetch state of a DataModel.
type DataPhase int

const (
	PhaseLoading DataPhase = iota
	PhaseReady
	PhaseError
)

// LoadedMsg carries a list fetch result back to the DataModel that issued it.
type LoadedMsg struct {
	id     int
	token  uint64
	Result mockdata.ListResult
	Err    error
}

// DataModel fetches a domain's records and renders them with a Model.
// Every fetch is tagged with a token; results carrying an older token than
// the latest issued one are dropped.
type DataModel struct {
	id      int
	opts    DataOptions
	styles  theme.Styles
	token   uint64
	phase   DataPhase
	errText string
	list    *Model
	spinner spinner.Model
	width   int
	height  int
}

// NewData creates a DataModel. Init starts the first fetch.
func NewData(opts DataOptions) *DataModel {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	styles := theme.DefaultStyles(false)
	if opts.List.Styles != nil {
		styles = *opts.List.Styles
	}
	return &DataModel{
		id:      nextID(),
		opts:    opts,
		styles:  styles,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styles.Accent)),
	}
}

// Init implements component.Model.
func (m *DataModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.Load())
}

// Load issues a fetch for the current domain, superseding any in flight.
func (m *DataModel) Load() tea.Cmd {
	m.token++
	m.phase = PhaseLoading
	m.errText = ""
	id, token := m.id, m.token
	src, d, ctx := m.opts.Source, m.opts.Domain, m.opts.Context
	return func() tea.Msg {
		res, err := src.ListRecords(ctx, d)
		return LoadedMsg{id: id, token: token, Result: res, Err: err}
	}
}

// SetDomain switches to another domain and refetches.
func (m *DataModel) SetDomain(d domain.Domain) tea.Cmd {
	m.opts.Domain = d
	return m.Load()
}

// Domain returns the domain being shown.
func (m *DataModel) Domain() domain.Domain { return m.opts.Domain }

// Phase returns the fetch state.
func (m *DataModel) Phase() DataPhase { return m.phase }

// ErrorText returns the user-facing error of a failed fetch.
func (m *DataModel) ErrorText() string { return m.errText }

// List returns the loaded list, or nil before the first successful fetch.
func (m *DataModel) List() *Model { return m.list }

// Title returns the list heading.
func (m *DataModel) Title() string { return m.opts.List.Title }

// Capturing implements component.Capturing.
func (m *DataModel) Capturing() bool {
	return m.list != nil && m.phase == PhaseReady && m.list.Capturing()
}

// SetSize implements component.Sized.
func (m *DataModel) SetSize(width, height int) {
	m.width, m.height = width, height
	if m.list != nil {
		m.list.SetSize(width, height)
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
			logger.FromContext(m.opts.Context).V(1).Info("dropping stale list result",
				"domain", m.opts.Domain.String(), "token", msg.token, "latest", m.token)
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
	if m.phase == PhaseReady && m.list != nil {
		_, cmd := m.list.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *DataModel) apply(msg LoadedMsg) {
	switch {
	case msg.Err != nil:
		logger.FromContext(m.opts.Context).Error(msg.Err, "list fetch failed", "domain", m.opts.Domain.String())
		m.phase = PhaseError
		m.errText = ErrorMessage
	case !msg.Result.Success:
		m.phase = PhaseError
		m.errText = FailedMessage
	default:
		m.phase = PhaseReady
		if m.list != nil {
			m.list.SetItems(msg.Result.Data)
			return
		}
		m.list = New(msg.Result.Data, m.opts.List)
		if m.width > 0 || m.height > 0 {
			m.list.SetSize(m.width, m.height)
		}
	}
}

// View implements component.Model.
func (m *DataModel) View() string {
	switch m.phase {
	case PhaseLoading:
		what := m.opts.List.Title
		if what == "" {
			what = "data"
		}
		return m.spinner.View() + " " + m.styles.Muted.Render("Loading "+what+"...")
	case PhaseError:
		return m.styles.Error.Bold(true).Render("Error") + "\n" + m.styles.Error.Render(m.errText)
	}
	return m.list.View()
}
