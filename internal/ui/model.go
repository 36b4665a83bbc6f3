package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"quotedesk/internal/catalog"
	"quotedesk/internal/config"
	"quotedesk/internal/domain"
	"quotedesk/internal/eventbus"
	"quotedesk/internal/logging"
	"quotedesk/internal/theme"
	"quotedesk/internal/ui/calculator"
	"quotedesk/internal/ui/commands"
	"quotedesk/internal/ui/input"
	inputtypes "quotedesk/internal/ui/input/types"
	"quotedesk/internal/ui/services/navigation"
	"quotedesk/internal/ui/state"
	"quotedesk/internal/ui/views"
)

var uiLog = logging.ForComponent(logging.CompUI)

const tickInterval = 80 * time.Millisecond

// Options wires the model to its collaborators
type Options struct {
	Config   *config.Config
	Bus      eventbus.EventBus
	Backend  commands.Backend // nil in demo mode
	Loader   *catalog.Loader
	Switcher *theme.Switcher
	DemoOnly bool

	// ExportDir receives the xlsx exports; the working directory when empty
	ExportDir string
}

// Model represents the UI state
type Model struct {
	bus    eventbus.EventBus
	config *config.Config
	state  *state.AppState

	width  int
	height int
	help   help.Model
	keys   keyMap

	inPagerMode bool
	ticking     bool

	renderer     *views.Renderer
	inputHandler *input.Handler
	cmdCtx       *commands.CommandContext
	switcher     *theme.Switcher
	calc         *calculator.Form // open quote form, nil when closed
	rate         *domain.ExchangeRate
	demoOnly     bool
	exportDir    string

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new UI model
func NewModel(opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	switcher := opts.Switcher
	if switcher == nil {
		switcher = theme.NewSwitcher(cfg.Theme.Cycle, cfg.Theme.Current)
	}
	loader := opts.Loader
	if loader == nil {
		loader = &catalog.Loader{Store: catalog.NewMemoryStore()}
	}

	appState := state.NewAppState(opts.DemoOnly)
	appState.Theme = switcher.Current()

	m := &Model{
		bus:          opts.Bus,
		config:       cfg,
		state:        appState,
		help:         help.New(),
		keys:         newKeyMap(),
		renderer:     views.NewRenderer(theme.PaletteFor(switcher.Current())),
		inputHandler: input.New(),
		switcher:     switcher,
		demoOnly:     opts.DemoOnly,
		exportDir:    opts.ExportDir,
		cmdCtx: &commands.CommandContext{
			Backend: opts.Backend,
			Loader:  loader,
			Bus:     opts.Bus,
			Timeout: cfg.API.Timeout.Duration * time.Duration(cfg.API.Retries+1),
		},
	}
	if m.exportDir == "" {
		m.exportDir = "."
	}
	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
}

// State exposes the application state
func (m *Model) State() *state.AppState {
	return m.state
}

// Init starts the animation tick and the first load of every tab
func (m *Model) Init() tea.Cmd {
	m.ticking = true
	cmds := []tea.Cmd{m.tick()}
	for _, t := range m.state.Tabs {
		cmds = append(cmds, m.load(t, 1))
	}
	if !m.demoOnly {
		cmds = append(cmds, commands.NewCandidatesCommand(m.cmdCtx).Execute())
	}
	return tea.Batch(cmds...)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		m.updateViewportHeight()
		return m, nil

	case tea.KeyMsg:
		if m.inPagerMode {
			return m, nil
		}
		prevMode := m.inputHandler.CurrentMode()
		ctx := &input.ModelContext{State: m.state}
		actions, cmd := m.inputHandler.HandleKey(msg, ctx)

		cmds := []tea.Cmd{cmd}
		for _, action := range actions {
			cmds = append(cmds, m.processAction(action, prevMode))
		}
		if m.inputHandler.CurrentMode() == inputtypes.ModeCalculator && prevMode != inputtypes.ModeCalculator {
			cmds = append(cmds, m.openCalculator())
		}
		return m, tea.Batch(cmds...)

	default:
		cmd := m.inputHandler.Update(msg)
		model, otherCmd := m.handleNonKeyboardMsg(msg)
		return model, tea.Batch(cmd, otherCmd)
	}
}

// handleNonKeyboardMsg handles timers, pager round trips and command results
func (m *Model) handleNonKeyboardMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if m.inPagerMode {
			m.ticking = false
			return m, nil
		}
		return m, m.tick()

	case clearStatusMsg:
		m.state.ClearStatus(msg.seq)
		return m, nil

	case filterTickMsg:
		if msg.seq == m.state.FilterSeq {
			if tab := m.state.ActiveTab(); tab != nil {
				tab.ApplyQuery(msg.query)
			}
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		if !m.ticking {
			m.ticking = true
			return m, m.tick()
		}
		return m, nil

	case pagerMsg:
		m.inPagerMode = false
		if msg.err != nil {
			return m, m.setStatus(state.StatusError, fmt.Sprintf("Pager failed: %v", msg.err))
		}
		return m, tea.ClearScreen

	case ConfigReloadedMsg:
		return m, m.applyConfig(msg.Config)

	case SystemThemeMsg:
		if err := m.switcher.Set(msg.Theme); err != nil {
			return m, nil
		}
		m.applyTheme(msg.Theme)
		return m, nil

	case quitMsg:
		m.closeCalculator()
		return m, tea.Quit

	case EventMsg:
		return m, m.handleEvent(msg.Event)

	case domain.DomainEvent:
		return m, m.handleEvent(msg)
	}
	return m, nil
}

// handleEvent applies a command result to the state
func (m *Model) handleEvent(ev eventbus.DomainEvent) tea.Cmd {
	switch ev := ev.(type) {
	case domain.RecordsLoadedEvent:
		tab := m.state.Tab(ev.Source)
		if tab == nil {
			return nil
		}
		tab.SetRecords(ev.Records)
		tab.Page = ev.Page
		tab.Stale = ev.Stale
		tab.Loading = false
		if ev.Source == domain.SourceCatalog && len(m.state.Customers) == 0 && len(m.state.Assets) == 0 {
			m.setCandidates(catalog.Customers(ev.Records), catalog.Assets(ev.Records))
		}
		if ev.Stale {
			return m.setStatus(state.StatusWarning, fmt.Sprintf("%s: backend unreachable, showing cached data", tab.Title))
		}
		return nil

	case commands.LoadFailedEvent:
		tab := m.state.Tab(ev.Source)
		if tab == nil {
			return nil
		}
		tab.Loading = false
		tab.Err = ev.Err.Error()
		return m.setStatus(state.StatusError, fmt.Sprintf("%s: %v", tab.Title, ev.Err))

	case domain.CandidatesLoadedEvent:
		m.setCandidates(ev.Customers, ev.Assets)
		return nil

	case domain.RateLoadedEvent:
		rate := ev.Rate
		m.rate = &rate
		if m.calc != nil {
			m.calc.SetRate(rate)
		}
		return nil

	case commands.QuoteStoredEvent:
		if m.calc != nil {
			m.calc.SetBusy(false)
			m.calc.SetResult(ev.Result)
		}
		return tea.Batch(
			m.setStatus(state.StatusSuccess, fmt.Sprintf("Quote #%d saved", ev.QuoteID)),
			m.reload(domain.SourceQuotes),
		)

	case domain.QuoteCalculatedEvent:
		if m.calc != nil {
			m.calc.SetBusy(false)
			m.calc.SetResult(ev.Result)
		}
		return nil

	case domain.QuoteApprovedEvent:
		return tea.Batch(
			m.setStatus(state.StatusSuccess, fmt.Sprintf("Quote approved as order #%d", ev.Approval.OrderID)),
			m.reload(domain.SourceQuotes),
			m.reload(domain.SourceOrders),
		)

	case domain.QuoteRejectedEvent:
		return tea.Batch(
			m.setStatus(state.StatusSuccess, fmt.Sprintf("Quote #%d rejected", ev.QuoteID)),
			m.reload(domain.SourceQuotes),
		)

	case domain.OrdersBatchEditedEvent:
		return m.batchDone(ev.Result, "updated")

	case domain.OrdersBatchDeletedEvent:
		return m.batchDone(ev.Result, "deleted")

	case domain.CustomerCreatedEvent:
		m.state.AddCustomer(ev.Customer.Name)
		if m.calc != nil {
			m.calc.SetBusy(false)
			m.calc.CustomerCreated(ev.Customer.Name)
		}
		return tea.Batch(
			m.setStatus(state.StatusSuccess, fmt.Sprintf("Customer %q created", ev.Customer.Name)),
			m.reload(domain.SourceCatalog),
		)

	case domain.AssetCreatedEvent:
		m.state.AddAsset(ev.Asset)
		if m.calc != nil {
			m.calc.SetBusy(false)
			m.calc.AssetCreated(ev.Asset)
		}
		return tea.Batch(
			m.setStatus(state.StatusSuccess, fmt.Sprintf("Asset %q created", ev.Asset.Name)),
			m.reload(domain.SourceCatalog),
		)

	case commands.ExportedEvent:
		return m.setStatus(state.StatusSuccess, fmt.Sprintf("Exported %d record(s) to %s", ev.Count, ev.Path))

	case domain.ErrorEvent:
		if m.calc != nil {
			m.calc.SetBusy(false)
		}
		text := ev.Message
		if ev.Err != nil {
			text = fmt.Sprintf("%s: %v", ev.Message, ev.Err)
		}
		return m.setStatus(state.StatusError, text)
	}
	return nil
}

// processAction executes a single action from the input handler.
// prevMode is the mode the key was pressed in.
func (m *Model) processAction(action inputtypes.Action, prevMode inputtypes.Mode) tea.Cmd {
	tab := m.state.ActiveTab()
	if tab == nil {
		if _, ok := action.(inputtypes.QuitAction); ok {
			return func() tea.Msg { return quitMsg{} }
		}
		return nil
	}

	switch a := action.(type) {
	case inputtypes.NavigateAction:
		tab.Nav.Navigate(navigation.Direction(a.Direction))

	case inputtypes.SelectAction:
		if rec, ok := tab.Current(); ok {
			tab.Selection.Toggle(rec.ID)
		}

	case inputtypes.SelectAllAction:
		tab.Selection.SelectAll(tab.Result.IDs())

	case inputtypes.DeselectAllAction:
		tab.Selection.DeselectAll()

	case inputtypes.SwitchTabAction:
		if a.Step != 0 {
			m.state.SwitchTab(a.Step)
		} else {
			m.state.SelectTab(a.Index)
		}

	case inputtypes.CycleCategoryAction:
		cat := tab.CycleCategory(a.Step)
		uiLog.Debug("category_changed", slog.String("source", string(tab.Source)), slog.String("category", cat))

	case inputtypes.UpdateTextAction:
		if prevMode == inputtypes.ModeFilter && m.inputHandler.CurrentMode() == inputtypes.ModeFilter {
			return m.scheduleFilter(a.Text)
		}

	case inputtypes.SubmitTextAction:
		if a.Mode == inputtypes.ModeFilter {
			m.state.FilterSeq++
			tab.ApplyQuery(a.Text)
		}

	case inputtypes.CancelTextAction:
		if prevMode == inputtypes.ModeFilter {
			m.state.FilterSeq++
			tab.ClearQuery()
		}

	case inputtypes.ClearFilterAction:
		m.state.FilterSeq++
		tab.ClearQuery()

	case inputtypes.PageAction:
		if tab.Page == nil {
			return nil
		}
		return m.load(tab, tab.Page.Page+a.Step)

	case inputtypes.RefreshAction:
		cmds := []tea.Cmd{m.reload(tab.Source)}
		if tab.Source == domain.SourceCatalog {
			cmds = append(cmds, commands.NewCandidatesCommand(m.cmdCtx).Execute())
		}
		return tea.Batch(cmds...)

	case inputtypes.OpenDetailAction:
		if rec, ok := tab.Current(); ok {
			return m.pagerCmd(m.renderer.RenderDetail(rec))
		}

	case inputtypes.DumpPageAction:
		return m.pagerCmd(m.renderer.RenderPage(tab.Title, tab.Page, tab.Result))

	case inputtypes.ShowHelpAction:
		return m.pagerCmd(m.renderer.RenderHelp())

	case inputtypes.ToggleThemeAction:
		name := m.switcher.Toggle()
		m.applyTheme(name)
		m.config.Theme.Current = name
		if m.bus != nil {
			m.bus.Publish(domain.ThemeChangedEvent{Theme: name})
		}
		return m.setStatus(state.StatusInfo, "Theme: "+name)

	case inputtypes.ExportAction:
		if tab.Result.Empty() {
			return m.setStatus(state.StatusWarning, catalog.EmptyTitle)
		}
		name := fmt.Sprintf("quotedesk-%s-%s.xlsx", tab.Source, time.Now().Format("20060102-150405"))
		return commands.NewExportCommand(m.cmdCtx, filepath.Join(m.exportDir, name), tab.Title, tab.Result).Execute()

	case inputtypes.ApproveQuoteAction:
		id, err := m.currentRef(tab)
		if err != nil {
			return m.setStatus(state.StatusError, err.Error())
		}
		return commands.NewApproveCommand(m.cmdCtx, id).Execute()

	case inputtypes.RejectQuoteAction:
		id, err := m.currentRef(tab)
		if err != nil {
			return m.setStatus(state.StatusError, err.Error())
		}
		return commands.NewRejectCommand(m.cmdCtx, id).Execute()

	case inputtypes.DeleteOrdersAction:
		ids, err := m.targetRefs(tab)
		if err != nil {
			return m.setStatus(state.StatusError, err.Error())
		}
		return commands.NewBatchDeleteCommand(m.cmdCtx, ids).Execute()

	case inputtypes.BatchEditAction:
		if a.DeliveryDate == "" && a.PaymentType == "" {
			return m.setStatus(state.StatusWarning, "Nothing to change")
		}
		if a.DeliveryDate != "" {
			if _, err := time.Parse("2006-01-02", a.DeliveryDate); err != nil {
				return m.setStatus(state.StatusError, fmt.Sprintf("Invalid delivery date %q", a.DeliveryDate))
			}
		}
		ids, err := m.targetRefs(tab)
		if err != nil {
			return m.setStatus(state.StatusError, err.Error())
		}
		return commands.NewBatchEditCommand(m.cmdCtx, ids, a.DeliveryDate, a.PaymentType).Execute()

	case inputtypes.CalculatorKeyAction:
		return m.handleCalculatorKey(a.Key)

	case inputtypes.QuitAction:
		return func() tea.Msg { return quitMsg{} }
	}
	return nil
}

// scheduleFilter debounces a query edit. Only the newest edit survives.
func (m *Model) scheduleFilter(query string) tea.Cmd {
	m.state.FilterSeq++
	seq := m.state.FilterSeq
	delay := m.config.UI.Debounce.Duration
	if delay <= 0 {
		return func() tea.Msg { return filterTickMsg{seq: seq, query: query} }
	}
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return filterTickMsg{seq: seq, query: query}
	})
}

// openCalculator shows the quote form and refreshes the exchange rate
func (m *Model) openCalculator() tea.Cmd {
	m.calc = calculator.New(m.state.Customers, m.state.Assets, calculator.Options{
		Limit:               m.config.UI.ComboboxLimit,
		AddNewCustomerLabel: m.config.UI.AddNewCustomerLabel,
		AddNewAssetLabel:    m.config.UI.AddNewAssetLabel,
	})
	if m.rate != nil {
		m.calc.SetRate(*m.rate)
	}
	if m.cmdCtx.Backend == nil {
		return nil
	}
	return commands.NewRateCommand(m.cmdCtx).Execute()
}

func (m *Model) closeCalculator() {
	if m.calc != nil {
		m.calc.Close()
		m.calc = nil
	}
	if m.inputHandler.CurrentMode() == inputtypes.ModeCalculator {
		m.inputHandler.Reset()
	}
}

func (m *Model) handleCalculatorKey(key tea.KeyMsg) tea.Cmd {
	if m.calc == nil {
		m.inputHandler.Reset()
		return nil
	}
	res, cmd := m.calc.HandleKey(key)

	switch res.Outcome {
	case calculator.OutcomeCancel:
		m.closeCalculator()
		return cmd

	case calculator.OutcomeSubmit:
		req, err := m.calc.Request()
		if err != nil {
			return tea.Batch(cmd, m.setStatus(state.StatusError, err.Error()))
		}
		m.calc.SetBusy(true)
		return tea.Batch(cmd, commands.NewCalculateCommand(m.cmdCtx, req, true).Execute())

	case calculator.OutcomeCreateCustomer:
		if res.Name == "" {
			return tea.Batch(cmd, m.setStatus(state.StatusWarning, "Name is required"))
		}
		m.calc.SetBusy(true)
		return tea.Batch(cmd, commands.NewCreateCustomerCommand(m.cmdCtx, res.Name).Execute())

	case calculator.OutcomeCreateAsset:
		if res.Name == "" {
			return tea.Batch(cmd, m.setStatus(state.StatusWarning, "Name is required"))
		}
		m.calc.SetBusy(true)
		return tea.Batch(cmd, commands.NewCreateAssetCommand(m.cmdCtx, res.Name, res.Price).Execute())
	}
	return cmd
}

// load marks tab busy and fetches the given page
func (m *Model) load(tab *state.Tab, page int) tea.Cmd {
	if page < 1 {
		page = 1
	}
	tab.Loading = true
	return commands.NewLoadCommand(m.cmdCtx, tab.Source, page).Execute()
}

// reload refetches src on its current page
func (m *Model) reload(src domain.Source) tea.Cmd {
	tab := m.state.Tab(src)
	if tab == nil {
		return nil
	}
	page := 1
	if tab.Page != nil {
		page = tab.Page.Page
	}
	return m.load(tab, page)
}

func (m *Model) batchDone(res domain.BatchResult, verb string) tea.Cmd {
	if tab := m.state.Tab(domain.SourceOrders); tab != nil {
		tab.Selection.DeselectAll()
	}
	text := res.Message
	if text == "" {
		text = fmt.Sprintf("%d order(s) %s", len(res.OrderIDs), verb)
	}
	return tea.Batch(m.setStatus(state.StatusSuccess, text), m.reload(domain.SourceOrders))
}

var errNoRecord = errors.New("no record under the cursor")

// currentRef returns the backend id of the record under the cursor
func (m *Model) currentRef(tab *state.Tab) (int, error) {
	rec, ok := tab.Current()
	if !ok {
		return 0, errNoRecord
	}
	return refID(rec)
}

// targetRefs maps the batch targets of tab to backend ids
func (m *Model) targetRefs(tab *state.Tab) ([]int, error) {
	targets := tab.Targets()
	if len(targets) == 0 {
		return nil, errNoRecord
	}
	ids := make([]int, 0, len(targets))
	for _, id := range targets {
		rec, ok := tab.Index.Lookup(id)
		if !ok {
			continue
		}
		ref, err := refID(rec)
		if err != nil {
			return nil, err
		}
		ids = append(ids, ref)
	}
	if len(ids) == 0 {
		return nil, errNoRecord
	}
	return ids, nil
}

func refID(rec domain.Record) (int, error) {
	id, err := strconv.Atoi(rec.Ref)
	if err != nil {
		return 0, fmt.Errorf("record %q has no backend id", rec.Title)
	}
	return id, nil
}

func (m *Model) setCandidates(customers []string, assets []domain.Asset) {
	m.state.Customers = append([]string(nil), customers...)
	m.state.Assets = append([]domain.Asset(nil), assets...)
	if m.calc != nil {
		m.calc.SetCustomers(m.state.Customers)
		m.calc.SetAssets(m.state.Assets)
	}
}

// setStatus shows a toast and schedules its removal
func (m *Model) setStatus(kind state.StatusKind, text string) tea.Cmd {
	seq := m.state.SetStatus(kind, text)
	timeout := m.config.UI.StatusTimeout.Duration
	if timeout <= 0 {
		return nil
	}
	return tea.Tick(timeout, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

func (m *Model) applyTheme(name string) {
	m.state.Theme = name
	m.renderer.SetPalette(theme.PaletteFor(name))
}

// applyConfig takes over a configuration re-read from disk
func (m *Model) applyConfig(cfg *config.Config) tea.Cmd {
	if cfg == nil {
		return nil
	}
	m.config = cfg
	if cfg.Theme.Current != "" && cfg.Theme.Current != m.switcher.Current() {
		if err := m.switcher.Set(cfg.Theme.Current); err == nil {
			m.applyTheme(cfg.Theme.Current)
		}
	}
	return m.setStatus(state.StatusInfo, "Configuration reloaded")
}

func (m *Model) updateViewportHeight() {
	m.state.SetViewportHeight(m.height - views.ChromeLines)
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// View renders the UI
func (m *Model) View() string {
	if m.inPagerMode {
		return ""
	}
	return m.renderer.Render(m.viewState())
}

func (m *Model) viewState() views.ViewState {
	vs := views.ViewState{
		Width:         m.width,
		Height:        m.height,
		StatusMessage: m.state.StatusMessage,
		StatusKind:    m.state.StatusKind,
		Calculator:    m.calc,
	}
	for i, t := range m.state.Tabs {
		vs.Tabs = append(vs.Tabs, views.TabHeader{
			Title:   t.Title,
			Active:  i == m.state.Active,
			Loading: t.Loading,
			Stale:   t.Stale,
		})
	}

	tab := m.state.ActiveTab()
	if tab != nil {
		vs.Source = tab.Source
		vs.Result = tab.Result
		vs.Loading = tab.Loading
		vs.Loaded = tab.Loaded
		vs.Stale = tab.Stale
		vs.Err = tab.Err
		vs.Page = tab.Page
		vs.Cursor = tab.Nav.GetCursor()
		vs.ViewportOffset = tab.Nav.GetViewportOffset()
		vs.ViewportHeight = tab.Nav.GetViewportHeight()
		vs.IsSelected = tab.Selection.IsSelected
		vs.SelectedCount = tab.Selection.GetCount()
		vs.Query = tab.Query
		vs.Category = tab.Index.State().ActiveCategory
		vs.HelpLine = m.help.View(m.keys.forSource(string(tab.Source)))
	}

	switch m.inputHandler.CurrentMode() {
	case inputtypes.ModeConfirm:
		vs.InputMode = "confirm"
		vs.Prompt = m.inputHandler.Prompt()
	case inputtypes.ModeFilter, inputtypes.ModeBatchEdit:
		vs.InputMode = m.inputHandler.ModeName()
		vs.Prompt = m.inputHandler.Prompt()
		if ti := m.inputHandler.TextInput(); ti != nil {
			vs.TextInput = ti.View()
		}
	}
	return vs
}
