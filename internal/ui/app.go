package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/ramyun/internal/catalog"
	"github.com/five82/ramyun/internal/favorite"
	"github.com/five82/ramyun/internal/fetch"
	"github.com/five82/ramyun/internal/prefs"
	"github.com/five82/ramyun/internal/query"
	"github.com/five82/ramyun/internal/recent"
	"github.com/five82/ramyun/internal/session"
	"github.com/five82/ramyun/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewSearch View = iota
	ViewRecent
	ViewDetail
)

// inputMode is what the status bar text input is editing.
type inputMode int

const (
	inputNone inputMode = iota
	inputName
	inputAddress
)

// ItemSource loads the detail record of one item.
type ItemSource interface {
	FetchItem(ctx context.Context, cred session.Credential, itemID int64) (catalog.Item, error)
}

// Options configures the UI.
type Options struct {
	Context    context.Context
	Controller *query.Controller
	Store      *state.Store
	Detail     *state.Detail
	Fetcher    *fetch.Fetcher
	Items      ItemSource
	Recent     *recent.Cache
	Favorites  *favorite.Reconciler
	Credential session.Credential
	// Changes delivers a value whenever the per-user store changes outside
	// this process. Nil disables live reloads of the recent list.
	Changes   <-chan struct{}
	// Pending delivers a value whenever a favorite toggle starts or ends.
	// Nil leaves pending marks to the next tick.
	Pending   <-chan struct{}
	PollTick  time.Duration
	ThemeName string
	PrefsPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Dependencies
	ctx       context.Context
	ctrl      *query.Controller
	store     *state.Store
	detail    *state.Detail
	fetcher   *fetch.Fetcher
	items     ItemSource
	recent    *recent.Cache
	favorites *favorite.Reconciler
	cred      session.Credential
	changes   <-chan struct{}
	pendingCh <-chan struct{}
	prefsPath string
	pollTick  time.Duration

	// UI state
	keys        keyMap
	theme       Theme
	currentView View
	returnView  View // where closing the detail view goes
	width       int
	height      int
	ready       bool
	showHelp    bool
	notice      notice

	// Search state
	current     query.Change
	snapshot    state.Snapshot
	selectedRow int
	showFilters bool
	filterRow   int

	// Status bar input
	input     textinput.Model
	inputMode inputMode

	// Recent state
	recentItems []catalog.Item
	recentPage  int
	recentTotal int
	recentRow   int
	recentErr   error

	// Detail state
	detailItem     catalog.Item
	detailViewport viewport.Model
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = time.Second
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = defaultThemeName
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	ctrl := opts.Controller
	if ctrl == nil {
		ctrl = query.NewController("")
	}
	store := opts.Store
	if store == nil {
		store = &state.Store{}
	}
	detail := opts.Detail
	if detail == nil {
		detail = &state.Detail{}
	}

	ti := textinput.New()
	ti.CharLimit = 200

	return Model{
		ctx:         ctx,
		ctrl:        ctrl,
		store:       store,
		detail:      detail,
		fetcher:     opts.Fetcher,
		items:       opts.Items,
		recent:      opts.Recent,
		favorites:   opts.Favorites,
		cred:        opts.Credential,
		changes:     opts.Changes,
		pendingCh:   opts.Pending,
		prefsPath:   prefsPath,
		pollTick:    pollTick,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(themeName),
		currentView: ViewSearch,
		current:     ctrl.Current(),
		snapshot:    store.Snapshot(),
		input:       ti,
		recentPage:  1,
		recentTotal: 1,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
		fetchSnapshotCmd(m.store),
	}
	if m.snapshot.Address != m.current.Address && !m.snapshot.Loading {
		cmds = append(cmds, searchCmd(m.ctx, m.fetcher, m.cred, m.current.State))
	}
	if cmd := waitForChangeCmd(m.changes); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if cmd := waitForPendingCmd(m.pendingCh); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resizeDetailViewport()
		return m, nil

	case tickMsg:
		return m.handleTick(time.Time(msg))

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case searchDoneMsg:
		if msg.err != nil && msg.applied && !errors.Is(msg.err, context.Canceled) {
			m.notify(noticeError, "Search failed: "+msg.err.Error())
		}
		m.applySnapshot(m.store.Snapshot())
		return m, nil

	case itemMsg:
		if msg.err != nil {
			zap.S().Debugw("item refresh failed", "item", m.detailItem.ID, "error", msg.err)
			return m, nil
		}
		if m.detail.Refresh(msg.gen, msg.item) {
			m.syncDetail()
		}
		return m, nil

	case favoriteMsg:
		if kind, text, ok := favoriteNotice(msg.outcome, msg.err); ok {
			m.notify(kind, text)
		}
		m.applySnapshot(m.store.Snapshot())
		m.syncDetail()
		return m, m.reloadRecent(m.recentPage)

	case recentMsg:
		m.applyRecent(msg)
		if msg.err == nil && msg.page > msg.totalPages {
			return m, m.reloadRecent(msg.totalPages)
		}
		return m, nil

	case viewRecordedMsg:
		return m, nil

	case storeChangedMsg:
		return m, tea.Batch(m.reloadRecent(m.recentPage), waitForChangeCmd(m.changes))

	case pendingChangedMsg:
		// Rendering asks the reconciler; only the redraw is needed.
		return m, waitForPendingCmd(m.pendingCh)
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key closes help
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.inputMode != inputNone {
		return m.handleInputKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.savePrefs()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.syncDetail()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, searchCmd(m.ctx, m.fetcher, m.cred, m.current.State)

	case key.Matches(msg, m.keys.Tab):
		if m.currentView == ViewRecent {
			return m, m.switchView(ViewSearch)
		}
		return m, m.switchView(ViewRecent)

	case key.Matches(msg, m.keys.ViewSearch):
		return m, m.switchView(ViewSearch)

	case key.Matches(msg, m.keys.ViewRecent):
		return m, m.switchView(ViewRecent)
	}

	switch m.currentView {
	case ViewSearch:
		return m.handleSearchKey(msg)
	case ViewRecent:
		return m.handleRecentKey(msg)
	case ViewDetail:
		return m.handleDetailKey(msg)
	}
	return m, nil
}

// switchView leaves whatever is shown, closing the detail view if open.
func (m *Model) switchView(v View) tea.Cmd {
	if m.currentView == ViewDetail {
		m.detail.Close()
	}
	m.currentView = v
	if v == ViewRecent {
		return m.reloadRecent(m.recentPage)
	}
	return nil
}

// handleInputKey feeds the status bar input and applies it on confirm.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		value := m.input.Value()
		mode := m.inputMode
		m.closeInput()
		switch mode {
		case inputName:
			return m, m.applyChange(m.ctrl.SetNameQuery(value))
		case inputAddress:
			return m, m.applyChange(m.ctrl.Navigate(value))
		}
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.closeInput()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) openInput(mode inputMode) tea.Cmd {
	m.inputMode = mode
	switch mode {
	case inputName:
		m.input.Prompt = "name: "
		m.input.Placeholder = "ramyun name"
		m.input.SetValue(m.current.State.NameQuery())
	case inputAddress:
		m.input.Prompt = "address: ?"
		m.input.Placeholder = "page=1&sort=name&direction=asc"
		m.input.SetValue(m.current.Address)
	}
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) closeInput() {
	m.inputMode = inputNone
	m.input.Blur()
	m.input.SetValue("")
}

// applyChange shows the controller's new state and requests its results.
func (m *Model) applyChange(ch query.Change) tea.Cmd {
	m.current = ch
	m.currentView = ViewSearch
	if ch.Scroll {
		m.selectedRow = 0
	}
	return searchCmd(m.ctx, m.fetcher, m.cred, ch.State)
}

// handleTick processes the polling tick.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.notice.text != "" && !m.notice.active(now) {
		m.notice = notice{}
	}
	return m, tea.Batch(fetchSnapshotCmd(m.store), tickCmd(m.pollTick))
}

func (m *Model) applySnapshot(snap state.Snapshot) {
	m.snapshot = snap
	m.selectedRow = clampRow(m.selectedRow, len(snap.Page.Items))
}

func (m *Model) reloadRecent(page int) tea.Cmd {
	if !m.cred.SignedIn() {
		return nil
	}
	if page < 1 {
		page = 1
	}
	return loadRecentCmd(m.ctx, m.recent, m.cred.UserID, page)
}

func (m *Model) applyRecent(msg recentMsg) {
	if msg.err != nil {
		m.recentErr = msg.err
		return
	}
	m.recentErr = nil
	m.recentItems = msg.items
	m.recentPage = msg.page
	m.recentTotal = max(msg.totalPages, 1)
	m.recentRow = clampRow(m.recentRow, len(msg.items))
}

// openDetail shows item immediately, then refreshes it from the catalog and
// records the view.
func (m *Model) openDetail(item catalog.Item) tea.Cmd {
	gen := m.detail.Show(item)
	if m.currentView != ViewDetail {
		m.returnView = m.currentView
	}
	m.currentView = ViewDetail
	m.syncDetail()
	m.detailViewport.GotoTop()
	return tea.Batch(
		fetchItemCmd(m.ctx, m.items, m.cred, gen, item.ID),
		recordViewCmd(m.ctx, m.recent, m.cred.UserID, item),
	)
}

func (m *Model) closeDetail() tea.Cmd {
	m.detail.Close()
	m.currentView = m.returnView
	if m.currentView == ViewRecent {
		return m.reloadRecent(m.recentPage)
	}
	return nil
}

// toggleFavorite starts a favorite toggle for item.
func (m *Model) toggleFavorite(item catalog.Item) tea.Cmd {
	if item.ID == 0 {
		return nil
	}
	return toggleFavoriteCmd(m.ctx, m.favorites, m.cred, item)
}

func (m Model) pending(itemID int64) bool {
	return m.favorites != nil && m.favorites.Pending(itemID)
}

func (m *Model) savePrefs() {
	p := prefs.Prefs{Theme: m.theme.Name, LastAddress: m.current.Address}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		zap.S().Warnw("save prefs failed", "path", m.prefsPath, "error", err)
	}
}

func clampRow(row, n int) int {
	if n == 0 || row < 0 {
		return 0
	}
	if row >= n {
		return n - 1
	}
	return row
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
