package ui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/nurye/shop/internal/cart"
	"github.com/nurye/shop/internal/catalog"
	"github.com/nurye/shop/internal/money"
	"github.com/nurye/shop/internal/prefs"
	"github.com/nurye/shop/internal/route"
	"github.com/nurye/shop/internal/search"
	"github.com/nurye/shop/internal/state"
)

// focusArea says which part of the screen receives keys.
type focusArea int

const (
	focusPage focusArea = iota
	focusSearch
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Catalog   catalog.Source
	Store     *state.Store
	Cart      *cart.Store
	Search    *search.Controller
	Currency  string
	Prefs     prefs.Prefs
	PrefsPath string
	PollTick  time.Duration
	Logger    *zap.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	catalog   catalog.Source
	store     *state.Store
	cart      *cart.Store
	search    *search.Controller
	currency  string
	prefsPath string
	pollTick  time.Duration
	logger    *zap.Logger
	keys      keyMap

	// UI state
	theme    Theme
	prefs    prefs.Prefs
	width    int
	height   int
	ready    bool
	showHelp bool
	focus    focusArea
	history  route.History
	status   string

	// Data state
	snapshot state.Snapshot

	// Navbar state
	searchInput textinput.Model
	searchState search.State
	spinner     spinner.Model
	spinning    bool
	pulseFlash  uint64
	pulsing     bool

	// Pages
	home     homeState
	listing  listingState
	detail   detailState
	cartView cartState
	profile  profileState
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = DefaultUIInterval
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	currency := opts.Currency
	if currency == "" {
		currency = money.DefaultCurrency
	}

	m := Model{
		ctx:       ctx,
		catalog:   opts.Catalog,
		store:     opts.Store,
		cart:      opts.Cart,
		search:    opts.Search,
		currency:  currency,
		prefsPath: prefsPath,
		pollTick:  pollTick,
		logger:    logger,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(opts.Prefs.Theme),
		prefs:     opts.Prefs,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	if m.search != nil {
		m.searchState = m.search.State()
	}
	if m.cart != nil {
		m.pulseFlash = m.cart.Flash()
	}
	m.initSearchInput()
	m.initProfileInputs()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.pollTick),
		carouselCmd(m.home.carouselSeq),
	}
	// Fetch snapshot immediately on start
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
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
		m.searchInput.Width = m.searchWidth()
		m.updateDetailViewport()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.clampHome()
		return m, nil

	case searchStateMsg:
		if msg.Version > m.searchState.Version {
			m.searchState = search.State(msg)
		}
		cmd := m.spinIfLoading()
		return m, cmd

	case spinner.TickMsg:
		if !m.searchState.Loading() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case carouselTickMsg:
		return m.handleCarouselTick(msg)

	case pulseEndMsg:
		if msg.flash == m.pulseFlash {
			m.pulsing = false
		}
		return m, nil

	case listingMsg:
		m.handleListing(msg)
		return m, nil

	case productMsg:
		m.handleProduct(msg)
		return m, nil
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

// handleKey routes keyboard input to the focused area.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.focus == focusSearch {
		return m.handleSearchKey(msg)
	}

	if m.current().Kind == route.Profile && m.profile.editing {
		return m.handleProfileKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.toggleTheme()
		return m, nil

	case key.Matches(msg, m.keys.Search):
		cmd := m.focusSearch()
		return m, cmd

	case key.Matches(msg, m.keys.GoHome):
		cmd := m.navigate(route.ToHome())
		return m, cmd

	case key.Matches(msg, m.keys.GoProducts):
		cmd := m.navigate(route.ToProducts())
		return m, cmd

	case key.Matches(msg, m.keys.GoCart):
		cmd := m.navigate(route.ToCart())
		return m, cmd

	case key.Matches(msg, m.keys.GoProfile):
		cmd := m.navigate(route.ToProfile())
		return m, cmd

	case key.Matches(msg, m.keys.Back):
		cmd := m.back()
		return m, cmd

	case key.Matches(msg, m.keys.Refresh):
		cmd := m.reload()
		return m, cmd
	}

	// Page-specific keys
	switch m.current().Kind {
	case route.Home:
		return m.handleHomeKey(msg)
	case route.Products, route.Category, route.SearchResults:
		return m.handleListingKey(msg)
	case route.ProductDetail:
		return m.handleDetailKey(msg)
	case route.Cart:
		return m.handleCartKey(msg)
	case route.Profile:
		return m.handleProfileKey(msg)
	}

	return m, nil
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}

	// Schedule next tick
	cmds = append(cmds, tickCmd(m.pollTick))

	return m, tea.Batch(cmds...)
}

func (m Model) current() route.Route {
	return m.history.Current()
}

// toggleTheme flips dark mode and persists the choice.
func (m *Model) toggleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.prefs.Theme = m.theme.Name
	m.applyInputStyles()
	m.detail.rendered = ""
	m.updateDetailViewport()
	if m.prefsPath != "" {
		if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
			m.logger.Warn("save prefs failed", zap.Error(err))
		}
	}
}

// addToCart puts a product in the cart and lights the badge.
func (m *Model) addToCart(p catalog.Product, qty int) tea.Cmd {
	if m.cart == nil || p.ID == "" {
		return nil
	}
	m.cart.Add(cart.Item{
		ID:    p.ID,
		Title: p.Title,
		Price: p.PriceValue(),
		Image: string(p.Image),
	}, qty)
	m.status = "Added " + truncate(p.Title, 40) + " to cart"
	return m.pulseCmd()
}

// pulseCmd starts a pulse when the cart's flash counter moved.
func (m *Model) pulseCmd() tea.Cmd {
	if m.cart == nil {
		return nil
	}
	flash := m.cart.Flash()
	if flash == m.pulseFlash {
		return nil
	}
	m.pulseFlash = flash
	m.pulsing = true
	return tea.Tick(PulseDuration, func(time.Time) tea.Msg {
		return pulseEndMsg{flash: flash}
	})
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	body := m.renderContent()
	if dropdown := m.renderDropdown(); dropdown != "" {
		body = overlayTop(body, dropdown, m.searchColumn())
	}
	b.WriteString(body)

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderContent renders the main content area based on the current route.
func (m Model) renderContent() string {
	var content string
	switch m.current().Kind {
	case route.Home:
		content = m.renderHome()
	case route.Products, route.Category, route.SearchResults:
		content = m.renderListing()
	case route.ProductDetail:
		content = m.renderDetail()
	case route.Cart:
		content = m.renderCart()
	case route.Profile:
		content = m.renderProfile()
	}
	return fitHeight(content, m.contentHeight())
}

func (m Model) contentHeight() int {
	// header, footer
	return max(1, m.height-2)
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	bg := newBarStyle(m.theme)

	left := m.current().Path()
	if m.status != "" {
		left += "  " + m.status
	}
	var right string
	switch {
	case m.snapshot.IsOffline():
		right = bg.Render("offline", styles.DangerText)
	case m.snapshot.LastError != nil:
		right = bg.Render("refresh failed", styles.WarningText)
	default:
		right = bg.Render("? help  q quit", styles.FaintText)
	}

	leftRendered := bg.Render(truncate(left, max(10, m.width-20)), styles.MutedText)
	gap := m.width - 2 - lipgloss.Width(leftRendered) - lipgloss.Width(right)
	return styles.Footer.Width(m.width).Render(leftRendered + bg.Spaces(max(1, gap)) + right)
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type searchStateMsg search.State

type carouselTickMsg struct{ seq int }

type pulseEndMsg struct{ flash uint64 }

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func carouselCmd(seq int) tea.Cmd {
	return tea.Tick(CarouselInterval, func(time.Time) tea.Msg {
		return carouselTickMsg{seq: seq}
	})
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	if opts.Search != nil {
		// Send blocks until the event loop receives, and snapshots can be
		// published from inside Update.
		opts.Search.SetOnChange(func(s search.State) {
			go p.Send(searchStateMsg(s))
		})
		defer opts.Search.SetOnChange(nil)
	}
	_, err := p.Run()
	if err != nil && m.ctx.Err() != nil {
		return nil
	}
	return err
}
