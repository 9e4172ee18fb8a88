package ui

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/yourusername/console-landing/internal/app"
	"github.com/yourusername/console-landing/internal/i18n"
	"github.com/yourusername/console-landing/internal/landing"
	"github.com/yourusername/console-landing/internal/model"
	"github.com/yourusername/console-landing/internal/widget"
	"go.uber.org/zap"
)

const (
	tickInterval = 250 * time.Millisecond
	noticeTTL    = 5 * time.Second
)

// PageOpener opens landing page sessions
type PageOpener interface {
	OpenPage(name string, loop landing.Loop, notifier widget.ActionNotifier, query string) (*app.Session, error)
}

// Options configures the console UI
type Options struct {
	Pages []app.PageConfig
	// Page is the page shown first; defaults to the first page
	Page string
	// Query is the structured filter the first page starts with
	Query   string
	Locale  string
	Version string
}

// viewMode is what the keyboard currently drives
type viewMode int

const (
	modeList viewMode = iota
	modeSearch
	modeFacet
	modeSort
	modeActions
	modeConfirm
	modeDetail
)

type noticeKind int

const (
	noticeInfo noticeKind = iota
	noticeError
)

// loopMsg asks Update to run the controller callbacks queued on the loop
type loopMsg struct{}

// tickMsg drives the spinner and notice expiry
type tickMsg time.Time

// actionDoneMsg is sent when a row action finishes
type actionDoneMsg struct {
	action string
	err    error
}

// Model is the main UI model
type Model struct {
	opener    PageOpener
	logger    *zap.Logger
	localizer *i18n.Localizer // Translator for i18n support
	version   string
	keys      KeyMap
	now       func() time.Time

	pages     []app.PageConfig
	pageIndex int
	query     string // Structured filter applied when the first page opens
	session   *app.Session
	loop      *landing.ChanLoop
	notifier  *notifier
	err       error // Error opening the current page

	width        int
	height       int
	quitting     bool
	spinnerFrame int

	mode          viewMode
	selectedIndex int // Selected row (or card) among the rendered rows
	scrollOffset  int // First rendered row in table view
	sortIndex     int // Highlighted entry of the sort menu
	actionIndex   int // Highlighted entry of the action menu

	search textinput.Model // Free-text search input
	facet  textinput.Model // Structured filter input

	pendingAction *widget.Action // Action waiting for confirmation
	pendingItem   model.Item

	detailTitle   string
	detailContent string
	detailScroll  int

	notice       string
	noticeKind   noticeKind
	noticeUntil  time.Time
	sessionGone  bool // Session-expired modal is showing
	exportDir    string
	actionActive bool // A row action is in flight
}

// KeyMap defines key bindings
type KeyMap struct {
	Quit       key.Binding
	Refresh    key.Binding
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Tab        key.Binding
	ShiftTab   key.Binding
	Enter      key.Binding
	Back       key.Binding
	Search     key.Binding
	Facet      key.Binding
	Sort       key.Binding
	ToggleSort key.Binding
	View       key.Binding
	More       key.Binding
	Slower     key.Binding
	Faster     key.Binding
	Copy       key.Binding
	Actions    key.Binding // Open action menu
	Export     key.Binding // Export visible rows as CSV
	ExportJSON key.Binding
	Confirm    key.Binding
	Cancel     key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "right"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("PgUp", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("PgDn", "page down"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next page"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous page"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Facet: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
		ToggleSort: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "reverse"),
		),
		View: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "table/grid"),
		),
		More: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "more"),
		),
		Slower: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "slower auto refresh"),
		),
		Faster: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "faster auto refresh"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy id"),
		),
		Actions: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "actions"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export csv"),
		),
		ExportJSON: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "export json"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n", "cancel"),
		),
	}
}

// NewModel creates a new UI model
func NewModel(opener PageOpener, logger *zap.Logger, opts Options) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Model{
		opener:    opener,
		logger:    logger,
		localizer: i18n.NewLocalizer(opts.Locale),
		version:   opts.Version,
		keys:      DefaultKeyMap(),
		now:       time.Now,
		pages:     opts.Pages,
		query:     opts.Query,
		loop:      landing.NewChanLoop(),
	}
	m.notifier = &notifier{loop: m.loop, m: m}

	for i, p := range opts.Pages {
		if p.Name == opts.Page {
			m.pageIndex = i
		}
	}

	m.search = textinput.New()
	m.search.Prompt = m.T("search.prompt")
	m.search.CharLimit = 256

	m.facet = textinput.New()
	m.facet.Prompt = m.T("facet.prompt")
	m.facet.CharLimit = 512

	return m
}

// T translates a message by its ID
func (m *Model) T(messageID string) string {
	return m.localizer.T(messageID)
}

// TP translates a message with pluralization
func (m *Model) TP(messageID string, count int) string {
	return m.localizer.TP(messageID, count)
}

// TF translates a message with template data
func (m *Model) TF(messageID string, templateData map[string]any) string {
	return m.localizer.TF(messageID, templateData)
}

// Loop returns the loop the page controllers run on. Callbacks queued on
// it run inside Update when a loopMsg arrives.
func (m *Model) Loop() *landing.ChanLoop { return m.loop }

// Init opens the first page
func (m *Model) Init() tea.Cmd {
	m.openPage(m.pageIndex, m.query)
	return tea.Batch(
		tea.EnterAltScreen,
		m.scheduleTick(),
	)
}

func (m *Model) scheduleTick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// openPage closes the current page and opens page i
func (m *Model) openPage(i int, query string) {
	if len(m.pages) == 0 {
		return
	}
	m.closePage()

	m.pageIndex = i
	m.selectedIndex = 0
	m.scrollOffset = 0
	m.mode = modeList
	m.search.Reset()
	m.facet.Reset()

	page := m.pages[i]
	s, err := m.opener.OpenPage(page.Name, m.loop, m.notifier, query)
	if err != nil {
		m.logger.Error("Failed to open page", zap.String("page", page.Name), zap.Error(err))
		m.err = err
		return
	}
	if s.Enricher != nil {
		// a no-op callback is enough to trigger a redraw
		s.Enricher.OnUpdate(func() { m.loop.Post(func() {}) })
	}
	m.session = s
	m.err = nil
	if err := s.Start(true); err != nil {
		m.logger.Error("Failed to start page", zap.String("page", page.Name), zap.Error(err))
		m.err = err
	}
}

func (m *Model) closePage() {
	if m.session == nil {
		return
	}
	m.session.Close()
	m.session = nil
}

// Close releases the open page. Call it after the program has exited.
func (m *Model) Close() {
	m.closePage()
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.MouseMsg:
		return m, nil

	case loopMsg:
		m.loop.RunPending()
		m.clampSelection()
		return m, nil

	case tickMsg:
		if m.quitting {
			return m, nil
		}
		m.spinnerFrame++
		if m.notice != "" && !m.now().Before(m.noticeUntil) {
			m.notice = ""
		}
		return m, m.scheduleTick()

	case actionDoneMsg:
		m.actionActive = false
		if msg.err != nil {
			m.logger.Warn("Action failed", zap.String("action", msg.action), zap.Error(msg.err))
		}
		return m, nil

	case exportSuccessMsg:
		m.showNotice(noticeInfo, m.TF("export.done", map[string]any{"Count": msg.count, "Path": msg.filePath}))
		return m, nil

	case exportErrorMsg:
		m.showNotice(noticeError, m.TF("export.failed", map[string]any{"Error": msg.err.Error()}))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	// The session-expired modal swallows keys until dismissed
	if m.sessionGone {
		if key.Matches(msg, m.keys.Back) || key.Matches(msg, m.keys.Enter) {
			m.sessionGone = false
		}
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	switch m.mode {
	case modeSearch:
		return m.handleSearchKey(msg)
	case modeFacet:
		return m.handleFacetKey(msg)
	case modeSort:
		return m.handleSortKey(msg)
	case modeActions:
		return m.handleActionKey(msg)
	case modeConfirm:
		return m.handleConfirmKey(msg)
	case modeDetail:
		return m.handleDetailKey(msg)
	}
	return m.handleListKey(msg)
}

func (m *Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Tab):
		if len(m.pages) > 0 {
			m.openPage((m.pageIndex+1)%len(m.pages), "")
		}
		return m, nil

	case key.Matches(msg, m.keys.ShiftTab):
		if len(m.pages) > 0 {
			m.openPage((m.pageIndex+len(m.pages)-1)%len(m.pages), "")
		}
		return m, nil
	}

	// Number keys select a page
	if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		if i := int(s[0] - '1'); i < len(m.pages) && i != m.pageIndex {
			m.openPage(i, "")
		}
		return m, nil
	}

	if m.session == nil {
		return m, nil
	}
	ctrl := m.session.Controller

	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-m.step())
	case key.Matches(msg, m.keys.Down):
		m.moveSelection(m.step())
	case key.Matches(msg, m.keys.Left):
		m.moveSelection(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveSelection(1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveSelection(-m.listHeight())
	case key.Matches(msg, m.keys.PageDown):
		m.moveSelection(m.listHeight())

	case key.Matches(msg, m.keys.Refresh):
		m.session.Refresh()

	case key.Matches(msg, m.keys.More):
		ctrl.ShowMore()

	case key.Matches(msg, m.keys.Slower):
		m.scaleAutoRefresh(2)

	case key.Matches(msg, m.keys.Faster):
		m.scaleAutoRefresh(0.5)

	case key.Matches(msg, m.keys.View):
		ctrl.SetViewMode(ctrl.Preference().DisplayMode.Toggle())
		m.selectedIndex = 0
		m.scrollOffset = 0

	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.search.SetValue(ctrl.Filter().SearchText)
		m.search.CursorEnd()
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.Facet):
		m.mode = modeFacet
		m.facet.SetValue(facetText(ctrl.Location()))
		m.facet.CursorEnd()
		return m, m.facet.Focus()

	case key.Matches(msg, m.keys.Sort):
		if len(m.session.Page.SortKeys) > 0 {
			ctrl.OpenSortMenu()
			m.sortIndex = m.currentSortIndex()
			m.mode = modeSort
		}

	case key.Matches(msg, m.keys.Actions):
		m.mode = modeActions
		m.actionIndex = 0

	case key.Matches(msg, m.keys.Enter):
		if item, ok := m.selectedItem(); ok {
			m.openDetail(item)
		}

	case key.Matches(msg, m.keys.Copy):
		if item, ok := m.selectedItem(); ok {
			m.copyToClipboard(item.ID())
		}

	case key.Matches(msg, m.keys.Export):
		return m, m.exportData(ExportCSV)

	case key.Matches(msg, m.keys.ExportJSON):
		return m, m.exportData(ExportJSON)

	case key.Matches(msg, m.keys.Back):
		switch {
		case ctrl.Filter().SearchText != "":
			m.session.Search.Text("")
		case len(ctrl.History()) > 1:
			ctrl.Back()
		}
	}

	return m, nil
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Enter):
		m.search.Blur()
		m.mode = modeList
		return m, nil
	case key.Matches(msg, m.keys.Back):
		m.search.Blur()
		m.search.Reset()
		m.session.Search.Text("")
		m.mode = modeList
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if after := m.search.Value(); after != before {
		m.session.Search.Text(after)
		m.selectedIndex = 0
		m.scrollOffset = 0
	}
	return m, cmd
}

func (m *Model) handleFacetKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Enter):
		if _, err := m.session.Search.Facets(m.facet.Value()); err != nil {
			m.showNotice(noticeError, m.TF("facet.invalid", map[string]any{"Error": err.Error()}))
			return m, nil
		}
		m.facet.Blur()
		m.mode = modeList
		m.selectedIndex = 0
		m.scrollOffset = 0
		return m, nil
	case key.Matches(msg, m.keys.Back):
		m.facet.Blur()
		m.mode = modeList
		return m, nil
	}

	var cmd tea.Cmd
	m.facet, cmd = m.facet.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		action, item := *m.pendingAction, m.pendingItem
		m.pendingAction, m.pendingItem = nil, nil
		m.mode = modeList
		return m, m.runAction(action, item)
	case key.Matches(msg, m.keys.Cancel):
		m.pendingAction, m.pendingItem = nil, nil
		m.mode = modeList
	}
	return m, nil
}

// step is how far up/down moves the selection: one row of cards in grid view
func (m *Model) step() int {
	if m.displayMode() == model.DisplayGrid {
		return m.cardsPerRow()
	}
	return 1
}

func (m *Model) displayMode() model.DisplayMode {
	if m.session == nil {
		return model.DisplayTable
	}
	return m.session.Controller.Preference().DisplayMode
}

func (m *Model) moveSelection(delta int) {
	if m.session == nil {
		return
	}
	ctrl := m.session.Controller
	next := m.selectedIndex + delta

	// Moving past the last rendered row shows more, like scrolling to the
	// bottom of the page
	if next >= len(ctrl.Rows()) && ctrl.HasMore() {
		ctrl.ShowMore()
	}

	m.selectedIndex = next
	m.clampSelection()
}

// clampSelection keeps the selection and scroll offset inside the rows
func (m *Model) clampSelection() {
	rows := 0
	if m.session != nil {
		rows = len(m.session.Controller.Rows())
	}
	if m.selectedIndex >= rows {
		m.selectedIndex = rows - 1
	}
	if m.selectedIndex < 0 {
		m.selectedIndex = 0
	}

	height := m.listHeight()
	if m.selectedIndex < m.scrollOffset {
		m.scrollOffset = m.selectedIndex
	}
	if m.selectedIndex >= m.scrollOffset+height {
		m.scrollOffset = m.selectedIndex - height + 1
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}

// listHeight is the number of table rows that fit on screen
func (m *Model) listHeight() int {
	h := m.height - 10
	if h < 3 {
		h = 3
	}
	return h
}

func (m *Model) selectedItem() (model.Item, bool) {
	if m.session == nil {
		return nil, false
	}
	rows := m.session.Controller.Rows()
	if m.selectedIndex < 0 || m.selectedIndex >= len(rows) {
		return nil, false
	}
	return rows[m.selectedIndex], true
}

func (m *Model) showNotice(kind noticeKind, text string) {
	m.notice = text
	m.noticeKind = kind
	m.noticeUntil = m.now().Add(noticeTTL)
}

// facetText renders the query of location as the facet input expects it
func facetText(location string) string {
	_, rawQuery, ok := strings.Cut(location, "?")
	if !ok || rawQuery == "" {
		return ""
	}
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return rawQuery
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var tokens []string
	for _, k := range keys {
		for _, v := range values[k] {
			tokens = append(tokens, k+"="+v)
		}
	}
	return strings.Join(tokens, " ")
}

// View renders the UI
func (m *Model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}
	if m.width == 0 {
		return m.T("status.loading")
	}

	header := m.renderHeader()
	tabs := m.renderPageTabs()

	var content string
	switch {
	case m.sessionGone:
		content = m.renderSessionExpired()
	case m.err != nil:
		content = StyleError.Render(m.err.Error())
	case m.mode == modeDetail:
		content = m.renderDetail()
	case m.mode == modeSort:
		content = m.renderSortMenu()
	case m.mode == modeActions || m.mode == modeConfirm:
		content = m.renderActionMenu()
	default:
		content = m.renderList()
	}

	sections := []string{header, tabs, content}
	if input := m.renderInput(); input != "" {
		sections = append(sections, input)
	}
	if status := m.renderStatus(); status != "" {
		sections = append(sections, status)
	}
	if m.notice != "" {
		style := StyleSuccess
		if m.noticeKind == noticeError {
			style = StyleError
		}
		sections = append(sections, style.Render(m.notice))
	}
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

var spinnerFrames = []string{"◐", "◓", "◑", "◒"}

const minAutoRefresh = time.Second

// scaleAutoRefresh changes the auto refresh interval of the current page
func (m *Model) scaleAutoRefresh(factor float64) {
	if m.session == nil || m.session.Refresher == nil {
		return
	}
	r := m.session.Refresher
	d := time.Duration(float64(r.GetStatus().Interval) * factor).Round(time.Second)
	if d < minAutoRefresh {
		d = minAutoRefresh
	}
	r.SetInterval(d)
	m.showNotice(noticeInfo, m.TF("status.auto", map[string]any{"Interval": d.String()}))
}

// renderHeader renders the title line with the page location and load state
func (m *Model) renderHeader() string {
	title := m.T("app.title")
	if m.session != nil && m.session.Page.Title != "" {
		title += " · " + m.session.Page.Title
	}
	left := StyleTitle.Render(title)
	if m.version != "" {
		left += " " + StyleTextMuted.Render(m.version)
	}

	var right []string
	if m.session != nil {
		ctrl := m.session.Controller
		if ctrl.Loading() {
			right = append(right, StyleHighlight.Render(spinnerFrames[m.spinnerFrame%len(spinnerFrames)])+" "+m.T("status.loading"))
		}
		if ctrl.PollScheduled() {
			right = append(right, StyleWarning.Render(m.TF("status.polling", map[string]any{"Count": ctrl.TransitionalCount()})))
		}
		if r := m.session.Refresher; r != nil {
			if st := r.GetStatus(); st.IsRunning {
				right = append(right, StyleTextMuted.Render(m.TF("status.auto", map[string]any{"Interval": st.Interval.String()})))
			}
		}
		if last := ctrl.LastUpdate(); last.IsZero() {
			right = append(right, StyleSubtitle.Render(m.T("status.never")))
		} else {
			right = append(right, StyleSubtitle.Render(m.TF("status.updated", map[string]any{"Time": last.Format("15:04:05")})))
		}
	}

	line := left
	if len(right) > 0 {
		status := strings.Join(right, "  ")
		gap := m.width - visualLength(left) - visualLength(status)
		if gap < 2 {
			gap = 2
		}
		line = left + strings.Repeat(" ", gap) + status
	}

	location := ""
	if m.session != nil {
		location = StyleTextMuted.Render(m.session.Controller.Location())
	}
	return line + "\n" + location
}

// renderPageTabs renders the page selector
func (m *Model) renderPageTabs() string {
	tabs := make([]string, 0, len(m.pages))
	for i, p := range m.pages {
		label := p.Title
		if label == "" {
			label = p.Name
		}
		label = fmt.Sprintf("%d %s", i+1, label)
		if i == m.pageIndex {
			tabs = append(tabs, StyleSelected.Render(" "+label+" "))
		} else {
			tabs = append(tabs, StyleTextMuted.Render(" "+label+" "))
		}
	}
	return strings.Join(tabs, " ") + "\n" + StyleTextMuted.Render(renderSeparator(m.width))
}

func (m *Model) renderInput() string {
	switch m.mode {
	case modeSearch:
		return m.search.View()
	case modeFacet:
		return m.facet.View()
	}
	return ""
}

// renderStatus summarises counts and the active filters
func (m *Model) renderStatus() string {
	if m.session == nil {
		return ""
	}
	ctrl := m.session.Controller
	total := len(ctrl.Unfiltered())
	shown := ctrl.VisibleCount()

	parts := []string{m.TP("status.items", total)}
	if text := ctrl.Filter().SearchText; text != "" {
		parts = append(parts, m.TF("status.filtered", map[string]any{"Shown": shown, "Total": total}))
	}
	if q := facetText(ctrl.Location()); q != "" {
		parts = append(parts, m.TF("status.query", map[string]any{"Query": q}))
	}
	if ctrl.HasMore() {
		parts = append(parts, m.TF("status.more", map[string]any{"Shown": len(ctrl.Rows()), "Total": shown}))
	}
	view := m.T("view.table")
	if ctrl.Preference().DisplayMode == model.DisplayGrid {
		view = m.T("view.grid")
	}
	parts = append(parts, view)
	return StyleTextSecondary.Render(strings.Join(parts, " • "))
}

// renderFooter renders the key help line
func (m *Model) renderFooter() string {
	var bindings []key.Binding
	switch m.mode {
	case modeDetail:
		bindings = []key.Binding{m.keys.Up, m.keys.Down, m.keys.Copy, m.keys.Back}
	case modeSort:
		bindings = []key.Binding{m.keys.Up, m.keys.Down, m.keys.Enter, m.keys.ToggleSort, m.keys.Back}
	case modeActions:
		bindings = []key.Binding{m.keys.Up, m.keys.Down, m.keys.Enter, m.keys.Back}
	case modeConfirm:
		bindings = []key.Binding{m.keys.Confirm, m.keys.Cancel}
	case modeSearch, modeFacet:
		bindings = []key.Binding{m.keys.Enter, m.keys.Back}
	default:
		bindings = []key.Binding{
			m.keys.Search, m.keys.Facet, m.keys.Sort, m.keys.View, m.keys.Refresh,
			m.keys.Actions, m.keys.Export, m.keys.Enter, m.keys.Tab, m.keys.Quit,
		}
	}

	help := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		help = append(help, RenderKeyBinding(h.Key, h.Desc))
	}
	return StyleKeyDesc.Render(strings.Join(help, " • "))
}

// renderSessionExpired renders the modal shown until the operator dismisses it
func (m *Model) renderSessionExpired() string {
	body := StyleError.Render(m.T("error.session_expired")) + "\n\n" + StyleTextSecondary.Render(m.T("error.session_hint"))
	return StyleModal.Render(body)
}
