package landing

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/yourusername/console-landing/internal/datasource"
	"github.com/yourusername/console-landing/internal/events"
	"github.com/yourusername/console-landing/internal/model"
	"github.com/yourusername/console-landing/internal/storage"
	"go.uber.org/zap"
)

const (
	// DefaultPollInterval is the delay before re-fetching a list that still
	// has items in a transitional state
	DefaultPollInterval = 5 * time.Second
	// DefaultPageSize is how many items are rendered before "show more"
	DefaultPageSize = 100

	storeTimeout = 2 * time.Second
)

// Fetcher retrieves a landing page's item list
type Fetcher interface {
	FetchItems(ctx context.Context, endpoint string) ([]model.Item, error)
}

// Notifier surfaces fetch failures to the operator. It may be called from
// any goroutine.
type Notifier interface {
	Failure(message string)
	SessionExpired()
}

// Options tunes a Controller
type Options struct {
	PollInterval time.Duration
	PageSize     int
	// DisableTransitionalRefresh turns off polling while items are transitional
	DisableTransitionalRefresh bool
	// TokenExpiryOn400 treats HTTP 400 as an expired session (object storage)
	TokenExpiryOn400 bool
	// PageURL is the page location mirrored with the structured query
	PageURL string
	// InitialQuery is applied to the endpoint and location before the first fetch
	InitialQuery string
	// FilterKeys are the fields searched until a text search supplies others
	FilterKeys []string
	// DefaultFailureMessage is shown when the backend sends no message
	DefaultFailureMessage string
}

// Deps are the collaborators injected into a Controller. Only Fetcher and
// Loop are required.
type Deps struct {
	Fetcher      Fetcher
	Loop         Loop
	Clock        clock.Clock
	Bus          *events.Bus
	Notifier     Notifier
	SessionStore storage.Store
	DurableStore storage.Store
	Logger       *zap.Logger
}

// Controller owns one landing page's list: fetching, client-side text
// filtering, polling while items are transitional, paging, and persisted
// view preferences. All methods must be called on the Loop's goroutine.
type Controller struct {
	fetcher  Fetcher
	loop     Loop
	clock    clock.Clock
	bus      *events.Bus
	notifier Notifier
	session  storage.Store
	durable  storage.Store
	logger   *zap.Logger
	opts     Options

	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe []func()

	resourceKey string
	endpoint    string
	location    string
	history     []string

	unfiltered   []model.Item
	visible      []model.Item
	filter       model.FilterState
	pref         model.ViewPreference
	window       model.DisplayWindow
	sortMenuOpen bool

	loading           bool
	inflight          int
	transitionalCount int
	pollTimer         *clock.Timer
	pollGen           uint64

	lastErr    error
	lastUpdate time.Time
	closed     bool
}

// New creates a controller. Call Initialize to start it.
func New(deps Deps, opts Options) *Controller {
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}
	if deps.Bus == nil {
		deps.Bus = events.NewBus()
	}
	if deps.Notifier == nil {
		deps.Notifier = nopNotifier{}
	}
	if deps.SessionStore == nil {
		deps.SessionStore = storage.NewMemoryStore()
	}
	if deps.DurableStore == nil {
		deps.DurableStore = storage.NewMemoryStore()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Controller{
		fetcher:    deps.Fetcher,
		loop:       deps.Loop,
		clock:      deps.Clock,
		bus:        deps.Bus,
		notifier:   deps.Notifier,
		session:    deps.SessionStore,
		durable:    deps.DurableStore,
		logger:     deps.Logger,
		opts:       opts,
		ctx:        ctx,
		cancel:     cancel,
		unfiltered: []model.Item{},
		visible:    []model.Item{},
		filter:     model.FilterState{FilterKeys: append([]string(nil), opts.FilterKeys...)},
		window:     model.NewDisplayWindow(opts.PageSize),
	}
}

// Initialize restores the persisted view preferences for resourceKey,
// starts listening for sibling widget events and performs the first fetch.
// An empty resourceKey is derived from the page path.
func (c *Controller) Initialize(resourceKey, defaultSortKey, endpoint string) {
	if c.closed {
		return
	}

	c.endpoint = endpoint
	c.location = c.opts.PageURL
	if resourceKey == "" {
		source := c.location
		if source == "" {
			source = endpoint
		}
		resourceKey = deriveResourceKey(source)
	}
	c.resourceKey = resourceKey

	if q := c.opts.InitialQuery; q != "" {
		c.endpoint = replaceQuery(c.endpoint, q)
		c.location = replaceQuery(c.location, q)
	}
	c.history = []string{c.location}

	c.restorePreferences(defaultSortKey)
	c.subscribe()

	c.logger.Info("Landing page initialized",
		zap.String("resource", c.resourceKey),
		zap.String("endpoint", c.endpoint),
		zap.String("sort_by", c.pref.SortBy),
		zap.String("view", c.pref.DisplayMode.String()),
	)

	c.FetchItems()
}

func (c *Controller) restorePreferences(defaultSortKey string) {
	ctx, cancel := context.WithTimeout(c.ctx, storeTimeout)
	defer cancel()

	c.pref.SortBy = defaultSortKey
	if v, ok, err := c.session.Get(ctx, storage.SortByKey(c.resourceKey)); err != nil {
		c.logger.Warn("Failed to read sort preference", zap.String("resource", c.resourceKey), zap.Error(err))
	} else if ok && v != "" {
		c.pref.SortBy = v
	}

	c.pref.DisplayMode = model.DisplayTable
	if v, ok, err := c.durable.Get(ctx, storage.ViewModeKey(c.resourceKey)); err != nil {
		c.logger.Warn("Failed to read view preference", zap.String("resource", c.resourceKey), zap.Error(err))
	} else if ok {
		c.pref.DisplayMode = model.ParseDisplayMode(v)
	}
}

// subscribe wires the sibling widget events. Handlers may run on any
// goroutine, so each hops onto the loop before touching state.
func (c *Controller) subscribe() {
	c.unsubscribe = append(c.unsubscribe,
		events.On(c.bus, func(events.Refresh) {
			c.loop.Post(c.OnExternalRefresh)
		}),
		events.On(c.bus, func(e events.SearchUpdated) {
			c.loop.Post(func() { c.OnExternalQueryUpdate(e.Query) })
		}),
		events.On(c.bus, func(e events.TextSearch) {
			c.loop.Post(func() { c.OnExternalSearch(e.Text, e.Keys) })
		}),
	)
}

// FetchItems requests the item list. The response is applied on the loop;
// overlapping responses are applied in arrival order.
func (c *Controller) FetchItems() {
	if c.closed {
		return
	}
	c.loading = true
	c.inflight++

	ctx, endpoint := c.ctx, c.endpoint
	c.logger.Debug("Fetching items",
		zap.String("resource", c.resourceKey),
		zap.String("endpoint", endpoint),
		zap.Int("in_flight", c.inflight),
	)

	go func() {
		startTime := time.Now()
		items, err := c.fetcher.FetchItems(ctx, endpoint)
		elapsed := time.Since(startTime)
		c.loop.Post(func() { c.fetchDone(items, err, elapsed) })
	}()
}

func (c *Controller) fetchDone(items []model.Item, err error, elapsed time.Duration) {
	c.inflight--
	if c.closed {
		return
	}
	c.loading = c.inflight > 0

	if err != nil {
		c.handleFailure(err)
		return
	}

	if items == nil {
		items = []model.Item{}
	}
	c.unfiltered = items
	c.applyFilter()
	c.transitionalCount = countTransitional(items)
	c.lastErr = nil
	c.lastUpdate = c.clock.Now()

	c.logger.Info("Items loaded",
		zap.String("resource", c.resourceKey),
		zap.Int("items", len(items)),
		zap.Int("visible", len(c.visible)),
		zap.Int("transitional", c.transitionalCount),
		zap.Duration("elapsed", elapsed),
	)

	if c.transitionalCount > 0 && !c.opts.DisableTransitionalRefresh {
		c.schedulePoll()
	} else {
		c.stopPoll()
	}

	// published once the current callback has finished
	c.loop.Post(c.publishItemsLoaded)
}

func (c *Controller) publishItemsLoaded() {
	if c.closed {
		return
	}
	items := make([]model.Item, len(c.visible))
	copy(items, c.visible)
	c.bus.Publish(events.ItemsLoaded{Resource: c.resourceKey, Items: items})
}

func (c *Controller) handleFailure(err error) {
	kind, msg := datasource.Classify(err, c.opts.TokenExpiryOn400)
	switch kind {
	case datasource.FailureAborted:
		c.logger.Debug("Fetch aborted", zap.String("resource", c.resourceKey))
	case datasource.FailureSessionExpired:
		c.lastErr = err
		c.logger.Warn("Session expired while fetching items",
			zap.String("resource", c.resourceKey),
			zap.Error(err),
		)
		c.notifier.SessionExpired()
	default:
		c.lastErr = err
		c.logger.Error("Failed to fetch items",
			zap.String("resource", c.resourceKey),
			zap.String("endpoint", c.endpoint),
			zap.Error(err),
		)
		if msg == "" {
			msg = c.opts.DefaultFailureMessage
		}
		c.notifier.Failure(msg)
	}
}

func (c *Controller) schedulePoll() {
	c.stopPoll()
	gen := c.pollGen
	c.pollTimer = c.clock.AfterFunc(c.opts.PollInterval, func() {
		c.loop.Post(func() { c.pollFired(gen) })
	})
	c.logger.Debug("Poll scheduled",
		zap.String("resource", c.resourceKey),
		zap.Duration("interval", c.opts.PollInterval),
	)
}

func (c *Controller) pollFired(gen uint64) {
	if c.closed || gen != c.pollGen || c.pollTimer == nil {
		return
	}
	c.pollTimer = nil
	c.FetchItems()
}

func (c *Controller) stopPoll() {
	if c.pollTimer != nil {
		c.pollTimer.Stop()
		c.pollTimer = nil
	}
	c.pollGen++
}

// ApplyTextFilter rebuilds the visible list from the last fetch. A
// non-empty fields list replaces the stored filter keys.
func (c *Controller) ApplyTextFilter(text string, fields []string) {
	c.filter.SearchText = text
	if len(fields) > 0 {
		c.filter.FilterKeys = append([]string(nil), fields...)
	}
	c.applyFilter()
}

func (c *Controller) applyFilter() {
	c.visible = filterItems(c.unfiltered, c.filter.SearchText, c.filter.FilterKeys)
}

// SetSort changes the sort field, closes the sort menu and persists the
// choice for the session.
func (c *Controller) SetSort(key string) {
	c.pref.SortBy = key
	c.sortMenuOpen = false
	c.persist(c.session, storage.SortByKey(c.resourceKey), key)
}

// SetViewMode changes and persists the display mode
func (c *Controller) SetViewMode(mode model.DisplayMode) {
	c.pref.DisplayMode = mode
	c.persist(c.durable, storage.ViewModeKey(c.resourceKey), mode.String())
}

func (c *Controller) persist(store storage.Store, key, value string) {
	ctx, cancel := context.WithTimeout(c.ctx, storeTimeout)
	defer cancel()
	if err := store.Set(ctx, key, value); err != nil {
		c.logger.Warn("Failed to persist preference",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// ShowMore widens the display window by one increment
func (c *Controller) ShowMore() {
	c.window = c.window.Grow(len(c.visible))
}

// OnExternalRefresh re-fetches immediately, superseding a pending poll
func (c *Controller) OnExternalRefresh() {
	if c.closed {
		return
	}
	c.stopPoll()
	c.loading = true
	c.FetchItems()
}

// OnExternalSearch applies free-text search input from a sibling widget
func (c *Controller) OnExternalSearch(text string, fields []string) {
	if c.closed {
		return
	}
	c.ApplyTextFilter(text, fields)
}

// OnExternalQueryUpdate replaces the query string of the page location and
// of the endpoint with query, records the location and re-fetches.
func (c *Controller) OnExternalQueryUpdate(query string) {
	if c.closed {
		return
	}
	c.location = replaceQuery(c.location, query)
	c.history = append(c.history, c.location)
	c.endpoint = replaceQuery(c.endpoint, query)

	c.logger.Info("Structured filter updated",
		zap.String("resource", c.resourceKey),
		zap.String("query", query),
	)

	c.loading = true
	c.FetchItems()
}

// Back returns to the previous structured query, if any
func (c *Controller) Back() bool {
	if c.closed || len(c.history) <= 1 {
		return false
	}
	c.history = c.history[:len(c.history)-1]
	c.location = c.history[len(c.history)-1]
	c.endpoint = replaceQuery(c.endpoint, queryOf(c.location))
	c.loading = true
	c.FetchItems()
	return true
}

// OpenSortMenu marks the sort selection menu as open
func (c *Controller) OpenSortMenu() { c.sortMenuOpen = true }

// CloseSortMenu dismisses the sort selection menu
func (c *Controller) CloseSortMenu() { c.sortMenuOpen = false }

// Close stops polling, abandons in-flight requests and detaches from the bus
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.stopPoll()
	c.cancel()
	for _, u := range c.unsubscribe {
		u()
	}
	c.unsubscribe = nil
	c.logger.Debug("Landing page closed", zap.String("resource", c.resourceKey))
}

// Resource returns the resource key naming the persisted preferences
func (c *Controller) Resource() string { return c.resourceKey }

// Unfiltered returns the items of the last successful fetch
func (c *Controller) Unfiltered() []model.Item { return cloneItems(c.unfiltered) }

// Visible returns the items passing the text filter, in server order
func (c *Controller) Visible() []model.Item { return cloneItems(c.visible) }

// VisibleCount returns the number of items passing the text filter
func (c *Controller) VisibleCount() int { return len(c.visible) }

// Rows returns the visible items ordered by the sort preference and cut to
// the display window.
func (c *Controller) Rows() []model.Item {
	rows := model.SortItems(c.visible, c.pref.SortBy)
	if len(rows) > c.window.Limit {
		rows = rows[:c.window.Limit]
	}
	return rows
}

// HasMore reports whether visible items lie beyond the display window
func (c *Controller) HasMore() bool { return len(c.visible) > c.window.Limit }

// Filter returns the current filter state
func (c *Controller) Filter() model.FilterState {
	f := c.filter
	f.FilterKeys = append([]string(nil), c.filter.FilterKeys...)
	return f
}

// Preference returns the current view preference
func (c *Controller) Preference() model.ViewPreference { return c.pref }

// Window returns the current display window
func (c *Controller) Window() model.DisplayWindow { return c.window }

// Loading reports whether a fetch is outstanding
func (c *Controller) Loading() bool { return c.loading }

// PollScheduled reports whether a follow-up fetch is pending
func (c *Controller) PollScheduled() bool { return c.pollTimer != nil }

// TransitionalCount returns the number of transitional items last fetched
func (c *Controller) TransitionalCount() int { return c.transitionalCount }

// Endpoint returns the URL items are fetched from, query included
func (c *Controller) Endpoint() string { return c.endpoint }

// Location returns the page location mirroring the structured query
func (c *Controller) Location() string { return c.location }

// History returns the locations visited through structured queries
func (c *Controller) History() []string { return append([]string(nil), c.history...) }

// SortMenuOpen reports whether the sort selection menu is open
func (c *Controller) SortMenuOpen() bool { return c.sortMenuOpen }

// LastError returns the error of the last failed fetch, cleared on success
func (c *Controller) LastError() error { return c.lastErr }

// LastUpdate returns when the list was last replaced
func (c *Controller) LastUpdate() time.Time { return c.lastUpdate }

func countTransitional(items []model.Item) int {
	n := 0
	for _, it := range items {
		if it.Transitional() {
			n++
		}
	}
	return n
}

func cloneItems(items []model.Item) []model.Item {
	out := make([]model.Item, len(items))
	copy(out, items)
	return out
}

type nopNotifier struct{}

func (nopNotifier) Failure(string) {}
func (nopNotifier) SessionExpired() {}
