package widget

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/yourusername/console-landing/internal/cache"
	"github.com/yourusername/console-landing/internal/datasource"
	"github.com/yourusername/console-landing/internal/events"
	"github.com/yourusername/console-landing/internal/landing"
	"github.com/yourusername/console-landing/internal/model"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultMaxConcurrent bounds simultaneous detail requests
	DefaultMaxConcurrent = 4

	idPlaceholder   = "_id_"
	namePlaceholder = "_name_"
)

// ObjectGetter fetches a single object's detail
type ObjectGetter interface {
	GetObject(ctx context.Context, endpoint string) (model.Item, error)
}

// EnricherConfig describes which page an Enricher follows and how it
// builds detail URLs.
type EnricherConfig struct {
	Resource string
	// URLTemplate holds _id_ or _name_ placeholders, e.g. /buckets/_name_/objectcount/json
	URLTemplate   string
	RatePerSecond int
	MaxConcurrent int
}

// Enricher loads per-item details after each landing page load and keeps
// them as annotations next to the list. It never modifies the list itself.
type Enricher struct {
	cfg      EnricherConfig
	getter   ObjectGetter
	cache    cache.Cache
	limiter  ratelimit.Limiter
	bus      *events.Bus
	notifier landing.Notifier
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.RWMutex
	annotations map[string]model.Item
	loading     map[string]bool
	unsubscribe func()
	onUpdate    func()
}

// NewEnricher creates an enricher. A nil cache disables caching; a clock is
// only needed to drive the rate limiter in tests.
func NewEnricher(cfg EnricherConfig, getter ObjectGetter, c cache.Cache, bus *events.Bus, notifier landing.Notifier, clk clock.Clock, logger *zap.Logger) *Enricher {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = DefaultMaxConcurrent
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var limiter ratelimit.Limiter
	switch {
	case cfg.RatePerSecond <= 0:
		limiter = ratelimit.NewUnlimited()
	case clk != nil:
		limiter = ratelimit.New(cfg.RatePerSecond, ratelimit.WithClock(clk))
	default:
		limiter = ratelimit.New(cfg.RatePerSecond)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Enricher{
		cfg:         cfg,
		getter:      getter,
		cache:       c,
		limiter:     limiter,
		bus:         bus,
		notifier:    notifier,
		logger:      logger.With(zap.String("resource", cfg.Resource)),
		ctx:         ctx,
		cancel:      cancel,
		annotations: make(map[string]model.Item),
		loading:     make(map[string]bool),
	}
}

// OnUpdate registers a callback run after each annotation change. It is
// called from enrichment goroutines.
func (e *Enricher) OnUpdate(fn func()) {
	e.mu.Lock()
	e.onUpdate = fn
	e.mu.Unlock()
}

// Start follows ItemsLoaded for the configured resource
func (e *Enricher) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.unsubscribe != nil {
		return
	}
	e.unsubscribe = events.On(e.bus, func(ev events.ItemsLoaded) {
		if ev.Resource != e.cfg.Resource {
			return
		}
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			if err := e.Enrich(e.ctx, ev.Items); err != nil && !errors.Is(err, context.Canceled) {
				e.logger.Warn("Enrichment interrupted", zap.Error(err))
			}
		}()
	})
	e.logger.Info("Enricher started", zap.String("template", e.cfg.URLTemplate))
}

// Stop detaches from the bus and abandons running enrichments
func (e *Enricher) Stop() {
	e.mu.Lock()
	unsub := e.unsubscribe
	e.unsubscribe = nil
	e.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	e.cancel()
	e.wg.Wait()
}

// Enrich loads the detail of every item, with bounded concurrency. Failures
// of single items are reported and do not stop the others.
func (e *Enricher) Enrich(ctx context.Context, items []model.Item) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.MaxConcurrent)

	for _, item := range items {
		if ctx.Err() != nil {
			break
		}
		id := item.ID()
		if id == "" {
			continue
		}
		endpoint := e.DetailURL(item)
		g.Go(func() error {
			return e.enrichOne(ctx, id, endpoint)
		})
	}
	return g.Wait()
}

func (e *Enricher) enrichOne(ctx context.Context, id, endpoint string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.cache != nil {
		if detail, ok := e.cache.Get(ctx, e.cfg.Resource, id); ok {
			e.store(id, detail)
			return nil
		}
	}

	e.setLoading(id, true)
	if err := e.take(ctx); err != nil {
		e.setLoading(id, false)
		return err
	}

	detail, err := e.getter.GetObject(ctx, endpoint)
	if err != nil {
		e.setLoading(id, false)
		e.handleError(id, err)
		return nil
	}

	if e.cache != nil {
		if err := e.cache.Set(ctx, e.cfg.Resource, id, detail); err != nil {
			e.logger.Warn("Failed to cache item detail", zap.String("id", id), zap.Error(err))
		}
	}
	e.store(id, detail)
	return nil
}

// take waits for the rate limiter unless ctx ends first. An abandoned Take
// returns on its own after at most one rate interval.
func (e *Enricher) take(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		e.limiter.Take()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// handleError reports failures the way object storage pages do: only
// failures carrying a backend message are surfaced, and 400 or 403 mean the
// session expired unless the backend says "Not authorized".
func (e *Enricher) handleError(id string, err error) {
	kind, msg := datasource.Classify(err, true)
	e.logger.Debug("Item detail failed",
		zap.String("id", id),
		zap.String("kind", kind.String()),
		zap.Error(err),
	)
	if kind == datasource.FailureAborted || msg == "" || e.notifier == nil {
		return
	}
	if kind == datasource.FailureSessionExpired {
		e.notifier.SessionExpired()
		return
	}
	e.notifier.Failure(msg)
}

// DetailURL fills the URL template for item
func (e *Enricher) DetailURL(item model.Item) string {
	r := strings.NewReplacer(
		idPlaceholder, url.PathEscape(item.ID()),
		namePlaceholder, url.PathEscape(itemName(item)),
	)
	return r.Replace(e.cfg.URLTemplate)
}

func itemName(item model.Item) string {
	for _, f := range []string{"bucket_name", model.FieldName} {
		if s, ok := item[f].(string); ok && s != "" {
			return s
		}
	}
	return item.ID()
}

func (e *Enricher) store(id string, detail model.Item) {
	e.mu.Lock()
	e.annotations[id] = detail
	delete(e.loading, id)
	fn := e.onUpdate
	e.mu.Unlock()

	if fn != nil {
		fn()
	}
}

func (e *Enricher) setLoading(id string, loading bool) {
	e.mu.Lock()
	if loading {
		e.loading[id] = true
	} else {
		delete(e.loading, id)
	}
	e.mu.Unlock()
}

// Annotation returns the loaded detail of an item
func (e *Enricher) Annotation(id string) (model.Item, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	d, ok := e.annotations[id]
	return d, ok
}

// Loading reports whether an item's detail is being fetched
func (e *Enricher) Loading(id string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.loading[id]
}
