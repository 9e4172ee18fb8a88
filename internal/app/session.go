package app

import (
	"fmt"

	"github.com/yourusername/console-landing/internal/events"
	"github.com/yourusername/console-landing/internal/landing"
	"github.com/yourusername/console-landing/internal/model"
	"github.com/yourusername/console-landing/internal/widget"
	"go.uber.org/zap"
)

// Session is one open landing page: its controller and the sibling widgets
// that talk to it over a private bus.
type Session struct {
	Page       PageConfig
	Bus        *events.Bus
	Controller *landing.Controller
	Search     *widget.SearchBar
	Actions    *widget.ActionRunner
	// Enricher is nil unless the page has an enrich_url
	Enricher *widget.Enricher
	// Refresher is nil unless poll.auto_refresh is set
	Refresher *widget.Refresher

	loop        landing.Loop
	logger      *zap.Logger
	unsubscribe func()
	started     bool
}

// OpenPage builds a session for the page called name. Controller callbacks
// run on loop; notifier receives failures, successes and session expiry.
// query is the structured filter the page starts with.
func (a *App) OpenPage(name string, loop landing.Loop, notifier widget.ActionNotifier, query string) (*Session, error) {
	page, ok := a.config.Page(name)
	if !ok {
		return nil, fmt.Errorf("unknown page %q", name)
	}

	logger := a.logger.With(zap.String("page", page.Name))
	bus := events.NewBus()

	ctrl := landing.New(landing.Deps{
		Fetcher:      a.client,
		Loop:         loop,
		Clock:        a.clock,
		Bus:          bus,
		Notifier:     notifier,
		SessionStore: a.session,
		DurableStore: a.durable,
		Logger:       logger,
	}, landing.Options{
		PollInterval:               a.config.PollInterval,
		PageSize:                   a.config.PageSize,
		DisableTransitionalRefresh: !a.config.TransitionalRefresh,
		TokenExpiryOn400:           page.StorageService,
		PageURL:                    page.Path,
		InitialQuery:               query,
		FilterKeys:                 page.FilterKeys,
		DefaultFailureMessage:      a.localizer.T("error.fetch_failed"),
	})

	s := &Session{
		Page:       page,
		Bus:        bus,
		Controller: ctrl,
		Search:     widget.NewSearchBar(bus, page.FilterKeys, logger),
		Actions:    widget.NewActionRunner(a.client, bus, notifier, page.StorageService, logger),
		loop:       loop,
		logger:     logger,
	}

	if page.EnrichURL != "" {
		s.Enricher = widget.NewEnricher(widget.EnricherConfig{
			Resource:      page.Name,
			URLTemplate:   page.EnrichURL,
			RatePerSecond: a.config.EnrichRate,
			MaxConcurrent: a.config.EnrichMaxConcurrent,
		}, a.client, a.cache, bus, notifier, a.clock, logger)
	}
	if a.config.AutoRefresh > 0 {
		s.Refresher = widget.NewRefresher(bus, a.clock, a.config.AutoRefresh, logger)
	}

	// An explicit refresh also drops cached details of this page
	s.unsubscribe = events.On(bus, func(events.Refresh) {
		if err := a.cache.Invalidate(page.Name); err != nil {
			logger.Warn("Failed to invalidate detail cache", zap.Error(err))
		}
	})

	return s, nil
}

// Start initializes the controller on its loop and starts the widgets.
// follow starts the enricher on every load; callers that enrich on their
// own pass false.
func (s *Session) Start(follow bool) error {
	if s.started {
		return fmt.Errorf("page %s already started", s.Page.Name)
	}
	s.started = true

	if s.Enricher != nil && follow {
		s.Enricher.Start()
	}
	s.loop.Post(func() {
		s.Controller.Initialize(s.Page.Name, s.Page.Sort, s.Page.Endpoint)
	})
	if s.Refresher != nil {
		if err := s.Refresher.Start(); err != nil {
			return fmt.Errorf("failed to start auto refresh: %w", err)
		}
	}

	s.logger.Info("Page opened",
		zap.String("endpoint", s.Page.Endpoint),
		zap.Bool("enrich", s.Enricher != nil),
		zap.Bool("auto_refresh", s.Refresher != nil),
	)
	return nil
}

// Close stops the widgets and detaches the controller. It must be called
// on the loop's goroutine.
func (s *Session) Close() {
	if s.Refresher != nil && s.Refresher.GetStatus().IsRunning {
		if err := s.Refresher.Stop(); err != nil {
			s.logger.Error("Failed to stop auto refresh", zap.Error(err))
		}
	}
	if s.Enricher != nil {
		s.Enricher.Stop()
	}
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	s.Controller.Close()
	s.logger.Info("Page closed")
}

// Refresh asks the page to reload now
func (s *Session) Refresh() {
	if s.Refresher != nil {
		s.Refresher.RefreshNow()
		return
	}
	s.Bus.Publish(events.Refresh{})
}

// Columns returns the item columns followed by the enrichment columns
func (s *Session) Columns() []string {
	cols := append([]string(nil), s.Page.Columns...)
	if s.Enricher != nil {
		cols = append(cols, s.Page.EnrichColumns...)
	}
	if len(cols) == 0 {
		cols = []string{model.FieldName, model.FieldID}
	}
	return cols
}

// Cell renders column of item, falling back to the item's enrichment
func (s *Session) Cell(item model.Item, column string) string {
	if v := item.Text(column); v != "" {
		return v
	}
	if s.Enricher == nil {
		return ""
	}
	if detail, ok := s.Enricher.Annotation(item.ID()); ok {
		return detail.Text(column)
	}
	if s.Enricher.Loading(item.ID()) {
		return "…"
	}
	return ""
}

// Detail merges item with its enrichment, if any
func (s *Session) Detail(item model.Item) model.Item {
	out := make(model.Item, len(item))
	for k, v := range item {
		out[k] = v
	}
	if s.Enricher == nil {
		return out
	}
	if detail, ok := s.Enricher.Annotation(item.ID()); ok {
		for k, v := range detail {
			if _, exists := out[k]; !exists {
				out[k] = v
			}
		}
	}
	return out
}
