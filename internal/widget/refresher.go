package widget

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/yourusername/console-landing/internal/events"
	"go.uber.org/zap"
)

// Refresher publishes Refresh on a fixed interval, independent of the
// transitional polling done by the landing page itself.
type Refresher struct {
	bus      *events.Bus
	clock    clock.Clock
	interval time.Duration
	logger   *zap.Logger

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.RWMutex
	reset     chan time.Duration
	isRunning bool
	lastTick  time.Time
	ticks     int
}

// NewRefresher creates a new interval refresher
func NewRefresher(bus *events.Bus, clk clock.Clock, interval time.Duration, logger *zap.Logger) *Refresher {
	if clk == nil {
		clk = clock.New()
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Refresher{
		bus:      bus,
		clock:    clk,
		interval: interval,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
		reset:    make(chan time.Duration, 1),
	}
}

// Start begins publishing refreshes
func (r *Refresher) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isRunning {
		return fmt.Errorf("refresher already running")
	}
	if r.interval <= 0 {
		return fmt.Errorf("invalid refresh interval %v", r.interval)
	}

	r.logger.Info("Starting auto refresher",
		zap.Duration("interval", r.interval),
	)

	r.isRunning = true
	r.wg.Add(1)

	go r.run(r.interval)

	return nil
}

// Stop stops publishing refreshes
func (r *Refresher) Stop() error {
	r.mu.Lock()
	if !r.isRunning {
		r.mu.Unlock()
		return fmt.Errorf("refresher not running")
	}
	r.mu.Unlock()

	r.cancel()
	r.wg.Wait()

	r.mu.Lock()
	r.isRunning = false
	r.mu.Unlock()

	r.logger.Info("Auto refresher stopped")
	return nil
}

func (r *Refresher) run(interval time.Duration) {
	defer r.wg.Done()

	ticker := r.clock.Ticker(interval)
	defer func() { ticker.Stop() }()

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Debug("Refresh loop exiting")
			return

		case <-r.reset:
			r.mu.RLock()
			d := r.interval
			r.mu.RUnlock()
			ticker.Stop()
			ticker = r.clock.Ticker(d)

		case <-ticker.C:
			r.RefreshNow()
		}
	}
}

// RefreshNow publishes a refresh immediately
func (r *Refresher) RefreshNow() {
	r.mu.Lock()
	r.lastTick = r.clock.Now()
	r.ticks++
	r.mu.Unlock()

	r.logger.Debug("Publishing refresh")
	r.bus.Publish(events.Refresh{})
}

// GetStatus returns the current refresher status
func (r *Refresher) GetStatus() RefresherStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return RefresherStatus{
		IsRunning: r.isRunning,
		LastTick:  r.lastTick,
		Ticks:     r.ticks,
		Interval:  r.interval,
	}
}

// RefresherStatus represents the current state of the refresher
type RefresherStatus struct {
	IsRunning bool
	LastTick  time.Time
	Ticks     int
	Interval  time.Duration
}

// SetInterval updates the refresh interval of a running refresher
func (r *Refresher) SetInterval(interval time.Duration) {
	if interval <= 0 {
		return
	}

	r.mu.Lock()
	r.logger.Info("Updating refresh interval",
		zap.Duration("old_interval", r.interval),
		zap.Duration("new_interval", interval),
	)
	r.interval = interval
	running := r.isRunning
	r.mu.Unlock()

	if !running {
		return
	}
	select {
	case r.reset <- interval:
	default:
		// a pending reset will be replaced
		select {
		case <-r.reset:
		default:
		}
		select {
		case r.reset <- interval:
		default:
			// another caller refilled it; the loop reads r.interval
		}
	}
}
