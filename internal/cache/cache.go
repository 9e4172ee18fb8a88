package cache

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/yourusername/console-landing/internal/model"
	"go.uber.org/zap"
)

const (
	// DefaultSize bounds the number of cached item details
	DefaultSize = 512
	// DefaultTTL is how long an item detail is reused before re-fetching
	DefaultTTL = 30 * time.Second
)

// Cache defines the interface for per-item detail caching
type Cache interface {
	// Get retrieves a cached detail for an item of resource
	Get(ctx context.Context, resource, id string) (model.Item, bool)

	// Set stores an item detail
	Set(ctx context.Context, resource, id string, detail model.Item) error

	// Invalidate drops every cached detail of resource
	Invalidate(resource string) error
}

// ResultCache is a size-bounded cache whose entries expire after a TTL
type ResultCache struct {
	lru    *expirable.LRU[string, model.Item]
	ttl    time.Duration
	logger *zap.Logger
}

// NewResultCache creates a new LRU cache with TTL expiry
func NewResultCache(size int, ttl time.Duration, logger *zap.Logger) *ResultCache {
	if size <= 0 {
		size = DefaultSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &ResultCache{
		ttl:    ttl,
		logger: logger,
	}
	c.lru = expirable.NewLRU[string, model.Item](size, c.onEvict, ttl)
	return c
}

func cacheKey(resource, id string) string {
	return resource + "/" + id
}

// Get retrieves a cached item detail
func (c *ResultCache) Get(ctx context.Context, resource, id string) (model.Item, bool) {
	detail, ok := c.lru.Get(cacheKey(resource, id))
	if !ok {
		c.logger.Debug("Cache miss",
			zap.String("resource", resource),
			zap.String("id", id),
		)
		return nil, false
	}

	c.logger.Debug("Cache hit",
		zap.String("resource", resource),
		zap.String("id", id),
	)
	return detail, true
}

// Set stores an item detail
func (c *ResultCache) Set(ctx context.Context, resource, id string, detail model.Item) error {
	evicted := c.lru.Add(cacheKey(resource, id), detail)

	c.logger.Debug("Cache updated",
		zap.String("resource", resource),
		zap.String("id", id),
		zap.Duration("ttl", c.ttl),
		zap.Bool("evicted", evicted),
	)
	return nil
}

// Invalidate drops every cached detail of resource. An empty resource
// clears the whole cache.
func (c *ResultCache) Invalidate(resource string) error {
	if resource == "" {
		c.lru.Purge()
		c.logger.Debug("Cache invalidated")
		return nil
	}

	prefix := resource + "/"
	removed := 0
	for _, k := range c.lru.Keys() {
		if strings.HasPrefix(k, prefix) && c.lru.Remove(k) {
			removed++
		}
	}

	c.logger.Debug("Cache invalidated",
		zap.String("resource", resource),
		zap.Int("removed", removed),
	)
	return nil
}

// Len returns the number of live entries
func (c *ResultCache) Len() int {
	return c.lru.Len()
}

// GetTTL returns the configured TTL
func (c *ResultCache) GetTTL() time.Duration {
	return c.ttl
}

func (c *ResultCache) onEvict(key string, _ model.Item) {
	c.logger.Debug("Cache entry evicted", zap.String("key", key))
}
