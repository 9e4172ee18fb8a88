package storage

import (
	"context"
	"sync"
)

// Store is a small string key-value capability. The landing page keeps its
// sort preference in a session-scoped store and its display mode in a
// durable one.
type Store interface {
	// Get returns the value stored under key and whether it was present
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key
	Set(ctx context.Context, key, value string) error

	// Close releases resources held by the store
	Close() error
}

// Preference key suffixes
const (
	sortBySuffix   = "-sortBy"
	viewModeSuffix = "-landingPageView"
)

// SortByKey returns the key holding a resource's sort field
func SortByKey(resourceKey string) string {
	return resourceKey + sortBySuffix
}

// ViewModeKey returns the key holding a resource's display mode
func ViewModeKey(resourceKey string) string {
	return resourceKey + viewModeSuffix
}

// MemoryStore keeps values for the lifetime of the process
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get returns the value stored under key
func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

// Set stores value under key
func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Close is a no-op
func (s *MemoryStore) Close() error { return nil }
