package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// InMemoryDashboardCache implements DashboardCache with a process-local map.
// Used for single-instance deployments and as a fallback when Redis is not
// configured.
type InMemoryDashboardCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewInMemoryDashboardCache creates an empty in-memory cache
func NewInMemoryDashboardCache() *InMemoryDashboardCache {
	return &InMemoryDashboardCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Get fetches a cached payload, dropping it when expired
func (c *InMemoryDashboardCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	return entry.payload, true, nil
}

// Set stores a payload with a TTL
func (c *InMemoryDashboardCache) Set(_ context.Context, key string, payload []byte, ttl time.Duration) error {
	c.mu.Lock()
	c.entries[key] = memoryEntry{payload: payload, expiresAt: c.now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

// InvalidateYear drops every cached view that covers the year
func (c *InMemoryDashboardCache) InvalidateYear(_ context.Context, year int) error {
	marker := yearPrefix(year)
	c.mu.Lock()
	for key := range c.entries {
		if strings.Contains(key, marker) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
	return nil
}

// Close is a no-op for the in-memory cache
func (c *InMemoryDashboardCache) Close() error {
	return nil
}
