package cache

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// entry holds a cached value with its creation timestamp.
type entry[V any] struct {
	value     V
	createdAt time.Time
}

// Cache is a small in-memory store of recent run outputs.
// It is safe for concurrent use.
type Cache[V any] struct {
	mu         sync.RWMutex
	store      map[string]*entry[V]
	maxEntries int
	now        func() time.Time
}

// New creates a Cache holding at most maxEntries values. A background
// goroutine evicts entries older than ttl every interval until ctx is done.
func New[V any](ctx context.Context, maxEntries int, ttl, interval time.Duration) *Cache[V] {
	c := &Cache[V]{
		store:      make(map[string]*entry[V]),
		maxEntries: max(maxEntries, 1),
		now:        time.Now,
	}

	go c.cleanupLoop(ctx, ttl, interval)
	return c
}

// Key identifies one export: the pipeline and its record cap.
func Key(pipeline string, maxEntries int) string {
	return pipeline + "|" + strconv.Itoa(maxEntries)
}

// Get returns the value stored under key if it is younger than maxAge.
// maxAge <= 0 disables the lookup.
func (c *Cache[V]) Get(key string, maxAge time.Duration) (V, bool) {
	var zero V
	if maxAge <= 0 {
		return zero, false
	}

	c.mu.RLock()
	e, ok := c.store[key]
	c.mu.RUnlock()

	if !ok || c.now().Sub(e.createdAt) > maxAge {
		return zero, false
	}
	return e.value, true
}

// Set stores a value. If the cache is at capacity, the oldest entry is
// evicted to make room.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.store[key]; !exists && len(c.store) >= c.maxEntries {
		var (
			oldestKey string
			oldest    time.Time
		)
		for k, e := range c.store {
			if oldestKey == "" || e.createdAt.Before(oldest) {
				oldestKey, oldest = k, e.createdAt
			}
		}
		delete(c.store, oldestKey)
	}

	c.store[key] = &entry[V]{value: value, createdAt: c.now()}
}

// Len reports the number of stored entries, expired ones included.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

func (c *Cache[V]) evict(cutoff time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.store {
		if e.createdAt.Before(cutoff) {
			delete(c.store, k)
		}
	}
}

func (c *Cache[V]) cleanupLoop(ctx context.Context, ttl, interval time.Duration) {
	if ttl <= 0 || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.evict(c.now().Add(-ttl))
		}
	}
}
