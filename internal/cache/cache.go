// Package cache holds small in-process caches.
package cache

import (
	"context"
	"sync"
	"time"
)

// Loader fetches a fresh value.
type Loader[T any] func(ctx context.Context) (T, error)

// Value caches the result of a Loader for a fixed TTL.
// A failed load is not cached; the previous value, if any, is discarded.
type Value[T any] struct {
	ttl  time.Duration
	load Loader[T]
	now  func() time.Time

	mu        sync.Mutex
	value     T
	fetchedAt time.Time
	valid     bool
}

// NewValue returns a cache that reloads through load once ttl has passed.
func NewValue[T any](ttl time.Duration, load Loader[T]) *Value[T] {
	return &Value[T]{ttl: ttl, load: load, now: time.Now}
}

// WithClock replaces the time source. Intended for tests.
func (c *Value[T]) WithClock(now func() time.Time) *Value[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
	return c
}

// Get returns the cached value, loading it if missing or expired.
func (c *Value[T]) Get(ctx context.Context) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && c.now().Sub(c.fetchedAt) < c.ttl {
		return c.value, nil
	}

	v, err := c.load(ctx)
	if err != nil {
		var zero T
		c.value, c.valid = zero, false
		return zero, err
	}
	c.value, c.fetchedAt, c.valid = v, c.now(), true
	return v, nil
}

// Invalidate forces the next Get to reload.
func (c *Value[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	c.value, c.valid = zero, false
}
