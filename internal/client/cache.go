package client

import (
	"context"
	"sync"
)

// collection caches one list endpoint. Loads are not deduplicated; the last
// one to finish wins.
type collection[T any] struct {
	mu     sync.Mutex
	items  []T
	loaded bool
}

func (c *collection[T]) get(ctx context.Context, load func(context.Context) ([]T, error)) ([]T, error) {
	c.mu.Lock()
	if c.loaded {
		out := append([]T(nil), c.items...)
		c.mu.Unlock()
		return out, nil
	}
	c.mu.Unlock()

	items, err := load(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.items = items
	c.loaded = true
	c.mu.Unlock()
	return append([]T(nil), items...), nil
}

// overlay rewrites the cached list in place. It is a no-op when nothing is cached.
func (c *collection[T]) overlay(fn func([]T) []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		c.items = fn(c.items)
	}
}

// cached returns the current contents without loading.
func (c *collection[T]) cached() ([]T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.items...), c.loaded
}

func (c *collection[T]) invalidate() {
	c.mu.Lock()
	c.items = nil
	c.loaded = false
	c.mu.Unlock()
}
