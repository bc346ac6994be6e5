// Package cache holds computed API responses. Entries are grouped under a
// namespace whose version counter is bumped to drop every entry at once.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Store is the key-value backend. Get reports ok=false on a miss.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
}

// ErrNotConfigured is returned by a Namespace without a backing store.
var ErrNotConfigured = errors.New("cache_not_configured")

// Namespace versions a group of keys. Invalidate makes every earlier key
// unreachable; the orphans expire with their TTL.
type Namespace struct {
	store Store
	name  string
	ttl   time.Duration
}

func NewNamespace(store Store, name string, ttl time.Duration) *Namespace {
	return &Namespace{store: store, name: name, ttl: ttl}
}

func (n *Namespace) versionKey() string {
	return n.name + ":version"
}

func (n *Namespace) version(ctx context.Context) (int64, error) {
	raw, ok, err := n.store.Get(ctx, n.versionKey())
	if err != nil || !ok {
		return 0, err
	}
	v, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("cache version %q: %w", raw, err)
	}
	return v, nil
}

func (n *Namespace) key(ctx context.Context, suffix string) (string, error) {
	v, err := n.version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:v%d:%s", n.name, v, suffix), nil
}

func (n *Namespace) Get(ctx context.Context, suffix string) ([]byte, bool, error) {
	if n == nil || n.store == nil {
		return nil, false, ErrNotConfigured
	}
	k, err := n.key(ctx, suffix)
	if err != nil {
		return nil, false, err
	}
	return n.store.Get(ctx, k)
}

func (n *Namespace) Set(ctx context.Context, suffix string, value []byte) error {
	if n == nil || n.store == nil {
		return ErrNotConfigured
	}
	k, err := n.key(ctx, suffix)
	if err != nil {
		return err
	}
	return n.store.Set(ctx, k, value, n.ttl)
}

func (n *Namespace) Invalidate(ctx context.Context) error {
	if n == nil || n.store == nil {
		return ErrNotConfigured
	}
	_, err := n.store.Incr(ctx, n.versionKey())
	return err
}
