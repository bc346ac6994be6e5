package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "k", []byte("v"), time.Minute))
	got, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)

	now = now.Add(time.Minute)
	_, ok, err = m.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemorySweepsInvalidatedVersions(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ns := NewNamespace(m, "dashboard", time.Minute)

	for i := 0; i < 1000; i++ {
		require.NoError(t, ns.Set(ctx, fmt.Sprintf("granularity=week&q=%d", i), []byte("{}")))
		require.NoError(t, ns.Invalidate(ctx))
	}
	assert.Len(t, m.entries, 1001)

	now = now.Add(time.Hour)
	require.NoError(t, ns.Set(ctx, "granularity=month", []byte("{}")))
	assert.Len(t, m.entries, 2)

	got, ok, err := ns.Get(ctx, "granularity=month")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("{}"), got)
}

func TestMemoryGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Set(ctx, "k", []byte("abc"), 0))

	got, _, _ := m.Get(ctx, "k")
	got[0] = 'x'
	again, _, _ := m.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), again)
}

func TestMemoryIncr(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	n, err := m.Incr(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = m.Incr(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, m.Set(ctx, "bad", []byte("x"), 0))
	_, err = m.Incr(ctx, "bad")
	assert.Error(t, err)
}

func TestNamespaceInvalidate(t *testing.T) {
	ctx := context.Background()
	ns := NewNamespace(NewMemory(), "dashboard", time.Minute)

	require.NoError(t, ns.Set(ctx, "month", []byte("v0")))
	got, ok, err := ns.Get(ctx, "month")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v0"), got)

	require.NoError(t, ns.Invalidate(ctx))
	_, ok, err = ns.Get(ctx, "month")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, ns.Set(ctx, "month", []byte("v1")))
	got, _, _ = ns.Get(ctx, "month")
	assert.Equal(t, []byte("v1"), got)
}

func TestNilNamespace(t *testing.T) {
	var ns *Namespace
	_, _, err := ns.Get(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.ErrorIs(t, ns.Invalidate(context.Background()), ErrNotConfigured)
}
