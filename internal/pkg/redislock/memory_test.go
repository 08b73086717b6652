package redislock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_LeaseExclusion(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore()
	ctx := context.Background()

	got, err := store.AcquireLease(ctx, "sweep", time.Minute)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = store.AcquireLease(ctx, "sweep", time.Minute)
	require.NoError(t, err)
	assert.False(t, got, "second holder must be refused")

	require.NoError(t, store.ReleaseLease(ctx, "sweep"))

	got, err = store.AcquireLease(ctx, "sweep", time.Minute)
	require.NoError(t, err)
	assert.True(t, got, "released lease is acquirable again")
}

func TestMemoryStore_LeaseExpires(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore()
	ctx := context.Background()

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base }

	got, _ := store.AcquireLease(ctx, "sweep", 10*time.Minute)
	require.True(t, got)

	store.now = func() time.Time { return base.Add(5 * time.Minute) }
	got, _ = store.AcquireLease(ctx, "sweep", 10*time.Minute)
	assert.False(t, got)

	store.now = func() time.Time { return base.Add(11 * time.Minute) }
	got, _ = store.AcquireLease(ctx, "sweep", 10*time.Minute)
	assert.True(t, got, "expired lease is up for grabs")
}

func TestMemoryStore_MarkOnce(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore()
	ctx := context.Background()

	first, err := store.MarkOnce(ctx, "expiry:u-1:expired:2026-03-10", time.Hour)
	require.NoError(t, err)
	assert.True(t, first)

	first, err = store.MarkOnce(ctx, "expiry:u-1:expired:2026-03-10", time.Hour)
	require.NoError(t, err)
	assert.False(t, first, "repeat inside the window is suppressed")

	// a different key is independent
	first, err = store.MarkOnce(ctx, "expiry:u-2:expired:2026-03-10", time.Hour)
	require.NoError(t, err)
	assert.True(t, first)
}

// Lease and dedup keyspaces must not collide even with equal names.
func TestMemoryStore_SeparateKeyspaces(t *testing.T) {
	t.Parallel()
	store := NewMemoryStore()
	ctx := context.Background()

	got, _ := store.AcquireLease(ctx, "shared", time.Hour)
	require.True(t, got)

	first, _ := store.MarkOnce(ctx, "shared", time.Hour)
	assert.True(t, first)
}
