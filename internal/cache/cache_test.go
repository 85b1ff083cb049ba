package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryKV_SetGetDelete(t *testing.T) {
	t.Parallel()

	kv := NewMemoryKV()
	ctx := context.Background()

	_, hit, err := kv.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, kv.Set(ctx, "k", "v", time.Minute))
	val, hit, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "v", val)

	require.NoError(t, kv.Delete(ctx, "k"))
	_, hit, _ = kv.Get(ctx, "k")
	assert.False(t, hit)
}

func TestMemoryKV_Expiry(t *testing.T) {
	t.Parallel()

	kv := NewMemoryKV()
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "short", "v", 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, hit, err := kv.Get(ctx, "short")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryKV_IncrCountsWithinWindow(t *testing.T) {
	t.Parallel()

	kv := NewMemoryKV()
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := kv.Incr(ctx, "counter", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestMemoryKV_IncrResetsAfterWindow(t *testing.T) {
	t.Parallel()

	kv := NewMemoryKV()
	ctx := context.Background()

	_, err := kv.Incr(ctx, "counter", 10*time.Millisecond)
	require.NoError(t, err)
	time.Sleep(30 * time.Millisecond)

	got, err := kv.Incr(ctx, "counter", 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}
