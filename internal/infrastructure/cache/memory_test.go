package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSetGetDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	defer store.Close()

	require.NoError(t, store.Set(ctx, "k", "v", time.Minute))

	v, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	require.NoError(t, store.Delete(ctx, "k"))
	_, ok, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	defer store.Close()

	require.NoError(t, store.Set(ctx, "k", "v", -time.Second))
	_, ok, _ := store.Get(ctx, "k")
	assert.False(t, ok)

	store.purge(time.Now())
	store.mu.RLock()
	assert.Empty(t, store.items)
	store.mu.RUnlock()
}

func TestMemoryStoreTakeIsOneShot(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	defer store.Close()

	require.NoError(t, store.Set(ctx, "state", "valid", time.Minute))

	v, ok, err := store.Take(ctx, "state")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "valid", v)

	_, ok, err = store.Take(ctx, "state")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreCloseIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
	assert.Equal(t, "memory", store.Name())
	assert.NoError(t, store.Ping(context.Background()))
}
