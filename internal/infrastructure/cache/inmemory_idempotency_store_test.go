package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_Reserve(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	ctx := context.Background()

	t.Run("first reservation wins", func(t *testing.T) {
		ok, err := store.Reserve(ctx, "key-1", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.Reserve(ctx, "key-1", time.Hour)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("pending until completed", func(t *testing.T) {
		ok, err := store.Reserve(ctx, "key-2", time.Hour)
		require.NoError(t, err)
		require.True(t, ok)

		result, pending, found, err := store.Lookup(ctx, "key-2")
		require.NoError(t, err)
		assert.True(t, found)
		assert.True(t, pending)
		assert.Empty(t, result)

		require.NoError(t, store.Complete(ctx, "key-2", "invoice-id", time.Hour))

		result, pending, found, err = store.Lookup(ctx, "key-2")
		require.NoError(t, err)
		assert.True(t, found)
		assert.False(t, pending)
		assert.Equal(t, "invoice-id", result)
	})

	t.Run("release allows retry", func(t *testing.T) {
		ok, _ := store.Reserve(ctx, "key-3", time.Hour)
		require.True(t, ok)
		require.NoError(t, store.Release(ctx, "key-3"))

		_, _, found, err := store.Lookup(ctx, "key-3")
		require.NoError(t, err)
		assert.False(t, found)

		ok, err = store.Reserve(ctx, "key-3", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("expired entries can be reserved again", func(t *testing.T) {
		ok, _ := store.Reserve(ctx, "key-4", 10*time.Millisecond)
		require.True(t, ok)

		time.Sleep(20 * time.Millisecond)

		_, _, found, err := store.Lookup(ctx, "key-4")
		require.NoError(t, err)
		assert.False(t, found)

		ok, err = store.Reserve(ctx, "key-4", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestInMemoryIdempotencyStore_ConcurrentReserve(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	var winners atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := store.Reserve(context.Background(), "shared", time.Hour); ok {
				winners.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), winners.Load())
}

func TestInMemoryIdempotencyStore_Cleanup(t *testing.T) {
	store := newInMemoryIdempotencyStore(5 * time.Millisecond)
	defer store.Close()

	ctx := context.Background()
	_, _ = store.Reserve(ctx, "short", time.Millisecond)
	_, _ = store.Reserve(ctx, "long", time.Hour)

	assert.Eventually(t, func() bool {
		return store.Size() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestInMemoryIdempotencyStore_CloseTwice(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}
