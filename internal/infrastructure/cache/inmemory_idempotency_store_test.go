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

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestInMemoryIdempotencyStore(t *testing.T) {
	ctx := context.Background()

	t.Run("second claim of the same key is rejected", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()

		first, err := store.MarkProcessed(ctx, "checkout-1", time.Hour)
		require.NoError(t, err)
		assert.True(t, first)

		second, err := store.MarkProcessed(ctx, "checkout-1", time.Hour)
		require.NoError(t, err)
		assert.False(t, second)

		held, err := store.IsProcessed(ctx, "checkout-1")
		require.NoError(t, err)
		assert.True(t, held)
	})

	t.Run("expired key can be claimed again", func(t *testing.T) {
		clock := &fakeClock{now: time.Now()}
		store := newInMemoryIdempotencyStore(time.Hour, clock.Now)
		defer store.Close()

		ok, _ := store.MarkProcessed(ctx, "checkout-2", time.Minute)
		require.True(t, ok)

		clock.Advance(2 * time.Minute)
		held, _ := store.IsProcessed(ctx, "checkout-2")
		assert.False(t, held)

		ok, _ = store.MarkProcessed(ctx, "checkout-2", time.Minute)
		assert.True(t, ok)
	})

	t.Run("forget releases the key", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()

		_, _ = store.MarkProcessed(ctx, "checkout-3", time.Hour)
		require.NoError(t, store.Forget(ctx, "checkout-3"))

		ok, err := store.MarkProcessed(ctx, "checkout-3", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("writes after the sweep interval drop expired keys", func(t *testing.T) {
		clock := &fakeClock{now: time.Now()}
		store := newInMemoryIdempotencyStore(time.Hour, clock.Now)

		_, _ = store.MarkProcessed(ctx, "short", time.Minute)
		_, _ = store.MarkProcessed(ctx, "long", 3*time.Hour)

		clock.Advance(30 * time.Minute)
		_, _ = store.MarkProcessed(ctx, "early", time.Minute)
		assert.Equal(t, 3, store.Len(), "no sweep before the interval")

		clock.Advance(time.Hour)
		_, _ = store.MarkProcessed(ctx, "late", time.Minute)
		assert.Equal(t, 2, store.Len())

		held, _ := store.IsProcessed(ctx, "long")
		assert.True(t, held)
	})

	t.Run("exactly one concurrent claim wins", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()

		var wins atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if ok, _ := store.MarkProcessed(ctx, "race", time.Hour); ok {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.EqualValues(t, 1, wins.Load())
	})

	t.Run("close is idempotent", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		assert.NoError(t, store.Close())
		assert.NoError(t, store.Close())
	})
}
