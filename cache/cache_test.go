package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorePutGet(t *testing.T) {
	store := NewStore()

	entry := Entry{Scores: []float64{0.8, 0.2}, Reasons: []string{"brand match", "no-reason"}}
	store.Put("k1", entry, time.Minute)

	got, ok := store.Get("k1")
	require.True(t, ok)
	assert.Equal(t, entry, got)
}

func TestStoreMiss(t *testing.T) {
	store := NewStore()
	_, ok := store.Get("absent")
	assert.False(t, ok)
}

func TestStoreExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := NewStore(WithClock(func() time.Time { return now }))

	store.Put("k1", Entry{Scores: []float64{1}}, 15*time.Minute)

	t.Run("fresh entry is returned", func(t *testing.T) {
		_, ok := store.Get("k1")
		assert.True(t, ok)
	})

	t.Run("expired entry is absent and evicted", func(t *testing.T) {
		now = now.Add(16 * time.Minute)
		_, ok := store.Get("k1")
		assert.False(t, ok)
		assert.Zero(t, store.Len())
	})
}

func TestStoreOverwrite(t *testing.T) {
	store := NewStore()

	store.Put("k1", Entry{Scores: []float64{0.1}}, time.Minute)
	store.Put("k1", Entry{Scores: []float64{0.9}}, time.Minute)

	got, ok := store.Get("k1")
	require.True(t, ok)
	assert.Equal(t, []float64{0.9}, got.Scores)
	assert.Equal(t, 1, store.Len())
}

func TestStorePutRefreshesExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := NewStore(WithClock(func() time.Time { return now }))

	store.Put("k1", Entry{Scores: []float64{0.5}}, 10*time.Minute)
	now = now.Add(9 * time.Minute)
	store.Put("k1", Entry{Scores: []float64{0.5}}, 10*time.Minute)
	now = now.Add(9 * time.Minute)

	_, ok := store.Get("k1")
	assert.True(t, ok)
}

func TestStoreConcurrentAccess(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				store.Put("shared", Entry{Scores: []float64{float64(j)}}, time.Minute)
				store.Get("shared")
			}
		}()
	}
	wg.Wait()

	_, ok := store.Get("shared")
	assert.True(t, ok)
}
