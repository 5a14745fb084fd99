package ai_test

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/refind/ai"
	"github.com/poiesic/refind/ai/mock"
	"github.com/poiesic/refind/cache"
	"github.com/poiesic/refind/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCachedScorer(t *testing.T) {
	store := cache.NewStore()
	scorer := mock.NewMockScorer()

	t.Run("valid configuration", func(t *testing.T) {
		cached, err := ai.NewCachedScorer(scorer, store, "gpt-4o-mini", time.Minute)
		require.NoError(t, err)
		assert.NotNil(t, cached)
	})

	t.Run("nil scorer", func(t *testing.T) {
		_, err := ai.NewCachedScorer(nil, store, "gpt-4o-mini", time.Minute)
		assert.Equal(t, ai.ErrScorerRequired, err)
	})

	t.Run("nil store", func(t *testing.T) {
		_, err := ai.NewCachedScorer(scorer, nil, "gpt-4o-mini", time.Minute)
		assert.Equal(t, ai.ErrCacheRequired, err)
	})
}

func TestCachedScorer_Idempotence(t *testing.T) {
	// Two identical calls within the TTL perform exactly one external call;
	// the second is served from the cache with identical content.
	store := cache.NewStore()
	scorer := mock.NewMockScorer()
	scorer.ScoreFunc = func(ctx context.Context, query string, candidates []core.Candidate) ai.Result {
		return ai.Result{
			Status:  ai.StatusOK,
			Scores:  []float64{0.9, 0.1},
			Reasons: []string{"brand and color match", "no-reason"},
		}
	}

	cached, err := ai.NewCachedScorer(scorer, store, "gpt-4o-mini", 15*time.Minute)
	require.NoError(t, err)

	ctx := context.Background()
	candidates := []core.Candidate{{ItemId: 1, Color: "black"}, {ItemId: 2}}

	first := cached.Score(ctx, "black wallet", candidates)
	require.Equal(t, ai.StatusOK, first.Status)

	second := cached.Score(ctx, "black wallet", candidates)
	assert.Equal(t, ai.StatusCache, second.Status)
	assert.Equal(t, first.Scores, second.Scores)
	assert.Equal(t, first.Reasons, second.Reasons)
	assert.Equal(t, 1, scorer.CallCount())
}

func TestCachedScorer_FailuresNotCached(t *testing.T) {
	store := cache.NewStore()
	scorer := mock.NewMockScorer()
	scorer.ScoreFunc = func(ctx context.Context, query string, candidates []core.Candidate) ai.Result {
		return ai.Result{Status: ai.StatusTimeout}
	}

	cached, err := ai.NewCachedScorer(scorer, store, "gpt-4o-mini", time.Minute)
	require.NoError(t, err)

	ctx := context.Background()
	candidates := []core.Candidate{{ItemId: 1}}

	res := cached.Score(ctx, "query", candidates)
	assert.Equal(t, ai.StatusTimeout, res.Status)

	// Timeout is not memoized: the next call hits the scorer again.
	cached.Score(ctx, "query", candidates)
	assert.Equal(t, 2, scorer.CallCount())
	assert.Zero(t, store.Len())
}

func TestCachedScorer_ExpiryTriggersLiveCall(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := cache.NewStore(cache.WithClock(func() time.Time { return now }))
	scorer := mock.NewMockScorer()

	cached, err := ai.NewCachedScorer(scorer, store, "gpt-4o-mini", 15*time.Minute)
	require.NoError(t, err)

	ctx := context.Background()
	candidates := []core.Candidate{{ItemId: 1}}

	cached.Score(ctx, "query", candidates)
	now = now.Add(16 * time.Minute)
	res := cached.Score(ctx, "query", candidates)

	assert.Equal(t, ai.StatusOK, res.Status)
	assert.Equal(t, 2, scorer.CallCount())
}

func TestCachedScorer_DistinctKeysDoNotAlias(t *testing.T) {
	store := cache.NewStore()
	scorer := mock.NewMockScorer()

	cached, err := ai.NewCachedScorer(scorer, store, "gpt-4o-mini", time.Minute)
	require.NoError(t, err)

	ctx := context.Background()
	cached.Score(ctx, "black wallet", []core.Candidate{{ItemId: 1, Color: "black"}})
	cached.Score(ctx, "black wallet", []core.Candidate{{ItemId: 1, Color: "brown"}})

	// Changed candidate attribute means a different key, hence a second call.
	assert.Equal(t, 2, scorer.CallCount())
}
