// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/poiesic/refind/cache"
	"github.com/poiesic/refind/core"
)

// Construction errors for CachedScorer.
var (
	// ErrScorerRequired is returned when the wrapped scorer is nil.
	ErrScorerRequired = errors.New("semantic scorer required")

	// ErrCacheRequired is returned when the cache store is nil.
	ErrCacheRequired = errors.New("cache store required")
)

// CachedScorer wraps a SemanticScorer with the TTL result cache.
//
// A hit returns StatusCache without touching the wrapped scorer. A miss
// delegates, and only a StatusOK result populates the cache; timeout and
// error outcomes are never memoized. Concurrent misses for the same key
// may each perform the external call: the occasional duplicate is accepted
// and the last writer wins.
type CachedScorer struct {
	inner  SemanticScorer
	store  *cache.Store
	model  string
	ttl    time.Duration
	logger *slog.Logger
}

var _ SemanticScorer = (*CachedScorer)(nil)

// NewCachedScorer creates a caching decorator around inner.
// The model identifier participates in key derivation so results from
// different models never alias.
func NewCachedScorer(inner SemanticScorer, store *cache.Store, model string, ttl time.Duration) (*CachedScorer, error) {
	if inner == nil {
		return nil, ErrScorerRequired
	}
	if store == nil {
		return nil, ErrCacheRequired
	}

	return &CachedScorer{
		inner:  inner,
		store:  store,
		model:  model,
		ttl:    ttl,
		logger: slog.Default().With("component", "cached-scorer"),
	}, nil
}

// Score serves from the cache when possible, otherwise delegates to the
// wrapped scorer.
func (c *CachedScorer) Score(ctx context.Context, query string, candidates []core.Candidate) Result {
	key := cache.Key(query, candidates, c.model)

	if entry, ok := c.store.Get(key); ok {
		c.logger.Debug("cache hit", "key", key, "candidates", len(candidates))
		return Result{
			Status:  StatusCache,
			Scores:  entry.Scores,
			Reasons: entry.Reasons,
		}
	}

	result := c.inner.Score(ctx, query, candidates)
	if result.Status == StatusOK {
		c.store.Put(key, cache.Entry{
			Scores:  result.Scores,
			Reasons: result.Reasons,
		}, c.ttl)
	}

	return result
}
