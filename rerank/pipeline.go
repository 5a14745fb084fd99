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


package rerank

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/refind/ai"
	"github.com/poiesic/refind/core"
	"github.com/poiesic/refind/rules"
)

// Config holds the tunable parameters of the reranking pipeline.
type Config struct {
	// TopK is the semantic cutoff: only the TopK best rule-scored
	// candidates are sent to the semantic scorer.
	TopK int

	// RuleWeight and SemanticWeight blend the two score sources into the
	// final ranking score.
	RuleWeight     float64
	SemanticWeight float64

	// SoftmaxTau is the temperature applied when sharpening semantic
	// scores across the candidate head.
	SoftmaxTau float64
}

// DefaultConfig returns the pipeline defaults.
func DefaultConfig() Config {
	return Config{
		TopK:           50,
		RuleWeight:     0.3,
		SemanticWeight: 0.7,
		SoftmaxTau:     0.7,
	}
}

// Validate checks the configuration for usable values.
func (c Config) Validate() error {
	if c.TopK < 1 {
		return ErrInvalidTopK
	}
	if c.RuleWeight < 0 || c.SemanticWeight < 0 || c.RuleWeight+c.SemanticWeight == 0 {
		return ErrInvalidWeights
	}
	if c.SoftmaxTau <= 0 {
		return ErrInvalidTau
	}
	return nil
}

// Pipeline ranks found-item candidates against a lost-item query by
// blending deterministic rule scores with semantic scores. The semantic
// stage degrades gracefully: any failure there demotes the run to
// rule-only scoring instead of failing the request.
type Pipeline struct {
	rules    *rules.Scorer
	semantic ai.SemanticScorer
	config   Config
	pool     *ants.Pool
	metrics  *Metrics
	logger   *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize enables parallel rule scoring with a worker pool of the
// given size. Without this option rule scoring runs on the caller's
// goroutine.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithMetrics attaches pipeline instrumentation.
func WithMetrics(metrics *Metrics) Option {
	return func(p *Pipeline) error {
		p.metrics = metrics
		return nil
	}
}

// NewPipeline creates a reranking pipeline.
func NewPipeline(ruleScorer *rules.Scorer, semanticScorer ai.SemanticScorer, config Config, opts ...Option) (*Pipeline, error) {
	if ruleScorer == nil {
		return nil, ErrRuleScorerRequired
	}
	if semanticScorer == nil {
		return nil, ErrSemanticScorerRequired
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{
		rules:    ruleScorer,
		semantic: semanticScorer,
		config:   config,
		logger:   slog.Default().With("component", "rerank"),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(p); err != nil {
			if p.pool != nil {
				p.pool.Release()
			}
			return nil, err
		}
	}

	return p, nil
}

// Close releases the worker pool, if any.
// The pipeline should not be used after calling Close.
func (p *Pipeline) Close() {
	if p.pool != nil {
		p.pool.Release()
		p.pool = nil
	}
}

// Rerank scores and orders candidates for the query.
// Returns one RankedItem per input candidate, best match first.
func (p *Pipeline) Rerank(ctx context.Context, query string, candidates []core.Candidate) ([]core.RankedItem, error) {
	return p.RerankWithMonitor(ctx, query, candidates, nil)
}

// RerankWithMonitor is Rerank with stage callbacks for observability.
func (p *Pipeline) RerankWithMonitor(ctx context.Context, query string, candidates []core.Candidate, monitor RerankMonitor) ([]core.RankedItem, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	start := time.Now()
	if p.metrics != nil {
		p.metrics.Requests.Inc()
		defer func() { p.metrics.Latency.Observe(time.Since(start).Seconds()) }()
	}

	if err := core.ValidateQuery(query); err != nil {
		return nil, err
	}
	for i := range candidates {
		if err := core.ValidateCandidate(&candidates[i]); err != nil {
			return nil, err
		}
	}

	monitor.Start(query, len(candidates))

	if len(candidates) == 0 {
		monitor.Finish([]core.RankedItem{})
		return []core.RankedItem{}, nil
	}

	// 1. Rule scoring
	scored := p.scoreRules(query, candidates)
	monitor.AfterRuleScoring(scored)

	// 2. Cut to the semantic head, best rule scores first
	sortByRule(scored)
	head := len(scored)
	if head > p.config.TopK {
		head = p.config.TopK
	}
	monitor.AfterCut(head, len(scored))

	// 3. Semantic scoring over the head
	headCandidates := make([]core.Candidate, head)
	for i := range headCandidates {
		headCandidates[i] = scored[i].Candidate
	}
	result := p.semantic.Score(ctx, query, headCandidates)
	monitor.AfterSemanticScoring(result.Status)
	if p.metrics != nil {
		p.metrics.SemanticOutcomes.WithLabelValues(result.Status.String()).Inc()
	}

	// 4. Assign semantic scores, or fall back to rule-only
	usable := (result.Status == ai.StatusOK || result.Status == ai.StatusCache) &&
		len(result.Scores) == head && len(result.Reasons) == head
	if usable {
		sharpened := softmax(clampAll(result.Scores), p.config.SoftmaxTau)
		for i := 0; i < head; i++ {
			scored[i].LLMScore = sharpened[i]
			scored[i].Reason = result.Reasons[i]
		}
	} else {
		reason := fallbackReason(result.Status)
		p.logger.Warn("semantic scoring unavailable, serving rule-only ranking",
			"status", result.Status.String(),
			"candidates", head)
		monitor.Fallback(reason)
		if p.metrics != nil {
			p.metrics.Fallbacks.Inc()
		}
		for i := 0; i < head; i++ {
			scored[i].LLMScore = scored[i].RuleScore
			scored[i].Reason = reason
		}
	}

	// Candidates beyond the cutoff keep their rule score as the semantic score.
	for i := head; i < len(scored); i++ {
		scored[i].LLMScore = scored[i].RuleScore
		scored[i].Reason = "rule-only: cutoff"
	}

	// 5. Blend and order
	results := p.assemble(scored)
	monitor.Finish(results)
	return results, nil
}

// scoreRules computes the normalized rule score for every candidate,
// using the worker pool when one is configured.
func (p *Pipeline) scoreRules(query string, candidates []core.Candidate) []core.ScoredCandidate {
	scored := make([]core.ScoredCandidate, len(candidates))

	scoreOne := func(i int) {
		raw := p.rules.Score(query, &candidates[i])
		// Raw rule scores are additive boosts on a 0-100 scale; anything
		// already in [0, 1] is taken as-is.
		if raw > 1 {
			raw /= 100
		}
		scored[i] = core.ScoredCandidate{
			Candidate: candidates[i],
			RuleScore: clamp01(raw),
		}
	}

	if p.pool == nil {
		for i := range candidates {
			scoreOne(i)
		}
		return scored
	}

	var wg sync.WaitGroup
	for i := range candidates {
		wg.Add(1)
		if err := p.pool.Submit(func() {
			defer wg.Done()
			scoreOne(i)
		}); err != nil {
			// Pool saturated or released; score inline.
			scoreOne(i)
			wg.Done()
		}
	}
	wg.Wait()
	return scored
}

// assemble blends rule and semantic scores and produces the final ordering.
func (p *Pipeline) assemble(scored []core.ScoredCandidate) []core.RankedItem {
	type ranked struct {
		item  core.RankedItem
		final float64
	}

	entries := make([]ranked, len(scored))
	for i, s := range scored {
		entries[i] = ranked{
			item: core.RankedItem{
				ItemId:    s.Candidate.ItemId,
				RuleScore: s.RuleScore,
				LLMScore:  s.LLMScore,
				Reason:    s.Reason,
			},
			final: p.config.RuleWeight*s.RuleScore + p.config.SemanticWeight*s.LLMScore,
		}
	}

	slices.SortStableFunc(entries, func(a, b ranked) int {
		if a.final != b.final {
			if a.final > b.final {
				return -1
			}
			return 1
		}
		// Deterministic tie-break on item id.
		if a.item.ItemId < b.item.ItemId {
			return -1
		}
		if a.item.ItemId > b.item.ItemId {
			return 1
		}
		return 0
	})

	results := make([]core.RankedItem, len(entries))
	for i, e := range entries {
		results[i] = e.item
	}
	return results
}

// sortByRule orders candidates by rule score descending, item id ascending.
func sortByRule(scored []core.ScoredCandidate) {
	slices.SortStableFunc(scored, func(a, b core.ScoredCandidate) int {
		if a.RuleScore != b.RuleScore {
			if a.RuleScore > b.RuleScore {
				return -1
			}
			return 1
		}
		if a.Candidate.ItemId < b.Candidate.ItemId {
			return -1
		}
		if a.Candidate.ItemId > b.Candidate.ItemId {
			return 1
		}
		return 0
	})
}

// clampAll bounds every score to [0, 1].
func clampAll(scores []float64) []float64 {
	out := make([]float64, len(scores))
	for i, s := range scores {
		out[i] = clamp01(s)
	}
	return out
}

// fallbackReason maps a failed semantic status to the per-item reason string.
func fallbackReason(status ai.Status) string {
	if status == ai.StatusTimeout {
		return "rule-only: timeout"
	}
	return "rule-only: error"
}
