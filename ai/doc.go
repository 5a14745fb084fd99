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


// Package ai provides the semantic scoring abstraction used by the
// reranking pipeline.
//
// The SemanticScorer interface hides the external language-model endpoint
// behind a batch contract: a query plus an ordered candidate list in, a
// Result with per-candidate scores and reasons out. Outcomes are carried
// in Result.Status (ok, cache, timeout, error) so callers branch on data
// rather than on propagated failures.
//
// # Implementation Packages
//
//   - ai/openai: production implementation for OpenAI-compatible chat APIs
//   - ai/mock: test doubles for unit testing without external dependencies
//
// CachedScorer composes any SemanticScorer with the TTL result cache; wire
// it between the pipeline and the live scorer:
//
//	scorer, err := openai.NewScorer(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cached, err := ai.NewCachedScorer(scorer, cache.NewStore(), cfg.Model, 15*time.Minute)
package ai
