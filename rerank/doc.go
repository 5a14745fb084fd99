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


// Package rerank orchestrates the two-stage ranking of found-item
// candidates for a lost-item query.
//
// Stage one applies deterministic attribute, distance, and recency rules
// to every candidate. The best rule-scored candidates, up to the
// configured cutoff, go to the semantic scorer in stage two; its scores
// are sharpened with a softmax and blended with the rule scores into the
// final ordering. When the semantic stage times out or fails the pipeline
// serves a rule-only ranking, marking each affected item's reason, so a
// slow or absent language model never takes the search down.
package rerank
