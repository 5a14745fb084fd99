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

import "errors"

var (
	// ErrRuleScorerRequired is returned when no rule scorer is provided.
	ErrRuleScorerRequired = errors.New("rule scorer is required")

	// ErrSemanticScorerRequired is returned when no semantic scorer is provided.
	ErrSemanticScorerRequired = errors.New("semantic scorer is required")

	// ErrInvalidTopK is returned when the semantic cutoff is not positive.
	ErrInvalidTopK = errors.New("top-k must be positive")

	// ErrInvalidWeights is returned when a blend weight is negative or both are zero.
	ErrInvalidWeights = errors.New("blend weights must be non-negative and not both zero")

	// ErrInvalidTau is returned when the softmax temperature is not positive.
	ErrInvalidTau = errors.New("softmax temperature must be positive")
)
