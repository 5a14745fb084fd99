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


package openai

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/poiesic/refind/ai"
	"github.com/poiesic/refind/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Scorer implements ai.SemanticScorer using OpenAI-compatible chat APIs.
type Scorer struct {
	client  llms.Model
	timeout time.Duration
	logger  *slog.Logger
}

var _ ai.SemanticScorer = (*Scorer)(nil)

// wire is the response shape demanded from the model. Element types are
// deliberately loose: the model is not trusted to honor the contract, so
// coercion happens in normalizeScores/normalizeReasons.
type wire struct {
	Scores  []any `json:"scores"`
	Reasons []any `json:"reasons"`
}

// newScorer is an internal constructor that returns the concrete type.
func newScorer(config *ai.Config) (*Scorer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't
	// require authentication.
	token := config.APIKey
	if token == "" {
		token = "none"
	}

	client, err := openai.New(
		openai.WithBaseURL(config.BaseURL),
		openai.WithToken(token),
		openai.WithModel(config.Model),
	)
	if err != nil {
		return nil, err
	}

	return &Scorer{
		client:  client,
		timeout: config.Timeout,
		logger:  slog.Default().With("component", "openai-scorer", "model", config.Model),
	}, nil
}

// NewScorer creates a semantic scorer using the provided configuration.
//
// Returns ai.SemanticScorer interface to enforce abstraction.
func NewScorer(config *ai.Config) (ai.SemanticScorer, error) {
	return newScorer(config)
}

// Score submits the query and candidate batch to the model and enforces
// the response contract client-side. The call is bounded by the configured
// timeout; a late response is discarded. All failure modes are reported in
// Result.Status, never as panics or propagated errors.
func (s *Scorer) Score(ctx context.Context, query string, candidates []core.Candidate) ai.Result {
	if len(candidates) == 0 {
		return ai.Result{Status: ai.StatusOK, Scores: []float64{}, Reasons: []string{}}
	}

	userMsg, err := buildUserMessage(query, candidates)
	if err != nil {
		s.logger.Error("failed to build scoring request", "err", err)
		return ai.Result{Status: ai.StatusError, Scores: []float64{}, Reasons: []string{}}
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(buildSystemPrompt(len(candidates))),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(userMsg),
			},
		},
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	response, err := s.client.GenerateContent(callCtx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || callCtx.Err() != nil {
			s.logger.Warn("scoring call timed out", "timeout", s.timeout, "candidates", len(candidates))
			return ai.Result{Status: ai.StatusTimeout, Scores: []float64{}, Reasons: []string{}}
		}
		s.logger.Error("scoring call failed", "err", err)
		return ai.Result{Status: ai.StatusError, Scores: []float64{}, Reasons: []string{}}
	}

	if len(response.Choices) < 1 {
		s.logger.Warn("no choices returned from model")
		return ai.Result{Status: ai.StatusError, Scores: []float64{}, Reasons: []string{}}
	}

	parsed, ok := s.parseResponse(response.Choices[0].Content)
	if !ok {
		return ai.Result{Status: ai.StatusError, Scores: []float64{}, Reasons: []string{}}
	}

	return ai.Result{
		Status:  ai.StatusOK,
		Scores:  normalizeScores(parsed.Scores, len(candidates)),
		Reasons: normalizeReasons(parsed.Reasons, len(candidates)),
	}
}

// parseResponse extracts the first balanced JSON object from the model
// output and unmarshals it. A repair pass for common LLM JSON mistakes is
// attempted before giving up.
func (s *Scorer) parseResponse(raw string) (wire, bool) {
	var parsed wire

	fragment, ok := extractFirstJSON(stripCodeFences(raw))
	if !ok {
		s.logger.Warn("no balanced JSON object in model response", "response", snippet(raw))
		return parsed, false
	}

	if err := json.Unmarshal([]byte(fragment), &parsed); err == nil {
		return parsed, true
	}

	repaired := repairJSON(fragment)
	if err := json.Unmarshal([]byte(repaired), &parsed); err != nil {
		s.logger.Warn("error parsing model response", "response", snippet(raw), "err", err)
		return parsed, false
	}
	return parsed, true
}

// snippet truncates raw model output for log lines.
func snippet(s string) string {
	const max = 200
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
