package mock

import (
	"context"
	"sync"

	"github.com/poiesic/refind/ai"
	"github.com/poiesic/refind/core"
)

// MockScorer is a test double for ai.SemanticScorer.
// It allows custom behavior injection via function fields.
type MockScorer struct {
	// ScoreFunc is called by Score if set.
	// If nil, a neutral length-matched result is returned.
	ScoreFunc func(ctx context.Context, query string, candidates []core.Candidate) ai.Result

	mu        sync.Mutex
	callCount int
}

var _ ai.SemanticScorer = (*MockScorer)(nil)

// NewMockScorer creates a mock scorer with default behavior.
// Note: returns the concrete type to allow test assertions.
func NewMockScorer() *MockScorer {
	return &MockScorer{}
}

// Score returns the injected behavior, or a StatusOK result with a uniform
// 0.5 score and a "mock" reason for every candidate.
func (m *MockScorer) Score(ctx context.Context, query string, candidates []core.Candidate) ai.Result {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.ScoreFunc != nil {
		return m.ScoreFunc(ctx, query, candidates)
	}

	scores := make([]float64, len(candidates))
	reasons := make([]string, len(candidates))
	for i := range candidates {
		scores[i] = 0.5
		reasons[i] = "mock"
	}
	return ai.Result{Status: ai.StatusOK, Scores: scores, Reasons: reasons}
}

// CallCount returns the number of times Score was called.
func (m *MockScorer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and the custom function.
func (m *MockScorer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.ScoreFunc = nil
}
