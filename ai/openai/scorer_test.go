package openai

import (
	"log/slog"
	"testing"

	"github.com/poiesic/refind/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScorer() *Scorer {
	return &Scorer{logger: slog.Default().With("component", "openai-scorer")}
}

func TestParseResponse(t *testing.T) {
	s := testScorer()

	t.Run("clean response", func(t *testing.T) {
		parsed, ok := s.parseResponse(`{"scores": [0.9, 0.1], "reasons": ["match", "miss"]}`)
		require.True(t, ok)
		assert.Len(t, parsed.Scores, 2)
		assert.Len(t, parsed.Reasons, 2)
	})

	t.Run("fenced response with prose", func(t *testing.T) {
		raw := "Sure! Here you go:\n```json\n{\"scores\": [1], \"reasons\": [\"ok\"]}\n```"
		parsed, ok := s.parseResponse(raw)
		require.True(t, ok)
		assert.Len(t, parsed.Scores, 1)
	})

	t.Run("repairable response", func(t *testing.T) {
		parsed, ok := s.parseResponse(`{scores": [0.5], reasons": ["ok"]}`)
		require.True(t, ok)
		assert.Len(t, parsed.Scores, 1)
	})

	t.Run("refusal text", func(t *testing.T) {
		_, ok := s.parseResponse("I cannot score these items.")
		assert.False(t, ok)
	})
}

func TestBuildUserMessage(t *testing.T) {
	msg, err := buildUserMessage("검은색 지갑", []core.Candidate{
		{ItemId: 7, Name: "지갑", Brand: "루이비통", Color: "검은색"},
	})
	require.NoError(t, err)

	assert.Contains(t, msg, "검은색 지갑")
	assert.Contains(t, msg, `"item_id":7`)
	assert.Contains(t, msg, `"brand":"루이비통"`)
	// Rule-side signals are not leaked to the model.
	assert.NotContains(t, msg, "distance")
	assert.NotContains(t, msg, "minutes")
}

func TestBuildSystemPrompt(t *testing.T) {
	prompt := buildSystemPrompt(12)
	assert.Contains(t, prompt, "12 candidate items")
	assert.Contains(t, prompt, `{"scores": [...], "reasons": [...]}`)
}
