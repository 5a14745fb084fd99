package openai

import (
	"encoding/json"
	"fmt"

	"github.com/poiesic/refind/core"
)

const systemPromptTemplate = `You score how well each found item matches a lost-item description.

You will receive a search query and a JSON array of %d candidate items.
For each candidate, judge the semantic relevance of the item to the query,
considering name, category, brand, color, stored place, and feature text.
Partial and cross-language matches count.

Respond with a single JSON object, nothing else:
{"scores": [...], "reasons": [...]}

Rules:
- "scores" holds exactly %d numbers between 0.0 and 1.0, one per candidate, in input order.
- "reasons" holds exactly %d short strings, one per candidate, explaining the score.
- No markdown fences, no prose before or after the JSON object.`

// buildSystemPrompt renders the scoring contract for a batch of n candidates.
func buildSystemPrompt(n int) string {
	return fmt.Sprintf(systemPromptTemplate, n, n, n)
}

// candidateSummary is the wire form of a candidate sent to the model.
// Location and recency are withheld: the rule scorer already accounts for
// them, and the model should judge semantic fit only.
type candidateSummary struct {
	ItemId       int64  `json:"item_id"`
	Name         string `json:"name,omitempty"`
	Category     string `json:"category,omitempty"`
	Brand        string `json:"brand,omitempty"`
	Color        string `json:"color,omitempty"`
	StoredPlace  string `json:"stored_place,omitempty"`
	FeaturesText string `json:"features_text,omitempty"`
}

// buildUserMessage renders the query and candidate batch as the human turn.
func buildUserMessage(query string, candidates []core.Candidate) (string, error) {
	summaries := make([]candidateSummary, len(candidates))
	for i, c := range candidates {
		summaries[i] = candidateSummary{
			ItemId:       c.ItemId,
			Name:         c.Name,
			Category:     c.Category,
			Brand:        c.Brand,
			Color:        c.Color,
			StoredPlace:  c.StoredPlace,
			FeaturesText: c.FeaturesText,
		}
	}

	encoded, err := json.Marshal(summaries)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Query: %s\n\nCandidates:\n%s", query, encoded), nil
}
