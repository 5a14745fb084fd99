package cache

import (
	"encoding/hex"
	"encoding/json"

	"github.com/go-crypt/x/blake2b"
	"github.com/poiesic/refind/core"
)

// keyPayload fixes the serialization order of the cache key components.
// The full candidate snapshot is part of the key on purpose: a changed
// attribute must invalidate the cached judgment even when the id set is
// unchanged.
type keyPayload struct {
	Query      string           `json:"query"`
	Candidates []core.Candidate `json:"candidates"`
	Model      string           `json:"model"`
}

// Key derives a deterministic cache key from the query text, the exact
// ordered candidate list submitted to the semantic scorer, and the model
// identifier.
func Key(query string, candidates []core.Candidate, model string) string {
	payload, err := json.Marshal(keyPayload{
		Query:      query,
		Candidates: candidates,
		Model:      model,
	})
	if err != nil {
		// Marshaling a plain struct of strings and floats cannot fail;
		// fall back to hashing the raw query so a key is always produced.
		payload = []byte(query + "|" + model)
	}

	h, _ := blake2b.New(32, nil)
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}
