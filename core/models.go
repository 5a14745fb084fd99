package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for stored found items.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// FoundItem is a found-item record as kept in the persistence store.
// Lat and Lon are only meaningful when HasLocation is true.
type FoundItem struct {
	Id           ID
	Name         string
	Category     string
	Brand        string
	Color        string
	StoredPlace  string
	FeaturesText string
	Lat          float64
	Lon          float64
	HasLocation  bool
	FoundAt      time.Time // When the item was found
	InsertedAt   time.Time // When the record was inserted into the database
	UpdatedAt    time.Time // When the record was last updated
}

// Candidate is the request-scoped view of a found item evaluated against one
// search query. Optional fields use pointers; nil means unknown, and an
// unknown value is never treated as evidence against a match. Candidates are
// read-only within a single pipeline run.
type Candidate struct {
	ItemId            int64      `json:"item_id"`
	Name              string     `json:"name,omitempty"`
	Category          string     `json:"category,omitempty"`
	Brand             string     `json:"brand,omitempty"`
	Color             string     `json:"color,omitempty"`
	StoredPlace       string     `json:"stored_place,omitempty"`
	FeaturesText      string     `json:"features_text,omitempty"`
	DistanceKm        *float64   `json:"distance_km,omitempty"`
	MinutesSinceFound *float64   `json:"minutes_since_found,omitempty"`
	CreatedAt         *time.Time `json:"created_at,omitempty"`
}

// ScoredCandidate is a Candidate annotated during one pipeline run.
// RuleScore and LLMScore are in [0,1] after scaling; discarded once the
// response is assembled.
type ScoredCandidate struct {
	Candidate Candidate
	RuleScore float64
	LLMScore  float64
	Reason    string
}

// RankedItem is one entry of the pipeline's ordered response.
type RankedItem struct {
	ItemId    int64   `json:"item_id"`
	RuleScore float64 `json:"rule_score"`
	LLMScore  float64 `json:"llm_score"`
	Reason    string  `json:"reason"`
}
