package ai

import (
	"context"

	"github.com/poiesic/refind/core"
)

// Status classifies the outcome of a semantic scoring call.
// Callers branch on this value; scoring failures are data, not errors.
type Status int

const (
	// StatusOK means a live external call succeeded and the result was
	// normalized to the contract.
	StatusOK Status = iota + 1

	// StatusCache means the result was served from the result cache
	// without an external call.
	StatusCache

	// StatusTimeout means the external call exceeded its deadline.
	// Scores and Reasons are empty; the caller supplies the fallback.
	StatusTimeout

	// StatusError means the external call failed or returned content from
	// which no valid result could be extracted. Scores and Reasons are empty.
	StatusError
)

// String returns the lowercase wire name of the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusCache:
		return "cache"
	case StatusTimeout:
		return "timeout"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Result is the outcome of one semantic scoring call.
//
// When Status is StatusOK or StatusCache, Scores holds one value in [0,1]
// per submitted candidate and Reasons one short explanation per candidate,
// both aligned to the submitted order. On StatusTimeout and StatusError
// both slices are empty.
type Result struct {
	Status  Status
	Scores  []float64
	Reasons []string
}

// SemanticScorer scores an ordered batch of candidates against a query
// using an external language model. Implementations must be thread-safe
// for concurrent use and must never mutate the candidates.
//
// Implementations report failures through Result.Status rather than an
// error value: a degraded semantic stage is an expected mode of operation,
// not an exceptional one.
type SemanticScorer interface {
	// Score evaluates how well each candidate matches the query.
	// The returned Result is length-safe on success: Scores and Reasons
	// each have exactly len(candidates) elements.
	Score(ctx context.Context, query string, candidates []core.Candidate) Result
}
