package rerank

import (
	"github.com/poiesic/refind/ai"
	"github.com/poiesic/refind/core"
)

// RerankMonitor provides hooks to observe the reranking process.
// Implement this interface to track intermediate steps during a run.
type RerankMonitor interface {
	Start(query string, candidates int)
	AfterRuleScoring(scored []core.ScoredCandidate)
	AfterCut(kept, total int)
	AfterSemanticScoring(status ai.Status)
	Fallback(reason string)
	Finish(results []core.RankedItem)
}

// noopMonitor is a no-op implementation of RerankMonitor
type noopMonitor struct{}

var _ RerankMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ int)                     {}
func (n *noopMonitor) AfterRuleScoring(_ []core.ScoredCandidate) {}
func (n *noopMonitor) AfterCut(_, _ int)                         {}
func (n *noopMonitor) AfterSemanticScoring(_ ai.Status)          {}
func (n *noopMonitor) Fallback(_ string)                         {}
func (n *noopMonitor) Finish(_ []core.RankedItem)                {}
