package rerank

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the instrumentation for the reranking pipeline. Collectors
// are created unregistered; call Register to attach them to a registry.
type Metrics struct {
	Requests         prometheus.Counter
	SemanticOutcomes *prometheus.CounterVec
	Fallbacks        prometheus.Counter
	Latency          prometheus.Histogram
}

// NewMetrics creates the pipeline collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		Requests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "refind_rerank_requests_total",
			Help: "Total number of rerank requests processed.",
		}),
		SemanticOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "refind_semantic_outcomes_total",
			Help: "Semantic scoring outcomes partitioned by status.",
		}, []string{"status"}),
		Fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "refind_rule_only_fallbacks_total",
			Help: "Rerank runs that fell back to rule-only scoring.",
		}),
		Latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "refind_rerank_duration_seconds",
			Help:    "End-to-end rerank latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// Register attaches all collectors to the given registerer.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.Requests, m.SemanticOutcomes, m.Fallbacks, m.Latency} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
