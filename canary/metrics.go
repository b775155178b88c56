package canary

import "github.com/prometheus/client_golang/prometheus"

// mapperMetrics counts reconciliation outcomes, mirroring the
// signature/error counters ca.go keeps for certificate issuance.
type mapperMetrics struct {
	outcomes *prometheus.CounterVec
}

// NewMetrics registers the canary reconciliation counters with stats and
// returns a value suitable for passing to Reconcile. Pass nil to
// Reconcile to skip metrics entirely (useful in unit tests).
func NewMetrics(stats prometheus.Registerer) *mapperMetrics {
	outcomes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "canary_reconciliation_outcomes",
			Help: "Count of canary reconciliation outcomes by kind: matched, minted, dropped.",
		},
		[]string{"outcome"},
	)
	stats.MustRegister(outcomes)
	return &mapperMetrics{outcomes: outcomes}
}

func (m *mapperMetrics) observe(outcome string) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(outcome).Inc()
}
