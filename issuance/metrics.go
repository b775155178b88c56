package issuance

import "github.com/prometheus/client_golang/prometheus"

// SigningMetrics counts issuance outcomes, the same shape as the teacher's
// caMetrics signing counters, with a dedicated label for advisory lint
// findings so they're distinguishable from signer failures.
type SigningMetrics struct {
	signatureCount *prometheus.CounterVec
}

// NewMetrics registers the issuance counters with stats. Set the result as
// Generator.Metrics, or leave that field nil to skip metrics (tests do this).
func NewMetrics(stats prometheus.Registerer) *SigningMetrics {
	signatureCount := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "certificate_signatures",
			Help: "Count of certificate issuance attempts by result: signed, lint_findings, lint_parse_error, signer_error.",
		},
		[]string{"result"},
	)
	stats.MustRegister(signatureCount)
	return &SigningMetrics{signatureCount: signatureCount}
}

func (m *SigningMetrics) observe(result string) {
	if m == nil {
		return
	}
	m.signatureCount.WithLabelValues(result).Inc()
}
