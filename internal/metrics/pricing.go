package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PricingMetrics records reconciliation outcomes. It implements
// pricing.Recorder.
type PricingMetrics struct {
	reconciled    prometheus.Counter
	items         prometheus.Histogram
	totals        prometheus.Histogram
	discrepancies *prometheus.CounterVec
	failures      *prometheus.CounterVec
}

// NewPricingMetrics registers the pricing metrics on the provided registerer.
func NewPricingMetrics(reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		return &PricingMetrics{}
	}
	reconciled := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pricing_reconciliations_total",
		Help: "Drafts reconciled into pricing results.",
	})
	items := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pricing_items_per_request",
		Help:    "Priced items per reconciled request.",
		Buckets: []float64{1, 2, 5, 10, 20, 50},
	})
	totals := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pricing_total_amount",
		Help:    "Reconciled total amount per request.",
		Buckets: prometheus.ExponentialBuckets(100, 10, 7),
	})
	discrepancies := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_discrepancies_total",
		Help: "Upstream-proposed values overridden during reconciliation.",
	}, []string{"field"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_upstream_failures_total",
		Help: "Requests that failed for lack of a usable draft.",
	}, []string{"reason"})
	reg.MustRegister(reconciled, items, totals, discrepancies, failures)
	return &PricingMetrics{
		reconciled:    reconciled,
		items:         items,
		totals:        totals,
		discrepancies: discrepancies,
		failures:      failures,
	}
}

func (m *PricingMetrics) ObserveReconciliation(items int, total float64) {
	if m == nil || m.reconciled == nil {
		return
	}
	m.reconciled.Inc()
	m.items.Observe(float64(items))
	m.totals.Observe(total)
}

func (m *PricingMetrics) IncDiscrepancy(field string) {
	if m == nil || m.discrepancies == nil {
		return
	}
	m.discrepancies.WithLabelValues(normalizeLabel(field)).Inc()
}

func (m *PricingMetrics) IncUpstreamFailure(reason string) {
	if m == nil || m.failures == nil {
		return
	}
	m.failures.WithLabelValues(normalizeLabel(reason)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
