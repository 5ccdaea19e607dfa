package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// InventoryMetrics records counters for the stock mutation engine.
type InventoryMetrics struct {
	applied    *prometheus.CounterVec
	failed     *prometheus.CounterVec
	casRetries prometheus.Counter
}

// NewInventoryMetrics registers the mutation engine metrics on the provided
// registerer. A nil registerer yields a no-op recorder, which keeps tests and
// worker binaries free of metric plumbing.
func NewInventoryMetrics(reg prometheus.Registerer) *InventoryMetrics {
	if reg == nil {
		return &InventoryMetrics{}
	}
	applied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_mutations_applied_total",
		Help: "Stock mutations applied, by movement reason.",
	}, []string{"reason"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_mutations_failed_total",
		Help: "Stock mutations that surfaced an error, by movement reason.",
	}, []string{"reason"})
	casRetries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stock_cas_retries_total",
		Help: "Conditional stock updates retried after losing a write race.",
	})
	reg.MustRegister(applied, failed, casRetries)
	return &InventoryMetrics{
		applied:    applied,
		failed:     failed,
		casRetries: casRetries,
	}
}

// IncApplied increments the applied counter for the given movement reason.
func (m *InventoryMetrics) IncApplied(reason string) {
	if m == nil || m.applied == nil {
		return
	}
	m.applied.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncFailed increments the failure counter for the given movement reason.
func (m *InventoryMetrics) IncFailed(reason string) {
	if m == nil || m.failed == nil {
		return
	}
	m.failed.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncCASRetry counts one lost write race on the product stock row.
func (m *InventoryMetrics) IncCASRetry() {
	if m == nil || m.casRetries == nil {
		return
	}
	m.casRetries.Inc()
}

func normalizeLabel(label string) string {
	if label == "" {
		return "unknown"
	}
	return label
}
