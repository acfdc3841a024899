package metrics

import "github.com/prometheus/client_golang/prometheus"

// QuotaMetrics records plan quota consumption outcomes per resource.
type QuotaMetrics struct {
	consumed *prometheus.CounterVec
	exceeded *prometheus.CounterVec
	resets   *prometheus.CounterVec
}

// NewQuotaMetrics registers the quota metrics on the provided registerer.
func NewQuotaMetrics(reg prometheus.Registerer) *QuotaMetrics {
	if reg == nil {
		return &QuotaMetrics{}
	}
	consumed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quota_consumed_total",
		Help: "Successful quota consumptions per resource.",
	}, []string{"resource", "plan"})
	exceeded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quota_exceeded_total",
		Help: "Quota consumptions rejected because the plan limit was reached.",
	}, []string{"resource", "plan"})
	resets := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quota_resets_total",
		Help: "Usage counters reset to zero, by trigger.",
	}, []string{"resource", "trigger"})
	reg.MustRegister(consumed, exceeded, resets)
	return &QuotaMetrics{
		consumed: consumed,
		exceeded: exceeded,
		resets:   resets,
	}
}

// IncConsumed increments the consumption counter for a resource/plan pair.
func (q *QuotaMetrics) IncConsumed(resource, plan string) {
	if q == nil || q.consumed == nil {
		return
	}
	q.consumed.WithLabelValues(normalizeLabel(resource), normalizeLabel(plan)).Inc()
}

// IncExceeded increments the rejection counter for a resource/plan pair.
func (q *QuotaMetrics) IncExceeded(resource, plan string) {
	if q == nil || q.exceeded == nil {
		return
	}
	q.exceeded.WithLabelValues(normalizeLabel(resource), normalizeLabel(plan)).Inc()
}

// IncReset increments the reset counter. Trigger is "monthly" for the
// scheduled rollover or "admin" for manual resets.
func (q *QuotaMetrics) IncReset(resource, trigger string) {
	if q == nil || q.resets == nil {
		return
	}
	q.resets.WithLabelValues(normalizeLabel(resource), normalizeLabel(trigger)).Inc()
}
