package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// InvocationsTotal counts capability invocations by capability and result.
	InvocationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "property_ai",
		Subsystem: "service",
		Name:      "invocations_total",
		Help:      "Total number of capability invocations, labeled by capability and result.",
	}, []string{"capability", "result"})

	// InvocationDurationSeconds is end-to-end time per invocation, measured
	// from call start to envelope construction.
	InvocationDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "property_ai",
		Subsystem: "service",
		Name:      "invocation_duration_seconds",
		Help:      "End-to-end time of a capability invocation.",
		// Keep buckets fairly coarse to avoid high-cardinality time series.
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 20, 60, 120},
	}, []string{"capability"})

	// AuditWriteErrorsTotal counts best-effort audit writes that failed.
	AuditWriteErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "property_ai",
		Subsystem: "service",
		Name:      "audit_write_errors_total",
		Help:      "Total number of failed audit record writes, labeled by store.",
	}, []string{"store"})

	// ProviderErrorsTotal counts failed provider calls by provider.
	ProviderErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "property_ai",
		Subsystem: "service",
		Name:      "provider_errors_total",
		Help:      "Total number of failed upstream provider calls, labeled by provider.",
	}, []string{"provider"})
)

// Register registers service metrics with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			InvocationsTotal,
			InvocationDurationSeconds,
			AuditWriteErrorsTotal,
			ProviderErrorsTotal,
		)
	})
}
