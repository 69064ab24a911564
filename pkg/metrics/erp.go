package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ERPMetrics records latency and outcome of outbound ERP operations.
type ERPMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewERPMetrics registers the ERP call metrics on the provided registerer.
func NewERPMetrics(reg prometheus.Registerer) *ERPMetrics {
	if reg == nil {
		return &ERPMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "erp_request_duration_seconds",
		Help:    "Duration of ERP operations in seconds.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"operation"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "erp_request_success_total",
		Help: "Successful ERP operations.",
	}, []string{"operation"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "erp_request_failure_total",
		Help: "Failed ERP operations.",
	}, []string{"operation"})
	reg.MustRegister(duration, success, failure)
	return &ERPMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// Observe records one finished ERP call.
func (m *ERPMetrics) Observe(operation string, took time.Duration, err error) {
	if m == nil || m.duration == nil {
		return
	}
	op := normalizeLabel(operation)
	m.duration.WithLabelValues(op).Observe(took.Seconds())
	if err != nil {
		m.failure.WithLabelValues(op).Inc()
		return
	}
	m.success.WithLabelValues(op).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
