package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Codec metrics
	EventsProcessed *prometheus.CounterVec
	CodecDuration   *prometheus.HistogramVec
	PayloadSize     *prometheus.HistogramVec
	CodecErrors     *prometheus.CounterVec

	// Capability metrics
	FormatAvailable *prometheus.GaugeVec
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		EventsProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cecodec_events_total",
				Help: "Total number of events encoded or decoded",
			},
			[]string{"format", "operation", "status"},
		),
		CodecDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cecodec_operation_duration_seconds",
				Help:    "Duration of encode and decode operations",
				Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1.0},
			},
			[]string{"format", "operation"},
		),
		PayloadSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cecodec_payload_size_bytes",
				Help:    "Size of encoded payloads produced or consumed",
				Buckets: prometheus.ExponentialBuckets(64, 4, 10), // 64B to 16MB
			},
			[]string{"format", "operation"},
		),
		CodecErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cecodec_errors_total",
				Help: "Total number of codec errors by kind",
			},
			[]string{"format", "kind"},
		),
		FormatAvailable: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "cecodec_format_available",
				Help: "Whether a format can be used in this build (1) or not (0)",
			},
			[]string{"format"},
		),
	}
}

// IncEvents adds count events to the processed counter.
func (m *Metrics) IncEvents(format, operation, status string, count int) {
	m.EventsProcessed.WithLabelValues(format, operation, status).Add(float64(count))
}

// ObserveDuration observes codec operation duration.
func (m *Metrics) ObserveDuration(format, operation string, seconds float64) {
	m.CodecDuration.WithLabelValues(format, operation).Observe(seconds)
}

// ObservePayloadSize observes the size of an encoded payload.
func (m *Metrics) ObservePayloadSize(format, operation string, size float64) {
	m.PayloadSize.WithLabelValues(format, operation).Observe(size)
}

// IncErrors increments codec errors counter.
func (m *Metrics) IncErrors(format, kind string) {
	m.CodecErrors.WithLabelValues(format, kind).Inc()
}

// SetFormatAvailable records the result of a capability probe.
func (m *Metrics) SetFormatAvailable(format string, available bool) {
	value := 0.0
	if available {
		value = 1.0
	}
	m.FormatAvailable.WithLabelValues(format).Set(value)
}
