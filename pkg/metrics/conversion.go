package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// ConversionMetrics records conversion counts and latency per operation.
type ConversionMetrics struct {
	duration *prometheus.HistogramVec
	total    *prometheus.CounterVec
}

// NewConversionMetrics registers the conversion metrics on the provided registerer.
func NewConversionMetrics(reg prometheus.Registerer) *ConversionMetrics {
	if reg == nil {
		return &ConversionMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "conversion_duration_seconds",
		Help:    "Duration of document conversions in seconds.",
		Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"operation"})
	total := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "conversions_total",
		Help: "Document conversions by operation and outcome.",
	}, []string{"operation", "outcome"})
	reg.MustRegister(duration, total)
	return &ConversionMetrics{
		duration: duration,
		total:    total,
	}
}

// Observe records one conversion of the named operation.
func (c *ConversionMetrics) Observe(operation string, duration time.Duration, err error) {
	if c == nil || c.total == nil || c.duration == nil {
		return
	}
	operation = normalizeLabel(operation)
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	c.total.WithLabelValues(operation, outcome).Inc()
	c.duration.WithLabelValues(operation).Observe(duration.Seconds())
}

func normalizeLabel(label string) string {
	if label == "" {
		return "unknown"
	}
	return label
}
