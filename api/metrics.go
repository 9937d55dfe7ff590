package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics holds the server's instrumentation. Each server carries its
// own registry so repeated construction never double-registers.
type metrics struct {
	registry    *prometheus.Registry
	evaluations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "photonic_evaluations_total",
				Help: "Total number of evaluation requests",
			},
			[]string{"device", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "photonic_evaluation_duration_seconds",
				Help: "Duration of evaluations",
			},
			[]string{"device"},
		),
	}
	m.registry.MustRegister(m.evaluations, m.duration)
	return m
}

func (m *metrics) observe(device, status string, seconds float64) {
	m.evaluations.WithLabelValues(device, status).Inc()
	m.duration.WithLabelValues(device).Observe(seconds)
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
