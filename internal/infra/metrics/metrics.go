// Package metrics provides Prometheus metrics for the API.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ondesc/backend/internal/domain/entity"
)

const metricPrefix = "ondesc_"

// Metrics bundles calculation and HTTP metrics.
type Metrics struct {
	CalculationsTotal   *prometheus.CounterVec
	ExtractionFailures  *prometheus.CounterVec
	TariffSearchSteps   *prometheus.HistogramVec
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New constructs the metrics and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CalculationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "calculations_total",
				Help: "Total successful invoice calculations by mode",
			},
			[]string{"mode"},
		),
		ExtractionFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "extraction_failures_total",
				Help: "Total failed extractions or calculations by error code",
			},
			[]string{"code"},
		),
		TariffSearchSteps: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "tariff_search_iterations",
				Help:    "Iterations taken by the tariff search",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
			},
			[]string{"mode"},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "Total HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
	reg.MustRegister(
		m.CalculationsTotal,
		m.ExtractionFailures,
		m.TariffSearchSteps,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
	)
	return m
}

// ObserveCalculation records a successful calculation.
func (m *Metrics) ObserveCalculation(mode entity.CalculationMode, iterations int) {
	m.CalculationsTotal.WithLabelValues(string(mode)).Inc()
	m.TariffSearchSteps.WithLabelValues(string(mode)).Observe(float64(iterations))
}

// IncExtractionFailure records a failed extraction or calculation.
func (m *Metrics) IncExtractionFailure(code string) {
	m.ExtractionFailures.WithLabelValues(code).Inc()
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, seconds float64) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}
