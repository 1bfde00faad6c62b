package providers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// BuildMetrics are the build-side counters. cmd/tzbuild increments
// CountriesProcessed for each resolved country; DiagnosticsEmitted and
// ClashesFound are registered but not incremented by cmd/tzbuild.
type BuildMetrics struct {
	CountriesProcessed prometheus.Counter
	DiagnosticsEmitted *prometheus.CounterVec
	ClashesFound       prometheus.Counter
}

// NewBuildMetricsProvider registers and returns the build-side metrics.
func NewBuildMetricsProvider(reg prometheus.Registerer) *BuildMetrics {
	m := &BuildMetrics{
		CountriesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tzbuild",
			Name:      "countries_processed_total",
			Help:      "Countries successfully resolved into an output record.",
		}),
		DiagnosticsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tzbuild",
			Name:      "diagnostics_emitted_total",
			Help:      "Diagnostics entries emitted, by severity.",
		}, []string{"severity"}),
		ClashesFound: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tzbuild",
			Name:      "priority_clashes_total",
			Help:      "Priority clashes found across all countries.",
		}),
	}
	reg.MustRegister(m.CountriesProcessed, m.DiagnosticsEmitted, m.ClashesFound)
	return m
}

// ProviderMetrics are the provider-side gauges/counters. cmd/tzprovider
// increments ResultsDelivered for each delivered result; BudgetRemainingMs is
// registered but not set by cmd/tzprovider.
type ProviderMetrics struct {
	BudgetRemainingMs prometheus.Gauge
	ResultsDelivered  *prometheus.CounterVec
}

// NewProviderMetricsProvider registers and returns the provider-side
// metrics.
func NewProviderMetricsProvider(reg prometheus.Registerer) *ProviderMetrics {
	m := &ProviderMetrics{
		BudgetRemainingMs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tzprovider",
			Name:      "budget_remaining_ms",
			Help:      "Remaining active-listening budget in milliseconds.",
		}),
		ResultsDelivered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tzprovider",
			Name:      "results_delivered_total",
			Help:      "Results delivered to the host, by kind.",
		}, []string{"kind"}),
	}
	reg.MustRegister(m.BudgetRemainingMs, m.ResultsDelivered)
	return m
}

// NewMetricsHandler exposes reg as a standard Prometheus /metrics endpoint.
func NewMetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
