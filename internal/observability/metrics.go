package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for CEP lookups.
type Metrics struct {
	// Form-level metrics.
	Submits            *prometheus.CounterVec // labels: outcome={format_error,not_found,transport_error,success}
	LookupsInFlight    prometheus.Gauge
	SupersededResponse prometheus.Counter

	// Upstream (ViaCEP) metrics.
	UpstreamRequests *prometheus.CounterVec // labels: outcome={success,not_found,error}
	UpstreamDuration prometheus.Histogram

	// Event publishing metrics.
	EventsPublished *prometheus.CounterVec // labels: result={ok,error}
	EventsEnabled   prometheus.Gauge
}

// NewMetrics creates and registers all lookup metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Submits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cep_lookup",
			Name:      "submits_total",
			Help:      "Form submits by outcome.",
		}, []string{"outcome"}),
		LookupsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cep_lookup",
			Name:      "lookups_in_flight",
			Help:      "Lookups currently awaiting an upstream response.",
		}),
		SupersededResponse: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cep_lookup",
			Name:      "superseded_responses_total",
			Help:      "Upstream responses discarded because a newer submit replaced them.",
		}),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cep_lookup",
			Name:      "upstream_requests_total",
			Help:      "ViaCEP requests by outcome.",
		}, []string{"outcome"}),
		UpstreamDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cep_lookup",
			Name:      "upstream_duration_seconds",
			Help:      "ViaCEP request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cep_lookup",
			Name:      "events_published_total",
			Help:      "Lookup events written to the event sink by result.",
		}, []string{"result"}),
		EventsEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cep_lookup",
			Name:      "events_enabled",
			Help:      "1 when lookup event publishing is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.Submits,
		m.LookupsInFlight,
		m.SupersededResponse,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.EventsPublished,
		m.EventsEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		Submits:            prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "cep_lookup", Name: "submits_total"}, []string{"outcome"}),
		LookupsInFlight:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "cep_lookup", Name: "lookups_in_flight"}),
		SupersededResponse: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "cep_lookup", Name: "superseded_responses_total"}),
		UpstreamRequests:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "cep_lookup", Name: "upstream_requests_total"}, []string{"outcome"}),
		UpstreamDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "cep_lookup", Name: "upstream_duration_seconds"}),
		EventsPublished:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "cep_lookup", Name: "events_published_total"}, []string{"result"}),
		EventsEnabled:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "cep_lookup", Name: "events_enabled"}),
	}
}
