// Package metrics provides Prometheus metrics for certificate presentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeFailure  = "failure"
)

type Metrics struct {
	ArtifactsTotal        *prometheus.CounterVec   // by artifact kind and outcome
	ArtifactDuration      *prometheus.HistogramVec // end to end, by artifact kind
	RecordsPerLookup      prometheus.Histogram     // registry records resolved per request
	SigningFailuresTotal  *prometheus.CounterVec   // by standard (dcc, shc, fhir)
	ConfigurationMissing  *prometheus.CounterVec   // by standard
	EventsDroppedTotal    prometheus.Counter
	RenderDurationSeconds *prometheus.HistogramVec // by template
}

// New registers the metrics on the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the metrics on reg. Tests pass a fresh registry.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ArtifactsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "certificate_api_artifacts_total",
			Help: "Certificate presentations served, by artifact kind and outcome",
		}, []string{"kind", "outcome"}),

		ArtifactDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "certificate_api_artifact_duration_seconds",
			Help:    "Time to produce a certificate artifact",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"kind"}),

		RecordsPerLookup: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "certificate_api_records_per_lookup",
			Help:    "Certificate records returned by the registry per request",
			Buckets: []float64{0, 1, 2, 3, 4, 6, 10},
		}),

		SigningFailuresTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "certificate_api_signing_failures_total",
			Help: "Signer or converter failures by standard",
		}, []string{"standard"}),

		ConfigurationMissing: f.NewCounterVec(prometheus.CounterOpts{
			Name: "certificate_api_configuration_missing_total",
			Help: "Requests rejected because signing configuration is incomplete",
		}, []string{"standard"}),

		EventsDroppedTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "certificate_api_events_dropped_total",
			Help: "Presentation events that could not be handed to the event sink",
		}),

		RenderDurationSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "certificate_api_render_duration_seconds",
			Help:    "PDF rendering latency by template",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"template"}),
	}
}

func (m *Metrics) RecordArtifact(kind, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.ArtifactsTotal.WithLabelValues(kind, outcome).Inc()
	m.ArtifactDuration.WithLabelValues(kind).Observe(seconds)
}

func (m *Metrics) ObserveRecords(n int) {
	if m == nil {
		return
	}
	m.RecordsPerLookup.Observe(float64(n))
}

func (m *Metrics) IncrementSigningFailure(standard string) {
	if m == nil {
		return
	}
	m.SigningFailuresTotal.WithLabelValues(standard).Inc()
}

func (m *Metrics) IncrementConfigurationMissing(standard string) {
	if m == nil {
		return
	}
	m.ConfigurationMissing.WithLabelValues(standard).Inc()
}

func (m *Metrics) IncrementEventsDropped() {
	if m == nil {
		return
	}
	m.EventsDroppedTotal.Inc()
}

func (m *Metrics) ObserveRender(template string, seconds float64) {
	if m == nil {
		return
	}
	m.RenderDurationSeconds.WithLabelValues(template).Observe(seconds)
}
