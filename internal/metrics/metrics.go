// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "nubit"

type Metrics struct {
	registry *prometheus.Registry

	Analyses       *prometheus.CounterVec
	AnalysisTime   *prometheus.HistogramVec
	Transcriptions *prometheus.CounterVec
	TranscribeTime *prometheus.HistogramVec
	HTTPRequests   *prometheus.CounterVec
	HTTPDuration   *prometheus.HistogramVec
	ProviderHealth *prometheus.GaugeVec
	JobsQueued     prometheus.Counter
	JobsFinished   *prometheus.CounterVec
}

// New registers every collector on a private registry so tests can build as
// many instances as they need.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Transcript analyses by source (remote or local) and provider.",
		}, []string{"source", "provider"}),
		AnalysisTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Time spent producing an analysis.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		Transcriptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcriptions_total",
			Help:      "Transcription requests by backend and result.",
		}, []string{"backend", "result"}),
		TranscribeTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transcription_duration_seconds",
			Help:      "Time spent waiting on the transcription backend.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}, []string{"backend"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		ProviderHealth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "llm_provider_up",
			Help:      "1 when the last health check of the provider succeeded.",
		}, []string{"provider"}),
		JobsQueued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_queued_total",
			Help:      "Asynchronous jobs accepted.",
		}),
		JobsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_finished_total",
			Help:      "Asynchronous jobs finished by status.",
		}, []string{"status"}),
	}
	m.registry.MustRegister(
		m.Analyses, m.AnalysisTime, m.Transcriptions, m.TranscribeTime,
		m.HTTPRequests, m.HTTPDuration, m.ProviderHealth, m.JobsQueued, m.JobsFinished,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveAnalysis(source, provider string, started time.Time) {
	if m == nil {
		return
	}
	m.Analyses.WithLabelValues(source, provider).Inc()
	m.AnalysisTime.WithLabelValues(source).Observe(time.Since(started).Seconds())
}

func (m *Metrics) ObserveTranscription(backend string, err error, started time.Time) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Transcriptions.WithLabelValues(backend, result).Inc()
	m.TranscribeTime.WithLabelValues(backend).Observe(time.Since(started).Seconds())
}

func (m *Metrics) SetProviderHealth(provider string, up bool) {
	if m == nil {
		return
	}
	value := 0.0
	if up {
		value = 1
	}
	m.ProviderHealth.WithLabelValues(provider).Set(value)
}
