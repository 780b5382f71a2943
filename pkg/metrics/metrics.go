// Package metrics holds the Prometheus collectors shared across the service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "intituas"

// Metrics groups the collectors so tests can build an isolated registry.
type Metrics struct {
	Registry *prometheus.Registry

	AnswersTotal       *prometheus.CounterVec
	SuggestionsTotal   *prometheus.CounterVec
	MindMapsTotal      *prometheus.CounterVec
	LLMLatency         *prometheus.HistogramVec
	HistoryWritesTotal *prometheus.CounterVec
	UsageRejections    prometheus.Counter
	ContactsTotal      *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		AnswersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_total",
			Help:      "Answer requests by mode and outcome.",
		}, []string{"mode", "outcome"}),
		SuggestionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suggestions_total",
			Help:      "Suggestion requests by source (generated, cache) and outcome.",
		}, []string{"source", "outcome"}),
		MindMapsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mind_maps_total",
			Help:      "Mind-map requests by outcome.",
		}, []string{"outcome"}),
		LLMLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_flow_latency_seconds",
			Help:      "Latency of generative flows in seconds.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		}, []string{"flow", "outcome"}),
		HistoryWritesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_writes_total",
			Help:      "Search history appends by outcome.",
		}, []string{"outcome"}),
		UsageRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "usage_rejections_total",
			Help:      "Requests rejected by the daily usage limit.",
		}),
		ContactsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contacts_total",
			Help:      "Contact form submissions by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.AnswersTotal,
		m.SuggestionsTotal,
		m.MindMapsTotal,
		m.LLMLatency,
		m.HistoryWritesTotal,
		m.UsageRejections,
		m.ContactsTotal,
	)
	return m
}

// Outcome collapses an error into the label value used across counters.
func Outcome(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// ObserveFlow records one generative flow call.
func (m *Metrics) ObserveFlow(flow string, elapsed time.Duration, err error) {
	m.LLMLatency.WithLabelValues(flow, Outcome(err)).Observe(elapsed.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
