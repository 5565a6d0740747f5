// Package metrics exposes Prometheus instrumentation for the chat API.
//
// Metrics are registered on a private registry rather than the global default
// so tests can create as many instances as they like.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sitechat"

// Outcome labels for provider calls.
const (
	OutcomeSuccess     = "success"
	OutcomeConfigError = "config_error"
	OutcomeUpstream    = "upstream_error"
)

type Metrics struct {
	registry *prometheus.Registry

	providerCalls    *prometheus.CounterVec
	providerDuration *prometheus.HistogramVec
	mockReplies      prometheus.Counter
	rejected         *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		providerCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "chat",
				Name:      "provider_calls_total",
				Help:      "Chat requests dispatched to an upstream provider, by outcome.",
			},
			[]string{"provider", "outcome"},
		),
		providerDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "chat",
				Name:      "provider_call_duration_seconds",
				Help:      "Latency of upstream provider calls.",
				// LLM latencies: 100ms to 60s
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"provider"},
		),
		mockReplies: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chat",
			Name:      "mock_replies_total",
			Help:      "Chat requests answered by the simulated provider.",
		}),
		rejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "chat",
				Name:      "rejected_requests_total",
				Help:      "Chat requests rejected before reaching a provider.",
			},
			[]string{"reason"},
		),
	}

	registry.MustRegister(
		m.providerCalls,
		m.providerDuration,
		m.mockReplies,
		m.rejected,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveProviderCall records one upstream call.
func (m *Metrics) ObserveProviderCall(provider, outcome string, elapsed time.Duration) {
	m.providerCalls.WithLabelValues(provider, outcome).Inc()
	m.providerDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

func (m *Metrics) IncMockReply() {
	m.mockReplies.Inc()
}

// MockReplies exposes the mock reply counter for assertions.
func (m *Metrics) MockReplies() prometheus.Counter {
	return m.mockReplies
}

func (m *Metrics) IncRejected(reason string) {
	m.rejected.WithLabelValues(reason).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
