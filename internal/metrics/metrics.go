// internal/metrics/metrics.go
//
// Prometheus collectors for the game server.
// A Metrics value owns its own registry so tests can create as many as they
// like; the server exposes it on /metrics.

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "the100"

// Metrics groups the server's collectors.
type Metrics struct {
	Registry *prometheus.Registry

	Guesses       *prometheus.CounterVec // by outcome
	RoundsStarted *prometheus.CounterVec // by topic
	RoundsEnded   *prometheus.CounterVec // by topic
	RoundScore    prometheus.Histogram
	RevealEvents  prometheus.Counter
	TopicFetches  *prometheus.CounterVec // by topic, result
	ActiveRounds  prometheus.Gauge
}

// New registers the game collectors plus the Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Guesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guesses_total",
			Help:      "Guesses submitted, by outcome.",
		}, []string{"outcome"}),
		RoundsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_started_total",
			Help:      "Rounds started, by topic.",
		}, []string{"topic"}),
		RoundsEnded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_finished_total",
			Help:      "Rounds that used every attempt, by topic.",
		}, []string{"topic"}),
		RoundScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "round_score",
			Help:      "Final score of finished rounds.",
			Buckets:   []float64{0, 10, 50, 100, 200, 300, 400, 500, 600},
		}),
		RevealEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reveal_events_total",
			Help:      "Reveal events applied to rounds.",
		}),
		TopicFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "topic_fetches_total",
			Help:      "Topic list fetches from their source, by result.",
		}, []string{"topic", "result"}),
		ActiveRounds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_rounds",
			Help:      "Rounds held in memory.",
		}),
	}
	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Guesses, m.RoundsStarted, m.RoundsEnded, m.RoundScore,
		m.RevealEvents, m.TopicFetches, m.ActiveRounds,
	)
	return m
}

// ObserveFetch matches topics.LoaderOptions.OnFetch.
func (m *Metrics) ObserveFetch(topic string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.TopicFetches.WithLabelValues(topic, result).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
