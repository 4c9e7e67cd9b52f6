package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "signal_feed"

// Metrics keeps its collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	CandidatesTotal *prometheus.CounterVec
	FeedSignals     *prometheus.GaugeVec
	RunDuration     *prometheus.HistogramVec
	RunFailures     *prometheus.CounterVec
	LastSuccess     *prometheus.GaugeVec
}

func New() *Metrics {
	m := &Metrics{
		CandidatesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "candidates_total", Help: "Evaluated candidates by outcome"},
			[]string{"mode", "status", "reason"},
		),
		FeedSignals: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Namespace: namespace, Name: "signals", Help: "Signals in the last written feed"},
			[]string{"mode"},
		),
		RunDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Namespace: namespace, Name: "run_duration_seconds", Help: "Wall time of a feed run",
				Buckets: []float64{1, 2.5, 5, 10, 20, 40, 80}},
			[]string{"mode"},
		),
		RunFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "run_failures_total", Help: "Runs that produced no feed"},
			[]string{"mode", "stage"},
		),
		LastSuccess: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Namespace: namespace, Name: "last_success_timestamp_seconds", Help: "Unix time of the last written feed"},
			[]string{"mode"},
		),
	}

	m.registry = prometheus.NewRegistry()
	m.registry.MustRegister(
		m.CandidatesTotal, m.FeedSignals, m.RunDuration, m.RunFailures, m.LastSuccess,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) ObserveCandidate(mode, status, reason string) {
	m.CandidatesTotal.WithLabelValues(mode, status, reason).Inc()
}

func (m *Metrics) ObserveRun(mode string, signals int, duration time.Duration, finished time.Time) {
	m.FeedSignals.WithLabelValues(mode).Set(float64(signals))
	m.RunDuration.WithLabelValues(mode).Observe(duration.Seconds())
	m.LastSuccess.WithLabelValues(mode).Set(float64(finished.Unix()))
}

func (m *Metrics) ObserveFailure(mode, stage string, duration time.Duration) {
	m.RunFailures.WithLabelValues(mode, stage).Inc()
	m.RunDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
