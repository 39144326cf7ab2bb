// Package metrics exports run results as Prometheus metrics.
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gotrs-io/boardcheck/internal/report"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics holds the suite collectors on a private registry so tests and
// multiple runs in one process do not clash with the default registry.
type Metrics struct {
	registry    *prometheus.Registry
	scenarios   *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	lastRun     prometheus.Gauge
	lastSuccess prometheus.Gauge
	runs        prometheus.Counter
}

// New registers the suite collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		scenarios: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "boardcheck_scenarios_total",
			Help: "Total number of scenarios run, by outcome",
		}, []string{"status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "boardcheck_scenario_duration_seconds",
			Help:    "Scenario wall time",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		}, []string{"scenario"}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "boardcheck_last_run_timestamp_seconds",
			Help: "Unix time the last run finished",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "boardcheck_last_run_success",
			Help: "1 if every scenario of the last run passed, 0 otherwise",
		}),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "boardcheck_runs_total",
			Help: "Total number of suite runs",
		}),
	}
	m.registry.MustRegister(m.scenarios, m.duration, m.lastRun, m.lastSuccess, m.runs)

	for _, s := range []report.Status{report.StatusPassed, report.StatusFailed, report.StatusSkipped} {
		m.scenarios.WithLabelValues(string(s))
	}
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observe records a finished run.
func (m *Metrics) Observe(s *report.Summary) {
	m.runs.Inc()
	for _, r := range s.Results {
		m.scenarios.WithLabelValues(string(r.Status)).Inc()
		if r.Status != report.StatusSkipped {
			m.duration.WithLabelValues(r.Name).Observe(r.Duration.Seconds())
		}
	}
	m.lastRun.Set(float64(s.Finished.Unix()))
	if s.OK() {
		m.lastSuccess.Set(1)
	} else {
		m.lastSuccess.Set(0)
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Push sends the current values to a Pushgateway, replacing the job's
// previous group.
func (m *Metrics) Push(ctx context.Context, url, job string) error {
	if err := push.New(url, job).Gatherer(m.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", url, err)
	}
	return nil
}

// Sink observes every summary and, when a Pushgateway is configured,
// pushes after each run.
type Sink struct {
	Metrics     *Metrics
	Pushgateway string
	Job         string
}

// Publish implements report.Sink.
func (s *Sink) Publish(ctx context.Context, summary *report.Summary) error {
	s.Metrics.Observe(summary)
	if s.Pushgateway == "" {
		return nil
	}
	return s.Metrics.Push(ctx, s.Pushgateway, s.Job)
}
