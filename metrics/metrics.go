// Package metrics exposes Prometheus instrumentation for the analysis
// pipeline.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var (
	registry     *prometheus.Registry
	registryOnce sync.Once

	// Workflow metrics
	RunsTotal   *prometheus.CounterVec
	RunDuration *prometheus.HistogramVec

	// Capability metrics
	CapabilityFailures *prometheus.CounterVec
	DegradedResults    *prometheus.CounterVec

	// Store metrics
	PersistenceFailures prometheus.Counter
	SessionsCreated     prometheus.Counter
)

// Init registers all collectors. Safe to call more than once.
func Init(logger *logrus.Logger) {
	registryOnce.Do(func() {
		registry = prometheus.NewRegistry()

		RunsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calltriage_runs_total",
				Help: "Workflow runs by outcome (ok, degraded, error)",
			},
			[]string{"outcome"},
		)
		RunDuration = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "calltriage_run_duration_seconds",
				Help:    "End-to-end workflow run duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		)
		CapabilityFailures = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calltriage_capability_failures_total",
				Help: "External capability failures by capability (text, audio, situation)",
			},
			[]string{"capability"},
		)
		DegradedResults = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calltriage_degraded_results_total",
				Help: "Stage results produced via local fallback, by stage",
			},
			[]string{"stage"},
		)
		PersistenceFailures = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "calltriage_persistence_failures_total",
				Help: "Session entry appends that failed durably",
			},
		)
		SessionsCreated = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "calltriage_sessions_created_total",
				Help: "Sessions created on first contact",
			},
		)

		registry.MustRegister(
			RunsTotal,
			RunDuration,
			CapabilityFailures,
			DegradedResults,
			PersistenceFailures,
			SessionsCreated,
		)

		if logger != nil {
			logger.Debug("metrics registry initialized")
		}
	})
}

// Handler returns the /metrics HTTP handler for the package registry.
// Init must have been called first.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// ObserveRun records one finished workflow run.
func ObserveRun(outcome string, start time.Time) {
	if RunsTotal == nil {
		return
	}
	RunsTotal.WithLabelValues(outcome).Inc()
	RunDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
}

// MarkCapabilityFailure records a failed external capability call.
func MarkCapabilityFailure(capability string) {
	if CapabilityFailures == nil {
		return
	}
	CapabilityFailures.WithLabelValues(capability).Inc()
}

// MarkDegraded records a stage that fell back to a local estimate.
func MarkDegraded(stage string) {
	if DegradedResults == nil {
		return
	}
	DegradedResults.WithLabelValues(stage).Inc()
}

// MarkPersistenceFailure records a failed session append.
func MarkPersistenceFailure() {
	if PersistenceFailures == nil {
		return
	}
	PersistenceFailures.Inc()
}

// MarkSessionCreated records a session created on first contact.
func MarkSessionCreated() {
	if SessionsCreated == nil {
		return
	}
	SessionsCreated.Inc()
}
