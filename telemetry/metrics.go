// Package telemetry exposes Prometheus collectors and OpenTelemetry spans
// for fits and bootstrap runs.
//
// A nil *Metrics is valid and records nothing, so callers never need to
// guard metric calls.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fit status label values.
const (
	StatusConverged    = "converged"
	StatusNotConverged = "not_converged"
	StatusError        = "error"
)

// Metrics holds the collectors registered by NewMetrics.
type Metrics struct {
	// FitsTotal counts fits by outcome.
	FitsTotal *prometheus.CounterVec

	// FitDuration records wall-clock fit time in seconds.
	FitDuration prometheus.Histogram

	// OptimizerIterations records iterations used per fit.
	OptimizerIterations prometheus.Histogram

	// BootstrapReplications counts completed bootstrap replications.
	BootstrapReplications prometheus.Counter

	// BootstrapFailures counts bootstrap runs aborted by a failing replication.
	BootstrapFailures prometheus.Counter
}

// NewMetrics registers the logitdx collectors with reg. Passing
// prometheus.DefaultRegisterer exposes them on the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		FitsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "logitdx_fits_total",
			Help: "Total logistic regression fits by status",
		}, []string{"status"}),
		FitDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "logitdx_fit_duration_seconds",
			Help:    "Duration of logistic regression fits",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		OptimizerIterations: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "logitdx_optimizer_iterations",
			Help:    "Minimiser iterations per fit",
			Buckets: []float64{10, 25, 50, 100, 200, 300, 500, 1000},
		}),
		BootstrapReplications: f.NewCounter(prometheus.CounterOpts{
			Name: "logitdx_bootstrap_replications_total",
			Help: "Total completed bootstrap replications",
		}),
		BootstrapFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "logitdx_bootstrap_failures_total",
			Help: "Total bootstrap runs aborted by a failed replication",
		}),
	}
}

// ObserveFit records one fit outcome.
func (m *Metrics) ObserveFit(status string, d time.Duration, iterations int) {
	if m == nil {
		return
	}
	m.FitsTotal.WithLabelValues(status).Inc()
	m.FitDuration.Observe(d.Seconds())
	if status != StatusError {
		m.OptimizerIterations.Observe(float64(iterations))
	}
}

// ObserveReplication records one completed bootstrap replication.
func (m *Metrics) ObserveReplication() {
	if m == nil {
		return
	}
	m.BootstrapReplications.Inc()
}

// ObserveBootstrapFailure records one aborted bootstrap run.
func (m *Metrics) ObserveBootstrapFailure() {
	if m == nil {
		return
	}
	m.BootstrapFailures.Inc()
}
