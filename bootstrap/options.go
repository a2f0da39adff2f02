package bootstrap

import (
	"time"

	"github.com/YuminosukeSato/logitdx/pkg/log"
	"github.com/YuminosukeSato/logitdx/telemetry"
)

// Option configures an Estimator.
type Option func(*Estimator)

// WithReplications sets the number of bootstrap resamples.
func WithReplications(n int) Option {
	return func(e *Estimator) {
		e.replications = n
	}
}

// WithSeed makes resampling reproducible. Without it the seed is taken
// from the clock on each call.
func WithSeed(seed uint64) Option {
	return func(e *Estimator) {
		e.seed = seed
		e.seeded = true
	}
}

// WithWorkers bounds the number of concurrent refits. Values below 1 use
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(e *Estimator) {
		e.workers = n
	}
}

// WithTimeout bounds a whole ConfidenceIntervals call. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(e *Estimator) {
		e.timeout = d
	}
}

// WithFitter replaces the default logistic fitter used for each refit.
func WithFitter(f Fitter) Option {
	return func(e *Estimator) {
		e.fitter = f
	}
}

// WithLogger sets the logger for run diagnostics.
func WithLogger(l log.Logger) Option {
	return func(e *Estimator) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics records replication counts on m. The default fitter also
// reports to m.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(e *Estimator) {
		e.metrics = m
	}
}
