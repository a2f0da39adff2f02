package linear

import (
	"time"

	"github.com/YuminosukeSato/logitdx/core/minimize"
	"github.com/YuminosukeSato/logitdx/pkg/log"
	"github.com/YuminosukeSato/logitdx/telemetry"
)

// FitterOption configures a LogisticFitter.
type FitterOption func(*LogisticFitter)

// WithMinimizer replaces the default Nelder-Mead minimiser. WithMaxIter
// and WithTolerance do not apply to a custom minimiser.
func WithMinimizer(m minimize.Minimizer) FitterOption {
	return func(f *LogisticFitter) {
		f.minimizer = m
	}
}

// WithMaxIter sets the iteration limit of the default minimiser.
func WithMaxIter(n int) FitterOption {
	return func(f *LogisticFitter) {
		f.maxIter = n
	}
}

// WithTolerance sets the relative function tolerance of the default minimiser.
func WithTolerance(tol float64) FitterOption {
	return func(f *LogisticFitter) {
		f.tol = tol
	}
}

// WithTimeout bounds each Fit call. Zero disables the bound.
func WithTimeout(d time.Duration) FitterOption {
	return func(f *LogisticFitter) {
		f.timeout = d
	}
}

// WithLogger sets the logger used for fit diagnostics.
func WithLogger(l log.Logger) FitterOption {
	return func(f *LogisticFitter) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithMetrics records fit outcomes on m.
func WithMetrics(m *telemetry.Metrics) FitterOption {
	return func(f *LogisticFitter) {
		f.metrics = m
	}
}
