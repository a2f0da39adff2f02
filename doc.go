// Package logitdx fits binary logistic regression models and evaluates them
// as diagnostic classifiers.
//
// Coefficients are estimated by direct minimisation of the negative
// log-likelihood with a derivative-free simplex search, starting from the
// ordinary least squares solution. No iteratively reweighted least squares
// is involved.
//
// # Packages
//
//   - linear: LogisticFitter, the negative log-likelihood and the sigmoid
//   - metrics: confusion matrix, prevalence, accuracy, sensitivity,
//     specificity, false discovery ratio, diagnostic odds ratio and the
//     canonical cutoff sweep
//   - bootstrap: percentile confidence intervals for the coefficients
//   - config: YAML and environment configuration
//   - telemetry: Prometheus collectors and OpenTelemetry spans
//   - core/model: Dataset and FittedModel records, gob persistence
//   - core/linalg, core/minimize, core/parallel: numerical building blocks
//   - pkg/errors, pkg/log: error types, warnings and structured logging
//
// # Quick Start
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/logitdx/bootstrap"
//	    "github.com/YuminosukeSato/logitdx/linear"
//	    "github.com/YuminosukeSato/logitdx/metrics"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    ctx := context.Background()
//	    y := []float64{0, 0, 1, 0, 1, 1}
//	    X := mat.NewDense(6, 2, []float64{
//	        1, 0.5,
//	        1, 1.0,
//	        1, 1.5,
//	        1, 2.0,
//	        1, 2.5,
//	        1, 3.0,
//	    })
//
//	    fitted, err := linear.NewLogisticFitter().Fit(ctx, y, X)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(fitted.BetaEstimate(), fitted.Convergence().Status)
//
//	    set, err := metrics.Evaluate(fitted, metrics.DefaultCutoff)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Printf("sensitivity=%.2f specificity=%.2f\n", set.Sensitivity, set.Specificity)
//
//	    res, err := bootstrap.NewEstimator(bootstrap.WithSeed(1)).ConfidenceIntervals(ctx, y, X, 0.05)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    for _, iv := range res.Intervals {
//	        fmt.Printf("beta[%d]: [%.3f, %.3f]\n", iv.Index, iv.Lower, iv.Upper)
//	    }
//	}
//
// # Undefined metrics
//
// A metric whose denominator is zero is returned as NaN, never 0, and an
// *errors.UndefinedMetricWarning is passed to errors.Warn. Install a handler
// with errors.SetWarningHandler to collect or silence warnings.
package logitdx
