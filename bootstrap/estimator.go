// Package bootstrap estimates percentile confidence intervals for logistic
// regression coefficients by refitting on resampled rows.
//
// Each replication draws n row indices with replacement, refits the model
// and records its coefficients. The per-coefficient alpha and 1-alpha sample
// quantiles of the recorded values form the interval.
//
// Replications run concurrently. Every replication owns an RNG seeded from
// a master sequence drawn before any work starts, so a fixed seed gives the
// same result for any worker count. The first failing replication aborts
// the run (fail-fast) and is reported as a *errors.BootstrapError.
package bootstrap

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/YuminosukeSato/logitdx/core/model"
	"github.com/YuminosukeSato/logitdx/linear"
	"github.com/YuminosukeSato/logitdx/pkg/errors"
	"github.com/YuminosukeSato/logitdx/pkg/log"
	"github.com/YuminosukeSato/logitdx/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// DefaultReplications is the number of resamples when none is configured.
const DefaultReplications = 20

// Fitter refits a model on one resample. *linear.LogisticFitter satisfies it.
type Fitter interface {
	FitDataset(ctx context.Context, data *model.Dataset) (*model.FittedModel, error)
}

var _ Fitter = (*linear.LogisticFitter)(nil)

// Interval is the confidence interval of one coefficient.
type Interval struct {
	Index int
	Lower float64
	Upper float64
}

// Result is the outcome of one ConfidenceIntervals call.
type Result struct {
	Alpha        float64
	Replications int
	// Intervals[i] is the interval for coefficient i.
	Intervals []Interval
	// Replicates[r] is the coefficient vector estimated on resample r.
	Replicates [][]float64
	// NonConverged counts replications whose minimiser stopped on a limit.
	NonConverged int
	RunID        string
}

// Coefficient returns the recorded values of coefficient i across all
// replications.
func (r *Result) Coefficient(i int) []float64 {
	out := make([]float64, len(r.Replicates))
	for k, beta := range r.Replicates {
		out[k] = beta[i]
	}
	return out
}

// Estimator computes bootstrap confidence intervals. It is safe for
// concurrent use.
type Estimator struct {
	replications int
	seed         uint64
	seeded       bool
	workers      int
	timeout      time.Duration
	fitter       Fitter
	logger       log.Logger
	metrics      *telemetry.Metrics
}

// NewEstimator creates an Estimator with DefaultReplications and the default
// logistic fitter.
func NewEstimator(opts ...Option) *Estimator {
	e := &Estimator{
		replications: DefaultReplications,
		logger:       log.GetLoggerWithName("bootstrap.Estimator"),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.fitter == nil {
		e.fitter = linear.NewLogisticFitter(linear.WithMetrics(e.metrics))
	}
	return e
}

// ConfidenceIntervals resamples (response, predictors) and returns the
// per-coefficient [alpha, 1-alpha] quantile intervals. alpha must lie in
// (0, 0.5). The inputs are never modified.
func (e *Estimator) ConfidenceIntervals(ctx context.Context, response []float64, predictors mat.Matrix, alpha float64) (res *Result, err error) {
	if math.IsNaN(alpha) || alpha <= 0 || alpha >= 0.5 {
		return nil, errors.NewInvalidAlphaError(alpha)
	}
	if e.replications < 1 {
		return nil, errors.NewValidationError("replications", "must be at least 1", e.replications)
	}
	data, err := model.NewDataset(response, predictors)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	workers := e.workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > e.replications {
		workers = e.replications
	}
	seed := e.seed
	if !e.seeded {
		seed = uint64(time.Now().UnixNano())
	}

	ctx, span := telemetry.StartSpan(ctx, "logitdx.bootstrap",
		attribute.String(log.RunIDKey, runID),
		attribute.Int(log.ReplicationsKey, e.replications),
		attribute.Float64(log.AlphaKey, alpha),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	logger := e.logger.With(
		log.OperationKey, log.OperationBootstrap,
		log.RunIDKey, runID,
		log.ReplicationsKey, e.replications,
		log.WorkersKey, workers,
		log.AlphaKey, alpha,
	)
	logger.Debug("Bootstrap started", log.SamplesKey, data.Samples(), log.FeaturesKey, data.Features())
	start := time.Now()

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	// draw every replication seed up front
	master := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	seeds := make([]uint64, e.replications)
	for i := range seeds {
		seeds[i] = master.Uint64()
	}

	replicates := make([][]float64, e.replications)
	var nonConverged atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for rep := 0; rep < e.replications; rep++ {
		g.Go(func() error {
			beta, converged, err := e.replicate(gctx, data, rep, seeds[rep])
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if gctx.Err() != nil && errors.Is(err, context.Canceled) {
					// another replication already failed
					return err
				}
				return errors.NewBootstrapError(rep, err)
			}
			replicates[rep] = beta
			if !converged {
				nonConverged.Add(1)
			}
			e.metrics.ObserveReplication()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		e.metrics.ObserveBootstrapFailure()
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, errors.ErrBootstrapFailure) {
			err = errors.Wrap(ctxErr, "bootstrap.ConfidenceIntervals")
			if errors.Is(ctxErr, context.DeadlineExceeded) {
				err = errors.Mark(err, errors.ErrTimeout)
			}
		}
		logger.Error("Bootstrap aborted", err)
		return nil, err
	}

	p := data.Features()
	intervals := make([]Interval, p)
	column := make([]float64, e.replications)
	for j := 0; j < p; j++ {
		for r, beta := range replicates {
			column[r] = beta[j]
		}
		intervals[j] = Interval{
			Index: j,
			Lower: Quantile(column, alpha),
			Upper: Quantile(column, 1-alpha),
		}
	}

	res = &Result{
		Alpha:        alpha,
		Replications: e.replications,
		Intervals:    intervals,
		Replicates:   replicates,
		NonConverged: int(nonConverged.Load()),
		RunID:        runID,
	}
	if res.NonConverged > 0 {
		logger.Warn("Some replications did not converge",
			"non_converged", res.NonConverged,
			"error_code", log.ErrorConvergence,
		)
	}
	logger.Info("Bootstrap completed",
		log.DurationMsKey, time.Since(start).Milliseconds(),
		"non_converged", res.NonConverged,
	)
	return res, nil
}

// replicate refits on one resample. Panics inside the fitter are returned
// as *errors.PanicError.
func (e *Estimator) replicate(ctx context.Context, data *model.Dataset, rep int, seed uint64) (beta []float64, converged bool, err error) {
	defer errors.Recover(&err, fmt.Sprintf("bootstrap replication %d", rep))

	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	rng := rand.New(rand.NewPCG(seed, uint64(rep)))
	n := data.Samples()
	rows := make([]int, n)
	for i := range rows {
		rows[i] = rng.IntN(n)
	}
	sample, err := data.Resample(rows)
	if err != nil {
		return nil, false, err
	}

	fitted, err := e.fitter.FitDataset(ctx, sample)
	if err != nil {
		return nil, false, err
	}
	return fitted.BetaEstimate(), fitted.Convergence().Converged, nil
}
