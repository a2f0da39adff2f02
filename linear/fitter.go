// Package linear fits binary logistic regression by direct minimisation of
// the negative log-likelihood, starting from the ordinary least squares
// solution.
package linear

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/YuminosukeSato/logitdx/core/linalg"
	"github.com/YuminosukeSato/logitdx/core/minimize"
	"github.com/YuminosukeSato/logitdx/core/model"
	"github.com/YuminosukeSato/logitdx/pkg/errors"
	"github.com/YuminosukeSato/logitdx/pkg/log"
	"github.com/YuminosukeSato/logitdx/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// maxStartHalvings bounds how often the seed is halved in search of a
// finite starting NLL before falling back to the origin.
const maxStartHalvings = 64

// LogisticFitter はロジスティック回帰モデルを推定する
//
// 推定手順:
//  1. 最小二乗解 (XᵗX)⁻¹Xᵗy を初期値とする
//  2. 負の対数尤度をMinimizerで最小化する
//  3. 収束しなかった場合はConvergenceWarningを発行する（エラーではない）
//
// LogisticFitterは状態を持たないため、複数のgoroutineから同時に利用できる。
type LogisticFitter struct {
	minimizer minimize.Minimizer
	maxIter   int
	tol       float64
	timeout   time.Duration
	logger    log.Logger
	metrics   *telemetry.Metrics
}

// NewLogisticFitter は新しいLogisticFitterを作成する
func NewLogisticFitter(opts ...FitterOption) *LogisticFitter {
	f := &LogisticFitter{
		maxIter: minimize.DefaultMaxIterations,
		tol:     minimize.DefaultTolerance,
		logger:  log.GetLoggerWithName("linear.LogisticFitter"),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.minimizer == nil {
		f.minimizer = &minimize.NelderMead{MaxIterations: f.maxIter, Tolerance: f.tol}
	}
	return f
}

// Fit はresponse(0/1)とpredictors(n×p、通常は先頭列が1)からモデルを推定する
func (f *LogisticFitter) Fit(ctx context.Context, response []float64, predictors mat.Matrix) (*model.FittedModel, error) {
	data, err := model.NewDataset(response, predictors)
	if err != nil {
		return nil, err
	}
	return f.FitDataset(ctx, data)
}

// FitDataset は検証済みのDatasetからモデルを推定する
func (f *LogisticFitter) FitDataset(ctx context.Context, data *model.Dataset) (fitted *model.FittedModel, err error) {
	start := time.Now()
	n, p := data.Samples(), data.Features()

	ctx, span := telemetry.StartSpan(ctx, "logitdx.fit",
		attribute.Int(log.SamplesKey, n),
		attribute.Int(log.FeaturesKey, p),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	logger := f.logger.With(
		log.OperationKey, log.OperationFit,
		log.SamplesKey, n,
		log.FeaturesKey, p,
		log.FingerprintKey, fmt.Sprintf("%016x", data.Fingerprint()),
	)

	defer func() {
		if err != nil {
			f.metrics.ObserveFit(telemetry.StatusError, time.Since(start), 0)
			logger.Error("Fit failed", err)
		}
	}()

	if n <= p {
		return nil, errors.NewValidationError("predictors",
			"number of observations must exceed number of coefficients",
			map[string]int{"samples": n, "coefficients": p})
	}

	x := data.Predictors()
	y := data.Response()

	seed, err := linalg.OLS(x, y)
	if err != nil {
		return nil, err
	}
	logger.Debug("OLS seed computed", "initial_beta", seed)

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	objective := negLogLikelihood(x, y)
	startBeta, halvings := finiteStart(objective, seed)
	if halvings > 0 {
		logger.Debug("OLS seed has infinite NLL, start pulled toward zero",
			"halvings", halvings,
			"start", startBeta,
		)
	}
	res, err := f.minimizer.Minimize(ctx, objective, startBeta)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, errors.ErrTimeout) {
			err = errors.Mark(err, errors.ErrTimeout)
		}
		return nil, errors.Wrap(err, "LogisticFitter.Fit")
	}

	conv := model.Convergence{
		Status:      res.Status,
		Converged:   res.Converged,
		Iterations:  res.Iterations,
		Evaluations: res.Evaluations,
		Runtime:     res.Runtime,
	}
	if !res.Converged {
		conv.Warning = errors.NewConvergenceWarning("LogisticFitter", res.Iterations,
			fmt.Sprintf("minimizer stopped with status %s", res.Status))
		errors.Warn(conv.Warning)
		logger.Warn("Minimizer did not converge",
			log.StatusKey, res.Status,
			log.IterationKey, res.Iterations,
			"error_code", log.ErrorConvergence,
		)
	}

	nll := objective(res.X)
	fitted, err = model.NewFittedModel(data, seed, res.X, nll, conv)
	if err != nil {
		return nil, err
	}

	status := telemetry.StatusConverged
	if !conv.Converged {
		status = telemetry.StatusNotConverged
	}
	f.metrics.ObserveFit(status, time.Since(start), res.Iterations)
	span.SetAttributes(
		attribute.String(log.StatusKey, res.Status),
		attribute.Int(log.IterationKey, res.Iterations),
		attribute.Float64(log.LossKey, nll),
	)
	logger.Info("Fit completed",
		log.StatusKey, res.Status,
		log.IterationKey, res.Iterations,
		log.EvaluationsKey, res.Evaluations,
		log.LossKey, nll,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return fitted, nil
}

// finiteStart は目的関数が有限になるまでseedを0に向けて半分にする。
// 原点ではNLLは n·ln2 で必ず有限になる。seed自体は変更しない。
func finiteStart(objective func([]float64) float64, seed []float64) ([]float64, int) {
	start := append([]float64(nil), seed...)
	for i := 0; i < maxStartHalvings; i++ {
		if v := objective(start); !math.IsInf(v, 0) && !math.IsNaN(v) {
			return start, i
		}
		floats.Scale(0.5, start)
	}
	for i := range start {
		start[i] = 0
	}
	return start, maxStartHalvings
}
