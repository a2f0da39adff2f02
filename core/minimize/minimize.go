// Package minimize abstracts unconstrained multivariate minimisation.
//
// The fitter only needs "minimise f starting from x0"; Minimizer captures
// that so any optimisation backend can be substituted. NelderMead is the
// default, a derivative-free simplex search backed by gonum/optimize.
package minimize

import (
	"context"
	"math"
	"time"

	"github.com/YuminosukeSato/logitdx/pkg/errors"
	"gonum.org/v1/gonum/optimize"
)

// Objective is a scalar function of a parameter vector. It must not retain x.
type Objective func(x []float64) float64

// Minimizer minimises an objective from a starting point.
type Minimizer interface {
	Minimize(ctx context.Context, f Objective, start []float64) (*Result, error)
}

// Result describes where a minimiser stopped.
type Result struct {
	X           []float64
	F           float64
	Status      string
	Converged   bool
	Iterations  int
	Evaluations int
	Runtime     time.Duration
}

// Default limits, matching the conventional Nelder-Mead settings used by
// statistical packages (500 iterations, relative tolerance sqrt(eps)).
const (
	DefaultMaxIterations = 500
	DefaultTolerance     = 1.490116119384765625e-8
)

// NelderMead is a derivative-free simplex minimiser.
//
// Non-finite objective values are tolerated: NaN is mapped to +Inf so the
// simplex treats the point as rejected rather than comparing against NaN.
type NelderMead struct {
	// MaxIterations bounds major iterations. Zero uses DefaultMaxIterations.
	MaxIterations int
	// MaxEvaluations bounds objective evaluations. Zero means unbounded.
	MaxEvaluations int
	// Tolerance is the relative decrease in f below which the search is
	// considered converged. Zero uses DefaultTolerance.
	Tolerance float64
	// Runtime bounds wall-clock time inside the backend. Zero means unbounded.
	Runtime time.Duration
	// SimplexSize is the edge length of the initial simplex. Zero uses the
	// backend default.
	SimplexSize float64
}

// Minimize implements Minimizer.
func (nm *NelderMead) Minimize(ctx context.Context, f Objective, start []float64) (*Result, error) {
	if len(start) == 0 {
		return nil, errors.NewValueError("NelderMead.Minimize", "start point must have at least one dimension")
	}
	if err := ctx.Err(); err != nil {
		return nil, wrapContextErr(err, "NelderMead.Minimize")
	}

	maxIter := nm.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}
	tol := nm.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			v := f(x)
			if math.IsNaN(v) {
				return math.Inf(1)
			}
			return v
		},
	}
	settings := &optimize.Settings{
		MajorIterations: maxIter,
		FuncEvaluations: nm.MaxEvaluations,
		Runtime:         nm.Runtime,
		Converger: &optimize.FunctionConverge{
			Relative:   tol,
			Iterations: 20,
		},
		Recorder: &contextRecorder{ctx: ctx},
	}
	method := &optimize.NelderMead{SimplexSize: nm.SimplexSize}

	x0 := append([]float64(nil), start...)
	res, err := optimize.Minimize(problem, x0, settings, method)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, wrapContextErr(ctxErr, "NelderMead.Minimize")
		}
		return nil, errors.NewModelError("NelderMead.Minimize", "optimization failed", err)
	}

	return &Result{
		X:           append([]float64(nil), res.X...),
		F:           res.F,
		Status:      res.Status.String(),
		Converged:   converged(res.Status),
		Iterations:  res.Stats.MajorIterations,
		Evaluations: res.Stats.FuncEvaluations,
		Runtime:     res.Stats.Runtime,
	}, nil
}

// converged reports whether the backend stopped on a convergence criterion
// rather than a resource limit.
func converged(s optimize.Status) bool {
	switch s {
	case optimize.Success, optimize.MethodConverge, optimize.FunctionConvergence,
		optimize.FunctionThreshold, optimize.GradientThreshold, optimize.StepConvergence:
		return true
	default:
		return false
	}
}

// contextRecorder stops the backend once ctx is done.
type contextRecorder struct {
	ctx context.Context
}

func (r *contextRecorder) Init() error { return r.ctx.Err() }

func (r *contextRecorder) Record(_ *optimize.Location, _ optimize.Operation, _ *optimize.Stats) error {
	return r.ctx.Err()
}

func wrapContextErr(err error, op string) error {
	wrapped := errors.Wrap(err, op)
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.Mark(wrapped, errors.ErrTimeout)
	}
	return wrapped
}
