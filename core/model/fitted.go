package model

import (
	"math"
	"time"

	"github.com/YuminosukeSato/logitdx/core/parallel"
	"github.com/YuminosukeSato/logitdx/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Convergence reports how the minimiser stopped.
type Convergence struct {
	Status      string
	Converged   bool
	Iterations  int
	Evaluations int
	Runtime     time.Duration
	// Warning is set when the minimiser stopped on a limit instead of a
	// convergence criterion.
	Warning *errors.ConvergenceWarning
}

// FittedModel is the immutable result of a logistic regression fit.
type FittedModel struct {
	data        *Dataset
	initialBeta []float64
	beta        []float64
	nll         float64
	convergence Convergence
}

// NewFittedModel assembles a FittedModel. The coefficient slices are copied
// and must have one entry per predictor column.
func NewFittedModel(data *Dataset, initialBeta, beta []float64, nll float64, conv Convergence) (*FittedModel, error) {
	if data == nil {
		return nil, errors.ErrEmptyData
	}
	p := data.Features()
	if len(initialBeta) != p {
		return nil, errors.NewDimensionError("NewFittedModel", p, len(initialBeta), 1)
	}
	if len(beta) != p {
		return nil, errors.NewDimensionError("NewFittedModel", p, len(beta), 1)
	}
	return &FittedModel{
		data:        data,
		initialBeta: append([]float64(nil), initialBeta...),
		beta:        append([]float64(nil), beta...),
		nll:         nll,
		convergence: conv,
	}, nil
}

// InitialBeta returns the OLS seed the minimiser started from.
func (m *FittedModel) InitialBeta() []float64 { return append([]float64(nil), m.initialBeta...) }

// BetaEstimate returns the fitted coefficients.
func (m *FittedModel) BetaEstimate() []float64 { return append([]float64(nil), m.beta...) }

// Response returns a copy of the training response.
func (m *FittedModel) Response() []float64 { return m.data.Response() }

// Predictors returns a copy of the training design matrix.
func (m *FittedModel) Predictors() mat.Matrix { return m.data.Predictors() }

// Dataset returns the training data.
func (m *FittedModel) Dataset() *Dataset { return m.data }

// NLL returns the negative log-likelihood at BetaEstimate.
func (m *FittedModel) NLL() float64 { return m.nll }

// Convergence returns the minimiser report.
func (m *FittedModel) Convergence() Convergence { return m.convergence }

// LinearPredictor returns Xβ for the training rows.
func (m *FittedModel) LinearPredictor() []float64 {
	eta, _ := LinearPredictor(m.data.predictors, m.beta)
	return eta
}

// Probabilities returns the fitted P(y=1) for the training rows.
func (m *FittedModel) Probabilities() []float64 {
	eta := m.LinearPredictor()
	for i, z := range eta {
		eta[i] = Sigmoid(z)
	}
	return eta
}

// Predict returns hard labels, 1 where the fitted probability is strictly
// greater than cutoff.
func (m *FittedModel) Predict(cutoff float64) ([]float64, error) {
	if math.IsNaN(cutoff) || cutoff <= 0 || cutoff >= 1 {
		return nil, errors.NewInvalidCutoffError(cutoff)
	}
	probs := m.Probabilities()
	for i, p := range probs {
		if p > cutoff {
			probs[i] = 1
		} else {
			probs[i] = 0
		}
	}
	return probs, nil
}

// Sigmoid is the logistic function 1/(1+exp(-z)), evaluated without
// overflow for large |z|.
func Sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// LinearPredictor computes Xβ row by row. Large designs are split across
// goroutines.
func LinearPredictor(x mat.Matrix, beta []float64) ([]float64, error) {
	rows, cols := x.Dims()
	if cols != len(beta) {
		return nil, errors.NewDimensionError("LinearPredictor", cols, len(beta), 1)
	}
	eta := make([]float64, rows)

	if rm, ok := x.(mat.RawMatrixer); ok {
		raw := rm.RawMatrix()
		parallel.ForRange(rows, parallel.DefaultThreshold, func(start, end int) {
			for i := start; i < end; i++ {
				eta[i] = floats.Dot(raw.Data[i*raw.Stride:i*raw.Stride+cols], beta)
			}
		})
		return eta, nil
	}

	parallel.ForRange(rows, parallel.DefaultThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			var s float64
			for j := 0; j < cols; j++ {
				s += x.At(i, j) * beta[j]
			}
			eta[i] = s
		}
	})
	return eta, nil
}
