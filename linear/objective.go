package linear

import (
	"math"

	"github.com/YuminosukeSato/logitdx/core/model"
	"github.com/YuminosukeSato/logitdx/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Sigmoid は標準ロジスティック関数 1/(1+exp(-z)) を返す
func Sigmoid(z float64) float64 {
	return model.Sigmoid(z)
}

// LinearPredictor は線形予測子 Xβ を返す
func LinearPredictor(x mat.Matrix, beta []float64) ([]float64, error) {
	return model.LinearPredictor(x, beta)
}

// NegLogLikelihood は係数betaにおける負の対数尤度
//
//	-Σ[(1-yᵢ)log(1-pᵢ) + yᵢ log pᵢ],  pᵢ = 1/(1+exp(-xᵢᵗβ))
//
// を計算する。係数が0の項は評価しないため、観測クラスの確率が0になった
// 場合のみ+Infとなる。
func NegLogLikelihood(beta []float64, x mat.Matrix, y []float64) (float64, error) {
	rows, cols := x.Dims()
	if len(beta) != cols {
		return 0, errors.NewDimensionError("NegLogLikelihood", cols, len(beta), 1)
	}
	if len(y) != rows {
		return 0, errors.NewDimensionError("NegLogLikelihood", rows, len(y), 0)
	}
	return negLogLikelihood(mat.DenseCopyOf(x), y)(beta), nil
}

// negLogLikelihood binds x and y into an objective. x must not be modified
// while the objective is in use.
func negLogLikelihood(x *mat.Dense, y []float64) func(beta []float64) float64 {
	rows, _ := x.Dims()
	return func(beta []float64) float64 {
		var nll float64
		for i := 0; i < rows; i++ {
			p := Sigmoid(floats.Dot(x.RawRowView(i), beta))
			if y[i] != 0 {
				nll -= y[i] * math.Log(p)
			}
			if y[i] != 1 {
				nll -= (1 - y[i]) * math.Log(1-p)
			}
		}
		return nll
	}
}
