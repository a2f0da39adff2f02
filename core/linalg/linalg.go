// Package linalg は閉形式の初期値計算に使う行列演算を提供する。
package linalg

import (
	"github.com/YuminosukeSato/logitdx/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Transpose は a の転置を新しい行列として返す
func Transpose(a mat.Matrix) *mat.Dense {
	var t mat.Dense
	t.CloneFrom(a.T())
	return &t
}

// Mul は積 a*b を計算する
func Mul(a, b mat.Matrix) (*mat.Dense, error) {
	_, ac := a.Dims()
	br, _ := b.Dims()
	if ac != br {
		return nil, errors.NewDimensionError("linalg.Mul", ac, br, 0)
	}
	var out mat.Dense
	out.Mul(a, b)
	return &out, nil
}

// Inverse は正方行列 a の逆行列を計算する。
// 特異または悪条件の場合は ErrSingularMatrix を返す。
func Inverse(a mat.Matrix) (*mat.Dense, error) {
	r, c := a.Dims()
	if r != c {
		return nil, errors.NewDimensionError("linalg.Inverse", r, c, 1)
	}
	var inv mat.Dense
	if err := inv.Inverse(a); err != nil {
		// gonum は条件数が許容値を超えると mat.Condition を返す
		return nil, errors.NewModelError("linalg.Inverse", "singular matrix", errors.Mark(err, errors.ErrSingularMatrix))
	}
	return &inv, nil
}

// OLS は正規方程式 β = (X^T X)^(-1) X^T y を解く。
// 0/1 応答に対する最小二乗解で、ロジスティック回帰の初期値として使う。
func OLS(X mat.Matrix, y []float64) ([]float64, error) {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewModelError("linalg.OLS", "empty data", errors.ErrEmptyData)
	}
	if len(y) != r {
		return nil, errors.NewDimensionError("linalg.OLS", r, len(y), 0)
	}

	XT := Transpose(X)

	XTX, err := Mul(XT, X)
	if err != nil {
		return nil, err
	}

	XTXInv, err := Inverse(XTX)
	if err != nil {
		return nil, err
	}

	// X^T * y
	var XTy mat.VecDense
	XTy.MulVec(XT, mat.NewVecDense(r, append([]float64(nil), y...)))

	beta := mat.NewVecDense(c, nil)
	beta.MulVec(XTXInv, &XTy)

	out := make([]float64, c)
	copy(out, beta.RawVector().Data)
	if err := errors.CheckNumericalStability("linalg.OLS", out, -1); err != nil {
		return nil, errors.Mark(err, errors.ErrSingularMatrix)
	}
	return out, nil
}
