package linear

import (
	"context"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// createBenchmarkData はベンチマーク用のデータを生成する
func createBenchmarkData(rows, cols int) ([]float64, *mat.Dense) {
	// シードを固定して再現性を確保
	rng := rand.New(rand.NewPCG(42, 42))

	// 先頭列は切片、残りは -1.0 から 1.0 の一様乱数
	X := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		X.Set(i, 0, 1)
		for j := 1; j < cols; j++ {
			X.Set(i, j, rng.Float64()*2.0-1.0)
		}
	}

	// 真の係数からベルヌーイ応答を生成
	y := make([]float64, rows)
	for i := 0; i < rows; i++ {
		eta := 0.25
		for j := 1; j < cols; j++ {
			eta += X.At(i, j) * float64(j) * 0.5
		}
		if rng.Float64() < Sigmoid(eta) {
			y[i] = 1
		}
	}

	return y, X
}

// BenchmarkLogisticFit はFitメソッドのベンチマークを実行する
func BenchmarkLogisticFit(b *testing.B) {
	sizes := []struct {
		name string
		rows int
		cols int
	}{
		{"Small_100x3", 100, 3},
		{"Small_500x3", 500, 3},
		{"Medium_2000x5", 2000, 5},
		{"Large_10000x5", 10000, 5},
	}

	for _, size := range sizes {
		b.Run(size.name, func(b *testing.B) {
			y, X := createBenchmarkData(size.rows, size.cols)
			f := NewLogisticFitter()

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := f.Fit(context.Background(), y, X); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkNegLogLikelihood は目的関数1回分の評価コストを測定する
func BenchmarkNegLogLikelihood(b *testing.B) {
	y, X := createBenchmarkData(10000, 5)
	beta := []float64{0.25, 0.5, 1, 1.5, 2}
	obj := negLogLikelihood(X, y)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = obj(beta)
	}
}
