// Package metrics は二値分類モデルの混同行列と診断指標を提供する
//
// 分母が0になる指標はNaNを返し、同時にUndefinedMetricWarningを
// errors.Warn に通知する。0で代用することはない。
package metrics

import (
	"math"

	"github.com/YuminosukeSato/logitdx/core/model"
	"github.com/YuminosukeSato/logitdx/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// DefaultCutoff は既定の分類閾値
const DefaultCutoff = 0.5

// Model は混同行列の計算に必要な学習済みモデルの読み取りインターフェース。
// *model.FittedModel が満たす。
type Model interface {
	Response() []float64
	Predictors() mat.Matrix
	BetaEstimate() []float64
}

var _ Model = (*model.FittedModel)(nil)

// ConfusionMatrix は閾値cutoffにおける分類結果の集計
type ConfusionMatrix struct {
	TP     int
	TN     int
	FP     int
	FN     int
	Total  int
	Cutoff float64
}

// Confusion はモデルの学習データを閾値cutoffで分類し混同行列を返す
//
// 確率 p = 1/(1+exp(-Xβ)) が cutoff より厳密に大きい場合に陽性と判定する。
// cutoff が (0,1) の範囲外の場合は ErrInvalidCutoff、
// 係数の数と説明変数の列数が一致しない場合は DimensionError を返す。
func Confusion(m Model, cutoff float64) (ConfusionMatrix, error) {
	if err := validateCutoff(cutoff); err != nil {
		return ConfusionMatrix{}, err
	}
	x := m.Predictors()
	y := m.Response()
	beta := m.BetaEstimate()

	rows, cols := x.Dims()
	if cols != len(beta) {
		return ConfusionMatrix{}, errors.NewDimensionError("Confusion", cols, len(beta), 1)
	}
	if rows != len(y) {
		return ConfusionMatrix{}, errors.NewDimensionError("Confusion", rows, len(y), 0)
	}

	eta, err := model.LinearPredictor(x, beta)
	if err != nil {
		return ConfusionMatrix{}, err
	}
	for i, z := range eta {
		eta[i] = model.Sigmoid(z)
	}
	return ConfusionFromProbabilities(y, eta, cutoff)
}

// ConfusionFromProbabilities は確率ベクトルから直接混同行列を作成する
func ConfusionFromProbabilities(response, probs []float64, cutoff float64) (ConfusionMatrix, error) {
	if err := validateCutoff(cutoff); err != nil {
		return ConfusionMatrix{}, err
	}
	if len(response) != len(probs) {
		return ConfusionMatrix{}, errors.NewDimensionError("ConfusionFromProbabilities", len(response), len(probs), 0)
	}

	cm := ConfusionMatrix{Cutoff: cutoff}
	for i, y := range response {
		predicted := probs[i] > cutoff
		switch {
		case y == 1 && predicted:
			cm.TP++
		case y == 1:
			cm.FN++
		case y == 0 && predicted:
			cm.FP++
		case y == 0:
			cm.TN++
		default:
			return ConfusionMatrix{}, errors.NewValidationError("response", "values must be 0 or 1",
				map[string]interface{}{"index": i, "value": y})
		}
	}
	cm.Total = cm.TP + cm.TN + cm.FP + cm.FN
	return cm, nil
}

func validateCutoff(cutoff float64) error {
	if math.IsNaN(cutoff) || cutoff <= 0 || cutoff >= 1 {
		return errors.NewInvalidCutoffError(cutoff)
	}
	return nil
}

// Positives は実際の陽性数 TP+FN
func (c ConfusionMatrix) Positives() int { return c.TP + c.FN }

// Negatives は実際の陰性数 TN+FP
func (c ConfusionMatrix) Negatives() int { return c.TN + c.FP }

// Prevalence = (TP+FN)/Total
func (c ConfusionMatrix) Prevalence() float64 {
	return c.ratio("prevalence", "no observations", c.Positives(), c.Total)
}

// Accuracy = (TP+TN)/Total
func (c ConfusionMatrix) Accuracy() float64 {
	return c.ratio("accuracy", "no observations", c.TP+c.TN, c.Total)
}

// Sensitivity = TP/(TP+FN)
func (c ConfusionMatrix) Sensitivity() float64 {
	return c.ratio("sensitivity", "no positive observations", c.TP, c.Positives())
}

// Specificity = TN/(TN+FP)
func (c ConfusionMatrix) Specificity() float64 {
	return c.ratio("specificity", "no negative observations", c.TN, c.Negatives())
}

// FalseDiscoveryRatio = FP/(FP+TP)
func (c ConfusionMatrix) FalseDiscoveryRatio() float64 {
	return c.ratio("false_discovery_ratio", "no positive predictions", c.FP, c.FP+c.TP)
}

// DiagnosticOddsRatio は (sensitivity/fpr)/(fnr/specificity) を返す。
// fpr = FP/(FP+TN)、fnr = FN/(FN+TP)。
// TP+FN、TN+FP、FP、FN、TN のいずれかが0の場合はNaN（specificityが0だと
// fnr/specificity が定義できない）。TP=0 の場合は分母が0にならないため0を返す。
func (c ConfusionMatrix) DiagnosticOddsRatio() float64 {
	const metric = "diagnostic_odds_ratio"
	switch {
	case c.Positives() == 0:
		return undefined(metric, "no positive observations")
	case c.Negatives() == 0:
		return undefined(metric, "no negative observations")
	case c.FP == 0:
		return undefined(metric, "no false positives")
	case c.FN == 0:
		return undefined(metric, "no false negatives")
	case c.TN == 0:
		return undefined(metric, "no true negatives")
	}
	pos, neg := float64(c.Positives()), float64(c.Negatives())
	sens := float64(c.TP) / pos
	spec := float64(c.TN) / neg
	fpr := float64(c.FP) / neg
	fnr := float64(c.FN) / pos
	return (sens / fpr) / (fnr / spec)
}

// DiagnosticOddsRatioDirect は (TP·TN)/(FP·FN) を返す。
// DiagnosticOddsRatio と代数的に等しい。
func (c ConfusionMatrix) DiagnosticOddsRatioDirect() float64 {
	return c.ratioF("diagnostic_odds_ratio", "no false positives or false negatives",
		float64(c.TP)*float64(c.TN), float64(c.FP)*float64(c.FN))
}

func (c ConfusionMatrix) ratio(metric, condition string, num, den int) float64 {
	return c.ratioF(metric, condition, float64(num), float64(den))
}

func (c ConfusionMatrix) ratioF(metric, condition string, num, den float64) float64 {
	if den == 0 {
		return undefined(metric, condition)
	}
	return errors.RatioOrNaN(num, den)
}

func undefined(metric, condition string) float64 {
	errors.Warn(errors.NewUndefinedMetricWarning(metric, condition, math.NaN()))
	return math.NaN()
}
