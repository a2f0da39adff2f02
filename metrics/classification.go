package metrics

// MetricFunc はモデルと閾値から1つの指標値を計算する関数
type MetricFunc func(m Model, cutoff float64) (float64, error)

// CutoffValue は閾値とその閾値での指標値の組
type CutoffValue struct {
	Cutoff float64
	Value  float64
}

// MetricSet は1つの閾値における全指標
type MetricSet struct {
	Cutoff              float64
	Prevalence          float64
	Accuracy            float64
	Sensitivity         float64
	Specificity         float64
	FalseDiscoveryRatio float64
	DiagnosticOddsRatio float64
}

// Prevalence は (FN+TP)/Total を返す
func Prevalence(m Model, cutoff float64) (float64, error) {
	return fromConfusion(m, cutoff, ConfusionMatrix.Prevalence)
}

// Accuracy は (TP+TN)/Total を返す
func Accuracy(m Model, cutoff float64) (float64, error) {
	return fromConfusion(m, cutoff, ConfusionMatrix.Accuracy)
}

// Sensitivity は TP/(TP+FN) を返す
func Sensitivity(m Model, cutoff float64) (float64, error) {
	return fromConfusion(m, cutoff, ConfusionMatrix.Sensitivity)
}

// Specificity は TN/(TN+FP) を返す
func Specificity(m Model, cutoff float64) (float64, error) {
	return fromConfusion(m, cutoff, ConfusionMatrix.Specificity)
}

// FalseDiscoveryRatio は FP/(FP+TP) を返す
func FalseDiscoveryRatio(m Model, cutoff float64) (float64, error) {
	return fromConfusion(m, cutoff, ConfusionMatrix.FalseDiscoveryRatio)
}

// DiagnosticOddsRatio は (sensitivity/fpr)/(fnr/specificity) を返す
func DiagnosticOddsRatio(m Model, cutoff float64) (float64, error) {
	return fromConfusion(m, cutoff, ConfusionMatrix.DiagnosticOddsRatio)
}

func fromConfusion(m Model, cutoff float64, metric func(ConfusionMatrix) float64) (float64, error) {
	cm, err := Confusion(m, cutoff)
	if err != nil {
		return 0, err
	}
	return metric(cm), nil
}

// CutoffGrid は標準の閾値グリッド {0.1, 0.2, ..., 0.9} を返す
func CutoffGrid() []float64 {
	grid := make([]float64, 9)
	for i := range grid {
		grid[i] = float64(i+1) / 10
	}
	return grid
}

// Sweep はCutoffGridの各閾値でfnを評価し、閾値の昇順で返す
//
// 使用例:
//
//	values, err := metrics.Sweep(fitted, metrics.Sensitivity)
func Sweep(m Model, fn MetricFunc) ([]CutoffValue, error) {
	grid := CutoffGrid()
	out := make([]CutoffValue, 0, len(grid))
	for _, c := range grid {
		v, err := fn(m, c)
		if err != nil {
			return nil, err
		}
		out = append(out, CutoffValue{Cutoff: c, Value: v})
	}
	return out, nil
}

// Evaluate は1つの閾値で全指標をまとめて計算する。混同行列は1度だけ計算される。
func Evaluate(m Model, cutoff float64) (MetricSet, error) {
	cm, err := Confusion(m, cutoff)
	if err != nil {
		return MetricSet{}, err
	}
	return cm.Metrics(), nil
}

// Metrics は混同行列から全指標を計算する
func (c ConfusionMatrix) Metrics() MetricSet {
	return MetricSet{
		Cutoff:              c.Cutoff,
		Prevalence:          c.Prevalence(),
		Accuracy:            c.Accuracy(),
		Sensitivity:         c.Sensitivity(),
		Specificity:         c.Specificity(),
		FalseDiscoveryRatio: c.FalseDiscoveryRatio(),
		DiagnosticOddsRatio: c.DiagnosticOddsRatio(),
	}
}
