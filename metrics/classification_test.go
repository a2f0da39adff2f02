package metrics

import (
	"math"
	"testing"

	"github.com/YuminosukeSato/logitdx/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricFunctions(t *testing.T) {
	m := mixedModel()
	tests := []struct {
		name string
		fn   MetricFunc
		want float64
	}{
		{"prevalence", Prevalence, 0.5},
		{"accuracy", Accuracy, 0.75},
		{"sensitivity", Sensitivity, 0.75},
		{"specificity", Specificity, 0.75},
		{"false discovery ratio", FalseDiscoveryRatio, 0.25},
		{"diagnostic odds ratio", DiagnosticOddsRatio, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn(m, DefaultCutoff)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestMetricFunctions_InvalidCutoff(t *testing.T) {
	for _, fn := range []MetricFunc{Prevalence, Accuracy, Sensitivity, Specificity, FalseDiscoveryRatio, DiagnosticOddsRatio} {
		_, err := fn(mixedModel(), 1.2)
		assert.True(t, errors.Is(err, errors.ErrInvalidCutoff))
	}
}

func TestDiagnosticOddsRatio_CrossCheck(t *testing.T) {
	cases := []ConfusionMatrix{
		{TP: 3, TN: 3, FP: 1, FN: 1, Total: 8},
		{TP: 40, TN: 25, FP: 7, FN: 11, Total: 83},
		{TP: 1, TN: 1, FP: 5, FN: 9, Total: 16},
	}
	for _, cm := range cases {
		assert.InDelta(t, cm.DiagnosticOddsRatioDirect(), cm.DiagnosticOddsRatio(), 1e-9*cm.DiagnosticOddsRatioDirect())
	}

	// no true positives: every denominator is non-zero and both forms give 0
	noTP := ConfusionMatrix{TP: 0, TN: 3, FP: 2, FN: 4, Total: 9}
	assert.Equal(t, 0.0, noTP.DiagnosticOddsRatio())
	assert.Equal(t, 0.0, noTP.DiagnosticOddsRatioDirect())
}

func TestUndefinedMetrics(t *testing.T) {
	warnings := captureWarnings(t)

	// all-zero response: no positives
	m := fakeModel{y: []float64{0, 0, 0, 0}, x: design(4), beta: []float64{-15, 10}}
	sens, err := Sensitivity(m, DefaultCutoff)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(sens))

	got := warnings()
	require.Len(t, got, 1)
	var w *errors.UndefinedMetricWarning
	require.True(t, errors.As(got[0], &w))
	assert.Equal(t, "sensitivity", w.Metric)

	// perfect classification leaves FP and FN at zero
	dor, err := DiagnosticOddsRatio(toyModel(), DefaultCutoff)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(dor))
	assert.True(t, math.IsNaN(ConfusionMatrix{TP: 2, TN: 2, Total: 4}.DiagnosticOddsRatioDirect()))

	// no positive predictions
	fdr := ConfusionMatrix{TN: 2, FN: 2, Total: 4}.FalseDiscoveryRatio()
	assert.True(t, math.IsNaN(fdr))

	// zero specificity: fnr/specificity has no value
	before := len(warnings())
	noTN := ConfusionMatrix{TP: 3, TN: 0, FP: 2, FN: 1, Total: 6}
	assert.Equal(t, 0.0, noTN.Specificity())
	assert.True(t, math.IsNaN(noTN.DiagnosticOddsRatio()))
	got = warnings()
	require.Len(t, got, before+1)
	require.True(t, errors.As(got[len(got)-1], &w))
	assert.Equal(t, "diagnostic_odds_ratio", w.Metric)

	empty := ConfusionMatrix{}
	assert.True(t, math.IsNaN(empty.Accuracy()))
	assert.True(t, math.IsNaN(empty.Prevalence()))
	assert.True(t, math.IsNaN(empty.Specificity()))
}

func TestCutoffGrid(t *testing.T) {
	grid := CutoffGrid()
	require.Len(t, grid, 9)
	assert.Equal(t, 0.1, grid[0])
	assert.Equal(t, 0.5, grid[4])
	assert.Equal(t, 0.9, grid[8])
	for i := 1; i < len(grid); i++ {
		assert.Greater(t, grid[i], grid[i-1])
	}
}

func TestSweep(t *testing.T) {
	captureWarnings(t)
	m := mixedModel()

	values, err := Sweep(m, Sensitivity)
	require.NoError(t, err)
	require.Len(t, values, 9)
	for i, v := range values {
		assert.Equal(t, CutoffGrid()[i], v.Cutoff)
		want, err := Sensitivity(m, v.Cutoff)
		require.NoError(t, err)
		assert.Equal(t, want, v.Value)
		if i > 0 {
			assert.LessOrEqual(t, v.Value, values[i-1].Value)
		}
	}

	bad := m
	bad.beta = []float64{1}
	_, err = Sweep(bad, Accuracy)
	assert.Error(t, err)
}

func TestEvaluate(t *testing.T) {
	set, err := Evaluate(mixedModel(), DefaultCutoff)
	require.NoError(t, err)
	assert.Equal(t, 0.5, set.Cutoff)
	assert.InDelta(t, 0.5, set.Prevalence, 1e-12)
	assert.InDelta(t, 0.75, set.Accuracy, 1e-12)
	assert.InDelta(t, 0.75, set.Sensitivity, 1e-12)
	assert.InDelta(t, 0.75, set.Specificity, 1e-12)
	assert.InDelta(t, 0.25, set.FalseDiscoveryRatio, 1e-12)
	assert.InDelta(t, 9, set.DiagnosticOddsRatio, 1e-9)

	_, err = Evaluate(mixedModel(), 0)
	assert.True(t, errors.Is(err, errors.ErrInvalidCutoff))
}
