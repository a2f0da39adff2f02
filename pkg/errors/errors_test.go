package errors

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		kind    string
		err     error
		wantMsg string
	}{
		{
			name:    "with original error",
			op:      "Fit",
			kind:    "singular matrix",
			err:     ErrSingularMatrix,
			wantMsg: "logitdx: Fit: singular matrix: singular matrix",
		},
		{
			name:    "without original error",
			op:      "Fit",
			kind:    "empty data",
			err:     nil,
			wantMsg: "logitdx: Fit: empty data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			// スタックトレースの存在確認
			formatted := fmt.Sprintf("%+v", err)
			if !strings.Contains(formatted, "errors_test.go") {
				t.Error("Expected stack trace to contain test file name")
			}

			var modelErr *ModelError
			if !As(err, &modelErr) {
				t.Error("Error should be castable to *ModelError")
			}

			if tt.err != nil && !Is(err, tt.err) {
				t.Errorf("Expected Is(err, %v) to be true", tt.err)
			}
		})
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("Confusion", 3, 2, 1)

	want := "logitdx: Confusion: dimension mismatch on axis 1 (columns). Expected 3, got 2"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Fatal("Error should be castable to *DimensionError")
	}
	if dimErr.Expected != 3 || dimErr.Got != 2 {
		t.Errorf("unexpected fields: %+v", dimErr)
	}
}

func TestValidationSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		param    string
	}{
		{"cutoff", NewInvalidCutoffError(1.5), ErrInvalidCutoff, "cutoff"},
		{"alpha", NewInvalidAlphaError(0.7), ErrInvalidAlpha, "alpha"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !Is(tt.err, tt.sentinel) {
				t.Errorf("Expected Is(err, %v) to be true", tt.sentinel)
			}

			var valErr *ValidationError
			if !As(tt.err, &valErr) {
				t.Fatal("Error should be castable to *ValidationError")
			}
			if valErr.ParamName != tt.param {
				t.Errorf("ParamName = %q, want %q", valErr.ParamName, tt.param)
			}
		})
	}

	if Is(NewValidationError("replications", "must be >= 1", 0), ErrInvalidCutoff) {
		t.Error("plain validation error must not match ErrInvalidCutoff")
	}
}

func TestBootstrapError(t *testing.T) {
	cause := NewModelError("LogisticFitter.Fit", "singular matrix", ErrSingularMatrix)
	err := NewBootstrapError(7, cause)

	if !Is(err, ErrBootstrapFailure) {
		t.Error("Expected Is(err, ErrBootstrapFailure) to be true")
	}
	if !Is(err, ErrSingularMatrix) {
		t.Error("Expected the cause to remain reachable through the chain")
	}

	var bErr *BootstrapError
	if !As(err, &bErr) {
		t.Fatal("Error should be castable to *BootstrapError")
	}
	if bErr.Replication != 7 {
		t.Errorf("Replication = %d, want 7", bErr.Replication)
	}
	if !strings.Contains(err.Error(), "replication 7") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestNewConvergenceWarning(t *testing.T) {
	warn := NewConvergenceWarning("NelderMead", 500, "IterationLimit")

	want := "NelderMead failed to converge after 500 iterations: IterationLimit"
	if warn.Error() != want {
		t.Errorf("Error() = %v, want %v", warn.Error(), want)
	}

	var convWarn *ConvergenceWarning
	if !As(warn, &convWarn) {
		t.Error("Warning should be castable to *ConvergenceWarning")
	}
}

func TestWarnUsesHandler(t *testing.T) {
	var got []error
	SetWarningHandler(func(w error) { got = append(got, w) })
	defer SetWarningHandler(nil)

	Warn(NewUndefinedMetricWarning("sensitivity", "no positive observations", math.NaN()))
	Warn(nil)

	if len(got) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(got))
	}
	var umw *UndefinedMetricWarning
	if !As(got[0], &umw) {
		t.Fatalf("expected *UndefinedMetricWarning, got %T", got[0])
	}
	if umw.Metric != "sensitivity" || !math.IsNaN(umw.Result) {
		t.Errorf("unexpected warning: %+v", umw)
	}
}

func TestWrapAndMark(t *testing.T) {
	wrapped := Wrap(ErrEmptyData, "in LogisticFitter.Fit")
	if !Is(wrapped, ErrEmptyData) {
		t.Error("Expected Is(wrapped, ErrEmptyData) to be true")
	}
	if !strings.Contains(wrapped.Error(), "in LogisticFitter.Fit") {
		t.Error("Expected wrapped error to contain wrapping message")
	}

	marked := Mark(Wrapf(context.DeadlineExceeded, "bootstrap after %d replications", 3), ErrTimeout)
	if !Is(marked, ErrTimeout) {
		t.Error("Expected marked error to match ErrTimeout")
	}
	if !Is(marked, context.DeadlineExceeded) {
		t.Error("Expected marked error to keep its cause")
	}
}

func TestCheckNumericalStability(t *testing.T) {
	if err := CheckNumericalStability("seed", []float64{1, 2, 3}, 0); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	err := CheckNumericalStability("seed", []float64{1, math.Inf(1)}, 0)
	var nie *NumericalInstabilityError
	if !As(err, &nie) {
		t.Fatalf("expected *NumericalInstabilityError, got %v", err)
	}
	if nie.Operation != "seed" {
		t.Errorf("Operation = %q, want seed", nie.Operation)
	}
}

func TestRatioOrNaN(t *testing.T) {
	if got := RatioOrNaN(1, 4); got != 0.25 {
		t.Errorf("RatioOrNaN(1, 4) = %v, want 0.25", got)
	}
	if got := RatioOrNaN(0, 0); !math.IsNaN(got) {
		t.Errorf("RatioOrNaN(0, 0) = %v, want NaN", got)
	}
}
