package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// refit mimics a bootstrap replication body guarded by Recover.
func refit(rep int, body func() ([]float64, error)) (beta []float64, err error) {
	defer Recover(&err, fmt.Sprintf("bootstrap replication %d", rep))
	return body()
}

func TestRecover_PanickingReplication(t *testing.T) {
	beta, err := refit(3, func() ([]float64, error) {
		panic("singular resample")
	})
	require.Error(t, err)
	assert.Nil(t, beta)

	var pe *PanicError
	require.True(t, As(err, &pe))
	assert.Equal(t, "bootstrap replication 3", pe.Operation)
	assert.Equal(t, "singular resample", pe.PanicValue)
	assert.NotEmpty(t, pe.StackTrace)
	assert.Equal(t, "panic in bootstrap replication 3: singular resample", err.Error())
}

func TestRecover_NoPanic(t *testing.T) {
	beta, err := refit(0, func() ([]float64, error) {
		return []float64{1, 2}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, beta)

	_, err = refit(0, func() ([]float64, error) {
		return nil, ErrSingularMatrix
	})
	assert.True(t, Is(err, ErrSingularMatrix))
	var pe *PanicError
	assert.False(t, As(err, &pe))
}

func TestRecover_PanicAfterError(t *testing.T) {
	fitErr := NewModelError("LogisticFitter.Fit", "seed", ErrSingularMatrix)

	run := func() (err error) {
		defer Recover(&err, "bootstrap replication 7")
		err = fitErr
		panic("cleanup failed")
	}

	err := run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic in bootstrap replication 7: cleanup failed")
	assert.True(t, Is(err, ErrSingularMatrix))
	assert.True(t, Is(err, fitErr))
}

func TestRecover_PanicValues(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"string", "bad row", "bad row"},
		{"int", 42, "42"},
		{"error", New("index out of range"), "index out of range"},
		{"nil", nil, "panic called with nil argument"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := refit(1, func() ([]float64, error) {
				panic(tt.value)
			})
			var pe *PanicError
			require.True(t, As(err, &pe))
			assert.Contains(t, fmt.Sprint(pe.PanicValue), tt.want)
		})
	}
}

func TestPanicError_String(t *testing.T) {
	pe := NewPanicError("bootstrap replication 2", "boom")
	assert.Equal(t, "panic in bootstrap replication 2: boom", pe.Error())
	assert.Contains(t, pe.String(), "Stack trace:")
	assert.Contains(t, pe.String(), "panic in bootstrap replication 2: boom")
}

func BenchmarkRecover_NoPanic(b *testing.B) {
	body := func() ([]float64, error) { return nil, nil }
	for i := 0; i < b.N; i++ {
		_, _ = refit(i, body)
	}
}
