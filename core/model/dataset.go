// Package model holds the immutable records shared by the fitter, the
// diagnostics and the bootstrap: a validated Dataset and a FittedModel.
package model

import (
	"encoding/binary"
	"math"

	"github.com/YuminosukeSato/logitdx/pkg/errors"
	"github.com/cespare/xxhash/v2"
	"gonum.org/v1/gonum/mat"
)

// Dataset is a binary response vector paired with an n×p design matrix.
// Column 0 of the predictors is conventionally the intercept column of 1s.
// A Dataset owns its memory; accessors return copies.
type Dataset struct {
	response   []float64
	predictors *mat.Dense
}

// NewDataset validates and copies response and predictors.
//
// response must hold only 0 and 1, predictors must be finite and have one
// row per response value.
func NewDataset(response []float64, predictors mat.Matrix) (*Dataset, error) {
	if len(response) == 0 || predictors == nil {
		return nil, errors.ErrEmptyData
	}
	rows, cols := predictors.Dims()
	if rows == 0 || cols == 0 {
		return nil, errors.ErrEmptyData
	}
	if rows != len(response) {
		return nil, errors.NewDimensionError("NewDataset", len(response), rows, 0)
	}
	for i, v := range response {
		if v != 0 && v != 1 {
			return nil, errors.NewValidationError("response", "values must be 0 or 1", map[string]interface{}{"index": i, "value": v})
		}
	}
	if err := errors.CheckMatrix("NewDataset", predictors, rows, cols); err != nil {
		return nil, err
	}

	return &Dataset{
		response:   append([]float64(nil), response...),
		predictors: mat.DenseCopyOf(predictors),
	}, nil
}

// Samples returns n.
func (d *Dataset) Samples() int { return len(d.response) }

// Features returns p, the number of predictor columns including the intercept.
func (d *Dataset) Features() int {
	_, c := d.predictors.Dims()
	return c
}

// Response returns a copy of the response vector.
func (d *Dataset) Response() []float64 {
	return append([]float64(nil), d.response...)
}

// Predictors returns a copy of the design matrix.
func (d *Dataset) Predictors() *mat.Dense {
	return mat.DenseCopyOf(d.predictors)
}

// Positives counts observations with response 1.
func (d *Dataset) Positives() int {
	n := 0
	for _, v := range d.response {
		if v == 1 {
			n++
		}
	}
	return n
}

// Resample builds a new Dataset from the given row indices. Indices may
// repeat; the receiver is not modified.
func (d *Dataset) Resample(rows []int) (*Dataset, error) {
	if len(rows) == 0 {
		return nil, errors.ErrEmptyData
	}
	n, p := d.predictors.Dims()
	resp := make([]float64, len(rows))
	pred := mat.NewDense(len(rows), p, nil)
	for i, r := range rows {
		if r < 0 || r >= n {
			return nil, errors.NewValidationError("rows", "index out of range", r)
		}
		resp[i] = d.response[r]
		pred.SetRow(i, d.predictors.RawRowView(r))
	}
	return &Dataset{response: resp, predictors: pred}, nil
}

// Fingerprint is a stable 64-bit hash of the response and predictor values.
// Two datasets with bit-identical contents share a fingerprint.
func (d *Dataset) Fingerprint() uint64 {
	h := xxhash.New()
	var buf [8]byte

	n, p := d.predictors.Dims()
	binary.LittleEndian.PutUint64(buf[:], uint64(n))
	_, _ = h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(p))
	_, _ = h.Write(buf[:])

	for _, v := range d.response {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		_, _ = h.Write(buf[:])
	}
	for i := 0; i < n; i++ {
		for _, v := range d.predictors.RawRowView(i) {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			_, _ = h.Write(buf[:])
		}
	}
	return h.Sum64()
}
