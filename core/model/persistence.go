package model

import (
	"encoding/gob"
	"io"
	"os"

	"github.com/YuminosukeSato/logitdx/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// snapshot is the gob wire form of a FittedModel.
type snapshot struct {
	Response    []float64
	Rows, Cols  int
	Predictors  []float64
	InitialBeta []float64
	Beta        []float64
	NLL         float64
	Convergence Convergence
}

// Save は学習済みモデルをgob形式でwに書き出す
//
// 使用例:
//
//	fit, _ := linear.NewLogisticFitter().Fit(ctx, y, X)
//	err := model.Save(w, fit)
func Save(w io.Writer, m *FittedModel) error {
	if m == nil {
		return errors.NewValueError("model.Save", "model is nil")
	}
	rows, cols := m.data.predictors.Dims()
	pred := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		pred = append(pred, m.data.predictors.RawRowView(i)...)
	}
	s := snapshot{
		Response:    m.data.response,
		Rows:        rows,
		Cols:        cols,
		Predictors:  pred,
		InitialBeta: m.initialBeta,
		Beta:        m.beta,
		NLL:         m.nll,
		Convergence: m.convergence,
	}
	if err := gob.NewEncoder(w).Encode(&s); err != nil {
		return errors.Wrap(err, "failed to encode model")
	}
	return nil
}

// Load はSaveで書き出したモデルを読み込む。データは再検証される。
func Load(r io.Reader) (*FittedModel, error) {
	var s snapshot
	if err := gob.NewDecoder(r).Decode(&s); err != nil {
		return nil, errors.Wrap(err, "failed to decode model")
	}
	if s.Rows*s.Cols != len(s.Predictors) || s.Rows <= 0 || s.Cols <= 0 {
		return nil, errors.NewDimensionError("model.Load", s.Rows*s.Cols, len(s.Predictors), 0)
	}
	data, err := NewDataset(s.Response, mat.NewDense(s.Rows, s.Cols, s.Predictors))
	if err != nil {
		return nil, errors.Wrap(err, "model.Load")
	}
	return NewFittedModel(data, s.InitialBeta, s.Beta, s.NLL, s.Convergence)
}

// SaveFile はモデルをファイルに保存する
func SaveFile(m *FittedModel, filename string) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "failed to close file")
		}
	}()
	return Save(file, m)
}

// LoadFile はファイルからモデルを読み込む
func LoadFile(filename string) (*FittedModel, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer file.Close()
	return Load(file)
}
