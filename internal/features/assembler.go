// Package features turns dataset rows into numeric feature vectors.
package features

import (
	"github.com/pkg/errors"

	"github.com/Naveen06725/wine-prediction/internal/data"
)

type FeatureVector []float64

// VectorAssembler projects the named input columns of a row, in InputCols
// order, into a single vector. Columns not listed, such as the label, are
// ignored.
type VectorAssembler struct {
	InputCols []string
}

func NewVectorAssembler(inputCols []string) *VectorAssembler {
	cols := make([]string, len(inputCols))
	copy(cols, inputCols)
	return &VectorAssembler{InputCols: cols}
}

func (va *VectorAssembler) Size() int {
	return len(va.InputCols)
}

func (va *VectorAssembler) resolve(schema data.Schema) ([]int, error) {
	if len(va.InputCols) == 0 {
		return nil, errors.New("assembler has no input columns")
	}

	indices := make([]int, len(va.InputCols))
	for i, name := range va.InputCols {
		idx := schema.Index(name)
		if idx < 0 {
			return nil, errors.Errorf("input column %q not in schema", name)
		}
		indices[i] = idx
	}
	return indices, nil
}

func (va *VectorAssembler) Assemble(schema data.Schema, row data.Row) (FeatureVector, error) {
	indices, err := va.resolve(schema)
	if err != nil {
		return nil, err
	}
	return project(row, indices)
}

// Transform assembles every row of ds.
func (va *VectorAssembler) Transform(ds *data.Dataset) ([][]float64, error) {
	indices, err := va.resolve(ds.Schema)
	if err != nil {
		return nil, err
	}

	X := make([][]float64, ds.Len())
	for i, row := range ds.Rows {
		vec, err := project(row, indices)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", i)
		}
		X[i] = vec
	}
	return X, nil
}

func project(row data.Row, indices []int) (FeatureVector, error) {
	vec := make(FeatureVector, len(indices))
	for i, idx := range indices {
		if idx >= len(row.Values) {
			return nil, errors.Errorf("row has %d values, need column %d", len(row.Values), idx)
		}
		vec[i] = row.Float(idx)
	}
	return vec, nil
}
