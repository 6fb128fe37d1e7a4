package data

import (
	"math"

	"github.com/pkg/errors"
)

type DataValidator struct{}

func NewDataValidator() *DataValidator {
	return &DataValidator{}
}

func (dv *DataValidator) ValidateDataset(ds *Dataset) error {
	if ds == nil || ds.Len() == 0 {
		return errors.New("dataset is empty")
	}

	n := ds.Schema.Len()
	for i, row := range ds.Rows {
		if len(row.Values) != n {
			return errors.Errorf("inconsistent value count at row %d: expected %d, got %d", i, n, len(row.Values))
		}
	}

	return nil
}

// ValidateLabels checks that every label is a non-negative whole number,
// since labels are used as class identifiers.
func (dv *DataValidator) ValidateLabels(y []float64) error {
	if len(y) == 0 {
		return errors.New("labels are empty")
	}

	for i, label := range y {
		if math.IsNaN(label) || math.IsInf(label, 0) {
			return errors.Errorf("label at row %d is not finite", i)
		}
		if label < 0 || label != math.Trunc(label) {
			return errors.Errorf("label at row %d is not a non-negative integer: %v", i, label)
		}
	}

	return nil
}
