package preprocessing

import (
	"sort"

	"github.com/pkg/errors"
)

// LabelIndexer maps numeric labels to contiguous class indices, ordered by
// ascending label value.
type LabelIndexer struct {
	Labels   []float64
	IsFitted bool
}

func NewLabelIndexer() *LabelIndexer {
	return &LabelIndexer{}
}

func (li *LabelIndexer) Fit(labels []float64) {
	unique := make(map[float64]bool)
	for _, label := range labels {
		unique[label] = true
	}

	li.Labels = make([]float64, 0, len(unique))
	for label := range unique {
		li.Labels = append(li.Labels, label)
	}
	sort.Float64s(li.Labels)

	li.IsFitted = true
}

func (li *LabelIndexer) NumClasses() int {
	return len(li.Labels)
}

// Index returns the class index of label.
func (li *LabelIndexer) Index(label float64) (int, error) {
	if !li.IsFitted {
		return 0, errors.New("LabelIndexer must be fitted before transform")
	}

	i := sort.SearchFloat64s(li.Labels, label)
	if i == len(li.Labels) || li.Labels[i] != label {
		return 0, errors.Errorf("unknown label: %v", label)
	}
	return i, nil
}

func (li *LabelIndexer) Transform(labels []float64) ([]int, error) {
	result := make([]int, len(labels))
	for i, label := range labels {
		idx, err := li.Index(label)
		if err != nil {
			return nil, err
		}
		result[i] = idx
	}
	return result, nil
}

func (li *LabelIndexer) FitTransform(labels []float64) ([]int, error) {
	li.Fit(labels)
	return li.Transform(labels)
}

// Label returns the label of class index i.
func (li *LabelIndexer) Label(i int) (float64, error) {
	if !li.IsFitted {
		return 0, errors.New("LabelIndexer must be fitted before inverse transform")
	}
	if i < 0 || i >= len(li.Labels) {
		return 0, errors.Errorf("unknown class index: %d", i)
	}
	return li.Labels[i], nil
}

func (li *LabelIndexer) InverseTransform(indices []int) ([]float64, error) {
	result := make([]float64, len(indices))
	for i, idx := range indices {
		label, err := li.Label(idx)
		if err != nil {
			return nil, err
		}
		result[i] = label
	}
	return result, nil
}
