package models

import (
	"context"
)

// Model is a classifier over dense feature vectors. Labels are class indices
// in [0, numClasses).
type Model interface {
	Fit(ctx context.Context, X [][]float64, y []int, numClasses int) error
	Predict(X [][]float64) []int
	PredictProba(X [][]float64) [][]float64
	GetName() string
	GetParams() map[string]any
}

var (
	_ Model = (*DecisionTree)(nil)
	_ Model = (*RandomForest)(nil)
)

type BaseModel struct {
	Name string
}

func (bm *BaseModel) GetName() string {
	return bm.Name
}

// argmax returns the index of the largest value; ties go to the lowest index.
func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}

func normalize(counts []float64) []float64 {
	total := 0.0
	for _, c := range counts {
		total += c
	}

	proba := make([]float64, len(counts))
	if total == 0 {
		return proba
	}
	for i, c := range counts {
		proba[i] = c / total
	}
	return proba
}
