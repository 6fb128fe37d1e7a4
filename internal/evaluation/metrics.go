package evaluation

import (
	"fmt"
	"math"
	"sort"

	"github.com/pkg/errors"
)

type ClassificationMetrics struct {
	Accuracy          float64                  `json:"accuracy"`
	MacroPrecision    float64                  `json:"macro_precision"`
	MacroRecall       float64                  `json:"macro_recall"`
	MacroF1           float64                  `json:"macro_f1"`
	WeightedPrecision float64                  `json:"weighted_precision"`
	WeightedRecall    float64                  `json:"weighted_recall"`
	WeightedF1        float64                  `json:"weighted_f1"`
	Labels            []float64                `json:"labels"`
	PerClassMetrics   map[float64]ClassMetrics `json:"per_class_metrics"`
	ConfusionMatrix   [][]int                  `json:"confusion_matrix"`
	NumSamples        int                      `json:"num_samples"`
}

type ClassMetrics struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1Score   float64 `json:"f1_score"`
	Support   int     `json:"support"`
}

// CalculateMetrics scores predictions against true labels over every label
// that occurs in either sequence. Weighted averages weight each label by its
// true-label support, so labels that were only predicted count for nothing.
func CalculateMetrics(yTrue, yPred []float64) (*ClassificationMetrics, error) {
	if len(yTrue) != len(yPred) {
		return nil, errors.Errorf("label and prediction counts differ: %d vs %d", len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return nil, errors.New("no labels to evaluate")
	}

	labels := labelUnion(yTrue, yPred)
	confusionMatrix := buildConfusionMatrix(yTrue, yPred, labels)
	numSamples := len(yTrue)

	perClassMetrics := make(map[float64]ClassMetrics, len(labels))
	var macroPrec, macroRec, macroF1 float64
	var weightedPrec, weightedRec, weightedF1 float64
	correct := 0

	for i, label := range labels {
		tp := confusionMatrix[i][i]
		fp := 0
		fn := 0
		for j := range labels {
			if j != i {
				fp += confusionMatrix[j][i]
				fn += confusionMatrix[i][j]
			}
		}
		correct += tp

		support := tp + fn
		precision := safeDivide(float64(tp), float64(tp+fp))
		recall := safeDivide(float64(tp), float64(support))
		f1 := safeDivide(2*precision*recall, precision+recall)

		perClassMetrics[label] = ClassMetrics{
			Precision: precision,
			Recall:    recall,
			F1Score:   f1,
			Support:   support,
		}

		macroPrec += precision
		macroRec += recall
		macroF1 += f1

		weightedPrec += precision * float64(support)
		weightedRec += recall * float64(support)
		weightedF1 += f1 * float64(support)
	}

	numLabels := float64(len(labels))
	n := float64(numSamples)

	return &ClassificationMetrics{
		Accuracy:          float64(correct) / n,
		MacroPrecision:    macroPrec / numLabels,
		MacroRecall:       macroRec / numLabels,
		MacroF1:           macroF1 / numLabels,
		WeightedPrecision: weightedPrec / n,
		WeightedRecall:    weightedRec / n,
		WeightedF1:        weightedF1 / n,
		Labels:            labels,
		PerClassMetrics:   perClassMetrics,
		ConfusionMatrix:   confusionMatrix,
		NumSamples:        numSamples,
	}, nil
}

func labelUnion(yTrue, yPred []float64) []float64 {
	seen := make(map[float64]bool)
	for _, label := range yTrue {
		seen[label] = true
	}
	for _, label := range yPred {
		seen[label] = true
	}

	labels := make([]float64, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Float64s(labels)
	return labels
}

// buildConfusionMatrix counts rows by true label (row) and prediction (column).
func buildConfusionMatrix(yTrue, yPred []float64, labels []float64) [][]int {
	matrix := make([][]int, len(labels))
	for i := range matrix {
		matrix[i] = make([]int, len(labels))
	}

	labelToIdx := make(map[float64]int, len(labels))
	for i, label := range labels {
		labelToIdx[label] = i
	}

	for i := range yTrue {
		matrix[labelToIdx[yTrue[i]]][labelToIdx[yPred[i]]]++
	}

	return matrix
}

func safeDivide(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0.0
	}
	result := numerator / denominator
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0.0
	}
	return result
}

func (m *ClassificationMetrics) FormatMetrics() string {
	result := fmt.Sprintf("Accuracy: %.4f\n", m.Accuracy)
	result += fmt.Sprintf("Macro Avg - Precision: %.4f, Recall: %.4f, F1: %.4f\n",
		m.MacroPrecision, m.MacroRecall, m.MacroF1)
	result += fmt.Sprintf("Weighted Avg - Precision: %.4f, Recall: %.4f, F1: %.4f\n",
		m.WeightedPrecision, m.WeightedRecall, m.WeightedF1)
	return result
}
