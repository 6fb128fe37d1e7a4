package evaluation

import (
	"github.com/pkg/errors"

	"github.com/Naveen06725/wine-prediction/internal/errs"
)

const (
	MetricF1                = "f1"
	MetricAccuracy          = "accuracy"
	MetricWeightedPrecision = "weightedPrecision"
	MetricWeightedRecall    = "weightedRecall"
)

// Evaluator reduces (label, prediction) pairs to one score in [0, 1].
type Evaluator struct {
	MetricName string
}

func NewEvaluator(metricName string) *Evaluator {
	if metricName == "" {
		metricName = MetricF1
	}
	return &Evaluator{MetricName: metricName}
}

func (e *Evaluator) Evaluate(yTrue, yPred []float64) (float64, error) {
	metrics, err := CalculateMetrics(yTrue, yPred)
	if err != nil {
		return 0, errs.NewEvaluationError(e.MetricName, err)
	}

	switch e.MetricName {
	case MetricF1:
		return metrics.WeightedF1, nil
	case MetricAccuracy:
		return metrics.Accuracy, nil
	case MetricWeightedPrecision:
		return metrics.WeightedPrecision, nil
	case MetricWeightedRecall:
		return metrics.WeightedRecall, nil
	default:
		return 0, errs.NewEvaluationError(e.MetricName, errors.New("unsupported metric"))
	}
}
