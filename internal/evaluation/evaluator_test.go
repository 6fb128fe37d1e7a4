package evaluation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Naveen06725/wine-prediction/internal/errs"
)

func TestEvaluator_Metrics(t *testing.T) {
	yTrue := []float64{5, 5, 6, 6}
	yPred := []float64{5, 6, 6, 6}

	tests := []struct {
		metric string
		want   float64
	}{
		{MetricAccuracy, 0.75},
		// class 5: p=1, r=1/2; class 6: p=2/3, r=1
		{MetricWeightedPrecision, (1 + 2.0/3) / 2},
		{MetricWeightedRecall, 0.75},
		{MetricF1, (2.0/3 + 0.8) / 2},
	}

	for _, tt := range tests {
		got, err := NewEvaluator(tt.metric).Evaluate(yTrue, yPred)
		require.NoError(t, err, tt.metric)
		assert.InDelta(t, tt.want, got, 1e-12, tt.metric)
	}
}

func TestEvaluator_DefaultsToF1(t *testing.T) {
	assert.Equal(t, MetricF1, NewEvaluator("").MetricName)
}

func TestEvaluator_Errors(t *testing.T) {
	_, err := NewEvaluator(MetricF1).Evaluate(nil, nil)
	var evalErr *errs.EvaluationError
	require.True(t, errors.As(err, &evalErr))
	assert.Equal(t, MetricF1, evalErr.Metric)

	_, err = NewEvaluator("auc").Evaluate([]float64{1}, []float64{1})
	assert.True(t, errors.As(err, &evalErr))
}
