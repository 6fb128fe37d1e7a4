package preprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelIndexer(t *testing.T) {
	li := NewLabelIndexer()

	y, err := li.FitTransform([]float64{6, 5, 8, 5})
	require.NoError(t, err)

	assert.Equal(t, []float64{5, 6, 8}, li.Labels)
	assert.Equal(t, 3, li.NumClasses())
	assert.Equal(t, []int{1, 0, 2, 0}, y)

	labels, err := li.InverseTransform([]int{2, 0})
	require.NoError(t, err)
	assert.Equal(t, []float64{8, 5}, labels)
}

func TestLabelIndexer_Errors(t *testing.T) {
	li := NewLabelIndexer()

	_, err := li.Transform([]float64{5})
	assert.Error(t, err)
	_, err = li.Label(0)
	assert.Error(t, err)

	li.Fit([]float64{5, 6})
	_, err = li.Index(7)
	assert.Error(t, err)
	_, err = li.Label(2)
	assert.Error(t, err)
	_, err = li.Label(-1)
	assert.Error(t, err)
}
