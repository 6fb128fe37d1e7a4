package pipeline

import (
	"github.com/pkg/errors"

	"github.com/Naveen06725/wine-prediction/internal/data"
	"github.com/Naveen06725/wine-prediction/internal/errs"
	"github.com/Naveen06725/wine-prediction/internal/features"
	"github.com/Naveen06725/wine-prediction/internal/models"
	"github.com/Naveen06725/wine-prediction/internal/preprocessing"
)

// Model is a fitted pipeline. It is not modified after Fit returns, so it
// can be applied any number of times.
type Model struct {
	Assembler *features.VectorAssembler
	LabelCol  string
	Labels    *preprocessing.LabelIndexer
	Forest    *models.RandomForest
}

// Prediction pairs a row's true label with the predicted one.
type Prediction struct {
	Label      float64
	Prediction float64
}

type Predictions struct {
	Source string
	Rows   []Prediction
}

func (p *Predictions) Len() int {
	return len(p.Rows)
}

// Labels returns the true labels and predictions as parallel slices.
func (p *Predictions) Labels() (yTrue, yPred []float64) {
	yTrue = make([]float64, len(p.Rows))
	yPred = make([]float64, len(p.Rows))
	for i, row := range p.Rows {
		yTrue[i] = row.Label
		yPred[i] = row.Prediction
	}
	return yTrue, yPred
}

// Head returns at most n leading predictions.
func (p *Predictions) Head(n int) []Prediction {
	if n > len(p.Rows) {
		n = len(p.Rows)
	}
	if n < 0 {
		n = 0
	}
	return p.Rows[:n]
}

func (m *Model) Classes() []float64 {
	classes := make([]float64, len(m.Labels.Labels))
	copy(classes, m.Labels.Labels)
	return classes
}

// Predict returns the predicted label for one feature vector.
func (m *Model) Predict(vec features.FeatureVector) (float64, error) {
	if len(vec) != m.Assembler.Size() {
		return 0, errors.Errorf("feature vector has %d values, model expects %d", len(vec), m.Assembler.Size())
	}
	class := m.Forest.Predict([][]float64{vec})[0]
	return m.Labels.Label(class)
}

// Transform predicts every row of ds. The dataset must carry the label
// column so predictions can be scored.
func (m *Model) Transform(ds *data.Dataset) (*Predictions, error) {
	X, err := m.Assembler.Transform(ds)
	if err != nil {
		return nil, errs.NewDataLoadError(ds.Source, 0, "", err)
	}

	labels, ok := ds.Column(m.LabelCol)
	if !ok {
		return nil, errs.NewDataLoadError(ds.Source, 0, m.LabelCol, errors.New("label column not in schema"))
	}

	classes := m.Forest.Predict(X)
	predicted, err := m.Labels.InverseTransform(classes)
	if err != nil {
		return nil, err
	}

	preds := &Predictions{Source: ds.Source, Rows: make([]Prediction, len(X))}
	for i := range X {
		preds.Rows[i] = Prediction{Label: labels[i], Prediction: predicted[i]}
	}
	return preds, nil
}
