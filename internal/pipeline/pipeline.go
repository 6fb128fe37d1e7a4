// Package pipeline composes the feature assembler and the forest classifier
// into a single unit that is fitted once and then applied to any dataset
// with the same schema.
package pipeline

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Naveen06725/wine-prediction/internal/data"
	"github.com/Naveen06725/wine-prediction/internal/errs"
	"github.com/Naveen06725/wine-prediction/internal/features"
	"github.com/Naveen06725/wine-prediction/internal/models"
	"github.com/Naveen06725/wine-prediction/internal/preprocessing"
)

type Pipeline struct {
	Assembler *features.VectorAssembler
	LabelCol  string
	Forest    models.ForestConfig
}

func New(featureCols []string, labelCol string, forest models.ForestConfig) *Pipeline {
	return &Pipeline{
		Assembler: features.NewVectorAssembler(featureCols),
		LabelCol:  labelCol,
		Forest:    forest,
	}
}

// WinePipeline predicts quality from the eleven wine features.
func WinePipeline(forest models.ForestConfig) *Pipeline {
	return New(data.FeatureColumns(), data.LabelColumn, forest)
}

// Fit trains the pipeline on ds. Every failure is returned as *errs.TrainingError.
func (p *Pipeline) Fit(ctx context.Context, ds *data.Dataset) (*Model, error) {
	validator := data.NewDataValidator()
	if err := validator.ValidateDataset(ds); err != nil {
		return nil, errs.NewTrainingError(err)
	}

	labels, ok := ds.Column(p.LabelCol)
	if !ok {
		return nil, errs.NewTrainingError(errors.Errorf("label column %q not in schema", p.LabelCol))
	}
	if err := validator.ValidateLabels(labels); err != nil {
		return nil, errs.NewTrainingError(err)
	}

	X, err := p.Assembler.Transform(ds)
	if err != nil {
		return nil, errs.NewTrainingError(errors.Wrap(err, "assemble features"))
	}

	indexer := preprocessing.NewLabelIndexer()
	y, err := indexer.FitTransform(labels)
	if err != nil {
		return nil, errs.NewTrainingError(err)
	}

	forest := models.NewRandomForest(p.Forest)
	if err := forest.Fit(ctx, X, y, indexer.NumClasses()); err != nil {
		return nil, errs.NewTrainingError(err)
	}

	return &Model{
		Assembler: features.NewVectorAssembler(p.Assembler.InputCols),
		LabelCol:  p.LabelCol,
		Labels:    indexer,
		Forest:    forest,
	}, nil
}
