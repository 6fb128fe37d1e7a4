package report

import (
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/Naveen06725/wine-prediction/internal/pipeline"
)

type predictionRecord struct {
	Quality    float64 `csv:"quality"`
	Prediction float64 `csv:"prediction"`
}

// ExportPredictions writes every prediction to a comma-separated file with a
// quality,prediction header, replacing any existing file.
func ExportPredictions(path string, preds *pipeline.Predictions) error {
	records := make([]*predictionRecord, 0, preds.Len())
	for _, row := range preds.Rows {
		records = append(records, &predictionRecord{Quality: row.Label, Prediction: row.Prediction})
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "create predictions directory")
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create predictions file")
	}
	defer file.Close()

	if err := gocsv.Marshal(&records, file); err != nil {
		return errors.Wrap(err, "write predictions")
	}
	return file.Close()
}
