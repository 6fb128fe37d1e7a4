// Package app runs the train, validate, save and test sequence.
package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Naveen06725/wine-prediction/internal/config"
	"github.com/Naveen06725/wine-prediction/internal/data"
	"github.com/Naveen06725/wine-prediction/internal/engine"
	"github.com/Naveen06725/wine-prediction/internal/evaluation"
	"github.com/Naveen06725/wine-prediction/internal/jobs"
	"github.com/Naveen06725/wine-prediction/internal/models"
	"github.com/Naveen06725/wine-prediction/internal/persistence"
	"github.com/Naveen06725/wine-prediction/internal/pipeline"
	"github.com/Naveen06725/wine-prediction/internal/report"
)

type Runner struct {
	cfg      *config.Config
	engine   engine.TabularEngine
	reporter *report.Reporter
	logger   *zap.Logger
	jobs     *jobs.Manager
}

func NewRunner(cfg *config.Config, eng engine.TabularEngine, reporter *report.Reporter, logger *zap.Logger) *Runner {
	return &Runner{
		cfg:      cfg,
		engine:   eng,
		reporter: reporter,
		logger:   logger,
		jobs:     jobs.NewManager(),
	}
}

// Jobs returns the stages recorded so far.
func (r *Runner) Jobs() []*jobs.Job {
	return r.jobs.List()
}

func (r *Runner) track(stage string, fn func() error) error {
	return r.jobs.Track(stage, func(*jobs.Job) error { return fn() })
}

// Run trains on the configured training file, scores the validation file,
// saves the model and then scores testPath. Only a failed save is tolerated.
func (r *Runner) Run(ctx context.Context, testPath string) error {
	defer r.logSummary()

	schema := data.WineSchema()

	var training, validation *data.Dataset
	err := r.jobs.Track("load", func(job *jobs.Job) error {
		var err error
		if training, err = r.engine.Load(r.cfg.Data.TrainingPath, schema); err != nil {
			return err
		}
		job.Note("training rows: %d", training.Len())
		if validation, err = r.engine.Load(r.cfg.Data.ValidationPath, schema); err != nil {
			return err
		}
		job.Note("validation rows: %d", validation.Len())
		return nil
	})
	if err != nil {
		return err
	}

	forest := models.DefaultForestConfig()
	forest.Seed = r.cfg.Forest.Seed

	r.reporter.TrainingStarted()
	var model *pipeline.Model
	start := time.Now()
	err = r.track("train", func() error {
		var err error
		model, err = r.engine.Fit(ctx, pipeline.WinePipeline(forest), training)
		return err
	})
	if err != nil {
		return err
	}
	trainingTime := time.Since(start)

	r.reporter.ValidationStarted()
	validationF1, err := r.score("validate", model, validation)
	if err != nil {
		return err
	}
	r.reporter.ValidationScore(validationF1)

	r.reporter.SavingModel()
	r.save(model, validationF1, trainingTime)

	r.reporter.TestStarted()
	var preds *pipeline.Predictions
	var testF1 float64
	err = r.track("test", func() error {
		test, err := r.engine.Load(testPath, schema)
		if err != nil {
			return err
		}
		if preds, err = r.engine.Transform(model, test); err != nil {
			return err
		}
		if testF1, err = r.engine.Evaluate(preds, evaluation.MetricF1); err != nil {
			return err
		}
		r.logMetrics("test", preds)
		return nil
	})
	if err != nil {
		return err
	}
	r.reporter.TestScore(testF1)
	r.reporter.Sample(preds.Head(r.cfg.Report.SampleSize))

	if path := r.cfg.Report.PredictionsPath; path != "" {
		r.export(path, preds)
	}

	return nil
}

func (r *Runner) score(jobType string, model *pipeline.Model, ds *data.Dataset) (float64, error) {
	var f1 float64
	err := r.track(jobType, func() error {
		preds, err := r.engine.Transform(model, ds)
		if err != nil {
			return err
		}
		if f1, err = r.engine.Evaluate(preds, evaluation.MetricF1); err != nil {
			return err
		}
		r.logMetrics(jobType, preds)
		return nil
	})
	return f1, err
}

// logMetrics logs the full metric breakdown at debug level.
func (r *Runner) logMetrics(stage string, preds *pipeline.Predictions) {
	if !r.logger.Core().Enabled(zap.DebugLevel) {
		return
	}
	metrics, err := evaluation.CalculateMetrics(preds.Labels())
	if err != nil {
		return
	}
	r.logger.Debug("metrics", zap.String("stage", stage), zap.String("summary", metrics.FormatMetrics()))
}

// save persists the model. A failure is logged and the run goes on with
// the in-memory model.
func (r *Runner) save(model *pipeline.Model, validationF1 float64, trainingTime time.Duration) {
	bundle := persistence.NewModelBundle(model)
	bundle.Metadata.Dataset = r.cfg.Data.TrainingPath
	bundle.Metadata.F1Score = validationF1
	bundle.Metadata.TrainingTime = trainingTime

	path := r.cfg.Model.Path
	err := r.track("save", func() error {
		return bundle.Save(path, r.cfg.Model.Overwrite)
	})
	if err != nil {
		r.logger.Warn("error saving model", zap.String("path", path), zap.Error(err))
		return
	}
	r.logger.Info("model saved", zap.String("path", path))
}

func (r *Runner) export(path string, preds *pipeline.Predictions) {
	err := r.track("export", func() error {
		return report.ExportPredictions(path, preds)
	})
	if err != nil {
		r.logger.Warn("error exporting predictions", zap.String("path", path), zap.Error(err))
		return
	}
	r.logger.Info("predictions exported", zap.String("path", path), zap.Int("rows", preds.Len()))
}

func (r *Runner) logSummary() {
	for _, job := range r.jobs.List() {
		fields := []zap.Field{
			zap.String("stage", job.Stage),
			zap.String("status", string(job.Status())),
			zap.Duration("elapsed", job.Elapsed()),
		}
		if notes := job.Notes(); len(notes) > 0 {
			messages := make([]string, len(notes))
			for i, note := range notes {
				messages[i] = note.Message
			}
			fields = append(fields, zap.Strings("notes", messages))
		}
		if err := job.Err(); err != nil {
			fields = append(fields, zap.Error(err))
		}
		r.logger.Debug("stage finished", fields...)
	}

	if save, ok := r.jobs.Last("save"); ok && save.Status() == jobs.JobFailed {
		r.logger.Info("run finished without a saved model", zap.String("path", r.cfg.Model.Path))
	}
}
