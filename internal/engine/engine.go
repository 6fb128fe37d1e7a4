// Package engine is the compute session the prediction run talks to.
package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Naveen06725/wine-prediction/internal/data"
	"github.com/Naveen06725/wine-prediction/internal/evaluation"
	"github.com/Naveen06725/wine-prediction/internal/pipeline"
)

var ErrClosed = errors.New("engine is closed")

// TabularEngine loads, fits, transforms and evaluates tabular datasets.
// Callers depend only on this interface; LocalEngine runs everything in
// process.
type TabularEngine interface {
	Load(path string, schema data.Schema) (*data.Dataset, error)
	Fit(ctx context.Context, p *pipeline.Pipeline, ds *data.Dataset) (*pipeline.Model, error)
	Transform(m *pipeline.Model, ds *data.Dataset) (*pipeline.Predictions, error)
	Evaluate(preds *pipeline.Predictions, metric string) (float64, error)
	Close() error
}

type LocalEngine struct {
	reader  *data.CSVReader
	logger  *zap.Logger
	workers int

	mu     sync.Mutex
	closed bool
}

// Open starts a session that trains with up to workers goroutines.
func Open(logger *zap.Logger, workers int) *LocalEngine {
	if workers <= 0 {
		workers = 1
	}
	logger.Info("engine session started", zap.Int("workers", workers))

	return &LocalEngine{
		reader:  data.NewCSVReader(),
		logger:  logger,
		workers: workers,
	}
}

func (e *LocalEngine) checkOpen() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	return nil
}

func (e *LocalEngine) Load(path string, schema data.Schema) (*data.Dataset, error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}

	ds, err := e.reader.Load(path, schema)
	if err != nil {
		return nil, err
	}

	e.logger.Info("dataset loaded", zap.String("path", path), zap.Int("rows", ds.Len()))
	if e.logger.Core().Enabled(zap.DebugLevel) {
		for _, s := range data.Summarize(ds) {
			e.logger.Debug("column summary",
				zap.String("column", s.Name),
				zap.Float64("min", s.Min),
				zap.Float64("max", s.Max),
				zap.Float64("mean", s.Mean),
				zap.Float64("stddev", s.StdDev))
		}
		if labels, ok := ds.Column(data.LabelColumn); ok {
			e.logger.Debug("class distribution", zap.Strings("counts", formatDistribution(data.ClassDistribution(labels))))
		}
	}
	return ds, nil
}

// Fit trains p on ds using the engine's worker count.
func (e *LocalEngine) Fit(ctx context.Context, p *pipeline.Pipeline, ds *data.Dataset) (*pipeline.Model, error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}

	local := *p
	local.Forest.Workers = e.workers

	start := time.Now()
	model, err := local.Fit(ctx, ds)
	if err != nil {
		return nil, err
	}

	e.logger.Info("pipeline fitted",
		zap.Int("trees", len(model.Forest.Trees)),
		zap.Int("classes", model.Labels.NumClasses()),
		zap.Duration("elapsed", time.Since(start)))
	return model, nil
}

func (e *LocalEngine) Transform(m *pipeline.Model, ds *data.Dataset) (*pipeline.Predictions, error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}
	return m.Transform(ds)
}

func (e *LocalEngine) Evaluate(preds *pipeline.Predictions, metric string) (float64, error) {
	if err := e.checkOpen(); err != nil {
		return 0, err
	}

	yTrue, yPred := preds.Labels()
	return evaluation.NewEvaluator(metric).Evaluate(yTrue, yPred)
}

// Close ends the session. Calling it more than once is harmless.
func (e *LocalEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true

	e.logger.Info("engine session stopped")
	// Sync on a terminal stderr returns EINVAL.
	_ = e.logger.Sync()
	return nil
}

// formatDistribution renders label counts as "label:count" in label order.
func formatDistribution(counts map[float64]int) []string {
	labels := make([]float64, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Float64s(labels)

	out := make([]string, len(labels))
	for i, label := range labels {
		out[i] = fmt.Sprintf("%g:%d", label, counts[label])
	}
	return out
}
