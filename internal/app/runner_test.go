package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Naveen06725/wine-prediction/internal/config"
	"github.com/Naveen06725/wine-prediction/internal/data/datatest"
	"github.com/Naveen06725/wine-prediction/internal/engine"
	"github.com/Naveen06725/wine-prediction/internal/errs"
	"github.com/Naveen06725/wine-prediction/internal/jobs"
	"github.com/Naveen06725/wine-prediction/internal/report"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

type fixture struct {
	dir    string
	cfg    *config.Config
	test   string
	out    bytes.Buffer
	logs   *observer.ObservedLogs
	runner *Runner
}

// newFixture writes the all-quality-5 scenario: 4 training rows, 2
// validation rows and 1 test row.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{dir: t.TempDir()}

	f.cfg = config.Default()
	f.cfg.Data.TrainingPath = datatest.WriteCSV(t, f.dir, "train.csv", datatest.Header(), datatest.ConstantRows(4, 5))
	f.cfg.Data.ValidationPath = datatest.WriteCSV(t, f.dir, "validation.csv", datatest.Header(), datatest.ConstantRows(2, 5))
	f.cfg.Model.Path = filepath.Join(f.dir, "models", "wine-quality-model")
	f.cfg.Engine.Workers = 2
	f.test = datatest.WriteCSV(t, f.dir, "test.csv", datatest.Header(), datatest.ConstantRows(1, 5))

	return f
}

func (f *fixture) run(t *testing.T, testPath string) error {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)
	f.logs = logs

	eng := engine.Open(logger, f.cfg.Engine.Workers)
	defer eng.Close()

	f.out.Reset()
	f.runner = NewRunner(f.cfg, eng, report.NewReporter(&f.out), logger)
	return f.runner.Run(context.Background(), testPath)
}

func (f *fixture) jobStatus(stage string) jobs.JobStatus {
	for _, job := range f.runner.Jobs() {
		if job.Stage == stage {
			return job.Status()
		}
	}
	return ""
}

func TestRun_TrivialScenario(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.run(t, f.test))

	want := "Training model...\n" +
		"Making predictions on validation data...\n" +
		"F1 Score on validation data: 1\n" +
		"Saving model...\n" +
		"Making predictions on test data...\n" +
		"F1 Score on test data: 1\n" +
		"\n" +
		"Sample Predictions:\n" +
		"quality, prediction\n" +
		"5, 5\n"
	assert.Equal(t, want, f.out.String())

	assert.DirExists(t, f.cfg.Model.Path)
	for _, stage := range []string{"load", "train", "validate", "save", "test"} {
		assert.Equal(t, jobs.JobCompleted, f.jobStatus(stage), stage)
	}
	assert.Equal(t, 5, f.logs.FilterMessage("stage finished").Len())
	assert.Equal(t, 2, f.logs.FilterMessage("metrics").Len())
	assert.Zero(t, f.logs.FilterMessage("run finished without a saved model").Len())
}

func TestRun_SaveFailureDoesNotStopRun(t *testing.T) {
	f := newFixture(t)
	blocker := filepath.Join(f.dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	f.cfg.Model.Path = filepath.Join(blocker, "model")

	require.NoError(t, f.run(t, f.test))

	assert.Contains(t, f.out.String(), "F1 Score on test data: 1")
	assert.Equal(t, jobs.JobFailed, f.jobStatus("save"))
	assert.Equal(t, jobs.JobCompleted, f.jobStatus("test"))

	warnings := f.logs.FilterMessage("error saving model").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, zapcore.WarnLevel, warnings[0].Level)
	assert.Equal(t, 1, f.logs.FilterMessage("run finished without a saved model").Len())
}

func TestRun_ExistingModelPath(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.run(t, f.test))

	require.NoError(t, f.run(t, f.test))
	assert.Equal(t, jobs.JobFailed, f.jobStatus("save"))
	assert.Contains(t, f.out.String(), "F1 Score on test data")

	f.cfg.Model.Overwrite = true
	require.NoError(t, f.run(t, f.test))
	assert.Equal(t, jobs.JobCompleted, f.jobStatus("save"))
}

func TestRun_MissingTrainingFile(t *testing.T) {
	f := newFixture(t)
	f.cfg.Data.TrainingPath = filepath.Join(f.dir, "absent.csv")

	err := f.run(t, f.test)

	var loadErr *errs.DataLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Empty(t, f.out.String())
	assert.NoDirExists(t, f.cfg.Model.Path)
}

func TestRun_EmptyValidationSet(t *testing.T) {
	f := newFixture(t)
	f.cfg.Data.ValidationPath = datatest.WriteCSV(t, f.dir, "empty.csv", datatest.Header(), nil)

	err := f.run(t, f.test)

	var evalErr *errs.EvaluationError
	require.True(t, errors.As(err, &evalErr))
	assert.NotContains(t, f.out.String(), "F1 Score")
}

func TestRun_MissingTestFile(t *testing.T) {
	f := newFixture(t)

	err := f.run(t, filepath.Join(f.dir, "absent.csv"))

	var loadErr *errs.DataLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.NotContains(t, f.out.String(), "F1 Score on test data")
}

func TestRun_SampleIsBounded(t *testing.T) {
	f := newFixture(t)
	test := datatest.WriteCSV(t, f.dir, "big-test.csv", datatest.Header(), datatest.ConstantRows(8, 5))

	require.NoError(t, f.run(t, test))

	sample := f.out.String()[strings.Index(f.out.String(), "quality, prediction"):]
	assert.Equal(t, 5, strings.Count(sample, "5, 5\n"))
}

func TestRun_ExportsPredictions(t *testing.T) {
	f := newFixture(t)
	f.cfg.Report.PredictionsPath = filepath.Join(f.dir, "out", "predictions.csv")

	require.NoError(t, f.run(t, f.test))

	raw, err := os.ReadFile(f.cfg.Report.PredictionsPath)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(raw), "\n"))
	assert.Equal(t, jobs.JobCompleted, f.jobStatus("export"))
}
