package persistence_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Naveen06725/wine-prediction/internal/data"
	"github.com/Naveen06725/wine-prediction/internal/data/datatest"
	"github.com/Naveen06725/wine-prediction/internal/errs"
	"github.com/Naveen06725/wine-prediction/internal/models"
	"github.com/Naveen06725/wine-prediction/internal/persistence"
	"github.com/Naveen06725/wine-prediction/internal/pipeline"
)

func trainAndTest(t *testing.T) (*pipeline.Model, *data.Dataset) {
	t.Helper()
	dir := t.TempDir()
	reader := data.NewCSVReader()

	train, err := reader.Load(datatest.WriteCSV(t, dir, "train.csv", datatest.Header(), datatest.SeparableRows(60, 1)), data.WineSchema())
	require.NoError(t, err)
	test, err := reader.Load(datatest.WriteCSV(t, dir, "test.csv", datatest.Header(), datatest.SeparableRows(20, 2)), data.WineSchema())
	require.NoError(t, err)

	cfg := models.DefaultForestConfig()
	cfg.NumTrees = 10
	model, err := pipeline.WinePipeline(cfg).Fit(context.Background(), train)
	require.NoError(t, err)
	return model, test
}

func TestModelBundle_RoundTrip(t *testing.T) {
	model, test := trainAndTest(t)
	dir := filepath.Join(t.TempDir(), "models", "wine")

	bundle := persistence.NewModelBundle(model)
	bundle.Metadata.F1Score = 0.9
	bundle.Metadata.Dataset = "train.csv"
	require.NoError(t, bundle.Save(dir, false))

	assert.FileExists(t, filepath.Join(dir, "model.gob"))
	assert.FileExists(t, filepath.Join(dir, "metadata.yaml"))

	loaded, err := persistence.LoadModelBundle(dir)
	require.NoError(t, err)

	want, err := model.Transform(test)
	require.NoError(t, err)
	got, err := loaded.Model.Transform(test)
	require.NoError(t, err)
	assert.Equal(t, want.Rows, got.Rows)

	assert.Equal(t, "RandomForest", loaded.Metadata.ModelName)
	assert.Equal(t, 0.9, loaded.Metadata.F1Score)
	assert.Equal(t, "train.csv", loaded.Metadata.Dataset)
	assert.Equal(t, data.FeatureColumns(), loaded.Metadata.Features)
	assert.Equal(t, []float64{5, 6}, loaded.Metadata.Classes)
	assert.Equal(t, model.Forest.Config, loaded.Model.Forest.Config)
}

func TestModelBundle_ExistingPath(t *testing.T) {
	model, _ := trainAndTest(t)
	dir := filepath.Join(t.TempDir(), "wine")
	bundle := persistence.NewModelBundle(model)

	require.NoError(t, bundle.Save(dir, false))

	err := bundle.Save(dir, false)
	var persistErr *errs.PersistenceError
	require.True(t, errors.As(err, &persistErr))
	assert.Equal(t, dir, persistErr.Path)

	require.NoError(t, bundle.Save(dir, true))
	_, err = persistence.LoadModelBundle(dir)
	assert.NoError(t, err)

	entries, err := os.ReadDir(filepath.Dir(dir))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "staging directories must be cleaned up")
}

func TestModelBundle_UnwritablePath(t *testing.T) {
	model, _ := trainAndTest(t)

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	err := persistence.NewModelBundle(model).Save(filepath.Join(blocker, "wine"), false)
	var persistErr *errs.PersistenceError
	assert.True(t, errors.As(err, &persistErr))
}

func TestLoadModelBundle_Errors(t *testing.T) {
	var persistErr *errs.PersistenceError

	_, err := persistence.LoadModelBundle(filepath.Join(t.TempDir(), "absent"))
	assert.True(t, errors.As(err, &persistErr))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "model.gob"), []byte("garbage"), 0644))
	_, err = persistence.LoadModelBundle(dir)
	assert.True(t, errors.As(err, &persistErr))
}
