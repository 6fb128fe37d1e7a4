package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Naveen06725/wine-prediction/internal/data/datatest"
	"github.com/Naveen06725/wine-prediction/internal/errs"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestRun_WrongArity(t *testing.T) {
	for _, argv := range [][]string{
		{},
		{"a.csv", "b.csv"},
	} {
		var stdout, stderr bytes.Buffer
		code := run(argv, &stdout, &stderr)

		assert.Equal(t, 1, code, "argv %v", argv)
		assert.Equal(t, usage+"\n", stdout.String())
		assert.Empty(t, stderr.String())
	}
}

func TestParseArgs(t *testing.T) {
	args, _, err := parseArgs([]string{"--config", "wine.yaml", "test.csv"})
	require.NoError(t, err)
	assert.Equal(t, "test.csv", args.TestFile)
	assert.Equal(t, "wine.yaml", args.Config)

	for _, argv := range [][]string{{}, {"a.csv", "b.csv"}, {"--bogus", "a.csv"}} {
		_, _, err := parseArgs(argv)

		var usageErr *errs.UsageError
		require.True(t, errors.As(err, &usageErr), "argv %v: got %v", argv, err)
		assert.Equal(t, usage, usageErr.Error())
	}
}

func TestRun_Help(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"--help"}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), "TEST-FILE")
}

func TestRun_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	train := datatest.WriteCSV(t, dir, "train.csv", datatest.Header(), datatest.ConstantRows(4, 5))
	validation := datatest.WriteCSV(t, dir, "validation.csv", datatest.Header(), datatest.ConstantRows(2, 5))
	test := datatest.WriteCSV(t, dir, "test.csv", datatest.Header(), datatest.ConstantRows(1, 5))

	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := fmt.Sprintf(`data:
  training_path: %s
  validation_path: %s
model:
  path: %s
engine:
  workers: 2
log:
  level: warn
`, train, validation, filepath.Join(dir, "model"))
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0644))

	var stdout, stderr bytes.Buffer
	code := run([]string{"--config", cfgPath, test}, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "F1 Score on validation data: 1\n")
	assert.Contains(t, stdout.String(), "F1 Score on test data: 1\n")
	assert.Contains(t, stdout.String(), "quality, prediction\n5, 5\n")
	assert.DirExists(t, filepath.Join(dir, "model"))
}

func TestRun_MissingTestFile(t *testing.T) {
	dir := t.TempDir()
	train := datatest.WriteCSV(t, dir, "train.csv", datatest.Header(), datatest.ConstantRows(4, 5))

	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := fmt.Sprintf("data:\n  training_path: %s\n  validation_path: %s\nmodel:\n  path: %s\nlog:\n  level: error\n",
		train, train, filepath.Join(dir, "model"))
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0644))

	var stdout, stderr bytes.Buffer
	code := run([]string{"--config", cfgPath, filepath.Join(dir, "absent.csv")}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "Error: load")
	assert.NotContains(t, stdout.String(), "F1 Score on test data")
}
