// Package config resolves the settings of a prediction run: built-in
// defaults, overridden by an optional YAML file.
package config

import (
	"os"
	"runtime"

	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Data struct {
		TrainingPath   string `yaml:"training_path"`
		ValidationPath string `yaml:"validation_path"`
	} `yaml:"data"`
	Model struct {
		Path      string `yaml:"path"`
		Overwrite bool   `yaml:"overwrite"`
	} `yaml:"model"`
	Engine struct {
		Workers int `yaml:"workers"`
	} `yaml:"engine"`
	Forest struct {
		Seed int64 `yaml:"seed"`
	} `yaml:"forest"`
	Report struct {
		SampleSize      int    `yaml:"sample_size"`
		PredictionsPath string `yaml:"predictions_path"`
	} `yaml:"report"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

func Default() *Config {
	cfg := &Config{}
	cfg.Data.TrainingPath = "data/TrainingDataset.csv"
	cfg.Data.ValidationPath = "data/ValidationDataset.csv"
	cfg.Model.Path = "models/wine-quality-model"
	cfg.Engine.Workers = runtime.NumCPU()
	cfg.Forest.Seed = 42
	cfg.Report.SampleSize = 5
	cfg.Log.Level = "info"
	return cfg
}

// Load returns the defaults overlaid with the YAML file at path. An empty
// path means defaults only.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Data.TrainingPath == "" {
		return errors.New("data.training_path is required")
	}
	if c.Data.ValidationPath == "" {
		return errors.New("data.validation_path is required")
	}
	if c.Model.Path == "" {
		return errors.New("model.path is required")
	}
	if c.Engine.Workers < 1 {
		return errors.Errorf("engine.workers must be positive, got %d", c.Engine.Workers)
	}
	if c.Report.SampleSize < 0 {
		return errors.Errorf("report.sample_size must not be negative, got %d", c.Report.SampleSize)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, "log.level")
	}
	return nil
}
