package persistence

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/Naveen06725/wine-prediction/internal/errs"
	"github.com/Naveen06725/wine-prediction/internal/pipeline"
)

const (
	modelFile    = "model.gob"
	metadataFile = "metadata.yaml"
)

// ModelBundle is what gets written to a model directory: the fitted pipeline
// in model.gob and a human-readable metadata.yaml next to it.
type ModelBundle struct {
	Model    *pipeline.Model
	Metadata BundleMetadata
}

type BundleMetadata struct {
	ModelName    string         `yaml:"model_name"`
	CreatedAt    time.Time      `yaml:"created_at"`
	Dataset      string         `yaml:"dataset,omitempty"`
	F1Score      float64        `yaml:"validation_f1"`
	TrainingTime time.Duration  `yaml:"training_time"`
	Features     []string       `yaml:"features"`
	Label        string         `yaml:"label"`
	Classes      []float64      `yaml:"classes"`
	Parameters   map[string]any `yaml:"parameters"`
}

func NewModelBundle(model *pipeline.Model) *ModelBundle {
	return &ModelBundle{
		Model: model,
		Metadata: BundleMetadata{
			ModelName:  model.Forest.GetName(),
			CreatedAt:  time.Now().UTC(),
			Features:   model.Assembler.InputCols,
			Label:      model.LabelCol,
			Classes:    model.Classes(),
			Parameters: model.Forest.GetParams(),
		},
	}
}

// Save writes the bundle to dir. An existing dir is an error unless
// overwrite is set, in which case it is replaced. Files are written to a
// sibling temp directory first so a failed save never leaves a half-written
// model at dir. Failures are returned as *errs.PersistenceError.
func (mb *ModelBundle) Save(dir string, overwrite bool) error {
	if err := mb.save(dir, overwrite); err != nil {
		return errs.NewPersistenceError(dir, err)
	}
	return nil
}

func (mb *ModelBundle) save(dir string, overwrite bool) error {
	if mb.Model == nil {
		return errors.New("bundle has no model")
	}

	exists := false
	if _, err := os.Stat(dir); err == nil {
		exists = true
	} else if !os.IsNotExist(err) {
		return errors.Wrap(err, "stat model path")
	}
	if exists && !overwrite {
		return errors.New("path already exists")
	}

	parent := filepath.Dir(dir)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return errors.Wrap(err, "create parent directory")
	}

	tmp, err := os.MkdirTemp(parent, "."+filepath.Base(dir)+".tmp-")
	if err != nil {
		return errors.Wrap(err, "create staging directory")
	}
	defer os.RemoveAll(tmp)

	if err := writeGob(filepath.Join(tmp, modelFile), mb.Model); err != nil {
		return err
	}
	if err := writeYAML(filepath.Join(tmp, metadataFile), &mb.Metadata); err != nil {
		return err
	}

	if exists {
		if err := os.RemoveAll(dir); err != nil {
			return errors.Wrap(err, "remove previous model")
		}
	}
	if err := os.Rename(tmp, dir); err != nil {
		return errors.Wrap(err, "move model into place")
	}

	return nil
}

func writeGob(path string, model *pipeline.Model) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create model file")
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(model); err != nil {
		return errors.Wrap(err, "encode model")
	}
	return file.Close()
}

func writeYAML(path string, metadata *BundleMetadata) error {
	out, err := yaml.Marshal(metadata)
	if err != nil {
		return errors.Wrap(err, "encode metadata")
	}
	return errors.Wrap(os.WriteFile(path, out, 0644), "write metadata")
}

// LoadModelBundle reads a bundle written by Save.
func LoadModelBundle(dir string) (*ModelBundle, error) {
	bundle, err := loadModelBundle(dir)
	if err != nil {
		return nil, errs.NewPersistenceError(dir, err)
	}
	return bundle, nil
}

func loadModelBundle(dir string) (*ModelBundle, error) {
	file, err := os.Open(filepath.Join(dir, modelFile))
	if err != nil {
		return nil, errors.Wrap(err, "open model file")
	}
	defer file.Close()

	var model pipeline.Model
	if err := gob.NewDecoder(file).Decode(&model); err != nil {
		return nil, errors.Wrap(err, "decode model")
	}
	if model.Assembler == nil || model.Labels == nil || model.Forest == nil || len(model.Forest.Trees) == 0 {
		return nil, errors.New("model file is incomplete")
	}

	bundle := &ModelBundle{Model: &model}

	raw, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		return nil, errors.Wrap(err, "read metadata")
	}
	if err := yaml.Unmarshal(raw, &bundle.Metadata); err != nil {
		return nil, errors.Wrap(err, "decode metadata")
	}

	return bundle, nil
}
