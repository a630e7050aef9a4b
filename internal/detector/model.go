package detector

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/errors"
)

// LinearModel is a logistic regression over raw fakeprint vectors. The
// weight vector length pins the fakeprint dimensionality the model was
// trained on.
type LinearModel struct {
	Weights   []float64 `msgpack:"weights"`
	Intercept float64   `msgpack:"intercept"`
}

// PredictProba returns the class-1 (AI-generated) probability for a
// fakeprint. The input length must match the training dimensionality.
func (m *LinearModel) PredictProba(fakeprint []float64) (float64, error) {
	if len(fakeprint) != len(m.Weights) {
		return 0, errors.Newf("fakeprint length %d does not match model dimensionality %d",
			len(fakeprint), len(m.Weights)).
			Component("detector").
			Category(errors.CategoryValidation).
			Build()
	}
	z := m.Intercept
	for i, w := range m.Weights {
		z += w * fakeprint[i]
	}
	return sigmoid(z), nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// LoadModel reads a serialized model from disk. A missing or corrupt file
// is an error; callers decide whether to fall back to the heuristic path.
func LoadModel(path string) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(fmt.Errorf("reading model file: %w", err)).
			Component("detector").
			Category(errors.CategoryModelLoad).
			FileContext(path, 0).
			Build()
	}

	var m LinearModel
	if err := msgpack.Unmarshal(data, &m); err != nil {
		return nil, errors.New(fmt.Errorf("decoding model file: %w", err)).
			Component("detector").
			Category(errors.CategoryModelLoad).
			FileContext(path, int64(len(data))).
			Build()
	}
	if len(m.Weights) == 0 {
		return nil, errors.Newf("model file %s has no weights", path).
			Component("detector").
			Category(errors.CategoryModelLoad).
			Build()
	}
	return &m, nil
}

// SaveModel writes the model atomically next to its final location.
func SaveModel(m *LinearModel, path string) error {
	data, err := msgpack.Marshal(m)
	if err != nil {
		return errors.New(fmt.Errorf("encoding model: %w", err)).
			Component("detector").
			Category(errors.CategoryModelTrain).
			Build()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.New(fmt.Errorf("creating model directory: %w", err)).
				Component("detector").
				Category(errors.CategoryFileIO).
				FileContext(dir, 0).
				Build()
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.New(fmt.Errorf("writing model file: %w", err)).
			Component("detector").
			Category(errors.CategoryFileIO).
			FileContext(tmp, int64(len(data))).
			Build()
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.New(fmt.Errorf("replacing model file: %w", err)).
			Component("detector").
			Category(errors.CategoryFileIO).
			FileContext(path, int64(len(data))).
			Build()
	}
	return nil
}
