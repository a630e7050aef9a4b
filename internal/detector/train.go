package detector

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/conf"
	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/errors"
	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/logging"
)

// Training hyperparameters. Full-batch gradient descent keeps the run
// deterministic for a given dataset.
const (
	trainLearningRate = 0.1
	trainIterations   = 2000
	trainL2           = 1e-3
	trainTestEvery    = 5 // every Nth sample is held out
)

// TrainingReport summarizes a completed training run.
type TrainingReport struct {
	AISamples    int
	HumanSamples int
	TrainSize    int
	TestSize     int
	TestAccuracy float64
	ModelPath    string
}

// TrainModel builds fakeprints for every audio file under aiDir (label 1)
// and humanDir (label 0), fits a class-balanced logistic regression, and
// persists the model to settings.Detector.ModelPath. Files that fail to
// decode are skipped with a warning.
func TrainModel(settings *conf.Settings, aiDir, humanDir string) (*TrainingReport, error) {
	logger := logging.ForService("trainer")

	// Fakeprint extraction never routes through an existing model.
	extractSettings := *settings
	extractSettings.Detector.UseTrainedModel = false
	d := New(&extractSettings)

	aiX, err := collectFakeprints(d, logger, aiDir)
	if err != nil {
		return nil, err
	}
	humanX, err := collectFakeprints(d, logger, humanDir)
	if err != nil {
		return nil, err
	}
	if len(aiX) == 0 || len(humanX) == 0 {
		return nil, errors.Newf("need samples in both classes, got %d AI and %d human",
			len(aiX), len(humanX)).
			Component("trainer").
			Category(errors.CategoryModelTrain).
			Build()
	}

	var x [][]float64
	var y []int
	for _, fp := range aiX {
		x = append(x, fp)
		y = append(y, 1)
	}
	for _, fp := range humanX {
		x = append(x, fp)
		y = append(y, 0)
	}

	dim := len(x[0])
	for i, fp := range x {
		if len(fp) != dim {
			return nil, errors.Newf("fakeprint %d has length %d, expected %d", i, len(fp), dim).
				Component("trainer").
				Category(errors.CategoryModelTrain).
				Build()
		}
	}

	trainX, trainY, testX, testY := splitDataset(x, y)
	logger.Info("training classifier",
		"ai_samples", len(aiX),
		"human_samples", len(humanX),
		"train_size", len(trainX),
		"test_size", len(testX),
		"dimensions", dim)

	model := fitLogistic(trainX, trainY, dim)

	correct := 0
	for i, fp := range testX {
		p, err := model.PredictProba(fp)
		if err != nil {
			return nil, err
		}
		if (p >= 0.5) == (testY[i] == 1) {
			correct++
		}
	}
	accuracy := 0.0
	if len(testX) > 0 {
		accuracy = float64(correct) / float64(len(testX))
	}

	if err := SaveModel(model, settings.Detector.ModelPath); err != nil {
		return nil, err
	}
	logger.Info("model saved",
		"model_path", settings.Detector.ModelPath,
		"test_accuracy", accuracy)

	return &TrainingReport{
		AISamples:    len(aiX),
		HumanSamples: len(humanX),
		TrainSize:    len(trainX),
		TestSize:     len(testX),
		TestAccuracy: accuracy,
		ModelPath:    settings.Detector.ModelPath,
	}, nil
}

// collectFakeprints walks dir and returns one fakeprint per decodable
// audio file, in path order.
func collectFakeprints(d *Detector, logger *slog.Logger, dir string) ([][]float64, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".wav", ".flac", ".mp3":
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.New(fmt.Errorf("scanning training directory: %w", err)).
			Component("trainer").
			Category(errors.CategoryFileIO).
			FileContext(dir, 0).
			Build()
	}
	sort.Strings(paths)

	var out [][]float64
	for _, path := range paths {
		fp, err := d.Fakeprint(path)
		if err != nil {
			logger.Warn("skipping undecodable training file", "path", path, "error", err)
			continue
		}
		out = append(out, fp)
	}
	return out, nil
}

// splitDataset holds out every trainTestEvery-th sample of each class so
// both splits keep both labels.
func splitDataset(x [][]float64, y []int) (trainX [][]float64, trainY []int, testX [][]float64, testY []int) {
	counts := map[int]int{}
	for i := range x {
		counts[y[i]]++
		if counts[y[i]]%trainTestEvery == 0 {
			testX = append(testX, x[i])
			testY = append(testY, y[i])
		} else {
			trainX = append(trainX, x[i])
			trainY = append(trainY, y[i])
		}
	}
	return trainX, trainY, testX, testY
}

// fitLogistic runs full-batch gradient descent with inverse-frequency
// class weights, matching a balanced logistic regression fit.
func fitLogistic(x [][]float64, y []int, dim int) *LinearModel {
	n := len(x)
	pos := 0
	for _, label := range y {
		if label == 1 {
			pos++
		}
	}
	neg := n - pos

	wPos, wNeg := 1.0, 1.0
	if pos > 0 && neg > 0 {
		wPos = float64(n) / (2 * float64(pos))
		wNeg = float64(n) / (2 * float64(neg))
	}

	m := &LinearModel{Weights: make([]float64, dim)}
	grad := make([]float64, dim)

	for iter := 0; iter < trainIterations; iter++ {
		for i := range grad {
			grad[i] = 0
		}
		gradB := 0.0

		for i, fp := range x {
			z := m.Intercept
			for j, w := range m.Weights {
				z += w * fp[j]
			}
			p := sigmoid(z)

			weight := wNeg
			target := 0.0
			if y[i] == 1 {
				weight = wPos
				target = 1.0
			}
			delta := weight * (p - target)
			for j := range grad {
				grad[j] += delta * fp[j]
			}
			gradB += delta
		}

		scale := trainLearningRate / float64(n)
		for j := range m.Weights {
			m.Weights[j] -= scale * (grad[j] + trainL2*m.Weights[j])
		}
		m.Intercept -= scale * gradB
	}

	// Guard against numeric blowups on degenerate datasets.
	for j, w := range m.Weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			m.Weights[j] = 0
		}
	}
	if math.IsNaN(m.Intercept) || math.IsInf(m.Intercept, 0) {
		m.Intercept = 0
	}
	return m
}
