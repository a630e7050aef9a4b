package detector

import (
	"fmt"
	"log/slog"

	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/conf"
	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/errors"
	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/logging"
	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/myaudio"
	"github.com/coffey-dev/AI-Song-Detector-Backend/internal/spectral"
)

// Detector classifies audio as AI-generated or human-made. It always
// carries the heuristic rule engine and optionally a trained linear model;
// the model is used whenever it loaded successfully.
type Detector struct {
	Settings *conf.Settings

	analyzer *spectral.Analyzer
	model    *LinearModel
	logger   *slog.Logger
}

// New builds a detector from the settings. When a trained model is
// requested but cannot be loaded, the detector logs a warning and falls
// back to heuristic mode rather than failing.
func New(settings *conf.Settings) *Detector {
	d := &Detector{
		Settings: settings,
		analyzer: spectral.NewAnalyzer(),
		logger:   logging.ForService("detector"),
	}

	if settings.Detector.UseTrainedModel {
		model, err := LoadModel(settings.Detector.ModelPath)
		if err != nil {
			d.logger.Warn("trained model unavailable, using heuristic classifier",
				"model_path", settings.Detector.ModelPath,
				"error", err)
		} else {
			d.model = model
			d.logger.Info("trained model loaded",
				"model_path", settings.Detector.ModelPath,
				"dimensions", len(model.Weights))
		}
	}

	return d
}

// IsTrained reports whether classifications run through the trained model.
func (d *Detector) IsTrained() bool {
	return d.model != nil
}

// Fakeprint decodes an audio file and returns its fakeprint vector.
func (d *Detector) Fakeprint(filePath string) ([]float64, error) {
	samples, err := myaudio.ReadAudioFile(filePath, d.Settings)
	if err != nil {
		return nil, err
	}
	fp, _, err := d.analyzer.Fakeprint(samples)
	return fp, err
}

// Predict decodes an audio file and classifies it.
func (d *Detector) Predict(filePath string) (*ClassificationResult, error) {
	samples, err := myaudio.ReadAudioFile(filePath, d.Settings)
	if err != nil {
		return nil, err
	}
	return d.Classify(samples)
}

// Classify runs the full pipeline on mono samples at conf.SampleRate.
// Heuristic results carry the per-rule detail breakdown; trained-model
// results do not.
func (d *Detector) Classify(samples []float64) (*ClassificationResult, error) {
	fakeprint, spec, err := d.analyzer.Fakeprint(samples)
	if err != nil {
		return nil, errors.New(fmt.Errorf("building fakeprint: %w", err)).
			Component("detector").
			Category(errors.CategoryAudioAnalysis).
			Build()
	}

	if d.model != nil {
		p, err := d.model.PredictProba(fakeprint)
		if err != nil {
			return nil, err
		}
		return resultFromProbability(p), nil
	}

	fv := spectral.ExtractFeatures(fakeprint, spec.HighFreqEnergy)
	score, detail := ScoreFeatures(fv)
	return resultFromScore(score, detail), nil
}
